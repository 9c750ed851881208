package githubapi

import (
	"strings"

	"github.com/google/go-github/v68/github"
)

// importantExtensions is the allow-list of file extensions included in the
// file structure sample. Part of the observable contract: these are what the
// model sees.
var importantExtensions = []string{
	// JavaScript/TypeScript
	".ts", ".tsx", ".js", ".jsx", ".vue", ".svelte",
	// Python
	".py",
	// Go
	".go",
	// Rust
	".rs",
	// Java/Kotlin
	".java", ".kt", ".kts",
	// PHP
	".php",
	// C#/.NET
	".cs", ".cshtml", ".razor",
	// Ruby
	".rb", ".erb",
	// Swift/Objective-C
	".swift", ".m", ".h",
	// C/C++
	".c", ".cpp", ".cc", ".hpp",
	// Dart/Flutter
	".dart",
	// Elixir/Erlang
	".ex", ".exs", ".erl",
	// Config files
	".json", ".yaml", ".yml", ".toml", ".xml",
	// Docs
	".md", ".mdx",
}

// excludeDirs lists dependency and build-artifact directories whose contents
// never reach the model.
var excludeDirs = []string{
	"node_modules", "vendor", ".git", "dist", "build",
	"__pycache__", ".venv", "venv", "env",
	"target", "bin/Debug", "bin/Release", "obj",
	".next", ".nuxt", ".output",
}

// filterTreePaths keeps blob entries whose extension is allow-listed and
// whose path has no excluded directory segment.
func filterTreePaths(entries []*github.TreeEntry) []string {
	var files []string
	for _, entry := range entries {
		if entry.GetType() != "blob" {
			continue
		}
		p := entry.GetPath()
		if hasImportantExt(p) && !isExcludedPath(p) {
			files = append(files, p)
		}
	}
	return files
}

func hasImportantExt(p string) bool {
	for _, ext := range importantExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// isExcludedPath matches excluded directories at path-segment boundaries, so
// "src/environments/env.ts" survives while "venv/lib/a.py" does not.
func isExcludedPath(p string) bool {
	for _, dir := range excludeDirs {
		if strings.HasPrefix(p, dir+"/") || strings.Contains(p, "/"+dir+"/") {
			return true
		}
	}
	return false
}
