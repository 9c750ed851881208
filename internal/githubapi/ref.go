package githubapi

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidRepoRef is returned when a repository reference matches no
// supported format.
var ErrInvalidRepoRef = errors.New("invalid GitHub repository URL")

// RepoRef identifies a repository by owner and name. Both fields are always
// non-empty and the name never carries a .git suffix.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// Supported reference formats: any github.com URL and the owner/repo
// shorthand.
var refPatterns = []*regexp.Regexp{
	regexp.MustCompile(`github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/|$)`),
	regexp.MustCompile(`^([^/]+)/([^/]+)$`),
}

// ParseRepoRef extracts owner and repository name from a hosting URL or an
// owner/repo shorthand string.
func ParseRepoRef(s string) (RepoRef, error) {
	for _, pattern := range refPatterns {
		m := pattern.FindStringSubmatch(s)
		if m != nil && m[1] != "" && m[2] != "" {
			return RepoRef{
				Owner: m[1],
				Name:  strings.TrimSuffix(m[2], ".git"),
			}, nil
		}
	}
	return RepoRef{}, ErrInvalidRepoRef
}
