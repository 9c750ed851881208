package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/gitsight/gitsight/internal/textutil"
)

// ErrMalformedOutput is returned when model output cannot be parsed as a
// JSON object after fence stripping.
var ErrMalformedOutput = errors.New("invalid JSON response from AI")

// ValidationError aggregates every schema violation found in a payload, not
// just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "schema validation failed: " + strings.Join(e.Violations, ", ")
}

// fenceRE matches a markdown code fence with an optional language tag.
// First match wins.
var fenceRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// extractJSON trims the raw model output and unwraps a fenced code block
// when present.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if m := fenceRE.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// ParseAnalysis extracts a JSON object from raw model output and validates
// it against the analysis schema. The only fuzzy interpretation permitted is
// the reliability_score normalization; every other field must conform
// exactly or the whole payload is rejected.
func ParseAnalysis(raw string) (*ProjectAnalysisData, error) {
	text := extractJSON(raw)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		slog.Error("model response is not valid JSON", "preview", textutil.Preview(text, 500))
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	v := &validator{}
	data := v.analysis(obj)
	if len(v.violations) > 0 {
		return nil, &ValidationError{Violations: v.violations}
	}
	return data, nil
}

// NormalizeReliability maps free-text reliability wording onto the fixed
// High/Medium/Low vocabulary.
func NormalizeReliability(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "high"), strings.Contains(lower, "excellent"), strings.Contains(lower, "very"):
		return "High"
	case strings.Contains(lower, "low"), strings.Contains(lower, "poor"), strings.Contains(lower, "limited"):
		return "Low"
	default:
		return "Medium"
	}
}

type validator struct {
	violations []string
}

func (v *validator) fail(path, msg string) {
	v.violations = append(v.violations, path+": "+msg)
}

func field(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// isNull reports whether a raw value is the JSON null literal. Unmarshal
// leaves the target untouched for null, so every typed getter has to check
// explicitly; null is a type violation everywhere, optional fields included.
func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func (v *validator) str(obj map[string]json.RawMessage, path, key string, required bool) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		if required {
			v.fail(field(path, key), "required field missing")
		}
		return "", false
	}
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		v.fail(field(path, key), "expected string")
		return "", false
	}
	return s, true
}

func (v *validator) strSlice(obj map[string]json.RawMessage, path, key string, required bool) []string {
	raw, ok := obj[key]
	if !ok {
		if required {
			v.fail(field(path, key), "required field missing")
		}
		return nil
	}
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		v.fail(field(path, key), "expected array of strings")
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		var s string
		if isNull(item) || json.Unmarshal(item, &s) != nil {
			v.fail(fmt.Sprintf("%s[%d]", field(path, key), i), "expected string")
			continue
		}
		out = append(out, s)
	}
	return out
}

func (v *validator) boolean(obj map[string]json.RawMessage, path, key string) (bool, bool) {
	raw, ok := obj[key]
	if !ok {
		v.fail(field(path, key), "required field missing")
		return false, false
	}
	var b bool
	if isNull(raw) || json.Unmarshal(raw, &b) != nil {
		v.fail(field(path, key), "expected boolean")
		return false, false
	}
	return b, true
}

func (v *validator) number(obj map[string]json.RawMessage, path, key string, required bool) (int, bool) {
	raw, ok := obj[key]
	if !ok {
		if required {
			v.fail(field(path, key), "required field missing")
		}
		return 0, false
	}
	var f float64
	if isNull(raw) || json.Unmarshal(raw, &f) != nil {
		v.fail(field(path, key), "expected number")
		return 0, false
	}
	// Fractional values are rounded to the nearest int on purpose: the
	// contract types team_size and actual_tokens as ints, and a model
	// emitting 2.0 or 2.4 should not fail the whole payload over it.
	return int(math.Round(f)), true
}

func (v *validator) object(obj map[string]json.RawMessage, path, key string, required bool) (map[string]json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok {
		if required {
			v.fail(field(path, key), "required field missing")
		}
		return nil, false
	}
	var m map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &m) != nil {
		v.fail(field(path, key), "expected object")
		return nil, false
	}
	return m, true
}

func (v *validator) objectSlice(obj map[string]json.RawMessage, path, key string, required bool) ([]map[string]json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok {
		if required {
			v.fail(field(path, key), "required field missing")
		}
		return nil, false
	}
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		v.fail(field(path, key), "expected array of objects")
		return nil, false
	}
	out := make([]map[string]json.RawMessage, 0, len(items))
	for i, item := range items {
		var m map[string]json.RawMessage
		if isNull(item) || json.Unmarshal(item, &m) != nil {
			v.fail(fmt.Sprintf("%s[%d]", field(path, key), i), "expected object")
			out = append(out, nil)
			continue
		}
		out = append(out, m)
	}
	return out, true
}

func (v *validator) analysis(obj map[string]json.RawMessage) *ProjectAnalysisData {
	d := &ProjectAnalysisData{}
	d.DocumentName, _ = v.str(obj, "", "document_name", true)
	d.ProjectScale, _ = v.str(obj, "", "project_scale", true)
	d.ProjectOverview, _ = v.str(obj, "", "project_overview", true)
	d.KeyAchievements = v.achievements(obj)
	d.TechnicalHighlights = v.technicalHighlights(obj)
	d.CodeQuality = v.codeQuality(obj)
	d.ResumePoints = v.strSlice(obj, "", "resume_points", true)
	d.NotablePatterns = v.strSlice(obj, "", "notable_patterns", false)
	d.GitInsights = v.gitInsights(obj)
	d.InterviewTopics = v.strSlice(obj, "", "interview_topics", false)
	d.HRSummary = v.hrSummary(obj)
	d.TechSummary = v.techSummary(obj)
	d.ActualTokens, _ = v.number(obj, "", "actual_tokens", false)
	return d
}

func (v *validator) achievements(obj map[string]json.RawMessage) []Achievement {
	items, ok := v.objectSlice(obj, "", "key_achievements", true)
	if !ok {
		return nil
	}
	out := make([]Achievement, 0, len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		path := fmt.Sprintf("key_achievements[%d]", i)
		var a Achievement
		a.Title, _ = v.str(item, path, "title", true)
		a.Description, _ = v.str(item, path, "description", true)
		a.Category, _ = v.str(item, path, "category", true)
		a.Metrics, _ = v.str(item, path, "metrics", false)
		out = append(out, a)
	}
	return out
}

func (v *validator) technicalHighlights(obj map[string]json.RawMessage) TechnicalHighlights {
	m, ok := v.object(obj, "", "technical_highlights", true)
	if !ok {
		return TechnicalHighlights{}
	}
	const path = "technical_highlights"
	return TechnicalHighlights{
		Frameworks: v.strSlice(m, path, "frameworks", true),
		Libraries:  v.strSlice(m, path, "libraries", true),
		Patterns:   v.strSlice(m, path, "patterns", true),
		Tools:      v.strSlice(m, path, "tools", false),
	}
}

func (v *validator) codeQuality(obj map[string]json.RawMessage) *CodeQuality {
	m, ok := v.object(obj, "", "code_quality", false)
	if !ok {
		return nil
	}
	const path = "code_quality"
	cq := &CodeQuality{}
	cq.Organization, _ = v.str(m, path, "organization", true)
	cq.PatternsUsed = v.strSlice(m, path, "patterns_used", true)
	cq.Testing, _ = v.str(m, path, "testing", false)
	cq.TypeSafety, _ = v.str(m, path, "type_safety", false)
	return cq
}

func (v *validator) gitInsights(obj map[string]json.RawMessage) GitInsights {
	m, ok := v.object(obj, "", "git_insights", true)
	if !ok {
		return GitInsights{}
	}
	const path = "git_insights"
	gi := GitInsights{}
	gi.CommitFrequency, _ = v.str(m, path, "commit_frequency", true)
	gi.DevelopmentStyle, _ = v.str(m, path, "development_style", true)
	gi.CollaborationIndicators, _ = v.str(m, path, "collaboration_indicators", false)

	if tc, ok := v.object(m, path, "team_context", false); ok {
		const tcPath = "git_insights.team_context"
		ctx := &TeamContext{}
		ctx.IsSolo, _ = v.boolean(tc, tcPath, "is_solo")
		ctx.TeamSize, _ = v.number(tc, tcPath, "team_size", true)
		ctx.UserRole, _ = v.str(tc, tcPath, "user_role", true)
		ctx.ContributionSummary, _ = v.str(tc, tcPath, "contribution_summary", true)
		gi.TeamContext = ctx
	}
	return gi
}

func (v *validator) hrSummary(obj map[string]json.RawMessage) *HRSummary {
	m, ok := v.object(obj, "", "hr_summary", false)
	if !ok {
		return nil
	}
	const path = "hr_summary"
	hr := &HRSummary{}
	hr.ProfessionalSummary, _ = v.str(m, path, "professional_summary", true)
	hr.SoftSkills = v.strSlice(m, path, "soft_skills", true)
	hr.BusinessImpact, _ = v.str(m, path, "business_impact", true)
	hr.WorkStyle, _ = v.str(m, path, "work_style", true)
	hr.GrowthIndicators = v.strSlice(m, path, "growth_indicators", true)
	if score, ok := v.str(m, path, "reliability_score", true); ok {
		hr.ReliabilityScore = NormalizeReliability(score)
	}
	return hr
}

func (v *validator) techSummary(obj map[string]json.RawMessage) *TechSummary {
	m, ok := v.object(obj, "", "tech_summary", false)
	if !ok {
		return nil
	}
	const path = "tech_summary"
	ts := &TechSummary{}
	ts.ArchitectureOverview, _ = v.str(m, path, "architecture_overview", true)
	ts.CodeQualityAssessment, _ = v.str(m, path, "code_quality_assessment", true)
	ts.BestPractices = v.strSlice(m, path, "best_practices", true)
	ts.SecurityConsideration = v.strSlice(m, path, "security_considerations", false)
	ts.ScalabilityNotes, _ = v.str(m, path, "scalability_notes", false)
	ts.TechDebtObservations, _ = v.str(m, path, "tech_debt_observations", false)
	ts.ReviewReadiness, _ = v.str(m, path, "review_readiness", true)

	if decisions, ok := v.objectSlice(m, path, "architecture_decisions", true); ok {
		ts.ArchitectureDecisions = make([]ArchitectureDecision, 0, len(decisions))
		for i, dec := range decisions {
			if dec == nil {
				continue
			}
			decPath := fmt.Sprintf("tech_summary.architecture_decisions[%d]", i)
			var ad ArchitectureDecision
			ad.Decision, _ = v.str(dec, decPath, "decision", true)
			ad.Reasoning, _ = v.str(dec, decPath, "reasoning", true)
			ts.ArchitectureDecisions = append(ts.ArchitectureDecisions, ad)
		}
	}
	return ts
}
