// Package schema defines the analysis output contract and validates raw
// model output against it. A payload is accepted as a unit or rejected as a
// unit; there is no partial acceptance.
package schema

// Achievement is one entry of the key_achievements list.
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Metrics     string `json:"metrics,omitempty"`
}

// TechnicalHighlights describes the stack and patterns identified in the
// repository.
type TechnicalHighlights struct {
	Frameworks []string `json:"frameworks"`
	Libraries  []string `json:"libraries"`
	Patterns   []string `json:"patterns"`
	Tools      []string `json:"tools,omitempty"`
}

// CodeQuality is the optional quality assessment for medium+ projects.
type CodeQuality struct {
	Organization string   `json:"organization"`
	PatternsUsed []string `json:"patterns_used"`
	Testing      string   `json:"testing,omitempty"`
	TypeSafety   string   `json:"type_safety,omitempty"`
}

// TeamContext attributes the contribution within a team.
type TeamContext struct {
	IsSolo              bool   `json:"is_solo"`
	TeamSize            int    `json:"team_size"`
	UserRole            string `json:"user_role"`
	ContributionSummary string `json:"contribution_summary"`
}

// GitInsights summarizes commit history patterns.
type GitInsights struct {
	CommitFrequency         string       `json:"commit_frequency"`
	DevelopmentStyle        string       `json:"development_style"`
	CollaborationIndicators string       `json:"collaboration_indicators,omitempty"`
	TeamContext             *TeamContext `json:"team_context,omitempty"`
}

// HRSummary is the recruiter-facing view. ReliabilityScore is always one of
// High, Medium, Low after normalization.
type HRSummary struct {
	ProfessionalSummary string   `json:"professional_summary"`
	SoftSkills          []string `json:"soft_skills"`
	BusinessImpact      string   `json:"business_impact"`
	WorkStyle           string   `json:"work_style"`
	GrowthIndicators    []string `json:"growth_indicators"`
	ReliabilityScore    string   `json:"reliability_score"`
}

// ArchitectureDecision pairs a design decision with its reasoning.
type ArchitectureDecision struct {
	Decision  string `json:"decision"`
	Reasoning string `json:"reasoning"`
}

// TechSummary is the technical-manager-facing view.
type TechSummary struct {
	ArchitectureOverview  string                 `json:"architecture_overview"`
	ArchitectureDecisions []ArchitectureDecision `json:"architecture_decisions"`
	CodeQualityAssessment string                 `json:"code_quality_assessment"`
	BestPractices         []string               `json:"best_practices"`
	SecurityConsideration []string               `json:"security_considerations,omitempty"`
	ScalabilityNotes      string                 `json:"scalability_notes,omitempty"`
	TechDebtObservations  string                 `json:"tech_debt_observations,omitempty"`
	ReviewReadiness       string                 `json:"review_readiness"`
}

// ProjectAnalysisData is the validated analysis result. ActualTokens is
// populated by the gateway after validation, never by the model.
type ProjectAnalysisData struct {
	DocumentName        string              `json:"document_name"`
	ProjectScale        string              `json:"project_scale"`
	ProjectOverview     string              `json:"project_overview"`
	KeyAchievements     []Achievement       `json:"key_achievements"`
	TechnicalHighlights TechnicalHighlights `json:"technical_highlights"`
	CodeQuality         *CodeQuality        `json:"code_quality,omitempty"`
	ResumePoints        []string            `json:"resume_points"`
	NotablePatterns     []string            `json:"notable_patterns,omitempty"`
	GitInsights         GitInsights         `json:"git_insights"`
	InterviewTopics     []string            `json:"interview_topics,omitempty"`
	HRSummary           *HRSummary          `json:"hr_summary,omitempty"`
	TechSummary         *TechSummary        `json:"tech_summary,omitempty"`
	ActualTokens        int                 `json:"actual_tokens,omitempty"`
}
