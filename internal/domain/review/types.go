package review

import (
	"fmt"
	"strings"
)

// ChangedFile is one entry of a pull request's changed-file list.
type ChangedFile struct {
	Filename  string `json:"filename"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// PullRequestDetails is the file-list-free view of a pull request that is
// carried into analysis prompts and workflow results.
type PullRequestDetails struct {
	Number           int    `json:"number"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	URL              string `json:"url"`
	State            string `json:"state"`
	Additions        int    `json:"additions"`
	Deletions        int    `json:"deletions"`
	ChangedFileCount int    `json:"changedFiles"`
	Author           string `json:"author"`
}

// PullRequestSummary is the normalized fetch result. It is immutable once
// fetched and owned by the workflow run that created it.
type PullRequestSummary struct {
	PullRequestDetails
	Files []ChangedFile `json:"files"`
}

type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ParseComplexity validates a free-form model value against the closed set.
func ParseComplexity(raw string) (Complexity, error) {
	switch Complexity(strings.ToLower(strings.TrimSpace(raw))) {
	case ComplexityLow:
		return ComplexityLow, nil
	case ComplexityMedium:
		return ComplexityMedium, nil
	case ComplexityHigh:
		return ComplexityHigh, nil
	default:
		return "", fmt.Errorf("unknown complexity %q", raw)
	}
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func ParseSeverity(raw string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityLow:
		return SeverityLow, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityHigh:
		return SeverityHigh, nil
	default:
		return "", fmt.Errorf("unknown severity %q", raw)
	}
}

type IssueCategory string

const (
	CategoryBug             IssueCategory = "bug"
	CategorySecurity        IssueCategory = "security"
	CategoryPerformance     IssueCategory = "performance"
	CategoryStyle           IssueCategory = "style"
	CategoryMaintainability IssueCategory = "maintainability"
	CategoryTesting         IssueCategory = "testing"
)

func ParseIssueCategory(raw string) (IssueCategory, error) {
	switch IssueCategory(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryBug:
		return CategoryBug, nil
	case CategorySecurity:
		return CategorySecurity, nil
	case CategoryPerformance:
		return CategoryPerformance, nil
	case CategoryStyle:
		return CategoryStyle, nil
	case CategoryMaintainability:
		return CategoryMaintainability, nil
	case CategoryTesting:
		return CategoryTesting, nil
	default:
		return "", fmt.Errorf("unknown issue category %q", raw)
	}
}

// Issue is a single finding reported by the model.
type Issue struct {
	Severity       Severity      `json:"severity"`
	Category       IssueCategory `json:"category"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Location       string        `json:"location,omitempty"`
	Recommendation string        `json:"recommendation"`
}

// QualityAnalysis is the normalized model verdict for one workflow run.
// Optional arrays are never nil and optional text fields never empty once
// normalized, so downstream consumers never see absent keys.
type QualityAnalysis struct {
	QualityScore      int        `json:"qualityScore"`
	Complexity        Complexity `json:"complexity"`
	TechDebtScore     int        `json:"techDebtScore"`
	OverallAssessment string     `json:"overallAssessment"`
	Strengths         []string   `json:"strengths"`
	Issues            []Issue    `json:"issues"`
	CodeSmells        []string   `json:"codeSmells"`
	SecurityConcerns  []string   `json:"securityConcerns"`
	PerformanceImpact string     `json:"performanceImpact"`
	TestCoverage      string     `json:"testCoverage"`
	Suggestions       []string   `json:"suggestions"`
	ReviewerNotes     string     `json:"reviewerNotes"`
}
