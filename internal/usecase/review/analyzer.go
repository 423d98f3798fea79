package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/domain/review"
	"devpulse/internal/ports"
)

// Analysis only inspects a bounded prefix of the changed-file list.
const maxPromptFiles = 15

const systemPrompt = "Respond ONLY with valid JSON."

const notAssessed = "Not assessed"

// ParseError marks a model response that does not satisfy the JSON contract.
type ParseError struct {
	msg string
	err error
}

func (e *ParseError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *ParseError) Unwrap() error { return e.err }

func newParseError(msg string, err error) *ParseError {
	return &ParseError{msg: msg, err: err}
}

// Analyzer asks the model for a quality review of one pull request and
// parses the response strictly.
type Analyzer struct {
	chat ports.ChatCompleter
}

func NewAnalyzer(chat ports.ChatCompleter) *Analyzer {
	return &Analyzer{chat: chat}
}

// Analyze builds the review prompt, submits it and normalizes the verdict.
// A non-JSON or malformed response fails with a ParseError; there is no
// retry and no fallback scoring.
func (a *Analyzer) Analyze(ctx context.Context, pr review.PullRequestDetails, files []review.ChangedFile) (review.QualityAnalysis, error) {
	if ctx == nil {
		return review.QualityAnalysis{}, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.review.analyzer"))

	content, err := a.chat.Complete(ctx, systemPrompt, buildPrompt(pr, files))
	if err != nil {
		return review.QualityAnalysis{}, err
	}

	analysis, err := parseAnalysis(content)
	if err != nil {
		return review.QualityAnalysis{}, err
	}

	logging.Info(logCtx, "analysis parsed",
		slog.Int("quality_score", analysis.QualityScore),
		slog.String("complexity", string(analysis.Complexity)),
	)
	return analysis, nil
}

func buildFileSummary(files []review.ChangedFile) string {
	limit := len(files)
	if limit > maxPromptFiles {
		limit = maxPromptFiles
	}

	lines := make([]string, 0, limit)
	for _, f := range files[:limit] {
		lines = append(lines, fmt.Sprintf("- %s: +%d -%d", f.Filename, f.Additions, f.Deletions))
	}
	return strings.Join(lines, "\n")
}

func buildPrompt(pr review.PullRequestDetails, files []review.ChangedFile) string {
	return fmt.Sprintf(`Analyze this PR:

Title: %s
Description: %s
Author: %s
Changes: %d additions, %d deletions across %d files

Files:
%s

Return ONLY valid JSON:
{
  "qualityScore": <0-100>,
  "complexity": "low"|"medium"|"high",
  "techDebtScore": <0-100>,
  "overallAssessment": "...",
  "strengths": ["..."],
  "issues": [{"severity": "high|medium|low", "category": "bug|security|performance|style|maintainability|testing", "title": "...", "description": "...", "location": "...", "recommendation": "..."}],
  "codeSmells": ["..."],
  "securityConcerns": ["..."],
  "performanceImpact": "...",
  "testCoverage": "...",
  "suggestions": ["..."],
  "reviewerNotes": "..."
}`,
		pr.Title, pr.Description, pr.Author,
		pr.Additions, pr.Deletions, pr.ChangedFileCount,
		buildFileSummary(files),
	)
}

// stripCodeFences removes markdown fence markup the model may wrap around
// its JSON despite the JSON-only instruction.
func stripCodeFences(content string) string {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

type issuePayload struct {
	Severity       string `json:"severity"`
	Category       string `json:"category"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	Recommendation string `json:"recommendation"`
}

type analysisPayload struct {
	QualityScore      *int           `json:"qualityScore"`
	Complexity        string         `json:"complexity"`
	TechDebtScore     *int           `json:"techDebtScore"`
	OverallAssessment string         `json:"overallAssessment"`
	Strengths         []string       `json:"strengths"`
	Issues            []issuePayload `json:"issues"`
	CodeSmells        []string       `json:"codeSmells"`
	SecurityConcerns  []string       `json:"securityConcerns"`
	PerformanceImpact string         `json:"performanceImpact"`
	TestCoverage      string         `json:"testCoverage"`
	Suggestions       []string       `json:"suggestions"`
	ReviewerNotes     string         `json:"reviewerNotes"`
}

func parseAnalysis(content string) (review.QualityAnalysis, error) {
	cleaned := stripCodeFences(content)

	var payload analysisPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return review.QualityAnalysis{}, newParseError("model response is not valid JSON", err)
	}

	if payload.QualityScore == nil {
		return review.QualityAnalysis{}, newParseError("model response is missing qualityScore", nil)
	}
	if payload.TechDebtScore == nil {
		return review.QualityAnalysis{}, newParseError("model response is missing techDebtScore", nil)
	}
	if *payload.QualityScore < 0 || *payload.QualityScore > 100 {
		return review.QualityAnalysis{}, newParseError(fmt.Sprintf("qualityScore %d out of range", *payload.QualityScore), nil)
	}
	if *payload.TechDebtScore < 0 || *payload.TechDebtScore > 100 {
		return review.QualityAnalysis{}, newParseError(fmt.Sprintf("techDebtScore %d out of range", *payload.TechDebtScore), nil)
	}

	complexity, err := review.ParseComplexity(payload.Complexity)
	if err != nil {
		return review.QualityAnalysis{}, newParseError("model response has invalid complexity", err)
	}

	issues := make([]review.Issue, 0, len(payload.Issues))
	for _, item := range payload.Issues {
		severity, err := review.ParseSeverity(item.Severity)
		if err != nil {
			return review.QualityAnalysis{}, newParseError("model response has invalid issue severity", err)
		}
		category, err := review.ParseIssueCategory(item.Category)
		if err != nil {
			return review.QualityAnalysis{}, newParseError("model response has invalid issue category", err)
		}
		issues = append(issues, review.Issue{
			Severity:       severity,
			Category:       category,
			Title:          item.Title,
			Description:    item.Description,
			Location:       item.Location,
			Recommendation: item.Recommendation,
		})
	}

	return review.QualityAnalysis{
		QualityScore:      *payload.QualityScore,
		Complexity:        complexity,
		TechDebtScore:     *payload.TechDebtScore,
		OverallAssessment: textOrNotAssessed(payload.OverallAssessment),
		Strengths:         nonNil(payload.Strengths),
		Issues:            issues,
		CodeSmells:        nonNil(payload.CodeSmells),
		SecurityConcerns:  nonNil(payload.SecurityConcerns),
		PerformanceImpact: textOrNotAssessed(payload.PerformanceImpact),
		TestCoverage:      textOrNotAssessed(payload.TestCoverage),
		Suggestions:       nonNil(payload.Suggestions),
		ReviewerNotes:     textOrNotAssessed(payload.ReviewerNotes),
	}, nil
}

func textOrNotAssessed(value string) string {
	if strings.TrimSpace(value) == "" {
		return notAssessed
	}
	return value
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
