package review

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"devpulse/internal/domain/review"
	"devpulse/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "devpulse/internal/infrastructure/persistence/sqlite/repository"
)

type stubFetcher struct {
	summary review.PullRequestSummary
	err     error
	calls   int
}

func (f *stubFetcher) FetchPullRequest(_ context.Context, _ string, _ string, _ int) (review.PullRequestSummary, error) {
	f.calls++
	if f.err != nil {
		return review.PullRequestSummary{}, f.err
	}
	return f.summary, nil
}

type stubChat struct {
	content string
	err     error

	lastSystemPrompt string
	lastUserPrompt   string
}

func (c *stubChat) Complete(_ context.Context, systemPrompt string, userPrompt string) (string, error) {
	c.lastSystemPrompt = systemPrompt
	c.lastUserPrompt = userPrompt
	if c.err != nil {
		return "", c.err
	}
	return c.content, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "devpulse.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.CodeAnalysis{}, &model.Alert{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func setupService(t *testing.T) (*Service, *stubFetcher, *stubChat, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	fetcher := &stubFetcher{summary: samplePullRequest()}
	chat := &stubChat{content: sampleModelResponse(85)}
	svc := NewService(fetcher, NewAnalyzer(chat), sqliterepo.NewAnalysisRepository(db))
	return svc, fetcher, chat, db
}

func samplePullRequest() review.PullRequestSummary {
	return review.PullRequestSummary{
		PullRequestDetails: review.PullRequestDetails{
			Number:           283599,
			Title:            "Fix memory leak",
			Description:      "Releases listeners on dispose",
			URL:              "https://github.com/microsoft/vscode/pull/283599",
			State:            "open",
			Additions:        120,
			Deletions:        40,
			ChangedFileCount: 3,
			Author:           "octocat",
		},
		Files: []review.ChangedFile{
			{Filename: "src/leak.ts", Additions: 100, Deletions: 30},
			{Filename: "src/leak.test.ts", Additions: 20, Deletions: 10},
		},
	}
}

func sampleModelResponse(qualityScore int) string {
	return `{
  "qualityScore": ` + strconv.Itoa(qualityScore) + `,
  "complexity": "low",
  "techDebtScore": 10,
  "overallAssessment": "Solid fix with tests",
  "strengths": ["tests added"],
  "issues": [{"severity": "low", "category": "style", "title": "naming", "description": "terse names", "location": "src/leak.ts", "recommendation": "rename"}],
  "codeSmells": [],
  "securityConcerns": [],
  "performanceImpact": "negligible",
  "testCoverage": "good",
  "suggestions": ["add benchmark"],
  "reviewerNotes": "looks good"
}`
}

func countRows(t *testing.T, db *gorm.DB, value any) int64 {
	t.Helper()

	var count int64
	if err := db.Model(value).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
