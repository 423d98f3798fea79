package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devpulse/internal/domain/review"
	reviewuc "devpulse/internal/usecase/review"
)

type stubAPIService struct {
	result    reviewuc.WorkflowResult
	err       error
	lastInput reviewuc.WorkflowInput
}

func (s *stubAPIService) AnalyzePullRequest(_ context.Context, input reviewuc.WorkflowInput) (reviewuc.WorkflowResult, error) {
	s.lastInput = input
	if s.err != nil {
		return reviewuc.WorkflowResult{}, s.err
	}
	return s.result, nil
}

func (s *stubAPIService) Dashboard(_ context.Context) (reviewuc.DashboardView, error) {
	return reviewuc.DashboardView{Count: 2, AverageQualityScore: 75, AlertCount: 1, Recent: []reviewuc.AnalysisListItem{}}, nil
}

func (s *stubAPIService) Analytics(_ context.Context) (reviewuc.AnalyticsView, error) {
	return reviewuc.AnalyticsView{}, nil
}

func doRequest(t *testing.T, svc apiService, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := newAPIRouter(context.Background(), svc)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpointRejectsMissingFields(t *testing.T) {
	svc := &stubAPIService{}

	rec := doRequest(t, svc, http.MethodPost, "/api/analyze-pr", `{"owner": "microsoft"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatalf("success should be false")
	}
	if resp.Error != "missing: repo, prNumber" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestAnalyzeEndpointRunsWorkflow(t *testing.T) {
	svc := &stubAPIService{
		result: reviewuc.WorkflowResult{
			PR:         review.PullRequestDetails{Title: "Fix memory leak"},
			Analysis:   review.QualityAnalysis{QualityScore: 85, Complexity: review.ComplexityLow},
			DatabaseID: 7,
		},
	}

	rec := doRequest(t, svc, http.MethodPost, "/api/analyze-pr",
		`{"owner": "microsoft", "repo": "vscode", "prNumber": 283599}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	if svc.lastInput.Owner != "microsoft" || svc.lastInput.Repo != "vscode" || svc.lastInput.PRNumber != 283599 {
		t.Fatalf("workflow input = %+v", svc.lastInput)
	}

	var resp struct {
		Success    bool   `json:"success"`
		DatabaseID uint64 `json:"databaseId"`
		Analysis   struct {
			QualityScore int `json:"qualityScore"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.DatabaseID != 7 || resp.Analysis.QualityScore != 85 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestAnalyzeEndpointTranslatesWorkflowFailure(t *testing.T) {
	svc := &stubAPIService{err: errors.New("chat completion failed")}

	rec := doRequest(t, svc, http.MethodPost, "/api/analyze-pr",
		`{"owner": "microsoft", "repo": "vscode", "prNumber": 283599}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || !strings.Contains(resp.Error, "chat completion failed") {
		t.Fatalf("response = %+v", resp)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	svc := &stubAPIService{}

	rec := doRequest(t, svc, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var view reviewuc.DashboardView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.Count != 2 || view.AlertCount != 1 {
		t.Fatalf("view = %+v", view)
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, &stubAPIService{}, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
