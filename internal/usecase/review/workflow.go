package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/domain/review"
	"devpulse/internal/errs"
	"devpulse/internal/ports"
)

// Stage identifies the workflow step that was running when a failure occurred.
type Stage string

const (
	StageFetching   Stage = "fetching"
	StageAnalyzing  Stage = "analyzing"
	StagePersisting Stage = "persisting"
	StageAlerting   Stage = "alerting"
)

// StageError annotates a step failure with the stage it came from. The
// underlying error is passed through unchanged in kind: errors.Is/As see
// the original fetcher, analyzer or store failure.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("workflow stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

type WorkflowInput struct {
	Owner    string
	Repo     string
	PRNumber int
}

type WorkflowResult struct {
	PR         review.PullRequestDetails `json:"pr"`
	Analysis   review.QualityAnalysis    `json:"analysis"`
	DatabaseID uint64                    `json:"databaseId"`
}

type alertMetadata struct {
	PRURL        string `json:"prUrl"`
	QualityScore int    `json:"qualityScore"`
}

// AnalyzePullRequest runs the four-step pipeline: fetch, analyze, persist,
// alert. Steps run strictly in order; the first failure aborts the rest and
// is propagated annotated with its stage. There is no retry and no rollback:
// a failure after a successful persist leaves the analysis row committed.
func (s *Service) AnalyzePullRequest(ctx context.Context, input WorkflowInput) (WorkflowResult, error) {
	if ctx == nil {
		return WorkflowResult{}, errors.New("context is required")
	}
	if err := validateWorkflowInput(input); err != nil {
		return WorkflowResult{}, err
	}

	runCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.review"),
		slog.String("run_id", uuid.NewString()),
		slog.String("repo", input.Owner+"/"+input.Repo),
		slog.Int("pr_number", input.PRNumber),
	)
	logging.Info(runCtx, "workflow started")

	summary, err := s.fetcher.FetchPullRequest(runCtx, input.Owner, input.Repo, input.PRNumber)
	if err != nil {
		return WorkflowResult{}, failStage(runCtx, StageFetching, err)
	}

	analysis, err := s.analyzer.Analyze(runCtx, summary.PullRequestDetails, summary.Files)
	if err != nil {
		return WorkflowResult{}, failStage(runCtx, StageAnalyzing, err)
	}

	analysisData, err := json.Marshal(analysis)
	if err != nil {
		return WorkflowResult{}, failStage(runCtx, StagePersisting, errs.Wrap(err, "serialize analysis"))
	}

	databaseID, err := s.store.SaveAnalysis(runCtx, ports.AnalysisRecordCreate{
		PRURL:        summary.URL,
		PRTitle:      summary.Title,
		QualityScore: analysis.QualityScore,
		Complexity:   string(analysis.Complexity),
		TechDebt:     analysis.TechDebtScore,
		AnalysisData: string(analysisData),
	})
	if err != nil {
		return WorkflowResult{}, failStage(runCtx, StagePersisting, err)
	}
	logging.Info(runCtx, "analysis persisted", slog.Uint64("database_id", databaseID))

	if decision := review.EvaluateQuality(analysis.QualityScore); decision.Fire {
		metadata, err := json.Marshal(alertMetadata{
			PRURL:        summary.URL,
			QualityScore: analysis.QualityScore,
		})
		if err != nil {
			return WorkflowResult{}, failStage(runCtx, StageAlerting, errs.Wrap(err, "serialize alert metadata"))
		}

		if _, err := s.store.SaveAlert(runCtx, ports.AlertCreate{
			Type:     decision.Type,
			Severity: string(decision.Severity),
			Message:  fmt.Sprintf("PR %q has low quality score: %d/100", summary.Title, analysis.QualityScore),
			Metadata: string(metadata),
		}); err != nil {
			return WorkflowResult{}, failStage(runCtx, StageAlerting, err)
		}
		logging.Warn(runCtx, "quality alert created",
			slog.String("severity", string(decision.Severity)),
			slog.Int("quality_score", analysis.QualityScore),
		)
	} else {
		logging.Info(runCtx, "quality acceptable, no alert")
	}

	logging.Info(runCtx, "workflow completed", slog.Int("quality_score", analysis.QualityScore))
	return WorkflowResult{
		PR:         summary.PullRequestDetails,
		Analysis:   analysis,
		DatabaseID: databaseID,
	}, nil
}

func validateWorkflowInput(input WorkflowInput) error {
	if strings.TrimSpace(input.Owner) == "" {
		return newValidationError("owner is required")
	}
	if strings.TrimSpace(input.Repo) == "" {
		return newValidationError("repo is required")
	}
	if input.PRNumber <= 0 {
		return newValidationError("prNumber must be a positive integer")
	}
	return nil
}

func failStage(ctx context.Context, stage Stage, err error) error {
	logging.Error(ctx, "workflow stage failed",
		slog.String("stage", string(stage)),
		slog.Any("err", errs.Loggable(err)),
	)
	return &StageError{Stage: stage, Err: err}
}
