package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"devpulse/internal/bootstrap"
	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/errs"
	"devpulse/internal/usecase/review"
)

// Upstream services are not guaranteed to respond promptly; bound each run.
const workflowTimeout = 60 * time.Second

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the fetch-analyze-persist-alert workflow for one pull request",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *review.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		owner, _ := cmd.Flags().GetString("owner")
		repo, _ := cmd.Flags().GetString("repo")
		prNumber, _ := cmd.Flags().GetInt("pr")

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		runCtx, cancel := context.WithTimeout(ctx, workflowTimeout)
		defer cancel()

		result, err := svc.AnalyzePullRequest(runCtx, review.WorkflowInput{
			Owner:    owner,
			Repo:     repo,
			PRNumber: prNumber,
		})
		if err != nil {
			logging.Error(ctx, "workflow failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "analyze pull request")
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return errs.Wrap(err, "write analyze output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("owner", "", "Repository owner")
	analyzeCmd.Flags().String("repo", "", "Repository name")
	analyzeCmd.Flags().Int("pr", 0, "Pull request number")
	_ = analyzeCmd.MarkFlagRequired("owner")
	_ = analyzeCmd.MarkFlagRequired("repo")
	_ = analyzeCmd.MarkFlagRequired("pr")
}
