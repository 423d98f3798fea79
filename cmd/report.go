package cmd

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"devpulse/internal/bootstrap"
	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/errs"
	"devpulse/internal/infrastructure/notify"
	"devpulse/internal/ports"
	"devpulse/internal/usecase/review"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the daily quality report and optionally post it to the configured webhook",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *review.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		report, err := svc.BuildDailyReport(ctx, time.Now())
		if err != nil {
			logging.Error(ctx, "build daily report failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "build daily report")
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return errs.Wrap(err, "write report output")
		}

		if !report.HasData() {
			return nil
		}

		webhookURL := app.Config.Report.WebhookURL
		if webhookURL == "" {
			logging.Info(ctx, "no report webhook configured, skipping delivery")
			return nil
		}

		var notifier ports.ReportNotifier = notify.NewDiscordNotifier(webhookURL)
		if err := notifier.SendDailyReport(ctx, report); err != nil {
			// Delivery is best effort; the report itself already succeeded.
			logging.Warn(ctx, "daily report delivery failed", slog.Any("err", errs.Loggable(err)))
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
