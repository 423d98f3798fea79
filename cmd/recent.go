package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"devpulse/internal/bootstrap"
	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/errs"
	"devpulse/internal/usecase/review"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent pull request analyses",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *review.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		limit, _ := cmd.Flags().GetInt("limit")

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		items, err := svc.RecentAnalyses(ctx, limit)
		if err != nil {
			logging.Error(ctx, "list recent analyses failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list recent analyses")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "id\tscore\tcomplexity\tdebt\tcreated_at\ttitle"); err != nil {
			return errs.Wrap(err, "write recent header")
		}
		for _, item := range items {
			if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\t%s\n",
				item.ID,
				item.QualityScore,
				item.Complexity,
				item.TechDebt,
				item.CreatedAt.UTC().Format(time.RFC3339),
				item.PRTitle,
			); err != nil {
				return errs.Wrap(err, "write recent row")
			}
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush recent output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().Int("limit", 10, "Maximum rows to show")
}
