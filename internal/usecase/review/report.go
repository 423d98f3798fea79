package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/domain/review"
	"devpulse/internal/errs"
)

const reportWindow = 24 * time.Hour

// BuildDailyReport computes quality-bucket counts over the trailing 24 hours.
// An empty window is not an error: the report carries a "no data" summary.
func (s *Service) BuildDailyReport(ctx context.Context, now time.Time) (review.DailyReport, error) {
	if ctx == nil {
		return review.DailyReport{}, errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.review.report"))

	records, err := s.store.ListAnalysesSince(ctx, now.Add(-reportWindow))
	if err != nil {
		return review.DailyReport{}, errs.Wrap(err, "list analyses for report")
	}

	report := review.DailyReport{
		Date: now.UTC().Format("2006-01-02"),
	}
	if len(records) == 0 {
		report.Summary = "No analyses in the last 24 hours"
		logging.Info(logCtx, "daily report has no data")
		return report, nil
	}

	sum := 0
	for _, record := range records {
		sum += record.QualityScore
		switch review.BucketForScore(record.QualityScore) {
		case review.BucketHigh:
			report.HighQuality++
		case review.BucketMedium:
			report.MediumQuality++
		case review.BucketLow:
			report.LowQuality++
		}
	}

	report.TotalPRs = len(records)
	report.AverageQuality = int(math.Round(float64(sum) / float64(len(records))))
	report.Summary = fmt.Sprintf("Analyzed %d PRs with avg quality %d/100", report.TotalPRs, report.AverageQuality)

	logging.Info(logCtx, "daily report built",
		slog.Int("total_prs", report.TotalPRs),
		slog.Int("average_quality", report.AverageQuality),
	)
	return report, nil
}
