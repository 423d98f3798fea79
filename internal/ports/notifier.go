package ports

import (
	"context"

	"devpulse/internal/domain/review"
)

// ReportNotifier delivers a daily report to an external channel.
type ReportNotifier interface {
	SendDailyReport(ctx context.Context, report review.DailyReport) error
}
