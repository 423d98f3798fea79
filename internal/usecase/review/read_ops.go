package review

import (
	"context"
	"errors"
	"time"

	"devpulse/internal/errs"
	"devpulse/internal/ports"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100

	recentAlertsLimit = 20
	trendWindowDays   = 7
)

type AnalysisListItem struct {
	ID           uint64    `json:"id"`
	PRURL        string    `json:"prUrl"`
	PRTitle      string    `json:"prTitle"`
	QualityScore int       `json:"qualityScore"`
	Complexity   string    `json:"complexity"`
	TechDebt     int       `json:"techDebt"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AlertListItem struct {
	ID        uint64    `json:"id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type DashboardView struct {
	Count               int64              `json:"count"`
	AverageQualityScore float64            `json:"averageQualityScore"`
	AlertCount          int64              `json:"alertCount"`
	Recent              []AnalysisListItem `json:"recent"`
}

type TrendPointView struct {
	Date            string  `json:"date"`
	Count           int64   `json:"count"`
	AverageQuality  float64 `json:"avgQuality"`
	AverageTechDebt float64 `json:"avgDebt"`
}

type ComplexityCountView struct {
	Complexity string `json:"complexity"`
	Count      int64  `json:"count"`
}

type AnalyticsView struct {
	WeeklyTrend            []TrendPointView      `json:"weeklyTrend"`
	ComplexityDistribution []ComplexityCountView `json:"complexityDistribution"`
	RecentAlerts           []AlertListItem       `json:"recentAlerts"`
}

// RecentAnalyses returns the most recent analysis records, newest first.
func (s *Service) RecentAnalyses(ctx context.Context, limit int) ([]AnalysisListItem, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	records, err := s.store.ListRecentAnalyses(ctx, limit)
	if err != nil {
		return nil, errs.Wrap(err, "list recent analyses")
	}
	return mapAnalysisItems(records), nil
}

// Dashboard returns rollups plus the recent list for display surfaces.
func (s *Service) Dashboard(ctx context.Context) (DashboardView, error) {
	if ctx == nil {
		return DashboardView{}, errors.New("context is required")
	}

	aggregates, err := s.store.Aggregates(ctx)
	if err != nil {
		return DashboardView{}, errs.Wrap(err, "query aggregates")
	}

	recent, err := s.store.ListRecentAnalyses(ctx, defaultRecentLimit)
	if err != nil {
		return DashboardView{}, errs.Wrap(err, "list recent analyses")
	}

	return DashboardView{
		Count:               aggregates.Count,
		AverageQualityScore: aggregates.AverageQualityScore,
		AlertCount:          aggregates.AlertCount,
		Recent:              mapAnalysisItems(recent),
	}, nil
}

// Analytics returns trend and distribution reads for the dashboard collaborator.
func (s *Service) Analytics(ctx context.Context) (AnalyticsView, error) {
	if ctx == nil {
		return AnalyticsView{}, errors.New("context is required")
	}

	since := time.Now().UTC().AddDate(0, 0, -trendWindowDays)
	trend, err := s.store.WeeklyTrend(ctx, since)
	if err != nil {
		return AnalyticsView{}, errs.Wrap(err, "query weekly trend")
	}

	distribution, err := s.store.ComplexityDistribution(ctx)
	if err != nil {
		return AnalyticsView{}, errs.Wrap(err, "query complexity distribution")
	}

	alerts, err := s.store.ListRecentAlerts(ctx, recentAlertsLimit)
	if err != nil {
		return AnalyticsView{}, errs.Wrap(err, "list recent alerts")
	}

	view := AnalyticsView{
		WeeklyTrend:            make([]TrendPointView, 0, len(trend)),
		ComplexityDistribution: make([]ComplexityCountView, 0, len(distribution)),
		RecentAlerts:           make([]AlertListItem, 0, len(alerts)),
	}
	for _, point := range trend {
		view.WeeklyTrend = append(view.WeeklyTrend, TrendPointView{
			Date:            point.Day,
			Count:           point.Count,
			AverageQuality:  point.AverageQuality,
			AverageTechDebt: point.AverageTechDebt,
		})
	}
	for _, count := range distribution {
		view.ComplexityDistribution = append(view.ComplexityDistribution, ComplexityCountView{
			Complexity: count.Complexity,
			Count:      count.Count,
		})
	}
	for _, alert := range alerts {
		view.RecentAlerts = append(view.RecentAlerts, AlertListItem{
			ID:        alert.ID,
			Type:      alert.Type,
			Severity:  alert.Severity,
			Message:   alert.Message,
			CreatedAt: alert.CreatedAt,
		})
	}
	return view, nil
}

func mapAnalysisItems(records []ports.AnalysisRecord) []AnalysisListItem {
	items := make([]AnalysisListItem, 0, len(records))
	for _, record := range records {
		items = append(items, AnalysisListItem{
			ID:           record.ID,
			PRURL:        record.PRURL,
			PRTitle:      record.PRTitle,
			QualityScore: record.QualityScore,
			Complexity:   record.Complexity,
			TechDebt:     record.TechDebt,
			CreatedAt:    record.CreatedAt,
		})
	}
	return items
}
