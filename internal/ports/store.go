package ports

import (
	"context"
	"time"
)

type AnalysisRecordCreate struct {
	PRURL        string
	PRTitle      string
	QualityScore int
	Complexity   string
	TechDebt     int
	AnalysisData string
}

type AnalysisRecord struct {
	ID           uint64
	PRURL        string
	PRTitle      string
	QualityScore int
	Complexity   string
	TechDebt     int
	AnalysisData string
	CreatedAt    time.Time
}

type AlertCreate struct {
	Type     string
	Severity string
	Message  string
	Metadata string
}

type AlertRecord struct {
	ID        uint64
	Type      string
	Severity  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

type AnalysisAggregates struct {
	Count               int64
	AverageQualityScore float64
	AlertCount          int64
}

type TrendPoint struct {
	Day             string
	Count           int64
	AverageQuality  float64
	AverageTechDebt float64
}

type ComplexityCount struct {
	Complexity string
	Count      int64
}

// AnalysisStore is the append-only persistence surface of the pipeline.
// Writes never overwrite existing rows; no update or delete is exposed.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, input AnalysisRecordCreate) (uint64, error)
	SaveAlert(ctx context.Context, input AlertCreate) (uint64, error)
	ListRecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error)
	ListAnalysesSince(ctx context.Context, since time.Time) ([]AnalysisRecord, error)
	Aggregates(ctx context.Context) (AnalysisAggregates, error)
	WeeklyTrend(ctx context.Context, since time.Time) ([]TrendPoint, error)
	ComplexityDistribution(ctx context.Context) ([]ComplexityCount, error)
	ListRecentAlerts(ctx context.Context, limit int) ([]AlertRecord, error)
}
