package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"devpulse/internal/errs"
	"devpulse/internal/infrastructure/persistence/sqlite/model"
	"devpulse/internal/ports"
)

const defaultListLimit = 10

// AnalysisRepository implements ports.AnalysisStore on sqlite. All writes are
// plain appends; interleaving of concurrent workflow runs is immaterial
// because no run reads back another run's row.
type AnalysisRepository struct {
	db *gorm.DB
}

var _ ports.AnalysisStore = (*AnalysisRepository)(nil)

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, input ports.AnalysisRecordCreate) (uint64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if strings.TrimSpace(input.PRURL) == "" {
		return 0, errors.New("pr url is required")
	}

	row := model.CodeAnalysis{
		PRURL:        input.PRURL,
		PRTitle:      input.PRTitle,
		QualityScore: input.QualityScore,
		Complexity:   input.Complexity,
		TechDebt:     input.TechDebt,
		AnalysisData: input.AnalysisData,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, errs.Wrap(err, "insert analysis record")
	}
	return row.ID, nil
}

func (r *AnalysisRepository) SaveAlert(ctx context.Context, input ports.AlertCreate) (uint64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if strings.TrimSpace(input.Type) == "" {
		return 0, errors.New("alert type is required")
	}
	if strings.TrimSpace(input.Severity) == "" {
		return 0, errors.New("alert severity is required")
	}

	metadata := strings.TrimSpace(input.Metadata)
	if metadata == "" {
		metadata = "{}"
	}

	row := model.Alert{
		Type:     input.Type,
		Severity: input.Severity,
		Message:  input.Message,
		Metadata: metadata,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, errs.Wrap(err, "insert alert record")
	}
	return row.ID, nil
}

func (r *AnalysisRepository) ListRecentAnalyses(ctx context.Context, limit int) ([]ports.AnalysisRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	// id is strictly increasing in insertion order and created_at is
	// non-decreasing with id, so id order is newest-first and deterministic.
	var rows []model.CodeAnalysis
	if err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query recent analyses")
	}

	return mapAnalyses(rows), nil
}

func (r *AnalysisRepository) ListAnalysesSince(ctx context.Context, since time.Time) ([]ports.AnalysisRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var rows []model.CodeAnalysis
	if err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("id desc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query analyses since")
	}

	return mapAnalyses(rows), nil
}

func (r *AnalysisRepository) Aggregates(ctx context.Context) (ports.AnalysisAggregates, error) {
	if ctx == nil {
		return ports.AnalysisAggregates{}, errors.New("context is required")
	}

	var agg struct {
		Count      int64
		AvgQuality float64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.CodeAnalysis{}).
		Select("count(*) as count, coalesce(avg(quality_score), 0) as avg_quality").
		Scan(&agg).Error; err != nil {
		return ports.AnalysisAggregates{}, errs.Wrap(err, "query analysis aggregates")
	}

	var alertCount int64
	if err := r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Count(&alertCount).Error; err != nil {
		return ports.AnalysisAggregates{}, errs.Wrap(err, "count alerts")
	}

	return ports.AnalysisAggregates{
		Count:               agg.Count,
		AverageQualityScore: agg.AvgQuality,
		AlertCount:          alertCount,
	}, nil
}

func (r *AnalysisRepository) WeeklyTrend(ctx context.Context, since time.Time) ([]ports.TrendPoint, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var rows []struct {
		Day        string
		Count      int64
		AvgQuality float64
		AvgDebt    float64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.CodeAnalysis{}).
		Select("date(created_at) as day, count(*) as count, avg(quality_score) as avg_quality, avg(tech_debt) as avg_debt").
		Where("created_at >= ?", since).
		Group("date(created_at)").
		Order("day asc").
		Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query weekly trend")
	}

	points := make([]ports.TrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, ports.TrendPoint{
			Day:             row.Day,
			Count:           row.Count,
			AverageQuality:  row.AvgQuality,
			AverageTechDebt: row.AvgDebt,
		})
	}
	return points, nil
}

func (r *AnalysisRepository) ComplexityDistribution(ctx context.Context) ([]ports.ComplexityCount, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var rows []struct {
		Complexity string
		Count      int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.CodeAnalysis{}).
		Select("complexity, count(*) as count").
		Group("complexity").
		Order("complexity asc").
		Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query complexity distribution")
	}

	counts := make([]ports.ComplexityCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, ports.ComplexityCount{
			Complexity: row.Complexity,
			Count:      row.Count,
		})
	}
	return counts, nil
}

func (r *AnalysisRepository) ListRecentAlerts(ctx context.Context, limit int) ([]ports.AlertRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	var rows []model.Alert
	if err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query recent alerts")
	}

	alerts := make([]ports.AlertRecord, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, ports.AlertRecord{
			ID:        row.ID,
			Type:      row.Type,
			Severity:  row.Severity,
			Message:   row.Message,
			Metadata:  row.Metadata,
			CreatedAt: row.CreatedAt,
		})
	}
	return alerts, nil
}

func mapAnalyses(rows []model.CodeAnalysis) []ports.AnalysisRecord {
	records := make([]ports.AnalysisRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ports.AnalysisRecord{
			ID:           row.ID,
			PRURL:        row.PRURL,
			PRTitle:      row.PRTitle,
			QualityScore: row.QualityScore,
			Complexity:   row.Complexity,
			TechDebt:     row.TechDebt,
			AnalysisData: row.AnalysisData,
			CreatedAt:    row.CreatedAt,
		})
	}
	return records
}
