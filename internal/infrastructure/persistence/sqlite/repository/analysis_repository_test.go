package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"devpulse/internal/infrastructure/persistence/sqlite/model"
	"devpulse/internal/ports"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "devpulse.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.CodeAnalysis{}, &model.Alert{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestSchemaInitIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnalysisRepository(db)
	ctx := context.Background()

	id, err := repo.SaveAnalysis(ctx, ports.AnalysisRecordCreate{
		PRURL:        "https://github.com/acme/widgets/pull/1",
		PRTitle:      "first",
		QualityScore: 75,
		Complexity:   "low",
		TechDebt:     15,
		AnalysisData: "{}",
	})
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}

	// A second migration must neither fail nor touch existing rows.
	if err := db.AutoMigrate(&model.CodeAnalysis{}, &model.Alert{}); err != nil {
		t.Fatalf("repeated auto migrate: %v", err)
	}

	records, err := repo.ListRecentAnalyses(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentAnalyses() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != id {
		t.Fatalf("records after re-migrate = %+v", records)
	}
}

func TestSaveAnalysisAssignsIncreasingIDs(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnalysisRepository(db)
	ctx := context.Background()

	var lastID uint64
	var lastCreated time.Time
	for i := 0; i < 3; i++ {
		id, err := repo.SaveAnalysis(ctx, ports.AnalysisRecordCreate{
			PRURL:        "https://github.com/acme/widgets/pull/7",
			QualityScore: 70,
			Complexity:   "medium",
			TechDebt:     20,
			AnalysisData: "{}",
		})
		if err != nil {
			t.Fatalf("SaveAnalysis() error = %v", err)
		}
		if id <= lastID {
			t.Fatalf("id %d not strictly increasing after %d", id, lastID)
		}

		var row model.CodeAnalysis
		if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
			t.Fatalf("load row: %v", err)
		}
		if row.CreatedAt.Before(lastCreated) {
			t.Fatalf("created_at %v decreased below %v", row.CreatedAt, lastCreated)
		}
		lastID = id
		lastCreated = row.CreatedAt
	}
}

func TestListRecentAnalysesOrdering(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnalysisRepository(db)
	ctx := context.Background()

	var ids []uint64
	for _, title := range []string{"A", "B", "C"} {
		id, err := repo.SaveAnalysis(ctx, ports.AnalysisRecordCreate{
			PRURL:        "https://github.com/acme/widgets/pull/2",
			PRTitle:      title,
			QualityScore: 80,
			Complexity:   "low",
			TechDebt:     5,
			AnalysisData: "{}",
		})
		if err != nil {
			t.Fatalf("SaveAnalysis(%s) error = %v", title, err)
		}
		ids = append(ids, id)
	}

	records, err := repo.ListRecentAnalyses(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecentAnalyses() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, wantTitle := range []string{"C", "B", "A"} {
		if records[i].PRTitle != wantTitle {
			t.Fatalf("records[%d].PRTitle = %q, want %q", i, records[i].PRTitle, wantTitle)
		}
	}
	if records[0].ID != ids[2] {
		t.Fatalf("newest record id = %d, want %d", records[0].ID, ids[2])
	}
}

func TestSaveAlertDefaultsMetadata(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnalysisRepository(db)
	ctx := context.Background()

	id, err := repo.SaveAlert(ctx, ports.AlertCreate{
		Type:     "low_quality",
		Severity: "medium",
		Message:  "PR has low quality score",
	})
	if err != nil {
		t.Fatalf("SaveAlert() error = %v", err)
	}

	var row model.Alert
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		t.Fatalf("load alert: %v", err)
	}
	if row.Metadata != "{}" {
		t.Fatalf("metadata = %q, want {}", row.Metadata)
	}
}

func TestAggregatesOnEmptyStore(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnalysisRepository(db)

	agg, err := repo.Aggregates(context.Background())
	if err != nil {
		t.Fatalf("Aggregates() error = %v", err)
	}
	if agg.Count != 0 || agg.AverageQualityScore != 0 || agg.AlertCount != 0 {
		t.Fatalf("aggregates on empty store = %+v", agg)
	}
}

func TestListAnalysesSinceFiltersWindow(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnalysisRepository(db)
	ctx := context.Background()

	if _, err := repo.SaveAnalysis(ctx, ports.AnalysisRecordCreate{
		PRURL:        "https://github.com/acme/widgets/pull/3",
		QualityScore: 65,
		Complexity:   "low",
		TechDebt:     10,
		AnalysisData: "{}",
	}); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}

	recent, err := repo.ListAnalysesSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListAnalysesSince() error = %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("records inside window = %d, want 1", len(recent))
	}

	future, err := repo.ListAnalysesSince(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ListAnalysesSince() error = %v", err)
	}
	if len(future) != 0 {
		t.Fatalf("records outside window = %d, want 0", len(future))
	}
}
