package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"meal-planner/internal/database"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()
	store := NewStore(db.SQL)

	now := time.Now().UTC()
	records := []GenerationMetric{
		{UserID: "u1", Outcome: OutcomeSuccess, Latency: 10 * time.Millisecond, TemplatesConsidered: 12, Warnings: 2, Timestamp: now},
		{UserID: "u2", Outcome: OutcomeNoTemplates, Latency: 20 * time.Millisecond, Timestamp: now},
		{UserID: "u3", Outcome: OutcomeSuccess, Latency: 30 * time.Millisecond, TemplatesConsidered: 8, Timestamp: now.AddDate(0, 0, -40)},
	}
	for _, m := range records {
		if err := store.Record(ctx, m); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	stats, err := store.GetDailyStats(ctx, 7)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("Expected 1 day of stats, got %+v", stats)
	}
	today := stats[0]
	if today.Date != now.Format("2006-01-02") {
		t.Errorf("Expected date %s, got %s", now.Format("2006-01-02"), today.Date)
	}
	if today.Generations != 2 || today.Failures != 1 || today.Warnings != 2 {
		t.Errorf("Expected 2 generations, 1 failure and 2 warnings, got %+v", today)
	}
	if today.AvgLatencyMS != 15 {
		t.Errorf("Expected average latency 15ms, got %v", today.AvgLatencyMS)
	}

	deleted, err := store.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted record, got %d", deleted)
	}

	all, _ := store.GetDailyStats(ctx, 365)
	if len(all) != 1 {
		t.Errorf("Expected only today's stats to remain, got %+v", all)
	}
}

func TestGetSysHealth(t *testing.T) {
	h := GetSysHealth(t.TempDir())
	if h.Status != "ok" || h.Goroutines == 0 {
		t.Errorf("Expected a healthy snapshot, got %+v", h)
	}
	if h.DataDiskSize != "0 B" {
		t.Errorf("Expected an empty data dir, got %s", h.DataDiskSize)
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for in, want := range tests {
		if got := formatSize(in); got != want {
			t.Errorf("formatSize(%d): Expected %s, got %s", in, want, got)
		}
	}
}
