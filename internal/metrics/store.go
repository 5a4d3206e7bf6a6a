package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	metricsdb "meal-planner/internal/metrics/metrics_db"
)

// Outcome classifies a plan generation attempt.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeQuizIncomplete Outcome = "quiz_incomplete"
	OutcomeNoTemplates    Outcome = "no_templates"
	OutcomeError          Outcome = "error"
)

// GenerationMetric records metadata for a single plan generation.
type GenerationMetric struct {
	UserID              string
	Outcome             Outcome
	Latency             time.Duration
	TemplatesConsidered int
	Warnings            int
	Timestamp           time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
	}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	err := s.queries.InsertGenerationMetric(ctx, metricsdb.InsertGenerationMetricParams{
		UserID:              m.UserID,
		Outcome:             string(m.Outcome),
		LatencyMs:           m.Latency.Milliseconds(),
		TemplatesConsidered: int64(m.TemplatesConsidered),
		Warnings:            int64(m.Warnings),
		Timestamp:           ts.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record generation metric: %w", err)
	}
	return nil
}

// DailyStats summarizes plan generation for a single day.
type DailyStats struct {
	Date         string  `json:"date"`
	Generations  int     `json:"generations"`
	Failures     int     `json:"failures"`
	AvgLatencyMS float64 `json:"avgLatencyMs"`
	Warnings     int     `json:"warnings"`
}

// GetDailyStats retrieves stats for the last N days, newest first.
func (s *Store) GetDailyStats(ctx context.Context, days int) ([]DailyStats, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.queries.GetDailyStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	results := make([]DailyStats, 0, len(rows))
	for _, r := range rows {
		st := DailyStats{
			Date:        r.Day,
			Generations: int(r.Count),
		}
		if r.Failures.Valid {
			st.Failures = int(r.Failures.Int64)
		}
		if r.AvgLatencyMs.Valid {
			st.AvgLatencyMS = math.Round(r.AvgLatencyMs.Float64*10) / 10
		}
		if r.Warnings.Valid {
			st.Warnings = int(r.Warnings.Int64)
		}
		results = append(results, st)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.queries.CleanupGenerationMetrics(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted metrics: %w", err)
	}
	return n, nil
}
