package metricsdb

import (
	"context"
	"database/sql"
	"time"
)

const insertGenerationMetric = `-- name: InsertGenerationMetric :exec
INSERT INTO plan_generation_metrics (user_id, outcome, latency_ms, templates_considered, warnings, timestamp)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertGenerationMetricParams struct {
	UserID              string
	Outcome             string
	LatencyMs           int64
	TemplatesConsidered int64
	Warnings            int64
	Timestamp           time.Time
}

func (q *Queries) InsertGenerationMetric(ctx context.Context, arg InsertGenerationMetricParams) error {
	_, err := q.db.ExecContext(ctx, insertGenerationMetric,
		arg.UserID,
		arg.Outcome,
		arg.LatencyMs,
		arg.TemplatesConsidered,
		arg.Warnings,
		arg.Timestamp,
	)
	return err
}

const getDailyStats = `-- name: GetDailyStats :many
SELECT
    substr(timestamp, 1, 10) AS day,
    COUNT(*) AS count,
    SUM(CASE WHEN outcome = 'success' THEN 0 ELSE 1 END) AS failures,
    AVG(latency_ms) AS avg_latency_ms,
    SUM(warnings) AS warnings
FROM plan_generation_metrics
WHERE timestamp >= ?
GROUP BY day
ORDER BY day DESC
`

type GetDailyStatsRow struct {
	Day          string
	Count        int64
	Failures     sql.NullInt64
	AvgLatencyMs sql.NullFloat64
	Warnings     sql.NullInt64
}

func (q *Queries) GetDailyStats(ctx context.Context, since time.Time) ([]GetDailyStatsRow, error) {
	rows, err := q.db.QueryContext(ctx, getDailyStats, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetDailyStatsRow
	for rows.Next() {
		var i GetDailyStatsRow
		if err := rows.Scan(
			&i.Day,
			&i.Count,
			&i.Failures,
			&i.AvgLatencyMs,
			&i.Warnings,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const cleanupGenerationMetrics = `-- name: CleanupGenerationMetrics :execresult
DELETE FROM plan_generation_metrics WHERE timestamp < ?
`

func (q *Queries) CleanupGenerationMetrics(ctx context.Context, threshold time.Time) (sql.Result, error) {
	return q.db.ExecContext(ctx, cleanupGenerationMetrics, threshold)
}
