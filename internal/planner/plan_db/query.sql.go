package plandb

import (
	"context"
	"time"
)

const upsertMealPlan = `-- name: UpsertMealPlan :exec
INSERT INTO meal_plans (user_id, start_date, data, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    start_date = excluded.start_date,
    data = excluded.data,
    created_at = excluded.created_at
`

type UpsertMealPlanParams struct {
	UserID    string
	StartDate string
	Data      string
	CreatedAt time.Time
}

func (q *Queries) UpsertMealPlan(ctx context.Context, arg UpsertMealPlanParams) error {
	_, err := q.db.ExecContext(ctx, upsertMealPlan,
		arg.UserID,
		arg.StartDate,
		arg.Data,
		arg.CreatedAt,
	)
	return err
}

const getMealPlan = `-- name: GetMealPlan :one
SELECT user_id, start_date, data, created_at FROM meal_plans WHERE user_id = ?
`

func (q *Queries) GetMealPlan(ctx context.Context, userID string) (MealPlan, error) {
	row := q.db.QueryRowContext(ctx, getMealPlan, userID)
	var i MealPlan
	err := row.Scan(
		&i.UserID,
		&i.StartDate,
		&i.Data,
		&i.CreatedAt,
	)
	return i, err
}

const deleteMealPlan = `-- name: DeleteMealPlan :exec
DELETE FROM meal_plans WHERE user_id = ?
`

func (q *Queries) DeleteMealPlan(ctx context.Context, userID string) error {
	_, err := q.db.ExecContext(ctx, deleteMealPlan, userID)
	return err
}
