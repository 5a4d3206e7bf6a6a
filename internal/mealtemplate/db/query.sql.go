package templatedb

import (
	"context"
	"time"
)

const insertTemplate = `-- name: InsertTemplate :exec
INSERT INTO meal_templates (id, category, position, data, updated_at)
VALUES (?, ?, ?, ?, ?)
`

type InsertTemplateParams struct {
	ID        string
	Category  string
	Position  int64
	Data      string
	UpdatedAt time.Time
}

func (q *Queries) InsertTemplate(ctx context.Context, arg InsertTemplateParams) error {
	_, err := q.db.ExecContext(ctx, insertTemplate,
		arg.ID,
		arg.Category,
		arg.Position,
		arg.Data,
		arg.UpdatedAt,
	)
	return err
}

const deleteAllTemplates = `-- name: DeleteAllTemplates :exec
DELETE FROM meal_templates
`

func (q *Queries) DeleteAllTemplates(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllTemplates)
	return err
}

const getTemplateByID = `-- name: GetTemplateByID :one
SELECT id, category, position, data, updated_at FROM meal_templates WHERE id = ?
`

func (q *Queries) GetTemplateByID(ctx context.Context, id string) (MealTemplate, error) {
	row := q.db.QueryRowContext(ctx, getTemplateByID, id)
	var i MealTemplate
	err := row.Scan(
		&i.ID,
		&i.Category,
		&i.Position,
		&i.Data,
		&i.UpdatedAt,
	)
	return i, err
}

const listTemplates = `-- name: ListTemplates :many
SELECT id, category, position, data, updated_at FROM meal_templates ORDER BY position, id
`

func (q *Queries) ListTemplates(ctx context.Context) ([]MealTemplate, error) {
	rows, err := q.db.QueryContext(ctx, listTemplates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MealTemplate
	for rows.Next() {
		var i MealTemplate
		if err := rows.Scan(
			&i.ID,
			&i.Category,
			&i.Position,
			&i.Data,
			&i.UpdatedAt,
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

const countTemplates = `-- name: CountTemplates :one
SELECT COUNT(*) FROM meal_templates
`

func (q *Queries) CountTemplates(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTemplates)
	var count int64
	err := row.Scan(&count)
	return count, err
}
