package profiledb

import (
	"context"
	"time"
)

const upsertProfile = `-- name: UpsertProfile :exec
INSERT INTO profiles (user_id, data, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
`

type UpsertProfileParams struct {
	UserID    string
	Data      string
	UpdatedAt time.Time
}

func (q *Queries) UpsertProfile(ctx context.Context, arg UpsertProfileParams) error {
	_, err := q.db.ExecContext(ctx, upsertProfile, arg.UserID, arg.Data, arg.UpdatedAt)
	return err
}

const getProfile = `-- name: GetProfile :one
SELECT user_id, data, updated_at FROM profiles WHERE user_id = ?
`

func (q *Queries) GetProfile(ctx context.Context, userID string) (Profile, error) {
	row := q.db.QueryRowContext(ctx, getProfile, userID)
	var i Profile
	err := row.Scan(&i.UserID, &i.Data, &i.UpdatedAt)
	return i, err
}

const listProfileUserIDs = `-- name: ListProfileUserIDs :many
SELECT user_id FROM profiles ORDER BY user_id
`

func (q *Queries) ListProfileUserIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listProfileUserIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		items = append(items, userID)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertQuizSubmission = `-- name: InsertQuizSubmission :exec
INSERT INTO quiz_submissions (id, user_id, raw_answers, normalized_answers, created_at)
VALUES (?, ?, ?, ?, ?)
`

type InsertQuizSubmissionParams struct {
	ID                string
	UserID            string
	RawAnswers        string
	NormalizedAnswers string
	CreatedAt         time.Time
}

func (q *Queries) InsertQuizSubmission(ctx context.Context, arg InsertQuizSubmissionParams) error {
	_, err := q.db.ExecContext(ctx, insertQuizSubmission,
		arg.ID,
		arg.UserID,
		arg.RawAnswers,
		arg.NormalizedAnswers,
		arg.CreatedAt,
	)
	return err
}

const getLatestQuizSubmission = `-- name: GetLatestQuizSubmission :one
SELECT id, user_id, raw_answers, normalized_answers, created_at FROM quiz_submissions
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT 1
`

func (q *Queries) GetLatestQuizSubmission(ctx context.Context, userID string) (QuizSubmission, error) {
	row := q.db.QueryRowContext(ctx, getLatestQuizSubmission, userID)
	var i QuizSubmission
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.RawAnswers,
		&i.NormalizedAnswers,
		&i.CreatedAt,
	)
	return i, err
}

const insertQuizResult = `-- name: InsertQuizResult :exec
INSERT INTO quiz_results (id, user_id, submission_id, data, created_at)
VALUES (?, ?, ?, ?, ?)
`

type InsertQuizResultParams struct {
	ID           string
	UserID       string
	SubmissionID string
	Data         string
	CreatedAt    time.Time
}

func (q *Queries) InsertQuizResult(ctx context.Context, arg InsertQuizResultParams) error {
	_, err := q.db.ExecContext(ctx, insertQuizResult,
		arg.ID,
		arg.UserID,
		arg.SubmissionID,
		arg.Data,
		arg.CreatedAt,
	)
	return err
}

const getLatestQuizResult = `-- name: GetLatestQuizResult :one
SELECT id, user_id, submission_id, data, created_at FROM quiz_results
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT 1
`

func (q *Queries) GetLatestQuizResult(ctx context.Context, userID string) (QuizResult, error) {
	row := q.db.QueryRowContext(ctx, getLatestQuizResult, userID)
	var i QuizResult
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.SubmissionID,
		&i.Data,
		&i.CreatedAt,
	)
	return i, err
}
