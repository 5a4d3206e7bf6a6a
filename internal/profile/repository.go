package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	profiledb "meal-planner/internal/profile/profile_db"
	"meal-planner/internal/quiz"
	"meal-planner/internal/scoring"
)

// Repository is a database-backed store for profiles, quiz submissions and results.
type Repository struct {
	queries *profiledb.Queries
	db      *sql.DB
}

func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: profiledb.New(d),
		db:      d,
	}
}

// Get returns the profile of userID, or nil when the user never completed the quiz.
func (r *Repository) Get(ctx context.Context, userID string) (*Profile, error) {
	row, err := r.queries.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal([]byte(row.Data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile JSON: %w", err)
	}
	return &p, nil
}

// Upsert stores p, replacing any previous version.
func (r *Repository) Upsert(ctx context.Context, p Profile) error {
	return upsertProfile(ctx, r.queries, p)
}

func upsertProfile(ctx context.Context, q *profiledb.Queries, p Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile to JSON: %w", err)
	}
	if err := q.UpsertProfile(ctx, profiledb.UpsertProfileParams{
		UserID:    p.UserID,
		Data:      string(data),
		UpdatedAt: p.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// ListUserIDs returns every user with a stored profile, ordered by id.
func (r *Repository) ListUserIDs(ctx context.Context) ([]string, error) {
	ids, err := r.queries.ListProfileUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return ids, nil
}

// SaveQuiz stores a submission, its result and the updated profile in one transaction.
func (r *Repository) SaveQuiz(ctx context.Context, sub Submission, result scoring.QuizResult, p Profile) error {
	raw, err := json.Marshal(sub.Raw)
	if err != nil {
		return fmt.Errorf("failed to marshal raw answers: %w", err)
	}
	normalized, err := json.Marshal(sub.Normalized)
	if err != nil {
		return fmt.Errorf("failed to marshal normalized answers: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz result: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.InsertQuizSubmission(ctx, profiledb.InsertQuizSubmissionParams{
		ID:                sub.ID,
		UserID:            sub.UserID,
		RawAnswers:        string(raw),
		NormalizedAnswers: string(normalized),
		CreatedAt:         sub.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to insert quiz submission: %w", err)
	}
	if err := q.InsertQuizResult(ctx, profiledb.InsertQuizResultParams{
		ID:           result.ID,
		UserID:       result.UserID,
		SubmissionID: sub.ID,
		Data:         string(resultJSON),
		CreatedAt:    result.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to insert quiz result: %w", err)
	}
	if err := upsertProfile(ctx, q, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz: %w", err)
	}
	return nil
}

// SaveResult stores a new result for an existing submission and the updated profile,
// e.g. when stored answers are re-scored.
func (r *Repository) SaveResult(ctx context.Context, submissionID string, result scoring.QuizResult, p Profile) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz result: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.InsertQuizResult(ctx, profiledb.InsertQuizResultParams{
		ID:           result.ID,
		UserID:       result.UserID,
		SubmissionID: submissionID,
		Data:         string(resultJSON),
		CreatedAt:    result.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to insert quiz result: %w", err)
	}
	if err := upsertProfile(ctx, q, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz result: %w", err)
	}
	return nil
}

// LatestSubmission returns the newest submission of userID, or nil if there is none.
func (r *Repository) LatestSubmission(ctx context.Context, userID string) (*Submission, error) {
	row, err := r.queries.GetLatestQuizSubmission(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest submission: %w", err)
	}

	sub := Submission{ID: row.ID, UserID: row.UserID, CreatedAt: row.CreatedAt}
	raw, err := quiz.ParseRawAnswers([]byte(row.RawAnswers))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal raw answers: %w", err)
	}
	sub.Raw = raw
	if err := json.Unmarshal([]byte(row.NormalizedAnswers), &sub.Normalized); err != nil {
		return nil, fmt.Errorf("failed to unmarshal normalized answers: %w", err)
	}
	return &sub, nil
}

// LatestResult returns the newest quiz result of userID, or nil if there is none.
func (r *Repository) LatestResult(ctx context.Context, userID string) (*scoring.QuizResult, error) {
	row, err := r.queries.GetLatestQuizResult(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest quiz result: %w", err)
	}

	var result scoring.QuizResult
	if err := json.Unmarshal([]byte(row.Data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz result JSON: %w", err)
	}
	return &result, nil
}
