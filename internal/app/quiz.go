package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"meal-planner/internal/planner"
	"meal-planner/internal/profile"
	"meal-planner/internal/quiz"
	"meal-planner/internal/scoring"
)

// QuizOutcome is what a submission produced.
type QuizOutcome struct {
	Result     scoring.QuizResult     `json:"result"`
	Normalized quiz.NormalizedAnswers `json:"normalized"`
	Profile    profile.Profile        `json:"profile"`
}

// SubmitQuiz normalizes and scores raw answers, then stores the submission, the result
// and the updated profile together.
func (a *App) SubmitQuiz(ctx context.Context, userID string, raw quiz.RawAnswers) (*QuizOutcome, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	normalized := a.normalizer.Normalize(raw)
	result, update := a.engine.Evaluate(userID, normalized)

	p, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &profile.Profile{UserID: userID}
	}
	p.Apply(update)
	p.UpdatedAt = result.CreatedAt

	sub := profile.Submission{
		ID:         uuid.NewString(),
		UserID:     userID,
		Raw:        raw,
		Normalized: normalized,
		CreatedAt:  result.CreatedAt,
	}
	if err := a.profiles.SaveQuiz(ctx, sub, result, *p); err != nil {
		return nil, fmt.Errorf("failed to save quiz: %w", err)
	}

	a.log.Info("quiz submitted",
		"user_id", userID,
		"bmi", result.BMI,
		"goal", result.Goal,
		"recommended_calories", result.RecommendedCalories,
	)
	return &QuizOutcome{Result: result, Normalized: normalized, Profile: *p}, nil
}

// LatestQuizResult returns the newest result, or planner.ErrQuizIncomplete when the
// user never submitted the quiz.
func (a *App) LatestQuizResult(ctx context.Context, userID string) (*scoring.QuizResult, error) {
	res, err := a.profiles.LatestResult(ctx, userID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, planner.ErrQuizIncomplete
	}
	return res, nil
}

// Profile returns the stored profile of userID.
func (a *App) Profile(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}
