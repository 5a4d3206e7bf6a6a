package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	plandb "meal-planner/internal/planner/plan_db"
)

// PlanRepository keeps the latest generated plan per user. Saving replaces the
// previous snapshot.
type PlanRepository struct {
	queries *plandb.Queries
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{
		queries: plandb.New(d),
	}
}

// Save stores plan as the user's current snapshot.
func (r *PlanRepository) Save(ctx context.Context, plan *WeeklyMealPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan to JSON: %w", err)
	}
	err = r.queries.UpsertMealPlan(ctx, plandb.UpsertMealPlanParams{
		UserID:    plan.UserID,
		StartDate: plan.StartDate,
		Data:      string(data),
		CreatedAt: plan.GeneratedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save meal plan for user %s: %w", plan.UserID, err)
	}
	return nil
}

// Latest returns the user's stored plan, or nil when none was generated yet.
func (r *PlanRepository) Latest(ctx context.Context, userID string) (*WeeklyMealPlan, error) {
	row, err := r.queries.GetMealPlan(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan for user %s: %w", userID, err)
	}

	var plan WeeklyMealPlan
	if err := json.Unmarshal([]byte(row.Data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan JSON: %w", err)
	}
	return &plan, nil
}

// Delete drops the user's snapshot, e.g. when their preferences no longer yield a plan.
func (r *PlanRepository) Delete(ctx context.Context, userID string) error {
	if err := r.queries.DeleteMealPlan(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete meal plan for user %s: %w", userID, err)
	}
	return nil
}
