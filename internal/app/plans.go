package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/profile"
	"meal-planner/internal/shopping"
)

// GenerateWeeklyPlan builds a fresh plan for userID starting at start and stores it
// as the user's current snapshot.
func (a *App) GenerateWeeklyPlan(ctx context.Context, userID string, start time.Time) (*planner.WeeklyMealPlan, error) {
	p, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, planner.ErrQuizIncomplete
	}

	catalog, err := a.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal templates: %w", err)
	}

	plan, err := a.generate(ctx, *p, catalog, start)
	if err != nil {
		return nil, err
	}

	// The plan is valid even if the snapshot cannot be stored.
	if err := a.plans.Save(ctx, plan); err != nil {
		a.log.Warn("failed to store plan snapshot", "user_id", userID, "error", err)
	}
	return plan, nil
}

// generate filters catalog for p, runs the generator and records a metric.
func (a *App) generate(ctx context.Context, p profile.Profile, catalog []mealtemplate.Template, start time.Time) (*planner.WeeklyMealPlan, error) {
	began := time.Now()
	filtered := mealtemplate.Filter(catalog, p)

	var plan *planner.WeeklyMealPlan
	target, err := planner.TargetCalories(p)
	if err == nil {
		plan, err = a.generator.Generate(filtered, p, target, start)
	}

	m := metrics.GenerationMetric{
		UserID:              p.UserID,
		Outcome:             outcomeOf(err),
		Latency:             time.Since(began),
		TemplatesConsidered: len(filtered),
	}
	if plan != nil {
		m.Warnings = len(plan.Warnings)
	}
	if recErr := a.metrics.Record(ctx, m); recErr != nil {
		a.log.Warn("failed to record generation metric", "user_id", p.UserID, "error", recErr)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}
	return plan, nil
}

func outcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, planner.ErrQuizIncomplete):
		return metrics.OutcomeQuizIncomplete
	case errors.Is(err, planner.ErrNoSuitableTemplates):
		return metrics.OutcomeNoTemplates
	default:
		return metrics.OutcomeError
	}
}

// CurrentPlan regenerates the user's plan from the current profile and catalog on every
// call. A stored week that covers today keeps its start date; otherwise the week starts
// today.
func (a *App) CurrentPlan(ctx context.Context, userID string) (*planner.WeeklyMealPlan, error) {
	start := a.today()
	prev, err := a.plans.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.Day(start) != nil {
		if s, err := time.Parse(time.DateOnly, prev.StartDate); err == nil {
			start = s
		}
	}
	return a.GenerateWeeklyPlan(ctx, userID, start)
}

// ShoppingList aggregates the ingredients of the user's current plan.
func (a *App) ShoppingList(ctx context.Context, userID string) (*shopping.ShoppingList, error) {
	plan, err := a.CurrentPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := a.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal templates: %w", err)
	}
	list := shopping.BuildList(plan, catalog)
	return &list, nil
}
