package app

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/profile"
)

// BatchReport summarizes a RegeneratePlans run.
type BatchReport struct {
	Users     int           `json:"users"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// RegeneratePlans re-scores every user's latest answers and regenerates their plan
// starting today. Users are processed one at a time; a failing user is logged and
// counted without stopping the run. Cancellation is honored between users.
func (a *App) RegeneratePlans(ctx context.Context) (BatchReport, error) {
	began := time.Now()
	var report BatchReport

	ids, err := a.profiles.ListUserIDs(ctx)
	if err != nil {
		return report, err
	}
	catalog, err := a.catalog.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load meal templates: %w", err)
	}

	a.log.Info("regenerating plans", "users", len(ids), "templates", len(catalog))
	start := a.today()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(began)
			return report, err
		}
		report.Users++
		if err := a.regenerateUser(ctx, id, catalog, start); err != nil {
			report.Failed++
			a.log.Error("plan regeneration failed", "user_id", id, "error", err)
			continue
		}
		report.Succeeded++
	}

	report.Duration = time.Since(began)
	a.log.Info("plan regeneration finished",
		"users", report.Users,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration", report.Duration,
	)
	return report, nil
}

func (a *App) regenerateUser(ctx context.Context, userID string, catalog []mealtemplate.Template, start time.Time) error {
	p, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if p == nil {
		p = &profile.Profile{UserID: userID}
	}

	sub, err := a.profiles.LatestSubmission(ctx, userID)
	if err != nil {
		return err
	}
	if sub != nil {
		// Normalize the raw answers again so alias or range changes apply.
		result, update := a.engine.Evaluate(userID, a.normalizer.Normalize(sub.Raw))
		p.Apply(update)
		p.UpdatedAt = result.CreatedAt
		if err := a.profiles.SaveResult(ctx, sub.ID, result, *p); err != nil {
			return fmt.Errorf("failed to save re-scored result: %w", err)
		}
	}

	plan, err := a.generate(ctx, *p, catalog, start)
	if err != nil {
		return err
	}
	return a.plans.Save(ctx, plan)
}
