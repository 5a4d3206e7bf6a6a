package app

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"meal-planner/internal/ghost"
	"meal-planner/internal/planner"
)

var planHTML = template.Must(template.New("plan").Funcs(template.FuncMap{
	"kcal": func(f float64) string { return fmt.Sprintf("%.0f kcal", f) },
	"g":    func(f float64) string { return fmt.Sprintf("%.0f g", f) },
}).Parse(`<p>Target: {{.TargetCalories}} kcal, protein {{.TargetMacros.Protein}} g, fat {{.TargetMacros.Fat}} g, carbs {{.TargetMacros.Carbs}} g.</p>
{{range .Days}}<h2>{{.Date}}</h2>
<ul>
{{range .Meals}}<li><strong>{{.Slot}}</strong>: {{.Name}} ({{kcal .Calories}}, P {{g .Protein}}, F {{g .Fat}}, C {{g .Carbs}}, score {{.Score}})</li>
{{end}}</ul>
<p>Total: {{kcal .DailyTotals.Calories}}</p>
{{end}}<h2>Weekly averages</h2>
<p>{{kcal .WeeklyAverages.Calories}}, P {{g .WeeklyAverages.Protein}}, F {{g .WeeklyAverages.Fat}}, C {{g .WeeklyAverages.Carbs}}</p>
{{if .Warnings}}<h2>Warnings</h2>
<ul>
{{range .Warnings}}<li>{{.}}</li>
{{end}}</ul>
{{end}}`))

func renderPlanHTML(plan *planner.WeeklyMealPlan) (string, error) {
	var buf bytes.Buffer
	if err := planHTML.Execute(&buf, plan); err != nil {
		return "", fmt.Errorf("failed to render plan: %w", err)
	}
	return buf.String(), nil
}

// PublishPlan posts the user's current plan to Ghost as a draft for dietitian review.
func (a *App) PublishPlan(ctx context.Context, userID string) (*ghost.Post, error) {
	if a.ghostClient == nil {
		return nil, ErrGhostUnavailable
	}
	plan, err := a.CurrentPlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	html, err := renderPlanHTML(plan)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Meal plan for %s, week of %s", plan.UserID, plan.StartDate)
	post, err := a.ghostClient.CreatePost(ctx, title, html, false)
	if err != nil {
		return nil, fmt.Errorf("failed to publish plan: %w", err)
	}

	a.log.Info("plan published for review", "user_id", userID, "post_id", post.ID)
	return post, nil
}
