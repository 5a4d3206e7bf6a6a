package planner

import (
	"time"

	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/shared"
)

// DaysPerPlan is the length of a generated plan.
const DaysPerPlan = 7

const dateLayout = "2006-01-02"

// Meal is one filled slot of a day.
type Meal struct {
	Slot       mealtemplate.Category `json:"slot"`
	TemplateID string                `json:"templateId"`
	Name       string                `json:"name"`
	shared.Nutrients
	// Score is the calorie-equivalent distance from the slot's target; lower is closer.
	Score float64 `json:"score"`
}

// DayPlan represents the plan for a single day.
type DayPlan struct {
	Date        string           `json:"date"`
	Meals       []Meal           `json:"meals"`
	DailyTotals shared.Nutrients `json:"dailyTotals"`
}

// WeeklyMealPlan is a generated week of meals for one user.
type WeeklyMealPlan struct {
	UserID         string            `json:"userId"`
	StartDate      string            `json:"startDate"`
	Days           []DayPlan         `json:"days"`
	WeeklyAverages shared.Nutrients  `json:"weeklyAverages"`
	TargetCalories int               `json:"targetCalories"`
	TargetMacros   shared.MacroGrams `json:"targetMacros"`
	Warnings       []string          `json:"warnings,omitempty"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}

// TemplateIDs returns the distinct template ids used in the plan, in first-use order.
func (p *WeeklyMealPlan) TemplateIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, d := range p.Days {
		for _, m := range d.Meals {
			if _, ok := seen[m.TemplateID]; ok {
				continue
			}
			seen[m.TemplateID] = struct{}{}
			ids = append(ids, m.TemplateID)
		}
	}
	return ids
}

// Day returns the plan for date, or nil when the date is outside the plan.
func (p *WeeklyMealPlan) Day(date time.Time) *DayPlan {
	key := date.Format(dateLayout)
	for i := range p.Days {
		if p.Days[i].Date == key {
			return &p.Days[i]
		}
	}
	return nil
}
