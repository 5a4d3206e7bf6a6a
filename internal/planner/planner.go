package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"meal-planner/internal/logger"
	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/profile"
	"meal-planner/internal/scoring"
	"meal-planner/internal/shared"
)

var (
	// ErrQuizIncomplete means the profile has no calorie target yet.
	ErrQuizIncomplete = errors.New("complete the quiz first")
	// ErrNoSuitableTemplates means the filtered catalog cannot fill the plan.
	ErrNoSuitableTemplates = errors.New("no suitable meal templates for your preferences")
)

const (
	// DefaultMealsPerDay is used when the profile does not set a meal count.
	DefaultMealsPerDay = 3
	snackTag           = "snack"
)

// Generator builds weekly plans with a greedy nearest-target pick per slot.
// It holds no state besides its logger and clock and is safe for concurrent use.
type Generator struct {
	log *logger.Logger
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(log *logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		log: log.With("component", "Generator"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TargetCalories returns the profile's recommended calories or ErrQuizIncomplete.
func TargetCalories(p profile.Profile) (int, error) {
	if p.RecommendedCalories == nil || *p.RecommendedCalories <= 0 {
		return 0, ErrQuizIncomplete
	}
	return *p.RecommendedCalories, nil
}

// Slots returns the meal slots of one day. Breakfast comes first unless skipped,
// then lunch (2+ meals), dinner (3+), a snack (4+) and a second snack (5+).
// A day always has at least one slot: skipping the only breakfast leaves lunch.
func Slots(mealsPerDay int, skipBreakfast bool) []mealtemplate.Category {
	var slots []mealtemplate.Category
	if !skipBreakfast {
		slots = append(slots, mealtemplate.Breakfast)
	}
	if mealsPerDay >= 2 {
		slots = append(slots, mealtemplate.Lunch)
	}
	if mealsPerDay >= 3 {
		slots = append(slots, mealtemplate.Dinner)
	}
	if mealsPerDay >= 4 {
		slots = append(slots, mealtemplate.Snack)
	}
	if mealsPerDay >= 5 {
		slots = append(slots, mealtemplate.Snack)
	}
	if len(slots) == 0 {
		slots = append(slots, mealtemplate.Lunch)
	}
	return slots
}

// Score is the calorie-equivalent distance of a template from a slot target.
// Macro gram deltas are weighted 4/9/4 so every term is in kcal.
func Score(t mealtemplate.Template, budget float64, perSlot shared.Nutrients) float64 {
	return math.Abs(t.Calories-budget) +
		4*math.Abs(t.Protein-perSlot.Protein) +
		9*math.Abs(t.Fat-perSlot.Fat) +
		4*math.Abs(t.Carbs-perSlot.Carbs)
}

// Generate fills DaysPerPlan days starting at start from templates, which are expected
// to be filtered for the profile already. Catalog order breaks score ties.
func (g *Generator) Generate(templates []mealtemplate.Template, p profile.Profile, targetCalories int, start time.Time) (*WeeklyMealPlan, error) {
	if targetCalories <= 0 {
		return nil, ErrQuizIncomplete
	}
	if len(templates) == 0 {
		return nil, ErrNoSuitableTemplates
	}

	macros := targetMacros(p, targetCalories)
	slots := Slots(mealsPerDay(p), p.SkipBreakfast != nil && *p.SkipBreakfast)
	n := float64(len(slots))
	perSlot := shared.Nutrients{
		Protein: float64(macros.Protein) / n,
		Fat:     float64(macros.Fat) / n,
		Carbs:   float64(macros.Carbs) / n,
	}

	pools := make(map[mealtemplate.Category][]int, len(slots))
	for _, slot := range slots {
		if _, ok := pools[slot]; ok {
			continue
		}
		pool := categoryPool(templates, slot)
		if len(pool) == 0 {
			return nil, fmt.Errorf("no %s templates: %w", slot, ErrNoSuitableTemplates)
		}
		pools[slot] = pool
	}

	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	plan := &WeeklyMealPlan{
		UserID:         p.UserID,
		StartDate:      start.Format(dateLayout),
		Days:           make([]DayPlan, 0, DaysPerPlan),
		TargetCalories: targetCalories,
		TargetMacros:   macros,
		GeneratedAt:    g.now().UTC(),
	}

	var week shared.Nutrients
	for d := 0; d < DaysPerPlan; d++ {
		day := DayPlan{Date: start.AddDate(0, 0, d).Format(dateLayout), Meals: make([]Meal, 0, len(slots))}
		used := make(map[int]bool, len(slots))

		for i, slot := range slots {
			budget := (float64(targetCalories) - day.DailyTotals.Calories) / float64(len(slots)-i)

			candidates := unused(pools[slot], used)
			if len(candidates) == 0 {
				candidates = pools[slot]
				msg := fmt.Sprintf("%s: not enough %s templates for variety, a meal repeats", day.Date, slot)
				plan.Warnings = append(plan.Warnings, msg)
				g.log.Warn("diversity constraint waived", "user_id", p.UserID, "date", day.Date, "slot", slot)
			}

			best, bestScore := -1, math.Inf(1)
			for _, idx := range candidates {
				if s := Score(templates[idx], budget, perSlot); s < bestScore {
					best, bestScore = idx, s
				}
			}

			t := templates[best]
			used[best] = true
			day.Meals = append(day.Meals, Meal{
				Slot:       slot,
				TemplateID: t.ID,
				Name:       t.Name,
				Nutrients:  t.Nutrients(),
				Score:      math.Round(bestScore*10) / 10,
			})
			day.DailyTotals = day.DailyTotals.Add(t.Nutrients())
		}

		week = week.Add(day.DailyTotals)
		plan.Days = append(plan.Days, day)
	}

	plan.WeeklyAverages = shared.Nutrients{
		Calories: math.Round(week.Calories / DaysPerPlan),
		Protein:  math.Round(week.Protein / DaysPerPlan),
		Fat:      math.Round(week.Fat / DaysPerPlan),
		Carbs:    math.Round(week.Carbs / DaysPerPlan),
	}
	return plan, nil
}

// targetMacros uses the stored split when it belongs to the same calorie target.
func targetMacros(p profile.Profile, calories int) shared.MacroGrams {
	if p.Macros != nil && p.RecommendedCalories != nil && *p.RecommendedCalories == calories {
		return *p.Macros
	}
	return scoring.Macros(calories, p.DietPlan)
}

func mealsPerDay(p profile.Profile) int {
	if p.MealsPerDay == nil || *p.MealsPerDay < 1 {
		return DefaultMealsPerDay
	}
	return *p.MealsPerDay
}

// categoryPool returns indexes of templates for slot in catalog order. Snack slots fall
// back to templates tagged "snack" when the catalog has no snack category entries.
func categoryPool(templates []mealtemplate.Template, slot mealtemplate.Category) []int {
	var pool []int
	for i, t := range templates {
		if t.Category == slot {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 && slot == mealtemplate.Snack {
		for i, t := range templates {
			if t.HasTag(snackTag) {
				pool = append(pool, i)
			}
		}
	}
	return pool
}

func unused(pool []int, used map[int]bool) []int {
	out := make([]int, 0, len(pool))
	for _, idx := range pool {
		if !used[idx] {
			out = append(out, idx)
		}
	}
	return out
}
