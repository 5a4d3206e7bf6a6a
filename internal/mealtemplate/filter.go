package mealtemplate

import (
	"meal-planner/internal/profile"
	"meal-planner/internal/shared"
)

// DefaultCookingTimeCap applies when the profile states no cooking time.
const DefaultCookingTimeCap = 60

// Filter returns the templates of catalog the profile can eat, in catalog order.
// The result is empty, never nil, when nothing matches.
func Filter(catalog []Template, p profile.Profile) []Template {
	out := make([]Template, 0, len(catalog))
	for _, t := range catalog {
		if Compatible(t, p) {
			out = append(out, t)
		}
	}
	return out
}

// Compatible reports whether a single template satisfies every profile constraint.
func Compatible(t Template, p profile.Profile) bool {
	if p.DietPlan.IsSet() && !shared.ContainsFold(t.DietPlans, string(p.DietPlan)) {
		return false
	}
	if t.CookingTimeMinutes > cookingTimeCap(p) {
		return false
	}
	if complexityRank(t.Complexity) > allowedComplexity(p.MealComplexity) {
		return false
	}
	if shared.IntersectsFold(t.Allergens, p.FoodAllergies) {
		return false
	}
	if shared.IntersectsFold(t.AvoidedIngredients, p.AvoidedFoods) {
		return false
	}
	return true
}

func cookingTimeCap(p profile.Profile) int {
	if p.CookingTimeMinutes != nil {
		return *p.CookingTimeMinutes
	}
	return DefaultCookingTimeCap
}

// Templates without a known complexity count as medium.
func complexityRank(c shared.Complexity) int {
	if r := c.Rank(); r > 0 {
		return r
	}
	return shared.ComplexityMedium.Rank()
}

// Preferences are cumulative; no stated preference allows everything.
func allowedComplexity(pref shared.Complexity) int {
	if r := pref.Rank(); r > 0 {
		return r
	}
	return shared.ComplexityComplex.Rank()
}
