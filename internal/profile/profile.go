package profile

import (
	"time"

	"meal-planner/internal/quiz"
	"meal-planner/internal/scoring"
	"meal-planner/internal/shared"
)

// Profile is the planning state kept per user. It is rebuilt from quiz results
// and read by template filtering and plan generation.
type Profile struct {
	UserID              string               `json:"userId"`
	HeightCm            *float64             `json:"heightCm,omitempty"`
	WeightKg            *float64             `json:"weightKg,omitempty"`
	TargetWeightKg      *float64             `json:"targetWeightKg,omitempty"`
	Gender              shared.Gender        `json:"gender,omitempty"`
	ActivityLevel       shared.ActivityLevel `json:"activityLevel,omitempty"`
	DietPlan            shared.DietPlan      `json:"dietPlan,omitempty"`
	RecommendedCalories *int                 `json:"recommendedCalories,omitempty"`
	Macros              *shared.MacroGrams   `json:"macros,omitempty"`
	Goal                shared.Goal          `json:"goal,omitempty"`
	FoodAllergies       []string             `json:"foodAllergies,omitempty"`
	AvoidedFoods        []string             `json:"avoidedFoods,omitempty"`
	MealComplexity      shared.Complexity    `json:"mealComplexity,omitempty"`
	CookingTimeMinutes  *int                 `json:"cookingTimeMinutes,omitempty"`
	MealsPerDay         *int                 `json:"mealsPerDay,omitempty"`
	SkipBreakfast       *bool                `json:"skipBreakfast,omitempty"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

// Apply merges a scoring update. Answered fields overwrite, unanswered ones keep
// their stored value. Calories always come from the newest result; macros are
// split for the merged diet plan, which may be a stored one the update omitted.
func (p *Profile) Apply(u scoring.ProfileUpdate) {
	if u.UserID != "" {
		p.UserID = u.UserID
	}
	if u.HeightCm != nil {
		p.HeightCm = u.HeightCm
	}
	if u.WeightKg != nil {
		p.WeightKg = u.WeightKg
	}
	if u.TargetWeightKg != nil {
		p.TargetWeightKg = u.TargetWeightKg
	}
	if u.Gender != "" {
		p.Gender = u.Gender
	}
	if u.ActivityLevel != "" {
		p.ActivityLevel = u.ActivityLevel
	}
	if u.DietPlan != "" {
		p.DietPlan = u.DietPlan
	}
	if u.MealsPerDay != nil {
		p.MealsPerDay = u.MealsPerDay
	}
	if u.SkipBreakfast != nil {
		p.SkipBreakfast = u.SkipBreakfast
	}
	if u.CookingTimeMinutes != nil {
		p.CookingTimeMinutes = u.CookingTimeMinutes
	}
	if u.MealComplexity != "" {
		p.MealComplexity = u.MealComplexity
	}
	if len(u.FoodAllergies) > 0 {
		p.FoodAllergies = u.FoodAllergies
	}
	if len(u.AvoidedFoods) > 0 {
		p.AvoidedFoods = u.AvoidedFoods
	}

	calories := u.RecommendedCalories
	macros := scoring.Macros(calories, p.DietPlan)
	p.RecommendedCalories = &calories
	p.Macros = &macros
	p.Goal = u.Goal
}

// Submission is one stored questionnaire, raw and normalized.
type Submission struct {
	ID         string
	UserID     string
	Raw        quiz.RawAnswers
	Normalized quiz.NormalizedAnswers
	CreatedAt  time.Time
}
