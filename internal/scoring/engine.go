package scoring

import (
	"time"

	"github.com/google/uuid"

	"meal-planner/internal/quiz"
	"meal-planner/internal/shared"
)

// QuizResult is the immutable outcome of one quiz submission.
type QuizResult struct {
	ID                  string            `json:"id"`
	UserID              string            `json:"userId"`
	BMI                 float64           `json:"bmi"`
	BMICategory         BMICategory       `json:"bmiCategory"`
	BMR                 int               `json:"bmr"`
	TDEE                int               `json:"tdee"`
	RecommendedCalories int               `json:"recommendedCalories"`
	Macros              shared.MacroGrams `json:"macros"`
	Goal                shared.Goal       `json:"goal"`
	Advice              []string          `json:"advice"`
	CreatedAt           time.Time         `json:"createdAt"`
}

// ProfileUpdate carries the planning inputs a caller should upsert into the user's profile.
// Nil and empty fields mean "not answered" and must not overwrite stored values.
type ProfileUpdate struct {
	UserID              string
	HeightCm            *float64
	WeightKg            *float64
	TargetWeightKg      *float64
	Gender              shared.Gender
	ActivityLevel       shared.ActivityLevel
	DietPlan            shared.DietPlan
	MealsPerDay         *int
	SkipBreakfast       *bool
	CookingTimeMinutes  *int
	MealComplexity      shared.Complexity
	FoodAllergies       []string
	AvoidedFoods        []string
	RecommendedCalories int
	Macros              shared.MacroGrams
	Goal                shared.Goal
}

// Engine evaluates normalized answers. It holds nothing but a clock.
type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Inputs are the resolved physiological values, defaults already applied.
type Inputs struct {
	HeightCm       float64
	WeightKg       float64
	TargetWeightKg float64
	Age            int
	Gender         shared.Gender
	ActivityLevel  shared.ActivityLevel
}

// Resolve applies the documented defaults to whatever the answers leave out.
func (e *Engine) Resolve(a quiz.NormalizedAnswers) Inputs {
	in := Inputs{
		HeightCm:       DefaultHeightCm,
		WeightKg:       DefaultWeightKg,
		TargetWeightKg: DefaultTargetWeightKg,
		Age:            DefaultAge,
		Gender:         a.Gender,
		ActivityLevel:  DefaultActivity,
	}
	if a.HeightCm != nil {
		in.HeightCm = *a.HeightCm
	}
	if a.WeightKg != nil {
		in.WeightKg = *a.WeightKg
	}
	if a.TargetWeightKg != nil {
		in.TargetWeightKg = *a.TargetWeightKg
	}
	switch {
	case a.BirthDate != nil:
		in.Age = a.BirthDate.AgeAt(e.now())
	case a.Age != nil:
		in.Age = *a.Age
	}
	if a.ActivityLevel != "" {
		in.ActivityLevel = a.ActivityLevel
	}
	return in
}

// Evaluate scores the answers. It never fails and never persists anything.
func (e *Engine) Evaluate(userID string, a quiz.NormalizedAnswers) (QuizResult, ProfileUpdate) {
	in := e.Resolve(a)

	bmi := BMI(in.WeightKg, in.HeightCm)
	bmr := BMR(in.WeightKg, in.HeightCm, in.Age, in.Gender)
	tdee := TDEE(bmr, in.ActivityLevel)
	goal := ClassifyGoal(in.WeightKg, in.TargetWeightKg)
	calories := RecommendedCalories(tdee, goal)
	macros := Macros(calories, a.DietPlan)

	result := QuizResult{
		ID:                  uuid.NewString(),
		UserID:              userID,
		BMI:                 bmi,
		BMICategory:         CategoryFor(bmi),
		BMR:                 bmr,
		TDEE:                tdee,
		RecommendedCalories: calories,
		Macros:              macros,
		Goal:                goal,
		Advice:              Advice(goal, in.ActivityLevel, a),
		CreatedAt:           e.now().UTC(),
	}

	update := ProfileUpdate{
		UserID:              userID,
		HeightCm:            a.HeightCm,
		WeightKg:            a.WeightKg,
		TargetWeightKg:      a.TargetWeightKg,
		Gender:              a.Gender,
		ActivityLevel:       a.ActivityLevel,
		DietPlan:            a.DietPlan,
		MealsPerDay:         a.MealsPerDay,
		SkipBreakfast:       a.SkipBreakfast,
		CookingTimeMinutes:  a.CookingTimeMinutes,
		MealComplexity:      a.MealComplexity,
		FoodAllergies:       a.Allergies,
		AvoidedFoods:        a.AvoidedFoods,
		RecommendedCalories: calories,
		Macros:              macros,
		Goal:                goal,
	}
	return result, update
}
