package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/shared"
)

// RawAnswers is an untrusted questionnaire payload as decoded from JSON.
type RawAnswers map[string]any

// ParseRawAnswers decodes a submission body. Both a JSON object and a JSON array of
// {key, value} items are accepted; numbers are kept as json.Number.
func ParseRawAnswers(body []byte) (RawAnswers, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	switch t := v.(type) {
	case map[string]any:
		return RawAnswers(t), nil
	case []any:
		return RawAnswers{"answers": t}, nil
	default:
		return nil, fmt.Errorf("answers must be a JSON object or array, got %T", v)
	}
}

// ComfortSource is what the user turns to under stress.
type ComfortSource string

const (
	ComfortFood     ComfortSource = "food"
	ComfortSocial   ComfortSource = "social"
	ComfortActivity ComfortSource = "activity"
	ComfortRest     ComfortSource = "rest"
	ComfortOther    ComfortSource = "other"
)

func (c ComfortSource) Valid() bool {
	switch c {
	case ComfortFood, ComfortSocial, ComfortActivity, ComfortRest, ComfortOther:
		return true
	}
	return false
}

// Date is a calendar day encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// AgeAt returns the age in full years on the given day.
func (d Date) AgeAt(now time.Time) int {
	age := now.Year() - d.Year()
	if now.Month() < d.Month() || (now.Month() == d.Month() && now.Day() < d.Day()) {
		age--
	}
	return age
}

// NormalizedAnswers is the canonical profile extracted from a questionnaire.
// Absent data is nil (or the empty string for enums); lists are never empty.
type NormalizedAnswers struct {
	HeightCm       *float64 `json:"heightCm,omitempty"`
	WeightKg       *float64 `json:"weightKg,omitempty"`
	TargetWeightKg *float64 `json:"targetWeightKg,omitempty"`

	Gender    shared.Gender `json:"gender,omitempty"`
	BirthDate *Date         `json:"birthDate,omitempty"`
	Age       *int          `json:"age,omitempty"`

	ActivityLevel      shared.ActivityLevel `json:"activityLevel,omitempty"`
	DietPlan           shared.DietPlan      `json:"dietPlan,omitempty"`
	MealsPerDay        *int                 `json:"mealsPerDay,omitempty"`
	SkipBreakfast      *bool                `json:"skipBreakfast,omitempty"`
	CookingTimeMinutes *int                 `json:"cookingTimeMinutes,omitempty"`
	MealComplexity     shared.Complexity    `json:"mealComplexity,omitempty"`
	Allergies          []string             `json:"allergies,omitempty"`
	AvoidedFoods       []string             `json:"avoidedFoods,omitempty"`

	SleepHours         *float64      `json:"sleepHours,omitempty"`
	SleepQuality       *int          `json:"sleepQuality,omitempty"`
	StressLevel        *int          `json:"stressLevel,omitempty"`
	RoutineConfidence  *int          `json:"routineConfidence,omitempty"`
	WaterIntakeMl      *int          `json:"waterIntakeMl,omitempty"`
	WaterGoalMl        *int          `json:"waterGoalMl,omitempty"`
	WorkoutsPerWeek    *int          `json:"workoutsPerWeek,omitempty"`
	StepsPerDay        *int          `json:"stepsPerDay,omitempty"`
	Smoker             *bool         `json:"smoker,omitempty"`
	DrinksAlcohol      *bool         `json:"drinksAlcohol,omitempty"`
	SnacksBetweenMeals *bool         `json:"snacksBetweenMeals,omitempty"`
	EmotionalEating    *bool         `json:"emotionalEating,omitempty"`
	ComfortSource      ComfortSource `json:"comfortSource,omitempty"`
}
