package quiz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"meal-planner/internal/shared"
)

// Normalizer maps questionnaire payloads of any historical version onto NormalizedAnswers.
// It is safe for concurrent use; the alias tables are compiled once and never mutated.
type Normalizer struct {
	tables *lookupTables
	now    func() time.Time
}

type Option func(*Normalizer)

// WithClock sets the clock used to validate birth dates.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

func NewNormalizer(aliases Aliases, opts ...Option) (*Normalizer, error) {
	tables, err := compileAliases(aliases)
	if err != nil {
		return nil, fmt.Errorf("failed to compile alias tables: %w", err)
	}
	n := &Normalizer{tables: tables, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// NewDefaultNormalizer builds a Normalizer with the embedded alias tables.
func NewDefaultNormalizer(opts ...Option) (*Normalizer, error) {
	aliases, err := DefaultAliases()
	if err != nil {
		return nil, err
	}
	return NewNormalizer(aliases, opts...)
}

const (
	waterMlPerKg    = 30
	minWaterGoalMl  = 1500
	maxWaterGoalMl  = 4500
	routineScaleTop = 6
)

var (
	heightRange   = between(80, 250)
	weightRange   = between(35, 300)
	sleepRange    = between(0, 24)
	scaleRange    = betweenInt(1, 5)
	ageRange      = betweenInt(10, 120)
	mealsRange    = betweenInt(1, 6)
	cookingRange  = betweenInt(5, 240)
	waterRange    = betweenInt(0, 10000)
	waterGoal     = betweenInt(500, 10000)
	workoutsRange = betweenInt(0, 21)
	stepsRange    = betweenInt(0, 100000)
)

func nonEmpty(s []string) bool { return len(s) > 0 }

// Normalize never fails: anything it cannot read or that is out of range is left absent.
func (n *Normalizer) Normalize(raw RawAnswers) NormalizedAnswers {
	a := newAnswers(raw)
	t := n.tables
	var out NormalizedAnswers

	out.HeightCm = ptr(firstOf(a, heightRange,
		length("cm", "heightCm"),
		length("m", "heightM", "heightMeters"),
		feetAndInches([]string{"heightFt", "heightFeet", "feet"}, []string{"heightIn", "heightInch", "heightInches", "inches"}),
		length("in", "heightInches", "heightIn"),
		length("cm", "height", "bodyHeight"),
	))

	out.WeightKg = ptr(firstOf(a, weightRange,
		mass("kg", "weightKg"),
		mass("lb", "weightLbs", "weightLb", "weightPounds"),
		mass("kg", "weight", "currentWeight", "bodyWeight"),
	))

	out.TargetWeightKg = ptr(firstOf(a, weightRange,
		mass("kg", "targetWeightKg"),
		mass("lb", "targetWeightLbs", "goalWeightLbs", "targetWeightLb"),
		mass("kg", "targetWeight", "goalWeight", "desiredWeight", "idealWeight"),
	))

	out.Gender, _ = firstOf(a, nil, enumOf[shared.Gender](t.gender, "gender", "sex"))
	out.BirthDate = ptr(firstOf(a, n.plausibleBirthDate, birthDate("birthDate", "dateOfBirth", "dob", "birthday")))
	out.Age = ptr(firstOf(a, ageRange, integer(lenientNumber("age", "ageYears"))))

	out.WorkoutsPerWeek = ptr(firstOf(a, workoutsRange,
		integer(lenientNumber("workoutsPerWeek", "exerciseFrequency", "trainingDays", "workouts"))))
	out.ActivityLevel, _ = firstOf(a, nil,
		enumOf[shared.ActivityLevel](t.activity, "activityLevel", "activity", "lifestyle", "physicalActivity"),
		derive(activityFromWorkouts, out.WorkoutsPerWeek),
	)
	out.StepsPerDay = ptr(firstOf(a, stepsRange, integer(lenientNumber("stepsPerDay", "dailySteps", "steps"))))

	out.DietPlan, _ = firstOf(a, nil, enumOf[shared.DietPlan](t.diet, "dietPlan", "diet", "dietType", "eatingStyle"))
	out.MealsPerDay = ptr(firstOf(a, mealsRange, integer(lenientNumber("mealsPerDay", "mealsCount", "meals", "mealFrequency"))))
	out.SkipBreakfast = ptr(firstOf(a, nil,
		boolean(t.booleans, "skipBreakfast", "skipsBreakfast"),
		negated(boolean(t.booleans, "eatsBreakfast", "breakfast")),
	))
	out.CookingTimeMinutes = ptr(firstOf(a, cookingRange,
		integer(minutes("cookingTimeMinutes", "cookingTime", "maxCookingTime", "prepTime", "timeToCook"))))
	out.MealComplexity, _ = firstOf(a, nil,
		enumOf[shared.Complexity](t.complexity, "mealComplexity", "complexity", "cookingStyle", "cookingSkill", "cookingLevel"))
	out.Allergies, _ = firstOf(a, nonEmpty, stringSet(t.empty, "allergies", "foodAllergies", "allergens", "allergy"))
	out.AvoidedFoods, _ = firstOf(a, nonEmpty,
		stringSet(t.empty, "avoidedFoods", "foodsToAvoid", "dislikedFoods", "dislikes", "excludedFoods"))

	out.SleepQuality = ptr(firstOf(a, scaleRange, scale(t.scale, "sleepQuality", "sleepRating")))
	out.SleepHours = ptr(firstOf(a, sleepRange,
		lenientNumber("sleepHours", "hoursOfSleep", "sleepDuration", "sleep"),
		derive(func(q int) (float64, bool) {
			h, ok := t.sleepHours[q]
			return h, ok
		}, out.SleepQuality),
	))
	out.StressLevel = ptr(firstOf(a, scaleRange, scale(t.scale, "stressLevel", "stress")))
	out.RoutineConfidence = ptr(firstOf(a, scaleRange,
		scale(t.scale, "routineConfidence", "confidence"),
		derive(func(stress int) (int, bool) { return routineScaleTop - stress, true }, out.StressLevel),
	))

	out.WaterIntakeMl = ptr(firstOf(a, waterRange,
		integer(volumeMl("waterIntakeMl", "waterIntake", "water", "dailyWater")),
		integer(scaled(number("waterIntakeL", "waterLiters", "waterLitres"), 1000)),
		integer(scaled(number("waterGlasses", "glassesOfWater"), mlPerCup)),
	))
	out.WaterGoalMl = ptr(firstOf(a, waterGoal,
		integer(volumeMl("waterGoalMl", "waterGoal", "waterTarget")),
		derive(waterGoalFromWeight, out.WeightKg),
	))

	out.Smoker = ptr(firstOf(a, nil, boolean(t.booleans, "smoker", "smokes", "smoking", "isSmoker")))
	out.DrinksAlcohol = ptr(firstOf(a, nil, boolean(t.booleans, "drinksAlcohol", "alcohol", "alcoholConsumption")))
	out.SnacksBetweenMeals = ptr(firstOf(a, nil, boolean(t.booleans, "snacksBetweenMeals", "snacking", "snacks")))
	out.EmotionalEating = ptr(firstOf(a, nil, boolean(t.booleans, "emotionalEating", "stressEating")))
	out.ComfortSource, _ = firstOf(a, nil,
		enumOf[ComfortSource](t.comfortSource, "comfortSource", "copingStrategy", "stressRelief"))

	return out
}

// derive turns an already resolved field into an extractor for a dependent one.
func derive[S, T any](fn func(S) (T, bool), src *S) extractor[T] {
	return func(answers) (T, bool) {
		if src == nil {
			var zero T
			return zero, false
		}
		return fn(*src)
	}
}

func activityFromWorkouts(perWeek int) (shared.ActivityLevel, bool) {
	switch {
	case perWeek <= 0:
		return shared.ActivitySedentary, true
	case perWeek <= 2:
		return shared.ActivityLight, true
	case perWeek <= 4:
		return shared.ActivityModerate, true
	case perWeek <= 6:
		return shared.ActivityActive, true
	default:
		return shared.ActivityAthlete, true
	}
}

func waterGoalFromWeight(kg float64) (int, bool) {
	ml := math.Round(kg * waterMlPerKg)
	return int(math.Max(minWaterGoalMl, math.Min(maxWaterGoalMl, ml))), true
}

var dateLayouts = []string{dateLayout, time.RFC3339, "2006/01/02", "02.01.2006", "2006-01-02T15:04:05"}

func birthDate(keys ...string) extractor[Date] {
	return func(a answers) (Date, bool) {
		s, ok := text(keys...)(a)
		if !ok {
			return Date{}, false
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return NewDate(ts.Year(), ts.Month(), ts.Day()), true
			}
		}
		return Date{}, false
	}
}

func (n *Normalizer) plausibleBirthDate(d Date) bool {
	return ageRange(d.AgeAt(n.now()))
}
