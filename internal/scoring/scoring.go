// Package scoring derives energy and macronutrient targets from normalized quiz answers.
// Everything here is deterministic; missing inputs fall back to documented defaults.
package scoring

import (
	"math"

	"meal-planner/internal/shared"
)

const (
	DefaultHeightCm       = 170.0
	DefaultWeightKg       = 70.0
	DefaultTargetWeightKg = 65.0
	DefaultAge            = 30
	DefaultActivity       = shared.ActivityModerate

	// MinCalories is the lowest daily target ever recommended.
	MinCalories = 1200

	deficitKcal     = 500
	surplusKcal     = 300
	maintainBandKg  = 2.0
	unknownActivity = 1.2
)

type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

var activityMultipliers = map[shared.ActivityLevel]float64{
	shared.ActivitySedentary: 1.2,
	shared.ActivityLight:     1.375,
	shared.ActivityModerate:  1.55,
	shared.ActivityActive:    1.725,
	shared.ActivityAthlete:   1.9,
}

// BMI returns weight / height² rounded to one decimal.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

func CategoryFor(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// BMR uses Mifflin-St Jeor. Anyone not reported as female gets the male constant.
func BMR(weightKg, heightCm float64, age int, gender shared.Gender) int {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == shared.GenderFemale {
		bmr -= 161
	} else {
		bmr += 5
	}
	return int(math.Round(bmr))
}

// ActivityMultiplier returns the TDEE factor for level, 1.2 when the level is unknown.
func ActivityMultiplier(level shared.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return unknownActivity
}

func TDEE(bmr int, level shared.ActivityLevel) int {
	return int(math.Round(float64(bmr) * ActivityMultiplier(level)))
}

func ClassifyGoal(currentKg, targetKg float64) shared.Goal {
	switch {
	case math.Abs(targetKg-currentKg) < maintainBandKg:
		return shared.GoalMaintain
	case targetKg < currentKg:
		return shared.GoalLose
	default:
		return shared.GoalGain
	}
}

// RecommendedCalories applies the goal adjustment to tdee. The result is never below MinCalories.
func RecommendedCalories(tdee int, goal shared.Goal) int {
	kcal := tdee
	switch goal {
	case shared.GoalLose:
		kcal = tdee - deficitKcal
	case shared.GoalGain:
		kcal = tdee + surplusKcal
	}
	if kcal < MinCalories {
		return MinCalories
	}
	return kcal
}
