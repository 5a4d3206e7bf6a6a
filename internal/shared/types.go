// Package shared holds the vocabulary used by the quiz, scoring, catalog and planner packages.
package shared

import "strings"

// ActivityLevel is the self-reported physical activity bucket.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
	ActivityAthlete   ActivityLevel = "athlete"
)

var activityLevels = []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityAthlete}

func (a ActivityLevel) Valid() bool {
	for _, v := range activityLevels {
		if a == v {
			return true
		}
	}
	return false
}

// DietPlan is the diet the user follows. DietUndefined means "no preference".
type DietPlan string

const (
	DietMediterranean    DietPlan = "mediterranean"
	DietCarnivore        DietPlan = "carnivore"
	DietAntiInflammatory DietPlan = "anti-inflammatory"
	DietUndefined        DietPlan = "undefined"
)

func (d DietPlan) Valid() bool {
	switch d {
	case DietMediterranean, DietCarnivore, DietAntiInflammatory, DietUndefined:
		return true
	}
	return false
}

// IsSet reports whether the plan restricts the template catalog.
func (d DietPlan) IsSet() bool {
	return d != "" && d != DietUndefined
}

// Complexity is how involved a meal is to prepare.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

func (c Complexity) Valid() bool {
	return c.Rank() > 0
}

// Rank orders complexities from easiest (1) to hardest (3); unknown values rank 0.
func (c Complexity) Rank() int {
	switch Complexity(strings.ToLower(string(c))) {
	case ComplexitySimple:
		return 1
	case ComplexityMedium:
		return 2
	case ComplexityComplex:
		return 3
	}
	return 0
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Goal is the weight direction derived from current and target weight.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// MacroGrams is a daily macronutrient allocation in whole grams.
type MacroGrams struct {
	Protein int `json:"protein"`
	Fat     int `json:"fat"`
	Carbs   int `json:"carbs"`
}

// Calories returns the energy content of the allocation (4/9/4 kcal per gram).
func (m MacroGrams) Calories() int {
	return m.Protein*4 + m.Fat*9 + m.Carbs*4
}

// Nutrients is the energy and macro content of a meal or a set of meals.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Fat:      n.Fat + o.Fat,
		Carbs:    n.Carbs + o.Carbs,
	}
}

// ContainsFold reports whether list holds s, ignoring case and surrounding space.
func ContainsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}

// IntersectsFold reports whether a and b share at least one element, ignoring case.
func IntersectsFold(a, b []string) bool {
	for _, v := range a {
		if ContainsFold(b, v) {
			return true
		}
	}
	return false
}
