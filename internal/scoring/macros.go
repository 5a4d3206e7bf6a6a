package scoring

import (
	"math"

	"meal-planner/internal/shared"
)

// MacroSplit is the share of calories assigned to each macronutrient, in percent.
type MacroSplit struct {
	Protein int `json:"protein"`
	Fat     int `json:"fat"`
	Carbs   int `json:"carbs"`
}

var (
	defaultSplit = MacroSplit{Protein: 25, Fat: 30, Carbs: 45}
	dietSplits   = map[shared.DietPlan]MacroSplit{
		shared.DietMediterranean:    {Protein: 20, Fat: 35, Carbs: 45},
		shared.DietCarnivore:        {Protein: 35, Fat: 60, Carbs: 5},
		shared.DietAntiInflammatory: {Protein: 25, Fat: 35, Carbs: 40},
	}
)

func SplitFor(diet shared.DietPlan) MacroSplit {
	if s, ok := dietSplits[diet]; ok {
		return s
	}
	return defaultSplit
}

// Macros converts a calorie target into grams. Protein and fat are rounded
// independently and carbs absorb the remainder, so the energy of the result
// stays within 2 kcal of calories.
func Macros(calories int, diet shared.DietPlan) shared.MacroGrams {
	split := SplitFor(diet)
	kcal := float64(calories)

	protein := int(math.Round(kcal * float64(split.Protein) / 100 / 4))
	fat := int(math.Round(kcal * float64(split.Fat) / 100 / 9))
	carbs := int(math.Round((kcal - float64(protein*4) - float64(fat*9)) / 4))
	if carbs < 0 {
		carbs = 0
	}
	return shared.MacroGrams{Protein: protein, Fat: fat, Carbs: carbs}
}
