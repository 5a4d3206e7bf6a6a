package mealtemplate

import (
	"testing"

	"meal-planner/internal/profile"
	"meal-planner/internal/shared"
)

func intPtr(v int) *int { return &v }

func TestFilter(t *testing.T) {
	catalog := []Template{
		{ID: "med-simple", Category: Lunch, DietPlans: []string{"Mediterranean"}, Complexity: shared.ComplexitySimple, CookingTimeMinutes: 15},
		{ID: "med-medium", Category: Lunch, DietPlans: []string{"mediterranean", "anti-inflammatory"}, Complexity: shared.ComplexityMedium, CookingTimeMinutes: 40},
		{ID: "med-complex", Category: Dinner, DietPlans: []string{"mediterranean"}, Complexity: shared.ComplexityComplex, CookingTimeMinutes: 90},
		{ID: "carnivore", Category: Dinner, DietPlans: []string{"carnivore"}, Complexity: shared.ComplexitySimple, CookingTimeMinutes: 20},
		{ID: "unknown-complexity", Category: Snack, DietPlans: []string{"mediterranean"}, CookingTimeMinutes: 5},
		{ID: "peanut", Category: Snack, DietPlans: []string{"mediterranean"}, Allergens: []string{"Peanuts"}, Complexity: shared.ComplexitySimple},
		{ID: "mushroom", Category: Dinner, DietPlans: []string{"mediterranean"}, AvoidedIngredients: []string{"mushrooms"}, Complexity: shared.ComplexitySimple},
	}

	ids := func(ts []Template) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	tests := []struct {
		name    string
		profile profile.Profile
		want    []string
	}{
		{
			name:    "No preferences keeps everything within the default time cap",
			profile: profile.Profile{},
			want:    []string{"med-simple", "med-medium", "carnivore", "unknown-complexity", "peanut", "mushroom"},
		},
		{
			name:    "Undefined diet does not filter",
			profile: profile.Profile{DietPlan: shared.DietUndefined, CookingTimeMinutes: intPtr(120)},
			want:    []string{"med-simple", "med-medium", "med-complex", "carnivore", "unknown-complexity", "peanut", "mushroom"},
		},
		{
			name:    "Diet match is case-insensitive",
			profile: profile.Profile{DietPlan: shared.DietMediterranean, CookingTimeMinutes: intPtr(120)},
			want:    []string{"med-simple", "med-medium", "med-complex", "unknown-complexity", "peanut", "mushroom"},
		},
		{
			name:    "Simple allows only simple",
			profile: profile.Profile{MealComplexity: shared.ComplexitySimple},
			want:    []string{"med-simple", "carnivore", "peanut", "mushroom"},
		},
		{
			name:    "Medium is cumulative and includes unknown complexity",
			profile: profile.Profile{MealComplexity: shared.ComplexityMedium, CookingTimeMinutes: intPtr(120)},
			want:    []string{"med-simple", "med-medium", "carnivore", "unknown-complexity", "peanut", "mushroom"},
		},
		{
			name:    "Cooking time cap",
			profile: profile.Profile{CookingTimeMinutes: intPtr(15)},
			want:    []string{"med-simple", "unknown-complexity", "peanut", "mushroom"},
		},
		{
			name:    "Allergies and avoided foods",
			profile: profile.Profile{FoodAllergies: []string{"peanuts"}, AvoidedFoods: []string{"Mushrooms"}},
			want:    []string{"med-simple", "med-medium", "carnivore", "unknown-complexity"},
		},
		{
			name:    "Nothing matches",
			profile: profile.Profile{DietPlan: shared.DietCarnivore, MealComplexity: shared.ComplexitySimple, CookingTimeMinutes: intPtr(10)},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(catalog, tt.profile)
			if got == nil {
				t.Fatal("Expected a non-nil slice")
			}
			gotIDs := ids(got)
			if len(gotIDs) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, gotIDs)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.want[i] {
					t.Fatalf("Expected %v, got %v", tt.want, gotIDs)
				}
			}
		})
	}
}

func TestFilterNeverServesAllergens(t *testing.T) {
	p := profile.Profile{FoodAllergies: []string{"PEANUTS"}}
	catalog := []Template{
		{ID: "perfect-match", Category: Lunch, Calories: 600, Allergens: []string{"peanuts", "soy"}},
		{ID: "safe", Category: Lunch, Calories: 900, Allergens: []string{"soy"}},
	}
	for _, tpl := range Filter(catalog, p) {
		if shared.ContainsFold(tpl.Allergens, "peanuts") {
			t.Fatalf("Template %s contains an allergen of the profile", tpl.ID)
		}
	}
}
