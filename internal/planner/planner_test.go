package planner

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"meal-planner/internal/logger"
	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/profile"
	"meal-planner/internal/shared"
)

var (
	testStart = time.Date(2026, time.March, 2, 15, 30, 0, 0, time.UTC)
	testNow   = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
)

func newTestGenerator() *Generator {
	return NewGenerator(logger.NewNop(), WithClock(func() time.Time { return testNow }))
}

// balanced builds a template whose macros follow a 25/30/45 energy split.
func balanced(id string, category mealtemplate.Category, kcal float64) mealtemplate.Template {
	return mealtemplate.Template{
		ID:       id,
		Name:     strings.ToUpper(id[:1]) + id[1:],
		Category: category,
		Calories: kcal,
		Protein:  kcal * 0.25 / 4,
		Fat:      kcal * 0.30 / 9,
		Carbs:    kcal * 0.45 / 4,
	}
}

// energyOnly builds a template without macros so only the calorie term varies between candidates.
func energyOnly(id string, category mealtemplate.Category, kcal float64) mealtemplate.Template {
	return mealtemplate.Template{ID: id, Name: id, Category: category, Calories: kcal}
}

func testCatalog() []mealtemplate.Template {
	return []mealtemplate.Template{
		balanced("oats", mealtemplate.Breakfast, 350),
		balanced("omelette", mealtemplate.Breakfast, 450),
		balanced("pancakes", mealtemplate.Breakfast, 550),
		balanced("salad", mealtemplate.Lunch, 550),
		balanced("wrap", mealtemplate.Lunch, 650),
		balanced("burrito", mealtemplate.Lunch, 750),
		balanced("soup", mealtemplate.Dinner, 600),
		balanced("stew", mealtemplate.Dinner, 700),
		balanced("roast", mealtemplate.Dinner, 800),
		balanced("apple", mealtemplate.Snack, 150),
		balanced("nuts", mealtemplate.Snack, 250),
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestSlots(t *testing.T) {
	B, L, D, S := mealtemplate.Breakfast, mealtemplate.Lunch, mealtemplate.Dinner, mealtemplate.Snack
	tests := []struct {
		meals int
		skip  bool
		want  []mealtemplate.Category
	}{
		{1, false, []mealtemplate.Category{B}},
		{2, false, []mealtemplate.Category{B, L}},
		{3, false, []mealtemplate.Category{B, L, D}},
		{3, true, []mealtemplate.Category{L, D}},
		{4, false, []mealtemplate.Category{B, L, D, S}},
		{5, false, []mealtemplate.Category{B, L, D, S, S}},
		{6, false, []mealtemplate.Category{B, L, D, S, S}},
		{1, true, []mealtemplate.Category{L}},
	}
	for _, tt := range tests {
		if got := Slots(tt.meals, tt.skip); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Slots(%d, %v): Expected %v, got %v", tt.meals, tt.skip, tt.want, got)
		}
	}
}

func TestScore(t *testing.T) {
	tmpl := mealtemplate.Template{Calories: 500, Protein: 30, Fat: 20, Carbs: 50}
	perSlot := shared.Nutrients{Protein: 40, Fat: 15, Carbs: 60}

	// |500-600| + 4*10 + 9*5 + 4*10
	if got := Score(tmpl, 600, perSlot); got != 225 {
		t.Errorf("Expected score 225, got %v", got)
	}
}

func TestGenerate_ThreeMealsPerDay(t *testing.T) {
	p := profile.Profile{UserID: "user-1", RecommendedCalories: intPtr(2000), MealsPerDay: intPtr(3)}

	plan, err := newTestGenerator().Generate(testCatalog(), p, 2000, testStart)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(plan.Days) != DaysPerPlan {
		t.Fatalf("Expected %d days, got %d", DaysPerPlan, len(plan.Days))
	}
	if plan.StartDate != "2026-03-02" || plan.Days[6].Date != "2026-03-08" {
		t.Errorf("Expected dates 2026-03-02..2026-03-08, got %s..%s", plan.StartDate, plan.Days[6].Date)
	}
	if plan.UserID != "user-1" || !plan.GeneratedAt.Equal(testNow) {
		t.Errorf("Expected user and clock to be carried, got %q at %v", plan.UserID, plan.GeneratedAt)
	}
	if len(plan.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", plan.Warnings)
	}

	for _, day := range plan.Days {
		if len(day.Meals) != 3 {
			t.Fatalf("%s: Expected 3 meals, got %d", day.Date, len(day.Meals))
		}
		categories := map[mealtemplate.Category]bool{}
		total := 0.0
		for _, m := range day.Meals {
			categories[m.Slot] = true
			total += m.Calories
		}
		if !categories[mealtemplate.Breakfast] || !categories[mealtemplate.Lunch] || !categories[mealtemplate.Dinner] {
			t.Errorf("%s: Expected breakfast, lunch and dinner, got %v", day.Date, categories)
		}
		if day.DailyTotals.Calories != total {
			t.Errorf("%s: Expected daily calories %v, got %v", day.Date, total, day.DailyTotals.Calories)
		}
	}
}

func TestGenerate_RedistributesBudget(t *testing.T) {
	catalog := []mealtemplate.Template{
		energyOnly("small-breakfast", mealtemplate.Breakfast, 300),
		energyOnly("light-lunch", mealtemplate.Lunch, 600),
		energyOnly("big-lunch", mealtemplate.Lunch, 750),
		energyOnly("light-dinner", mealtemplate.Dinner, 500),
		energyOnly("big-dinner", mealtemplate.Dinner, 750),
	}
	p := profile.Profile{RecommendedCalories: intPtr(1800)}

	plan, err := newTestGenerator().Generate(catalog, p, 1800, testStart)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A static 600 kcal budget would pick the light lunch; the 300 kcal deficit
	// from breakfast raises the lunch and dinner budgets to 750.
	got := []string{}
	for _, m := range plan.Days[0].Meals {
		got = append(got, m.TemplateID)
	}
	want := []string{"small-breakfast", "big-lunch", "big-dinner"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if plan.Days[0].DailyTotals.Calories != 1800 {
		t.Errorf("Expected 1800 kcal, got %v", plan.Days[0].DailyTotals.Calories)
	}
}

func TestGenerate_TiesKeepCatalogOrder(t *testing.T) {
	catalog := []mealtemplate.Template{
		balanced("first", mealtemplate.Breakfast, 500),
		balanced("second", mealtemplate.Breakfast, 500),
		balanced("lunch", mealtemplate.Lunch, 700),
		balanced("dinner", mealtemplate.Dinner, 700),
	}
	p := profile.Profile{RecommendedCalories: intPtr(1900)}

	plan, err := newTestGenerator().Generate(catalog, p, 1900, testStart)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, day := range plan.Days {
		if day.Meals[0].TemplateID != "first" {
			t.Errorf("%s: Expected the first of two equal templates, got %s", day.Date, day.Meals[0].TemplateID)
		}
	}
}

func TestGenerate_Diversity(t *testing.T) {
	t.Run("Distinct snacks when available", func(t *testing.T) {
		p := profile.Profile{RecommendedCalories: intPtr(2200), MealsPerDay: intPtr(5)}
		plan, err := newTestGenerator().Generate(testCatalog(), p, 2200, testStart)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		for _, day := range plan.Days {
			if len(day.Meals) != 5 {
				t.Fatalf("%s: Expected 5 meals, got %d", day.Date, len(day.Meals))
			}
			if day.Meals[3].TemplateID == day.Meals[4].TemplateID {
				t.Errorf("%s: Expected two different snacks, got %s twice", day.Date, day.Meals[3].TemplateID)
			}
		}
		if len(plan.Warnings) != 0 {
			t.Errorf("Expected no warnings, got %v", plan.Warnings)
		}
	})

	t.Run("Repeat with a warning when the pool runs out", func(t *testing.T) {
		catalog := []mealtemplate.Template{
			balanced("oats", mealtemplate.Breakfast, 400),
			balanced("wrap", mealtemplate.Lunch, 600),
			balanced("stew", mealtemplate.Dinner, 700),
			balanced("apple", mealtemplate.Snack, 150),
		}
		p := profile.Profile{RecommendedCalories: intPtr(2000), MealsPerDay: intPtr(5)}
		plan, err := newTestGenerator().Generate(catalog, p, 2000, testStart)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		for _, day := range plan.Days {
			if day.Meals[3].TemplateID != "apple" || day.Meals[4].TemplateID != "apple" {
				t.Errorf("%s: Expected the only snack twice, got %s and %s", day.Date, day.Meals[3].TemplateID, day.Meals[4].TemplateID)
			}
		}
		if len(plan.Warnings) != DaysPerPlan {
			t.Fatalf("Expected one warning per day, got %v", plan.Warnings)
		}
		if !strings.Contains(plan.Warnings[0], "2026-03-02") || !strings.Contains(plan.Warnings[0], "snack") {
			t.Errorf("Expected the warning to name the date and slot, got %q", plan.Warnings[0])
		}
	})
}

func TestGenerate_SnackTagFallback(t *testing.T) {
	catalog := []mealtemplate.Template{
		balanced("oats", mealtemplate.Breakfast, 400),
		balanced("wrap", mealtemplate.Lunch, 600),
		balanced("stew", mealtemplate.Dinner, 700),
		balanced("bar", mealtemplate.Breakfast, 200),
	}
	catalog[3].Tags = []string{"Snack"}
	p := profile.Profile{RecommendedCalories: intPtr(1900), MealsPerDay: intPtr(4)}

	plan, err := newTestGenerator().Generate(catalog, p, 1900, testStart)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	snack := plan.Days[0].Meals[3]
	if snack.Slot != mealtemplate.Snack || snack.TemplateID != "bar" {
		t.Errorf("Expected the snack-tagged bar in the snack slot, got %+v", snack)
	}
}

func TestGenerate_SkipBreakfast(t *testing.T) {
	p := profile.Profile{RecommendedCalories: intPtr(1600), MealsPerDay: intPtr(3), SkipBreakfast: boolPtr(true)}
	plan, err := newTestGenerator().Generate(testCatalog(), p, 1600, testStart)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, m := range plan.Days[0].Meals {
		if m.Slot == mealtemplate.Breakfast {
			t.Fatalf("Expected no breakfast, got %+v", plan.Days[0].Meals)
		}
	}
	if len(plan.Days[0].Meals) != 2 {
		t.Errorf("Expected 2 meals, got %d", len(plan.Days[0].Meals))
	}
}

func TestGenerate_WeeklyAverages(t *testing.T) {
	catalog := []mealtemplate.Template{
		{ID: "b", Name: "B", Category: mealtemplate.Breakfast, Calories: 400.4, Protein: 20.2, Fat: 10.2, Carbs: 50.2},
		{ID: "l", Name: "L", Category: mealtemplate.Lunch, Calories: 600, Protein: 30, Fat: 20, Carbs: 70},
		{ID: "d", Name: "D", Category: mealtemplate.Dinner, Calories: 700, Protein: 40, Fat: 25, Carbs: 75},
	}
	p := profile.Profile{RecommendedCalories: intPtr(1700)}
	plan, err := newTestGenerator().Generate(catalog, p, 1700, testStart)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := shared.Nutrients{Calories: 1700, Protein: 90, Fat: 55, Carbs: 195}
	if plan.WeeklyAverages != want {
		t.Errorf("Expected rounded averages %+v, got %+v", want, plan.WeeklyAverages)
	}
}

func TestGenerate_TargetMacros(t *testing.T) {
	stored := shared.MacroGrams{Protein: 150, Fat: 60, Carbs: 200}

	t.Run("Stored macros for the same target", func(t *testing.T) {
		p := profile.Profile{RecommendedCalories: intPtr(1940), Macros: &stored}
		plan, err := newTestGenerator().Generate(testCatalog(), p, 1940, testStart)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if plan.TargetMacros != stored {
			t.Errorf("Expected %+v, got %+v", stored, plan.TargetMacros)
		}
	})

	t.Run("Recomputed for another target", func(t *testing.T) {
		p := profile.Profile{RecommendedCalories: intPtr(1940), Macros: &stored, DietPlan: shared.DietMediterranean}
		plan, err := newTestGenerator().Generate(testCatalog(), p, 2000, testStart)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := shared.MacroGrams{Protein: 100, Fat: 78, Carbs: 225}
		if plan.TargetMacros != want {
			t.Errorf("Expected %+v, got %+v", want, plan.TargetMacros)
		}
	})
}

func TestGenerate_Errors(t *testing.T) {
	g := newTestGenerator()
	p := profile.Profile{RecommendedCalories: intPtr(2000)}

	if _, err := g.Generate(testCatalog(), profile.Profile{}, 0, testStart); !errors.Is(err, ErrQuizIncomplete) {
		t.Errorf("Expected ErrQuizIncomplete, got %v", err)
	}
	if _, err := g.Generate(nil, p, 2000, testStart); !errors.Is(err, ErrNoSuitableTemplates) {
		t.Errorf("Expected ErrNoSuitableTemplates for an empty catalog, got %v", err)
	}

	noDinner := []mealtemplate.Template{
		balanced("oats", mealtemplate.Breakfast, 400),
		balanced("wrap", mealtemplate.Lunch, 600),
	}
	_, err := g.Generate(noDinner, p, 2000, testStart)
	if !errors.Is(err, ErrNoSuitableTemplates) {
		t.Fatalf("Expected ErrNoSuitableTemplates for a missing category, got %v", err)
	}
	if !strings.Contains(err.Error(), "dinner") {
		t.Errorf("Expected the error to name the empty slot, got %q", err)
	}
}

func TestTargetCalories(t *testing.T) {
	if _, err := TargetCalories(profile.Profile{}); !errors.Is(err, ErrQuizIncomplete) {
		t.Errorf("Expected ErrQuizIncomplete, got %v", err)
	}
	if got, err := TargetCalories(profile.Profile{RecommendedCalories: intPtr(1800)}); err != nil || got != 1800 {
		t.Errorf("Expected 1800, got %d, %v", got, err)
	}
}

func TestGenerate_EndToEnd(t *testing.T) {
	catalog := testCatalog()
	peanut := balanced("satay", mealtemplate.Lunch, 660)
	peanut.Allergens = []string{"Peanuts"}
	catalog = append([]mealtemplate.Template{peanut}, catalog...)

	p := profile.Profile{
		UserID:              "user-1",
		RecommendedCalories: intPtr(2000),
		MealsPerDay:         intPtr(3),
		FoodAllergies:       []string{"peanuts"},
	}

	filtered := mealtemplate.Filter(catalog, p)
	target, err := TargetCalories(p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	plan, err := newTestGenerator().Generate(filtered, p, target, testStart)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, day := range plan.Days {
		for _, m := range day.Meals {
			if m.TemplateID == "satay" {
				t.Fatalf("%s: Expected no peanut meals, got %s", day.Date, m.TemplateID)
			}
		}
	}
	if diff := math.Abs(plan.WeeklyAverages.Calories - 2000); diff > 200 {
		t.Errorf("Expected weekly average within 10%% of 2000 kcal, got %v", plan.WeeklyAverages.Calories)
	}
	if ids := plan.TemplateIDs(); len(ids) < 3 {
		t.Errorf("Expected at least 3 distinct templates, got %v", ids)
	}
	if day := plan.Day(testStart.AddDate(0, 0, 3)); day == nil || day.Date != "2026-03-05" {
		t.Errorf("Expected to look up the fourth day, got %+v", day)
	}
	if plan.Day(testStart.AddDate(0, 0, 7)) != nil {
		t.Error("Expected no day outside the plan")
	}
}

func profileFor(userID string, calories int) profile.Profile {
	return profile.Profile{UserID: userID, RecommendedCalories: intPtr(calories)}
}
