package mealtemplate

import (
	"fmt"
	"regexp"
	"strings"

	"meal-planner/internal/shared"
)

// Category is the meal slot a template is meant for.
type Category string

const (
	Breakfast Category = "breakfast"
	Lunch     Category = "lunch"
	Dinner    Category = "dinner"
	Snack     Category = "snack"
)

func (c Category) Valid() bool {
	switch c {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// Template is a catalog meal with its nutrition per serving.
type Template struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Category           Category          `json:"category"`
	Calories           float64           `json:"calories"`
	Protein            float64           `json:"protein"`
	Fat                float64           `json:"fat"`
	Carbs              float64           `json:"carbs"`
	DietPlans          []string          `json:"dietPlans,omitempty"`
	Allergens          []string          `json:"allergens,omitempty"`
	AvoidedIngredients []string          `json:"avoidedIngredients,omitempty"`
	Complexity         shared.Complexity `json:"complexity,omitempty"`
	CookingTimeMinutes int               `json:"cookingTimeMinutes"`
	Ingredients        []Ingredient      `json:"ingredients,omitempty"`
	Instructions       string            `json:"instructions,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
}

// Nutrients returns the energy and macros of one serving.
func (t Template) Nutrients() shared.Nutrients {
	return shared.Nutrients{Calories: t.Calories, Protein: t.Protein, Fat: t.Fat, Carbs: t.Carbs}
}

// HasTag reports whether the template carries tag, ignoring case.
func (t Template) HasTag(tag string) bool {
	return shared.ContainsFold(t.Tags, tag)
}

// Validate checks the fields every catalog entry needs.
func (t Template) Validate() error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return fmt.Errorf("template %q: name is required", t.ID)
	case !t.Category.Valid():
		return fmt.Errorf("template %q: unknown category %q", t.Name, t.Category)
	case t.Calories <= 0:
		return fmt.Errorf("template %q: calories must be positive", t.Name)
	case t.Protein < 0 || t.Fat < 0 || t.Carbs < 0:
		return fmt.Errorf("template %q: macros must not be negative", t.Name)
	case t.CookingTimeMinutes < 0:
		return fmt.Errorf("template %q: cooking time must not be negative", t.Name)
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a stable id from a template name.
func Slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// normalize fills derived fields and canonicalizes sets before storage.
func (t *Template) normalize() {
	t.Name = strings.TrimSpace(t.Name)
	if t.ID == "" {
		t.ID = Slug(t.Name)
	}
	t.Category = Category(strings.ToLower(strings.TrimSpace(string(t.Category))))
	t.Complexity = shared.Complexity(strings.ToLower(strings.TrimSpace(string(t.Complexity))))
	t.DietPlans = cleanSet(t.DietPlans)
	t.Allergens = cleanSet(t.Allergens)
	t.AvoidedIngredients = cleanSet(t.AvoidedIngredients)
	t.Tags = cleanSet(t.Tags)
}

func cleanSet(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || shared.ContainsFold(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
