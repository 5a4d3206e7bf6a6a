package mealtemplate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()

	t.Run("Array", func(t *testing.T) {
		path := filepath.Join(dir, "array.json")
		content := `[
			{"id": "oats", "name": "Overnight Oats", "category": "breakfast", "calories": 400, "protein": 18, "fat": 12, "carbs": 55,
			 "ingredients": ["60 g rolled oats", {"name": "Milk", "quantity": 200, "unit": "ML"}]}
		]`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}

		templates, err := NewFileSource(path).Load(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(templates) != 1 || templates[0].ID != "oats" {
			t.Fatalf("Expected the oats template, got %+v", templates)
		}
		ing := templates[0].Ingredients
		if len(ing) != 2 || ing[0] != (Ingredient{Name: "rolled oats", Quantity: 60, Unit: "g"}) || ing[1] != (Ingredient{Name: "milk", Quantity: 200, Unit: "ml"}) {
			t.Errorf("Expected parsed ingredients, got %+v", ing)
		}
	})

	t.Run("Wrapped", func(t *testing.T) {
		path := filepath.Join(dir, "wrapped.json")
		if err := os.WriteFile(path, []byte(`{"templates": [{"name": "A", "category": "lunch", "calories": 500}]}`), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		templates, err := NewFileSource(path).Load(context.Background())
		if err != nil || len(templates) != 1 {
			t.Fatalf("Expected one template, got %d, %v", len(templates), err)
		}
	})

	t.Run("Round trip through WriteFile", func(t *testing.T) {
		path := filepath.Join(dir, "out.json")
		in := []Template{{ID: "x", Name: "X", Category: Dinner, Calories: 700, Ingredients: []Ingredient{{Name: "rice", Quantity: 80, Unit: "g"}}}}
		if err := WriteFile(path, in); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		out, err := NewFileSource(path).Load(context.Background())
		if err != nil || len(out) != 1 || out[0].Ingredients[0] != in[0].Ingredients[0] {
			t.Fatalf("Expected the same template back, got %+v, %v", out, err)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		if _, err := NewFileSource(filepath.Join(dir, "missing.json")).Load(context.Background()); err == nil {
			t.Fatal("Expected an error, got nil")
		}
	})
}

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		line string
		want Ingredient
	}{
		{"200 g rolled oats", Ingredient{Name: "rolled oats", Quantity: 200, Unit: "g"}},
		{"200g Rolled Oats", Ingredient{Name: "rolled oats", Quantity: 200, Unit: "g"}},
		{"2 eggs", Ingredient{Name: "eggs", Quantity: 2}},
		{"2 large eggs", Ingredient{Name: "large eggs", Quantity: 2}},
		{"1 1/2 cups milk", Ingredient{Name: "milk", Quantity: 1.5, Unit: "cup"}},
		{"1/2 tsp. salt", Ingredient{Name: "salt", Quantity: 0.5, Unit: "tsp"}},
		{"1,5 l water", Ingredient{Name: "water", Quantity: 1.5, Unit: "l"}},
		{"2 cloves of garlic", Ingredient{Name: "garlic", Quantity: 2, Unit: "clove"}},
		{"Salt to taste", Ingredient{Name: "salt to taste"}},
	}
	for _, tt := range tests {
		if got := ParseIngredient(tt.line); got != tt.want {
			t.Errorf("ParseIngredient(%q): Expected %+v, got %+v", tt.line, tt.want, got)
		}
	}
}
