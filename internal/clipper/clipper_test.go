package clipper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"meal-planner/internal/ghost"
	"meal-planner/internal/logger"
	"meal-planner/internal/mealtemplate"
)

// --- Mocks ---
type MockGhostClient struct {
	CreatedPost *ghost.Post
	Published   bool
	ShouldError bool
}

func (m *MockGhostClient) FetchPosts(_ context.Context, _ string) ([]ghost.Post, error) {
	return nil, nil
}

func (m *MockGhostClient) CreatePost(_ context.Context, title, html string, publish bool) (*ghost.Post, error) {
	if m.ShouldError {
		return nil, fmt.Errorf("mock error")
	}
	m.Published = publish
	m.CreatedPost = &ghost.Post{ID: "123", Title: title, HTML: html}
	return m.CreatedPost, nil
}

const recipePage = `
<html>
	<head>
		<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebSite","name":"Tasty"}</script>
		<script type="application/ld+json">
		{"@context":"https://schema.org","@graph":[
			{"@type":"WebPage","name":"Shakshuka page"},
			{"@type":["Recipe"],
			 "name":"Shakshuka &amp; Feta",
			 "recipeCategory":["Main course","Breakfast"],
			 "keywords":"eggs, Vegetarian",
			 "totalTime":"PT1H10M",
			 "nutrition":{"@type":"NutritionInformation","calories":"610 kcal","proteinContent":"42 g","fatContent":"28,5 g","carbohydrateContent":"45g"},
			 "recipeIngredient":["4 eggs","400 g canned tomatoes","1 tbsp olive oil","Salt to taste"],
			 "recipeInstructions":[
				{"@type":"HowToSection","name":"Sauce","itemListElement":[
					{"@type":"HowToStep","text":"Heat the oil. Add the tomatoes."},
					{"@type":"HowToStep","text":"Simmer  for 10 minutes."}
				]},
				{"@type":"HowToStep","text":"Crack in the eggs and cover."}
			 ]}
		]}
		</script>
	</head>
	<body><h1>Shakshuka</h1><div class="ads">Buy stuff!</div></body>
</html>`

func newDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Failed to parse page: %v", err)
	}
	return doc
}

// --- Tests ---

func TestExtract(t *testing.T) {
	tmpl, err := Extract(newDoc(t, recipePage))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if tmpl.Name != "Shakshuka & Feta" {
		t.Errorf("Expected name 'Shakshuka & Feta', got %q", tmpl.Name)
	}
	if tmpl.Category != mealtemplate.Breakfast {
		t.Errorf("Expected category breakfast, got %q", tmpl.Category)
	}
	if tmpl.Calories != 610 || tmpl.Protein != 42 || tmpl.Fat != 28.5 || tmpl.Carbs != 45 {
		t.Errorf("Unexpected nutrition: %+v", tmpl.Nutrients())
	}
	if tmpl.CookingTimeMinutes != 70 {
		t.Errorf("Expected 70 minutes, got %d", tmpl.CookingTimeMinutes)
	}
	if len(tmpl.Tags) != 2 || tmpl.Tags[1] != "vegetarian" {
		t.Errorf("Expected tags [eggs vegetarian], got %v", tmpl.Tags)
	}
	if len(tmpl.Ingredients) != 4 {
		t.Fatalf("Expected 4 ingredients, got %d", len(tmpl.Ingredients))
	}
	if ing := tmpl.Ingredients[1]; ing.Name != "canned tomatoes" || ing.Quantity != 400 || ing.Unit != "g" {
		t.Errorf("Unexpected ingredient: %+v", ing)
	}
	want := "1. Heat the oil. Add the tomatoes.\n2. Simmer for 10 minutes.\n3. Crack in the eggs and cover."
	if tmpl.Instructions != want {
		t.Errorf("Expected instructions %q, got %q", want, tmpl.Instructions)
	}
}

func TestExtract_NoRecipe(t *testing.T) {
	page := `<html><head><script type="application/ld+json">{"@type":"Article","name":"News"}</script>
		<script type="application/ld+json">{not json</script></head><body></body></html>`
	if _, err := Extract(newDoc(t, page)); !errors.Is(err, ErrNoRecipe) {
		t.Errorf("Expected ErrNoRecipe, got %v", err)
	}
}

func TestIsoMinutes(t *testing.T) {
	tests := map[string]int{
		"PT25M":    25,
		"PT1H10M":  70,
		"pt2h":     120,
		"P1DT30M":  1470,
		"PT45M30S": 45,
		"25 min":   0,
		"":         0,
	}
	for in, want := range tests {
		if got := isoMinutes(in); got != want {
			t.Errorf("isoMinutes(%q): expected %d, got %d", in, want, got)
		}
	}
}

func TestClipURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(recipePage))
	}))
	defer ts.Close()

	t.Run("Creates a draft the template import can read", func(t *testing.T) {
		g := &MockGhostClient{}
		c := NewClipper(g, logger.NewNop())

		post, err := c.ClipURL(context.Background(), ts.URL+"/shakshuka", mealtemplate.Lunch)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if g.Published {
			t.Error("Expected a draft, got a published post")
		}
		if strings.Contains(post.HTML, "Buy stuff!") {
			t.Error("Expected page noise to be left out")
		}

		tmpl, err := mealtemplate.ParsePost(*post, "meal-template")
		if err != nil {
			t.Fatalf("Expected the draft to parse as a template, got %v", err)
		}
		// The page names a category so the fallback is ignored.
		if tmpl.Category != mealtemplate.Breakfast {
			t.Errorf("Expected category breakfast, got %q", tmpl.Category)
		}
		if tmpl.Calories != 610 || tmpl.Fat != 28.5 || tmpl.CookingTimeMinutes != 70 {
			t.Errorf("Nutrition or time lost in the round trip: %+v", tmpl)
		}
		if len(tmpl.Ingredients) != 4 || tmpl.Ingredients[0].Name != "eggs" || tmpl.Ingredients[0].Quantity != 4 {
			t.Errorf("Ingredients lost in the round trip: %+v", tmpl.Ingredients)
		}
		if !strings.HasPrefix(tmpl.Instructions, "1. Heat the oil. Add the tomatoes.\n2. ") {
			t.Errorf("Instructions lost in the round trip: %q", tmpl.Instructions)
		}
		if !tmpl.HasTag("vegetarian") {
			t.Errorf("Expected tags to survive, got %v", tmpl.Tags)
		}
	})

	t.Run("Uses the fallback category", func(t *testing.T) {
		page := strings.Replace(recipePage, `"recipeCategory":["Main course","Breakfast"],`, "", 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(page))
		}))
		defer srv.Close()

		g := &MockGhostClient{}
		if _, err := NewClipper(g, logger.NewNop()).ClipURL(context.Background(), srv.URL, mealtemplate.Dinner); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !strings.Contains(g.CreatedPost.HTML, "<li>Category: dinner</li>") {
			t.Errorf("Expected the dinner category in the draft, got %s", g.CreatedPost.HTML)
		}

		if _, err := NewClipper(g, logger.NewNop()).ClipURL(context.Background(), srv.URL, ""); err == nil {
			t.Error("Expected an error without any category, got nil")
		}
	})

	t.Run("Errors", func(t *testing.T) {
		c := NewClipper(&MockGhostClient{}, logger.NewNop())
		if _, err := c.ClipURL(context.Background(), ts.URL+"/missing", mealtemplate.Lunch); err == nil {
			t.Error("Expected an error for a 404 page, got nil")
		}

		c = NewClipper(&MockGhostClient{ShouldError: true}, logger.NewNop())
		if _, err := c.ClipURL(context.Background(), ts.URL, mealtemplate.Lunch); err == nil {
			t.Error("Expected an error when Ghost fails, got nil")
		}
	})
}
