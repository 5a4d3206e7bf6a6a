package clipper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"meal-planner/internal/ghost"
	"meal-planner/internal/logger"
	"meal-planner/internal/mealtemplate"
)

// ErrNoRecipe means the page carries no schema.org Recipe data.
var ErrNoRecipe = errors.New("no recipe data found on page")

// Clipper turns recipe web pages into meal template drafts on Ghost.
type Clipper struct {
	ghostClient ghost.Client
	httpClient  *http.Client
	log         *logger.Logger
}

// NewClipper creates a new Clipper instance.
func NewClipper(ghostClient ghost.Client, log *logger.Logger) *Clipper {
	return &Clipper{
		ghostClient: ghostClient,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

// ClipURL fetches the page, extracts its recipe and saves it to Ghost as a draft in the
// layout the template import reads. category is used when the page does not name one.
// Nutrition and allergens are left for the editor to check before the draft is tagged
// and published.
func (c *Clipper) ClipURL(ctx context.Context, url string, category mealtemplate.Category) (*ghost.Post, error) {
	doc, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	t, err := Extract(doc)
	if err != nil {
		return nil, err
	}
	if !t.Category.Valid() {
		t.Category = category
	}
	if !t.Category.Valid() {
		return nil, fmt.Errorf("recipe %q: meal category is unknown, pass one of breakfast, lunch, dinner or snack", t.Name)
	}

	post, err := c.ghostClient.CreatePost(ctx, t.Name, FormatHTML(t, url), false)
	if err != nil {
		return nil, fmt.Errorf("failed to save to ghost: %w", err)
	}

	c.log.Info("recipe clipped", "url", url, "post_id", post.ID, "calories", t.Calories)
	return post, nil
}

func (c *Clipper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// Extract reads the first schema.org Recipe from the page's JSON-LD blocks.
func Extract(doc *goquery.Document) (mealtemplate.Template, error) {
	var recipe map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return true
		}
		recipe = findRecipe(v)
		return recipe == nil
	})
	if recipe == nil {
		return mealtemplate.Template{}, ErrNoRecipe
	}

	t := mealtemplate.Template{
		Name: strings.TrimSpace(html.UnescapeString(str(recipe["name"]))),
	}
	if t.Name == "" {
		return mealtemplate.Template{}, fmt.Errorf("%w: recipe has no name", ErrNoRecipe)
	}

	if n, ok := recipe["nutrition"].(map[string]any); ok {
		t.Calories = number(str(n["calories"]))
		t.Protein = number(str(n["proteinContent"]))
		t.Fat = number(str(n["fatContent"]))
		t.Carbs = number(str(n["carbohydrateContent"]))
	}

	t.CookingTimeMinutes = isoMinutes(str(recipe["totalTime"]))
	if t.CookingTimeMinutes == 0 {
		t.CookingTimeMinutes = isoMinutes(str(recipe["prepTime"])) + isoMinutes(str(recipe["cookTime"]))
	}

	for _, cat := range strs(recipe["recipeCategory"]) {
		if c := mealtemplate.Category(strings.ToLower(cat)); c.Valid() {
			t.Category = c
			break
		}
	}
	for _, kw := range strs(recipe["keywords"]) {
		for _, part := range strings.Split(kw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				t.Tags = append(t.Tags, strings.ToLower(part))
			}
		}
	}

	for _, line := range strs(recipe["recipeIngredient"]) {
		t.Ingredients = append(t.Ingredients, mealtemplate.ParseIngredient(html.UnescapeString(line)))
	}
	steps := instructions(recipe["recipeInstructions"])
	for i, step := range steps {
		steps[i] = fmt.Sprintf("%d. %s", i+1, step)
	}
	t.Instructions = strings.Join(steps, "\n")

	return t, nil
}

// findRecipe walks arrays and @graph containers looking for a node typed Recipe.
func findRecipe(v any) map[string]any {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			if r := findRecipe(item); r != nil {
				return r
			}
		}
	case map[string]any:
		for _, typ := range strs(node["@type"]) {
			if typ == "Recipe" {
				return node
			}
		}
		if graph, ok := node["@graph"]; ok {
			return findRecipe(graph)
		}
	}
	return nil
}

// instructions flattens text, HowToStep and HowToSection forms into plain steps.
func instructions(v any) []string {
	var steps []string
	switch node := v.(type) {
	case string:
		for _, line := range strings.Split(node, "\n") {
			if line = clean(line); line != "" {
				steps = append(steps, line)
			}
		}
	case []any:
		for _, item := range node {
			steps = append(steps, instructions(item)...)
		}
	case map[string]any:
		if items, ok := node["itemListElement"]; ok {
			return instructions(items)
		}
		if text := clean(str(node["text"])); text != "" {
			steps = append(steps, text)
		}
	}
	return steps
}

func clean(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func strs(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			if s := str(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

var (
	leadingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	stepNumber    = regexp.MustCompile(`^\s*\d+\.\s+`)
	isoDuration   = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:\d+(?:\.\d+)?S)?)?$`)
)

func number(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(leadingNumber.FindString(s), ",", "."), 64)
	return f
}

// isoMinutes reads an ISO 8601 duration such as PT1H10M. Seconds are dropped.
func isoMinutes(s string) int {
	m := isoDuration.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0
	}
	days, _ := strconv.Atoi(m[1])
	hours, _ := strconv.Atoi(m[2])
	mins, _ := strconv.Atoi(m[3])
	return days*24*60 + hours*60 + mins
}

// FormatHTML renders t in the post layout the Ghost template import parses.
func FormatHTML(t mealtemplate.Template, sourceURL string) string {
	var sb strings.Builder
	esc := html.EscapeString
	if sourceURL != "" {
		sb.WriteString(fmt.Sprintf("<p><i>Imported from: <a href=\"%s\">%s</a></i></p>", esc(sourceURL), esc(sourceURL)))
	}

	sb.WriteString("<h2>Nutrition</h2><ul>")
	sb.WriteString(fmt.Sprintf("<li>Calories: %s kcal</li>", fmtNum(t.Calories)))
	sb.WriteString(fmt.Sprintf("<li>Protein: %s g</li>", fmtNum(t.Protein)))
	sb.WriteString(fmt.Sprintf("<li>Fat: %s g</li>", fmtNum(t.Fat)))
	sb.WriteString(fmt.Sprintf("<li>Carbs: %s g</li>", fmtNum(t.Carbs)))
	sb.WriteString("</ul>")

	sb.WriteString("<h2>Details</h2><ul>")
	sb.WriteString(fmt.Sprintf("<li>Category: %s</li>", esc(string(t.Category))))
	sb.WriteString(fmt.Sprintf("<li>Cooking time: %d min</li>", t.CookingTimeMinutes))
	if t.Complexity != "" {
		sb.WriteString(fmt.Sprintf("<li>Complexity: %s</li>", esc(string(t.Complexity))))
	}
	if len(t.DietPlans) > 0 {
		sb.WriteString(fmt.Sprintf("<li>Diet: %s</li>", esc(strings.Join(t.DietPlans, ", "))))
	}
	sb.WriteString(fmt.Sprintf("<li>Allergens: %s</li>", esc(joinOrNone(t.Allergens))))
	if len(t.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("<li>Tags: %s</li>", esc(strings.Join(t.Tags, ", "))))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h2>Ingredients</h2><ul>")
	for _, ing := range t.Ingredients {
		sb.WriteString(fmt.Sprintf("<li>%s</li>", esc(ing.String())))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h2>Instructions</h2><ol>")
	for _, step := range strings.Split(t.Instructions, "\n") {
		if step = strings.TrimSpace(stepNumber.ReplaceAllString(step, "")); step != "" {
			sb.WriteString(fmt.Sprintf("<li>%s</li>", esc(step)))
		}
	}
	sb.WriteString("</ol>")

	return sb.String()
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinOrNone(s []string) string {
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ", ")
}
