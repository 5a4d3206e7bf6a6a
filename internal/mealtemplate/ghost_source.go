package mealtemplate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"meal-planner/internal/ghost"
	"meal-planner/internal/logger"
	"meal-planner/internal/shared"
)

// GhostSource imports templates from Ghost posts carrying a tag. Each post is expected
// to have "Nutrition", "Details", "Ingredients" and "Instructions" sections introduced
// by h2/h3 headings; nutrition and details are "Key: value" list items or paragraphs.
type GhostSource struct {
	client ghost.Client
	tag    string
	log    *logger.Logger
}

func NewGhostSource(client ghost.Client, tag string, log *logger.Logger) *GhostSource {
	return &GhostSource{client: client, tag: tag, log: log}
}

// Load fetches the tagged posts and parses them. Posts that cannot be parsed are
// logged and skipped so one bad post does not block the import.
func (s *GhostSource) Load(ctx context.Context) ([]Template, error) {
	posts, err := s.client.FetchPosts(ctx, s.tag)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template posts: %w", err)
	}

	var templates []Template
	for _, post := range posts {
		t, err := ParsePost(post, s.tag)
		if err != nil {
			s.log.Warn("skipping template post", "post_id", post.ID, "title", post.Title, "error", err)
			continue
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// ParsePost converts a Ghost post into a Template. ignoreTag is left out of the tags.
func ParsePost(post ghost.Post, ignoreTag string) (Template, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(post.HTML))
	if err != nil {
		return Template{}, fmt.Errorf("failed to parse post html: %w", err)
	}
	doc.Find("script, style, iframe, figure").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	t := Template{ID: post.ID, Name: post.Title}
	for _, tag := range post.Tags {
		slug := strings.ToLower(tag.Slug)
		switch {
		case slug == "" || slug == strings.ToLower(ignoreTag):
		case Category(slug).Valid():
			t.Category = Category(slug)
		case shared.DietPlan(slug).Valid():
			t.DietPlans = append(t.DietPlans, slug)
		default:
			t.Tags = append(t.Tags, slug)
		}
	}

	var steps []string
	doc.Find("h2, h3").Each(func(i int, h *goquery.Selection) {
		section := strings.ToLower(strings.TrimSpace(h.Text()))
		lines := sectionLines(h)
		switch {
		case strings.HasPrefix(section, "ingredient"):
			for _, line := range lines {
				t.Ingredients = append(t.Ingredients, ParseIngredient(line))
			}
		case strings.HasPrefix(section, "instruction") || strings.HasPrefix(section, "method") || strings.HasPrefix(section, "steps"):
			steps = append(steps, lines...)
		default:
			for _, line := range lines {
				applyField(&t, line)
			}
		}
	})

	for i, step := range steps {
		steps[i] = fmt.Sprintf("%d. %s", i+1, step)
	}
	t.Instructions = strings.Join(steps, "\n")

	t.normalize()
	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}

// sectionLines returns the list items and paragraphs between h and the next heading.
func sectionLines(h *goquery.Selection) []string {
	var lines []string
	h.NextUntil("h2, h3").Each(func(i int, s *goquery.Selection) {
		items := s.Find("li")
		if goquery.NodeName(s) == "li" {
			items = s
		}
		if items.Length() == 0 {
			items = s.Filter("p")
		}
		items.Each(func(i int, item *goquery.Selection) {
			if text := strings.Join(strings.Fields(item.Text()), " "); text != "" {
				lines = append(lines, text)
			}
		})
	})
	return lines
}

var (
	leadingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	hoursPart     = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:h|hr|hrs|hours?)\b`)
	minutesPart   = regexp.MustCompile(`(\d+)\s*(?:m|min|mins|minutes?)\b`)
)

// applyField sets the template field named by a "Key: value" line. Unknown keys are ignored.
func applyField(t *Template, line string) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	switch key {
	case "calories", "energy", "kcal":
		t.Calories = firstNumber(value)
	case "protein":
		t.Protein = firstNumber(value)
	case "fat", "fats":
		t.Fat = firstNumber(value)
	case "carbs", "carbohydrates":
		t.Carbs = firstNumber(value)
	case "category", "meal", "meal type":
		t.Category = Category(strings.ToLower(value))
	case "diet", "diets", "diet plans":
		t.DietPlans = append(t.DietPlans, splitList(value)...)
	case "allergens", "contains":
		t.Allergens = append(t.Allergens, splitList(value)...)
	case "avoid", "avoided ingredients", "excludes":
		t.AvoidedIngredients = append(t.AvoidedIngredients, splitList(value)...)
	case "complexity", "difficulty":
		t.Complexity = shared.Complexity(strings.ToLower(value))
	case "cooking time", "time", "total time", "prep time":
		t.CookingTimeMinutes = parseMinutes(value)
	case "tags":
		t.Tags = append(t.Tags, splitList(value)...)
	}
}

func firstNumber(s string) float64 {
	m := leadingNumber.FindString(s)
	f, _ := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	return f
}

// parseMinutes reads "25 min", "1 h 10 min", "1.5 hours" or a bare number of minutes.
func parseMinutes(s string) int {
	s = strings.ToLower(s)
	total := 0.0
	found := false
	if m := hoursPart.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		total += h * 60
		found = true
	}
	if m := minutesPart.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += float64(mins)
		found = true
	}
	if !found {
		total = firstNumber(s)
	}
	return int(total + 0.5)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if part = strings.TrimSpace(part); part != "" && !strings.EqualFold(part, "none") {
			out = append(out, part)
		}
	}
	return out
}
