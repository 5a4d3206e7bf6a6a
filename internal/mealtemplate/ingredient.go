package mealtemplate

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Ingredient is one line of a template's ingredient list.
// Quantity is zero when the amount is unspecified ("salt to taste").
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// UnmarshalJSON accepts both the object form and a free-text line such as "200 g rolled oats".
func (i *Ingredient) UnmarshalJSON(b []byte) error {
	var line string
	if err := json.Unmarshal(b, &line); err == nil {
		*i = ParseIngredient(line)
		return nil
	}
	type plain Ingredient
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*i = Ingredient(p)
	i.Name = strings.ToLower(strings.TrimSpace(i.Name))
	i.Unit = canonicalUnit(i.Unit)
	return nil
}

var (
	ingredientLine = regexp.MustCompile(`^\s*(\d+\s+\d+\s*/\s*\d+|\d+(?:[.,]\d+)?(?:\s*/\s*\d+)?)\s*([a-zA-Z]+\.?)?\s+(?:of\s+)?(.+)$`)
	units          = map[string]string{
		"g": "g", "gr": "g", "gram": "g", "grams": "g",
		"kg": "kg",
		"ml": "ml",
		"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
		"tbsp": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
		"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
		"cup": "cup", "cups": "cup",
		"oz": "oz",
		"slice": "slice", "slices": "slice",
		"clove": "clove", "cloves": "clove",
		"can": "can", "cans": "can",
		"pinch": "pinch",
	}
)

func canonicalUnit(u string) string {
	u = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), ".")
	if c, ok := units[u]; ok {
		return c
	}
	return u
}

// ParseIngredient splits a free-text ingredient line into quantity, unit and name.
func ParseIngredient(line string) Ingredient {
	line = strings.TrimSpace(line)
	m := ingredientLine.FindStringSubmatch(line)
	if m == nil {
		return Ingredient{Name: strings.ToLower(line)}
	}
	qty, ok := parseQuantity(m[1])
	if !ok {
		return Ingredient{Name: strings.ToLower(line)}
	}
	name := strings.ToLower(strings.TrimSpace(m[3]))
	unit := canonicalUnit(m[2])
	if m[2] != "" {
		if _, known := units[strings.TrimSuffix(strings.ToLower(m[2]), ".")]; !known {
			// "2 large eggs": the word is part of the name, not a unit
			name = strings.ToLower(m[2]) + " " + name
			unit = ""
		}
	}
	return Ingredient{Name: name, Quantity: qty, Unit: unit}
}

// parseQuantity reads "2", "1.5", "1,5", "1/2" and "1 1/2".
func parseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	total := 0.0
	for _, part := range strings.Fields(strings.ReplaceAll(s, " / ", "/")) {
		if num, den, isFrac := strings.Cut(part, "/"); isFrac {
			n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
			d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
			if err1 != nil || err2 != nil || d == 0 {
				return 0, false
			}
			total += n / d
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, false
		}
		total += f
	}
	return total, total > 0
}

func (i Ingredient) String() string {
	if i.Quantity == 0 {
		return i.Name
	}
	qty := strconv.FormatFloat(i.Quantity, 'f', -1, 64)
	if i.Unit == "" {
		return qty + " " + i.Name
	}
	return qty + " " + i.Unit + " " + i.Name
}
