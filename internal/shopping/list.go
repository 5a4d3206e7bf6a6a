package shopping

import (
	"math"
	"sort"
	"strconv"
	"time"

	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/planner"
)

// Item is one aggregated line of a shopping list. Quantity is zero for
// ingredients without an amount ("salt to taste").
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	// Meals is how many planned meals use the ingredient.
	Meals int `json:"meals"`
}

func (i Item) String() string {
	if i.Quantity == 0 {
		return i.Name
	}
	qty := strconv.FormatFloat(i.Quantity, 'f', -1, 64)
	if i.Unit == "" {
		return i.Name + ": " + qty
	}
	return i.Name + ": " + qty + " " + i.Unit
}

// ShoppingList represents a shopping list for a meal plan.
type ShoppingList struct {
	UserID    string    `json:"userId"`
	StartDate string    `json:"startDate"`
	Items     []Item    `json:"items"`
	Missing   []string  `json:"missingTemplates,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// mass and volume are summed in their base unit so "1 kg" and "200 g" add up.
var baseUnits = map[string]struct {
	unit   string
	factor float64
}{
	"kg": {"g", 1000},
	"l":  {"ml", 1000},
}

type itemKey struct {
	name string
	unit string
}

// BuildList aggregates the ingredients of every meal in plan by name and unit.
// Templates are looked up in catalog by id; planned templates missing from the
// catalog are reported in Missing.
func BuildList(plan *planner.WeeklyMealPlan, catalog []mealtemplate.Template) ShoppingList {
	byID := make(map[string]mealtemplate.Template, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}

	items := make(map[itemKey]*Item)
	missing := make(map[string]bool)
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			t, ok := byID[meal.TemplateID]
			if !ok {
				missing[meal.TemplateID] = true
				continue
			}
			for _, ing := range t.Ingredients {
				unit, qty := ing.Unit, ing.Quantity
				if b, ok := baseUnits[unit]; ok {
					unit, qty = b.unit, qty*b.factor
				}
				if qty == 0 {
					unit = ""
				}
				key := itemKey{name: ing.Name, unit: unit}
				it, ok := items[key]
				if !ok {
					it = &Item{Name: ing.Name, Unit: unit}
					items[key] = it
				}
				it.Quantity += qty
				it.Meals++
			}
		}
	}

	list := ShoppingList{
		UserID:    plan.UserID,
		StartDate: plan.StartDate,
		Items:     make([]Item, 0, len(items)),
		CreatedAt: time.Now().UTC(),
	}
	for _, it := range items {
		it.Quantity = math.Round(it.Quantity*100) / 100
		list.Items = append(list.Items, *it)
	}
	sort.Slice(list.Items, func(i, j int) bool {
		if list.Items[i].Name != list.Items[j].Name {
			return list.Items[i].Name < list.Items[j].Name
		}
		return list.Items[i].Unit < list.Items[j].Unit
	})
	for id := range missing {
		list.Missing = append(list.Missing, id)
	}
	sort.Strings(list.Missing)
	return list
}
