package quiz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"meal-planner/internal/shared"
)

//go:embed aliases.yaml
var defaultAliasesYAML []byte

// Aliases are the lookup tables used to map free-text answers onto canonical values.
// Each table is keyed by the canonical value and lists the accepted spellings.
type Aliases struct {
	Activity          map[string][]string `yaml:"activity"`
	Diet              map[string][]string `yaml:"diet"`
	Complexity        map[string][]string `yaml:"complexity"`
	Gender            map[string][]string `yaml:"gender"`
	ComfortSource     map[string][]string `yaml:"comfortSource"`
	Booleans          map[string][]string `yaml:"booleans"`
	Scale             map[string]int      `yaml:"scale"`
	SleepQualityHours map[int]float64     `yaml:"sleepQualityHours"`
	EmptyTokens       []string            `yaml:"emptyTokens"`
}

// DefaultAliases returns the built-in tables.
func DefaultAliases() (Aliases, error) {
	return ParseAliases(defaultAliasesYAML)
}

// LoadAliases reads alias tables from a YAML file, e.g. a locale specific override.
func LoadAliases(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Aliases{}, fmt.Errorf("failed to read alias file %s: %w", path, err)
	}
	return ParseAliases(data)
}

func ParseAliases(data []byte) (Aliases, error) {
	var a Aliases
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Aliases{}, fmt.Errorf("failed to parse alias tables: %w", err)
	}
	return a, nil
}

// aliasTable maps a folded alias onto its canonical value.
type aliasTable map[string]string

func (t aliasTable) lookup(s string) (string, bool) {
	v, ok := t[foldToken(s)]
	return v, ok
}

// lookupTables is the compiled, immutable form of Aliases.
type lookupTables struct {
	activity      aliasTable
	diet          aliasTable
	complexity    aliasTable
	gender        aliasTable
	comfortSource aliasTable
	booleans      map[string]bool
	scale         map[string]int
	sleepHours    map[int]float64
	empty         map[string]struct{}
}

func compileAliases(a Aliases) (*lookupTables, error) {
	t := &lookupTables{
		booleans:   make(map[string]bool),
		scale:      make(map[string]int),
		sleepHours: make(map[int]float64),
		empty:      make(map[string]struct{}),
	}

	var err error
	if t.activity, err = compileTable("activity", a.Activity, func(s string) bool { return shared.ActivityLevel(s).Valid() }); err != nil {
		return nil, err
	}
	if t.diet, err = compileTable("diet", a.Diet, func(s string) bool { return shared.DietPlan(s).Valid() }); err != nil {
		return nil, err
	}
	if t.complexity, err = compileTable("complexity", a.Complexity, func(s string) bool { return shared.Complexity(s).Valid() }); err != nil {
		return nil, err
	}
	if t.gender, err = compileTable("gender", a.Gender, func(s string) bool { return shared.Gender(s).Valid() }); err != nil {
		return nil, err
	}
	if t.comfortSource, err = compileTable("comfortSource", a.ComfortSource, func(s string) bool { return ComfortSource(s).Valid() }); err != nil {
		return nil, err
	}

	for canonical, tokens := range a.Booleans {
		var val bool
		switch canonical {
		case "true":
			val = true
		case "false":
			val = false
		default:
			return nil, fmt.Errorf("booleans: unknown key %q, expected true or false", canonical)
		}
		for _, tok := range tokens {
			t.booleans[foldToken(tok)] = val
		}
	}

	for tok, v := range a.Scale {
		if v < 1 || v > 5 {
			return nil, fmt.Errorf("scale: value for %q must be within 1..5, got %d", tok, v)
		}
		t.scale[foldToken(tok)] = v
	}

	for q, hours := range a.SleepQualityHours {
		if q < 1 || q > 5 || hours <= 0 || hours > 24 {
			return nil, fmt.Errorf("sleepQualityHours: invalid entry %d -> %v", q, hours)
		}
		t.sleepHours[q] = hours
	}

	for _, tok := range a.EmptyTokens {
		t.empty[foldToken(tok)] = struct{}{}
	}
	return t, nil
}

func compileTable(name string, src map[string][]string, valid func(string) bool) (aliasTable, error) {
	out := make(aliasTable)
	for canonical, aliases := range src {
		if !valid(canonical) {
			return nil, fmt.Errorf("%s: %q is not a known value", name, canonical)
		}
		out[foldToken(canonical)] = canonical
		for _, alias := range aliases {
			key := foldToken(alias)
			if prev, dup := out[key]; dup && prev != canonical {
				return nil, fmt.Errorf("%s: alias %q maps to both %q and %q", name, alias, prev, canonical)
			}
			out[key] = canonical
		}
	}
	return out, nil
}

// foldToken lower-cases s and collapses underscores, hyphens and runs of spaces.
func foldToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
