package quiz

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	cmPerInch = 2.54
	kgPerLb   = 0.45359237
	mlPerOz   = 29.5735
	mlPerCup  = 250
)

// extractor reads one typed value out of the answers. The bool reports success.
type extractor[T any] func(a answers) (T, bool)

// firstOf runs the chain left to right and returns the first value accepted by valid.
func firstOf[T any](a answers, valid func(T) bool, chain ...extractor[T]) (T, bool) {
	for _, ex := range chain {
		if v, ok := ex(a); ok && (valid == nil || valid(v)) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func ptr[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

func between(min, max float64) func(float64) bool {
	return func(v float64) bool { return v >= min && v <= max }
}

func betweenInt(min, max int) func(int) bool {
	return func(v int) bool { return v >= min && v <= max }
}

// answers is a flattened, case-insensitive view over RawAnswers.
type answers struct {
	exact  map[string]any
	folded map[string]any
}

func newAnswers(raw RawAnswers) answers {
	flat := make(map[string]any, len(raw))
	for k, v := range raw {
		flat[k] = v
	}
	// legacy payloads nest the answers under "answers", either as an object
	// or as a list of {key|questionId|id, value|answer} items
	switch nested := raw["answers"].(type) {
	case map[string]any:
		for k, v := range nested {
			if _, exists := flat[k]; !exists {
				flat[k] = v
			}
		}
	case []any:
		for _, item := range nested {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key := firstString(m, "key", "questionId", "question_id", "id", "name")
			if key == "" {
				continue
			}
			val, ok := firstPresent(m, "value", "answer", "answers")
			if !ok {
				continue
			}
			if _, exists := flat[key]; !exists {
				flat[key] = val
			}
		}
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	folded := make(map[string]any, len(flat))
	for _, k := range keys {
		fk := foldKey(k)
		if _, exists := folded[fk]; !exists {
			folded[fk] = flat[k]
		}
	}
	return answers{exact: flat, folded: folded}
}

// get returns the first non-null value stored under any of keys.
func (a answers) get(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := a.exact[k]; ok && v != nil {
			return v, true
		}
		if v, ok := a.folded[foldKey(k)]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func foldKey(k string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(k))
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// toFloat accepts JSON numbers, Go numerics and numeric strings ("70", "70.5", "70,5").
func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(t)
		switch {
		case thousands.MatchString(s):
			s = strings.ReplaceAll(s, ",", "")
		case !strings.Contains(s, ".") && strings.Count(s, ",") == 1:
			s = strings.Replace(s, ",", ".", 1)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var (
	thousands     = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
	leadingNumber = regexp.MustCompile(`^\s*(\d{1,3}(?:,\d{3})+|\d+(?:[.,]\d+)?)`)
)

// toLenientFloat also accepts strings that start with a number ("3 meals", "7h", "3-4").
func toLenientFloat(v any) (float64, bool) {
	if f, ok := toFloat(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return toFloat(m[1])
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func number(keys ...string) extractor[float64] {
	return func(a answers) (float64, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return 0, false
		}
		return toFloat(v)
	}
}

func lenientNumber(keys ...string) extractor[float64] {
	return func(a answers) (float64, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return 0, false
		}
		return toLenientFloat(v)
	}
}

func integer(ex extractor[float64]) extractor[int] {
	return func(a answers) (int, bool) {
		f, ok := ex(a)
		if !ok {
			return 0, false
		}
		return int(math.Round(f)), true
	}
}

func scaled(ex extractor[float64], factor float64) extractor[float64] {
	return func(a answers) (float64, bool) {
		f, ok := ex(a)
		if !ok {
			return 0, false
		}
		return f * factor, true
	}
}

func text(keys ...string) extractor[string] {
	return func(a answers) (string, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
}

// enumOf resolves a string answer either as a canonical value or through an alias table.
func enumOf[T ~string](table aliasTable, keys ...string) extractor[T] {
	return func(a answers) (T, bool) {
		s, ok := text(keys...)(a)
		if !ok {
			return "", false
		}
		if canonical, ok := table.lookup(s); ok {
			return T(canonical), true
		}
		return "", false
	}
}

var (
	lengthPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(cm|centimet(?:er|re)s?|m|met(?:er|re)s?|in\.?|inch(?:es)?|"|'')$`)
	feetPattern   = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(?:'|ft\.?|feet|foot)\s*(?:(\d+(?:[.,]\d+)?)\s*(?:"|''|in\.?|inch(?:es)?)?)?$`)
	massPattern   = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(kg|kgs|kilos?|kilograms?|lb|lbs|pounds?)$`)
)

// lengthCm converts a measurement to centimetres. Bare numbers use defaultUnit
// ("cm", "m" or "in"); strings may carry their own unit; objects use {value, unit}.
func lengthCm(v any, defaultUnit string) (float64, bool) {
	if m, ok := v.(map[string]any); ok {
		val, ok := firstPresent(m, "value", "amount")
		if !ok {
			return 0, false
		}
		unit := firstString(m, "unit", "units")
		if unit == "" {
			unit = defaultUnit
		}
		if f, ok := toFloat(val); ok {
			return lengthToCm(f, unit)
		}
		return 0, false
	}
	if f, ok := toFloat(v); ok {
		return lengthToCm(f, defaultUnit)
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if m := feetPattern.FindStringSubmatch(s); m != nil {
		feet, _ := toFloat(m[1])
		inches := 0.0
		if m[2] != "" {
			inches, _ = toFloat(m[2])
		}
		return (feet*12 + inches) * cmPerInch, true
	}
	if m := lengthPattern.FindStringSubmatch(s); m != nil {
		f, _ := toFloat(m[1])
		return lengthToCm(f, m[2])
	}
	return 0, false
}

func lengthToCm(f float64, unit string) (float64, bool) {
	switch u := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), "."); {
	case u == "cm" || strings.HasPrefix(u, "centimet"):
		return f, true
	case u == "m" || strings.HasPrefix(u, "met"):
		return f * 100, true
	case u == "in" || u == `"` || u == "''" || strings.HasPrefix(u, "inch"):
		return f * cmPerInch, true
	case u == "ft" || u == "feet" || u == "foot":
		return f * 12 * cmPerInch, true
	}
	return 0, false
}

// massKg converts a measurement to kilograms. Bare numbers use defaultUnit ("kg" or "lb").
func massKg(v any, defaultUnit string) (float64, bool) {
	if m, ok := v.(map[string]any); ok {
		val, ok := firstPresent(m, "value", "amount")
		if !ok {
			return 0, false
		}
		unit := firstString(m, "unit", "units")
		if unit == "" {
			unit = defaultUnit
		}
		if f, ok := toFloat(val); ok {
			return massToKg(f, unit)
		}
		return 0, false
	}
	if f, ok := toFloat(v); ok {
		return massToKg(f, defaultUnit)
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	if m := massPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s))); m != nil {
		f, _ := toFloat(m[1])
		return massToKg(f, m[2])
	}
	return 0, false
}

func massToKg(f float64, unit string) (float64, bool) {
	switch u := strings.ToLower(strings.TrimSpace(unit)); {
	case u == "kg" || u == "kgs" || strings.HasPrefix(u, "kilo"):
		return f, true
	case u == "lb" || u == "lbs" || strings.HasPrefix(u, "pound"):
		return f * kgPerLb, true
	}
	return 0, false
}

func length(defaultUnit string, keys ...string) extractor[float64] {
	return func(a answers) (float64, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return 0, false
		}
		cm, ok := lengthCm(v, defaultUnit)
		return round1(cm), ok
	}
}

// feetAndInches combines a feet answer with an optional inches answer.
func feetAndInches(feetKeys, inchKeys []string) extractor[float64] {
	return func(a answers) (float64, bool) {
		fv, ok := a.get(feetKeys...)
		if !ok {
			return 0, false
		}
		feet, ok := toFloat(fv)
		if !ok {
			return 0, false
		}
		inches := 0.0
		if iv, ok := a.get(inchKeys...); ok {
			if inches, ok = toFloat(iv); !ok {
				return 0, false
			}
		}
		return round1((feet*12 + inches) * cmPerInch), true
	}
}

func mass(defaultUnit string, keys ...string) extractor[float64] {
	return func(a answers) (float64, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return 0, false
		}
		kg, ok := massKg(v, defaultUnit)
		return round1(kg), ok
	}
}

var durationPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(m|min|mins|minutes?|h|hr|hrs|hours?)$`)

// minutes reads a duration answer: numbers are minutes, strings may say "1.5 hours" or "20 min".
func minutes(keys ...string) extractor[float64] {
	return func(a answers) (float64, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return 0, false
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
		s, ok := v.(string)
		if !ok {
			return 0, false
		}
		m := durationPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
		if m == nil {
			return toLenientFloat(s)
		}
		f, _ := toFloat(m[1])
		if strings.HasPrefix(m[2], "h") {
			f *= 60
		}
		return f, true
	}
}

var volumePattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(ml|milliliters?|millilitres?|l|liters?|litres?|oz|ounces?|glass(?:es)?|cups?)$`)

// volumeMl reads a water amount: numbers are millilitres, strings may use l, oz or glasses.
func volumeMl(keys ...string) extractor[float64] {
	return func(a answers) (float64, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return 0, false
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
		s, ok := v.(string)
		if !ok {
			return 0, false
		}
		m := volumePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
		if m == nil {
			return 0, false
		}
		f, _ := toFloat(m[1])
		switch u := m[2]; {
		case strings.HasPrefix(u, "ml") || strings.HasPrefix(u, "milli"):
		case u == "l" || strings.HasPrefix(u, "lit"):
			f *= 1000
		case u == "oz" || strings.HasPrefix(u, "ounce"):
			f *= mlPerOz
		default:
			f *= mlPerCup
		}
		return f, true
	}
}

// boolean reads yes/no answers given as JSON booleans, 0/1 or alias tokens.
func boolean(tokens map[string]bool, keys ...string) extractor[bool] {
	return func(a answers) (bool, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return false, false
		}
		switch t := v.(type) {
		case bool:
			return t, true
		case string:
			b, ok := tokens[foldToken(t)]
			return b, ok
		}
		if f, ok := toFloat(v); ok && (f == 0 || f == 1) {
			return f == 1, true
		}
		return false, false
	}
}

func negated(ex extractor[bool]) extractor[bool] {
	return func(a answers) (bool, bool) {
		b, ok := ex(a)
		return !b, ok
	}
}

// scale reads a 1..5 answer given as a number or a word from the scale table.
func scale(words map[string]int, keys ...string) extractor[int] {
	return func(a answers) (int, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return 0, false
		}
		if f, ok := toFloat(v); ok {
			return int(math.Round(f)), true
		}
		if s, ok := v.(string); ok {
			n, ok := words[foldToken(s)]
			return n, ok
		}
		return 0, false
	}
}

// stringSet reads a list answer given as a JSON array or a comma/semicolon separated string.
// Items are trimmed and lower-cased, duplicates and "none" tokens dropped.
func stringSet(empty map[string]struct{}, keys ...string) extractor[[]string] {
	return func(a answers) ([]string, bool) {
		v, ok := a.get(keys...)
		if !ok {
			return nil, false
		}
		var items []string
		switch t := v.(type) {
		case string:
			items = strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ';' || r == '\n' })
		case []string:
			items = t
		case []any:
			for _, it := range t {
				if s, ok := it.(string); ok {
					items = append(items, s)
				}
			}
		default:
			return nil, false
		}

		seen := make(map[string]struct{}, len(items))
		var out []string
		for _, it := range items {
			s := strings.ToLower(strings.TrimSpace(it))
			if s == "" {
				continue
			}
			if _, isEmpty := empty[foldToken(s)]; isEmpty {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
		return out, len(out) > 0
	}
}
