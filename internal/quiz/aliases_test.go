package quiz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meal-planner/internal/shared"
)

func TestDefaultAliasesCompile(t *testing.T) {
	a, err := DefaultAliases()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	tables, err := compileAliases(a)
	if err != nil {
		t.Fatalf("Expected embedded tables to compile, got %v", err)
	}
	if got, ok := tables.diet.lookup("Anti-Inflammatory"); !ok || got != string(shared.DietAntiInflammatory) {
		t.Errorf("Expected canonical diet to resolve to itself, got %q (%v)", got, ok)
	}
	if len(tables.sleepHours) != 5 {
		t.Errorf("Expected 5 sleep quality entries, got %d", len(tables.sleepHours))
	}
}

func TestLoadAliases(t *testing.T) {
	dir := t.TempDir()

	t.Run("Locale override", func(t *testing.T) {
		path := filepath.Join(dir, "de.yaml")
		content := `
activity:
  sedentary: [sitzend, bürojob]
  moderate: [mäßig aktiv]
diet:
  mediterranean: [mediterran]
booleans:
  "true": [ja]
  "false": [nein]
emptyTokens: [keine]
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write alias file: %v", err)
		}
		aliases, err := LoadAliases(path)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		n, err := NewNormalizer(aliases)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		got := n.Normalize(RawAnswers{
			"activity":  "Mäßig aktiv",
			"diet":      "mediterran",
			"smoker":    "Ja",
			"allergies": "Keine",
		})
		if got.ActivityLevel != shared.ActivityModerate {
			t.Errorf("Expected activity 'moderate', got '%s'", got.ActivityLevel)
		}
		if got.DietPlan != shared.DietMediterranean {
			t.Errorf("Expected diet 'mediterranean', got '%s'", got.DietPlan)
		}
		if got.Smoker == nil || !*got.Smoker {
			t.Errorf("Expected smoker=true, got %v", got.Smoker)
		}
		if got.Allergies != nil {
			t.Errorf("Expected 'keine' to mean no allergies, got %v", got.Allergies)
		}
		// english aliases are not part of the override
		if en := n.Normalize(RawAnswers{"activity": "desk job"}); en.ActivityLevel != "" {
			t.Errorf("Expected no activity for an unknown alias, got '%s'", en.ActivityLevel)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadAliases(filepath.Join(dir, "missing.yaml"))
		if err == nil || !strings.Contains(err.Error(), "failed to read alias file") {
			t.Errorf("Expected read error, got %v", err)
		}
	})
}

func TestNewNormalizerRejectsBadTables(t *testing.T) {
	tests := []struct {
		name    string
		aliases Aliases
		wantErr string
	}{
		{
			name:    "unknown canonical value",
			aliases: Aliases{Activity: map[string][]string{"couch": {"sofa"}}},
			wantErr: `"couch" is not a known value`,
		},
		{
			name: "conflicting alias",
			aliases: Aliases{Complexity: map[string][]string{
				"simple": {"quick"},
				"medium": {"Quick"},
			}},
			wantErr: "maps to both",
		},
		{
			name:    "scale out of range",
			aliases: Aliases{Scale: map[string]int{"extreme": 9}},
			wantErr: "within 1..5",
		},
		{
			name:    "bad boolean key",
			aliases: Aliases{Booleans: map[string][]string{"maybe": {"perhaps"}}},
			wantErr: "unknown key",
		},
		{
			name:    "bad sleep entry",
			aliases: Aliases{SleepQualityHours: map[int]float64{6: 9}},
			wantErr: "invalid entry",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNormalizer(tt.aliases)
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFoldToken(t *testing.T) {
	tests := map[string]string{
		"  Very_Active ":    "very active",
		"anti-inflammatory": "anti inflammatory",
		"Quick   and\teasy": "quick and easy",
		"":                  "",
	}
	for in, want := range tests {
		if got := foldToken(in); got != want {
			t.Errorf("foldToken(%q): Expected %q, got %q", in, want, got)
		}
	}
}
