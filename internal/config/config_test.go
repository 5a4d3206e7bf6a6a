package config

import (
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Defaults", func(t *testing.T) {
		setEnv("DATABASE_PATH", "")
		setEnv("PORT", "")
		setEnv("CATALOG_CACHE_TTL", "")
		setEnv("CORS_ALLOWED_ORIGINS", "")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/meal-planner.db" {
			t.Errorf("Expected default DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected default Port '8080', got '%s'", cfg.Port)
		}
		if cfg.CatalogCacheTTL != 10*time.Minute {
			t.Errorf("Expected CatalogCacheTTL 10m, got %s", cfg.CatalogCacheTTL)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Errorf("Expected CORS origins [*], got %v", cfg.CORSAllowedOrigins)
		}
		if cfg.GhostTemplateTag != "meal-template" {
			t.Errorf("Expected GhostTemplateTag 'meal-template', got '%s'", cfg.GhostTemplateTag)
		}
	})

	t.Run("Success", func(t *testing.T) {
		setEnv("DATABASE_PATH", "/tmp/plans.db")
		setEnv("GHOST_API_URL", "http://ghost.test/")
		setEnv("GHOST_CONTENT_API_KEY", "ghost_key")
		setEnv("CATALOG_CACHE_TTL", "90s")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/plans.db" {
			t.Errorf("Expected DatabasePath '/tmp/plans.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.GhostURL != "http://ghost.test" {
			t.Errorf("Expected trailing slash trimmed from GhostURL, got '%s'", cfg.GhostURL)
		}
		if cfg.CatalogCacheTTL != 90*time.Second {
			t.Errorf("Expected CatalogCacheTTL 90s, got %s", cfg.CatalogCacheTTL)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 34 {
			t.Errorf("Expected allowed ids [12 34], got %v", cfg.TelegramAllowedUserIDs)
		}
		if err := cfg.RequireGhostContent(); err != nil {
			t.Errorf("Expected ghost content settings to be complete, got %v", err)
		}
	})

	t.Run("InvalidTTL", func(t *testing.T) {
		setEnv("CATALOG_CACHE_TTL", "soon")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid CATALOG_CACHE_TTL, got nil")
		}
	})

	t.Run("InvalidTelegramUserID", func(t *testing.T) {
		setEnv("CATALOG_CACHE_TTL", "")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid TELEGRAM_ALLOWED_USER_IDS, got nil")
		}
	})
}

func TestRequireHelpers(t *testing.T) {
	t.Run("MissingGhostURL", func(t *testing.T) {
		cfg := &Config{GhostContentKey: "key"}
		err := cfg.RequireGhostContent()
		if err == nil {
			t.Fatal("Expected an error for missing GHOST_API_URL, got nil")
		}
		expectedError := "GHOST_API_URL environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingGhostAdminKey", func(t *testing.T) {
		cfg := &Config{GhostURL: "http://ghost.test", GhostContentKey: "key"}
		err := cfg.RequireGhostAdmin()
		if err == nil {
			t.Fatal("Expected an error for missing GHOST_ADMIN_API_KEY, got nil")
		}
		expectedError := "GHOST_ADMIN_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingTelegramWebhook", func(t *testing.T) {
		cfg := &Config{TelegramBotToken: "token"}
		if !cfg.TelegramEnabled() {
			t.Error("Expected telegram to be enabled when a token is set")
		}
		err := cfg.RequireTelegram()
		if err == nil {
			t.Fatal("Expected an error for missing TELEGRAM_WEBHOOK_URL, got nil")
		}
		expectedError := "TELEGRAM_WEBHOOK_URL environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})
}
