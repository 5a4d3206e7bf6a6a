package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath       string
	Port               string
	LogMode            string
	LogHashSalt        string
	AliasesPath        string
	CORSAllowedOrigins []string

	// Ghost CMS (template import and plan publishing)
	GhostURL         string
	GhostContentKey  string
	GhostAdminKey    string
	GhostTemplateTag string

	// Catalog cache
	RedisURL        string
	CatalogCacheTTL time.Duration

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:       getEnv("DATABASE_PATH", "data/meal-planner.db"),
		Port:               getEnv("PORT", "8080"),
		LogMode:            getEnv("LOG_MODE", "dev"),
		LogHashSalt:        os.Getenv("LOG_HASH_SALT"),
		AliasesPath:        os.Getenv("ALIASES_PATH"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		GhostURL:           strings.TrimRight(os.Getenv("GHOST_API_URL"), "/"),
		GhostContentKey:    os.Getenv("GHOST_CONTENT_API_KEY"),
		GhostAdminKey:      os.Getenv("GHOST_ADMIN_API_KEY"),
		GhostTemplateTag:   getEnv("GHOST_TEMPLATE_TAG", "meal-template"),
		RedisURL:           os.Getenv("REDIS_URL"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	ttl, err := time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "10m"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL %q: expected a positive duration like 10m", os.Getenv("CATALOG_CACHE_TTL"))
	}
	cfg.CatalogCacheTTL = ttl

	for _, raw := range splitList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS")) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", raw, err)
		}
		cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
	}

	return cfg, nil
}

// RequireGhostContent checks the settings needed to read template posts from Ghost.
func (c *Config) RequireGhostContent() error {
	if c.GhostURL == "" {
		return fmt.Errorf("GHOST_API_URL environment variable not set")
	}
	if c.GhostContentKey == "" {
		return fmt.Errorf("GHOST_CONTENT_API_KEY environment variable not set")
	}
	return nil
}

// RequireGhostAdmin checks the settings needed to publish drafts to Ghost.
func (c *Config) RequireGhostAdmin() error {
	if c.GhostURL == "" {
		return fmt.Errorf("GHOST_API_URL environment variable not set")
	}
	if c.GhostAdminKey == "" {
		return fmt.Errorf("GHOST_ADMIN_API_KEY environment variable not set")
	}
	return nil
}

// TelegramEnabled reports whether the bot should be started.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

// RequireTelegram checks the settings needed to run the webhook bot.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
