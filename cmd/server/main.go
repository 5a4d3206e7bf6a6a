package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"meal-planner/internal/api"
	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/ghost"
	"meal-planner/internal/logger"
	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/quiz"
	"meal-planner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.LogMode, cfg.LogHashSalt)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		lg.Fatal("Failed to initialize database", "path", cfg.DatabasePath, "error", err)
	}
	defer db.Close()

	normalizer, err := newNormalizer(cfg)
	if err != nil {
		lg.Fatal("Failed to initialize answer normalizer", "error", err)
	}

	// 3. Optional integrations
	var opts []app.Option
	if cfg.RedisURL != "" {
		rdb, err := mealtemplate.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			lg.Fatal("Failed to connect to redis", "error", err)
		}
		defer rdb.Close()
		cache := mealtemplate.NewCachedCatalog(mealtemplate.NewRepository(db.SQL), rdb, cfg.CatalogCacheTTL, lg)
		opts = append(opts, app.WithCatalogCache(cache))
	}
	if cfg.RequireGhostContent() == nil {
		opts = append(opts, app.WithGhost(ghost.NewClient(cfg)))
	}

	application := app.NewApp(cfg, lg, db, normalizer, opts...)

	rc := api.RouterConfig{
		Config:  cfg,
		Handler: api.NewHandler(cfg, application, lg),
		Log:     lg,
	}
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg, application, lg)
		if err != nil {
			lg.Fatal("Failed to initialize Telegram bot", "error", err)
		}
		rc.TelegramWebhook = bot.HandleWebhook
	}

	// 4. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(rc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", "port", cfg.Port, "telegram", rc.TelegramWebhook != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		lg.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	lg.Info("Server exiting")
}

func newNormalizer(cfg *config.Config) (*quiz.Normalizer, error) {
	if cfg.AliasesPath == "" {
		return quiz.NewDefaultNormalizer()
	}
	aliases, err := quiz.LoadAliases(cfg.AliasesPath)
	if err != nil {
		return nil, err
	}
	return quiz.NewNormalizer(aliases)
}
