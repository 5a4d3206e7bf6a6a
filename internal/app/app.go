package app

import (
	"context"
	"errors"
	"time"

	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/ghost"
	"meal-planner/internal/logger"
	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/profile"
	"meal-planner/internal/quiz"
	"meal-planner/internal/scoring"
)

var (
	ErrUserIDRequired   = errors.New("user id is required")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrGhostUnavailable = errors.New("ghost is not configured")
)

// CatalogCache is a cached template catalog that imports can invalidate.
type CatalogCache interface {
	mealtemplate.Catalog
	Invalidate(ctx context.Context) error
}

// App holds the application's dependencies.
type App struct {
	cfg *config.Config
	log *logger.Logger
	now func() time.Time

	normalizer *quiz.Normalizer
	engine     *scoring.Engine
	generator  *planner.Generator

	profiles  *profile.Repository
	templates *mealtemplate.Repository
	catalog   mealtemplate.Catalog
	cache     CatalogCache
	plans     *planner.PlanRepository
	metrics   *metrics.Store

	ghostClient ghost.Client
}

type Option func(*App)

// WithCatalogCache serves the template catalog through cache. Imports invalidate it.
func WithCatalogCache(cache CatalogCache) Option {
	return func(a *App) {
		a.cache = cache
	}
}

// WithGhost enables Ghost template import and plan publishing.
func WithGhost(client ghost.Client) Option {
	return func(a *App) {
		a.ghostClient = client
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// NewApp creates and initializes a new App instance.
func NewApp(cfg *config.Config, log *logger.Logger, db *database.DB, normalizer *quiz.Normalizer, opts ...Option) *App {
	a := &App{
		cfg:        cfg,
		log:        log,
		now:        time.Now,
		normalizer: normalizer,
		profiles:   profile.NewRepository(db.SQL),
		templates:  mealtemplate.NewRepository(db.SQL),
		plans:      planner.NewPlanRepository(db.SQL),
		metrics:    metrics.NewStore(db.SQL),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.engine = scoring.NewEngine(scoring.WithClock(a.now))
	a.generator = planner.NewGenerator(log, planner.WithClock(a.now))
	a.catalog = a.templates
	if a.cache != nil {
		a.catalog = a.cache
	}
	return a
}

// Normalize runs the answer normalizer without storing anything.
func (a *App) Normalize(raw quiz.RawAnswers) quiz.NormalizedAnswers {
	return a.normalizer.Normalize(raw)
}

// Metrics exposes the generation metrics store for reporting.
func (a *App) Metrics() *metrics.Store {
	return a.metrics
}

// DailyStats summarizes plan generation over the last days.
func (a *App) DailyStats(ctx context.Context, days int) ([]metrics.DailyStats, error) {
	return a.metrics.GetDailyStats(ctx, days)
}

// today is the current date at UTC midnight.
func (a *App) today() time.Time {
	now := a.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
