package app

import (
	"context"
	"fmt"

	"meal-planner/internal/clipper"
	"meal-planner/internal/ghost"
	"meal-planner/internal/mealtemplate"
)

// ImportTemplates replaces the template catalog with what source yields and drops
// the cached catalog. It returns the number of imported templates.
func (a *App) ImportTemplates(ctx context.Context, source mealtemplate.Source) (int, error) {
	templates, err := source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load templates: %w", err)
	}
	if err := a.templates.Replace(ctx, templates); err != nil {
		return 0, fmt.Errorf("failed to import templates: %w", err)
	}

	if a.cache != nil {
		if err := a.cache.Invalidate(ctx); err != nil {
			a.log.Warn("catalog cache not invalidated", "error", err)
		}
	}
	a.log.Info("templates imported", "count", len(templates))
	return len(templates), nil
}

// GhostTemplateSource reads templates from Ghost posts tagged with the configured tag.
func (a *App) GhostTemplateSource() (mealtemplate.Source, error) {
	if a.ghostClient == nil {
		return nil, ErrGhostUnavailable
	}
	return mealtemplate.NewGhostSource(a.ghostClient, a.cfg.GhostTemplateTag, a.log), nil
}

// ExportTemplates writes the stored catalog to path in the import file format.
func (a *App) ExportTemplates(ctx context.Context, path string) (int, error) {
	templates, err := a.templates.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := mealtemplate.WriteFile(path, templates); err != nil {
		return 0, err
	}
	return len(templates), nil
}

// ClipTemplate saves the recipe at url to Ghost as a template draft. category is used
// when the page does not name one.
func (a *App) ClipTemplate(ctx context.Context, url string, category mealtemplate.Category) (*ghost.Post, error) {
	if a.ghostClient == nil {
		return nil, ErrGhostUnavailable
	}
	return clipper.NewClipper(a.ghostClient, a.log).ClipURL(ctx, url, category)
}
