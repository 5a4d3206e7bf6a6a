package mealtemplate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	templatedb "meal-planner/internal/mealtemplate/db"
)

// ErrEmptyCatalog rejects imports that would leave no templates at all.
var ErrEmptyCatalog = errors.New("template catalog is empty")

// Catalog is a read-only source of meal templates in catalog order.
type Catalog interface {
	List(ctx context.Context) ([]Template, error)
}

// Repository is a database-backed catalog of meal templates.
type Repository struct {
	queries *templatedb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: templatedb.New(d),
		db:      d,
	}
}

// Replace swaps the whole catalog for templates, keeping their order.
// Invalid templates abort the import before anything is written.
func (r *Repository) Replace(ctx context.Context, templates []Template) error {
	if len(templates) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(templates))
	for i := range templates {
		templates[i].normalize()
		if err := templates[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[templates[i].ID]; dup {
			return fmt.Errorf("duplicate template id %q", templates[i].ID)
		}
		seen[templates[i].ID] = struct{}{}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllTemplates(ctx); err != nil {
		return fmt.Errorf("failed to clear templates: %w", err)
	}

	now := time.Now().UTC()
	for i, t := range templates {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal template to JSON: %w", err)
		}
		if err := q.InsertTemplate(ctx, templatedb.InsertTemplateParams{
			ID:        t.ID,
			Category:  string(t.Category),
			Position:  int64(i),
			Data:      string(data),
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to insert template %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit templates: %w", err)
	}
	return nil
}

// Get retrieves a template by its ID, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Template, error) {
	row, err := r.queries.GetTemplateByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template by ID: %w", err)
	}

	var t Template
	if err := json.Unmarshal([]byte(row.Data), &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template JSON: %w", err)
	}
	return &t, nil
}

// List returns every template in catalog order.
func (r *Repository) List(ctx context.Context) ([]Template, error) {
	rows, err := r.queries.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	templates := make([]Template, 0, len(rows))
	for _, row := range rows {
		var t Template
		if err := json.Unmarshal([]byte(row.Data), &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal template JSON for ID %s: %w", row.ID, err)
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// Count returns the number of templates in the catalog.
func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	return int(count), nil
}
