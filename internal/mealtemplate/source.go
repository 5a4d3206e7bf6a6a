package mealtemplate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Source produces a full catalog for import.
type Source interface {
	Load(ctx context.Context) ([]Template, error)
}

// FileSource reads a catalog from a JSON file holding either an array of templates
// or an object with a "templates" array.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(_ context.Context) ([]Template, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", s.path, err)
	}
	return decodeTemplates(data)
}

func decodeTemplates(data []byte) ([]Template, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var templates []Template
		if err := json.Unmarshal(data, &templates); err != nil {
			return nil, fmt.Errorf("failed to unmarshal templates: %w", err)
		}
		return templates, nil
	}

	var wrapped struct {
		Templates []Template `json:"templates"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to unmarshal templates: %w", err)
	}
	return wrapped.Templates, nil
}

// WriteFile stores templates as an indented JSON array, the format FileSource reads.
func WriteFile(path string, templates []Template) error {
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal templates: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}
	return nil
}
