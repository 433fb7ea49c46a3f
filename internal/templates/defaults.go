package templates

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cold-outreach/internal/normalize"
	"github.com/jonathan/cold-outreach/internal/types"
)

//go:embed defaults.json
var defaultsJSON []byte

// seededAt is the creation time recorded on built-in templates.
var seededAt = time.Date(2025, time.August, 23, 0, 0, 0, 0, time.UTC)

var bracketLabel = regexp.MustCompile(`\[([^\[\]]+)\]`)

type defaultCategory struct {
	Category  string            `json:"category"`
	Templates []defaultTemplate `json:"templates"`
}

type defaultTemplate struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Tags    []string `json:"tags"`
}

// Defaults returns the built-in templates. Their "[Company Name]" style
// labels become {{company_name}} tokens and newlines become line-break markers.
func Defaults() ([]types.Template, error) {
	var categories []defaultCategory
	if err := json.Unmarshal(defaultsJSON, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse default templates: %w", err)
	}

	var result []types.Template
	for _, c := range categories {
		for _, d := range c.Templates {
			body := strings.ReplaceAll(bracketsToTokens(d.Body), "\n", types.LineBreak)
			result = append(result, types.Template{
				ID:        d.ID,
				Title:     d.Title,
				Subject:   bracketsToTokens(d.Subject),
				Body:      body,
				Preview:   types.Preview(body),
				Tags:      d.Tags,
				Category:  c.Category,
				CreatedAt: seededAt,
			})
		}
	}
	return result, nil
}

func bracketsToTokens(text string) string {
	return bracketLabel.ReplaceAllStringFunc(text, func(m string) string {
		name := normalize.PlaceholderName(m[1 : len(m)-1])
		if name == "" {
			return m
		}
		return "{{" + name + "}}"
	})
}

// Seed stores any built-in template that is not already present and returns
// how many were added. Existing templates keep their usage statistics.
func (l *Library) Seed(ctx context.Context) (int, error) {
	defaults, err := Defaults()
	if err != nil {
		return 0, err
	}

	added := 0
	for i := range defaults {
		_, err := l.store.Get(ctx, defaults[i].ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return added, fmt.Errorf("failed to check template %s: %w", defaults[i].ID, err)
		}
		if err := l.store.Save(ctx, &defaults[i]); err != nil {
			return added, fmt.Errorf("failed to seed template %s: %w", defaults[i].ID, err)
		}
		added++
	}

	l.logger.Info("default templates seeded", zap.Int("added", added), zap.Int("total", len(defaults)))
	return added, nil
}
