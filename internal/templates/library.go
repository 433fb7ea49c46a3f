package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cold-outreach/internal/normalize"
	"github.com/jonathan/cold-outreach/internal/types"
)

// Library is the template service used by the HTTP server and CLI.
type Library struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewLibrary wraps a store. A nil logger disables logging.
func NewLibrary(store Store, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Filled is a template rendered with placeholder values.
type Filled struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Missing []string `json:"missing"`
}

// List returns templates matching filter.
func (l *Library) List(ctx context.Context, filter Filter) ([]types.Template, error) {
	return l.store.List(ctx, filter)
}

// Get returns a single template.
func (l *Library) Get(ctx context.Context, id string) (*types.Template, error) {
	return l.store.Get(ctx, id)
}

// SaveFromFields creates a new template. LastUsed starts at the creation time
// so fresh templates show up in the recent view.
func (l *Library) SaveFromFields(ctx context.Context, fields types.TemplateFields, category string, score int) (*types.Template, error) {
	fields, err := cleanFields(fields)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	t := &types.Template{
		ID:              l.newID(),
		Title:           fields.Title,
		Subject:         fields.Subject,
		Body:            fields.Body,
		Preview:         types.Preview(fields.Body),
		Tags:            fields.Tags,
		Category:        strings.TrimSpace(category),
		LastUsed:        &now,
		AIResponseScore: types.ClampScore(score),
		CreatedAt:       now,
	}
	if err := l.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	l.logger.Info("template saved",
		zap.String("id", t.ID),
		zap.String("title", t.Title),
		zap.Strings("placeholders", normalize.Placeholders(t.Subject+"\n"+t.Body)),
	)
	return t, nil
}

// Update replaces a template's content. Usage statistics are left to the
// store, so a concurrent Use is never lost.
func (l *Library) Update(ctx context.Context, id string, fields types.TemplateFields, category string, score int) (*types.Template, error) {
	fields, err := cleanFields(fields)
	if err != nil {
		return nil, err
	}

	updated, err := l.store.UpdateContent(ctx, &types.Template{
		ID:              id,
		Title:           fields.Title,
		Subject:         fields.Subject,
		Body:            fields.Body,
		Preview:         types.Preview(fields.Body),
		Tags:            fields.Tags,
		Category:        strings.TrimSpace(category),
		AIResponseScore: types.ClampScore(score),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update template %s: %w", id, err)
	}
	return updated, nil
}

// Use records that the template was used now.
func (l *Library) Use(ctx context.Context, id string) (*types.Template, error) {
	return l.store.RecordUse(ctx, id, l.now().UTC())
}

// Fill renders the template's subject and body. Placeholders with no value
// stay in the output and are listed in Missing.
func (l *Library) Fill(ctx context.Context, id string, values map[string]string) (*Filled, error) {
	t, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	subject, missingSubject := normalize.FillPlaceholders(t.Subject, values)
	body, missingBody := normalize.FillPlaceholders(t.Body, values)

	missing := append([]string{}, missingSubject...)
	for _, name := range missingBody {
		if !contains(missing, name) {
			missing = append(missing, name)
		}
	}
	return &Filled{Subject: subject, Body: body, Missing: missing}, nil
}

// Delete removes a template.
func (l *Library) Delete(ctx context.Context, id string) error {
	return l.store.Delete(ctx, id)
}

// cleanFields trims content, canonicalizes placeholder tokens and defaults
// the title.
func cleanFields(f types.TemplateFields) (types.TemplateFields, error) {
	f.Subject = normalize.CanonicalPlaceholders(strings.TrimSpace(f.Subject))
	f.Body = normalize.CanonicalPlaceholders(strings.TrimSpace(f.Body))
	if f.Subject == "" {
		return f, &ValidationError{Field: "subject", Message: "must not be empty"}
	}
	if f.Body == "" {
		return f, &ValidationError{Field: "body", Message: "must not be empty"}
	}

	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		f.Title = normalize.DefaultTemplateTitle
	}

	tags := make([]string, 0, len(f.Tags))
	for _, tag := range f.Tags {
		if tag = strings.TrimSpace(tag); tag != "" && !contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	f.Tags = tags
	return f, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
