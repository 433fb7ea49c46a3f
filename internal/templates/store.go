// Package templates stores reusable outreach emails containing {{placeholder}}
// tokens and renders them with user-supplied values.
package templates

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jonathan/cold-outreach/internal/types"
)

// Store persists templates. Usage statistics change only through RecordUse:
// Save and UpdateContent never overwrite them on an existing template.
type Store interface {
	List(ctx context.Context, filter Filter) ([]types.Template, error)
	Get(ctx context.Context, id string) (*types.Template, error)
	// Save inserts t, or replaces the content of the template with the same ID.
	Save(ctx context.Context, t *types.Template) error
	// UpdateContent replaces title, subject, body, preview, tags, category and
	// score of an existing template in one step and returns the stored result.
	UpdateContent(ctx context.Context, t *types.Template) (*types.Template, error)
	// RecordUse increments the usage count, sets LastUsed to at and returns the
	// updated template.
	RecordUse(ctx context.Context, id string, at time.Time) (*types.Template, error)
	Delete(ctx context.Context, id string) error
}

// View selects a predefined subset of the library.
type View string

const (
	ViewAll             View = "all"
	ViewHighPerforming  View = "high-performing"
	ViewRecent          View = "recent"
	HighPerformingScore      = 85
	RecentWindow             = 30 * 24 * time.Hour
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Search   string
	Tag      string
	Category string
	View     View
}

// Match reports whether t passes the filter at time now.
func (f Filter) Match(t *types.Template, now time.Time) bool {
	switch f.View {
	case ViewHighPerforming:
		if t.AIResponseScore < HighPerformingScore {
			return false
		}
	case ViewRecent:
		if t.LastUsed == nil || t.LastUsed.Before(now.Add(-RecentWindow)) {
			return false
		}
	}

	if f.Category != "" && !strings.EqualFold(f.Category, t.Category) {
		return false
	}
	if f.Tag != "" && !slices.ContainsFunc(t.Tags, func(tag string) bool { return strings.EqualFold(tag, f.Tag) }) {
		return false
	}
	if f.Search != "" && !matchesSearch(t, strings.ToLower(strings.TrimSpace(f.Search))) {
		return false
	}
	return true
}

func matchesSearch(t *types.Template, q string) bool {
	if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Preview), q) {
		return true
	}
	return slices.ContainsFunc(t.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}

// SortTemplates orders by LastUsed descending (never used last), then by
// CreatedAt descending.
func SortTemplates(list []types.Template) {
	slices.SortStableFunc(list, func(a, b types.Template) int {
		switch {
		case a.LastUsed != nil && b.LastUsed == nil:
			return -1
		case a.LastUsed == nil && b.LastUsed != nil:
			return 1
		case a.LastUsed != nil && !a.LastUsed.Equal(*b.LastUsed):
			return b.LastUsed.Compare(*a.LastUsed)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
