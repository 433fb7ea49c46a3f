package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cold-outreach/internal/templates"
)

func TestBuildListQuery(t *testing.T) {
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   templates.Filter
		contains []string
		excludes []string
		wantArgs []any
	}{
		{
			name:     "no filter",
			filter:   templates.Filter{},
			contains: []string{"FROM email_templates ORDER BY last_used DESC NULLS LAST, created_at DESC"},
			excludes: []string{"WHERE"},
			wantArgs: nil,
		},
		{
			name:     "high performing",
			filter:   templates.Filter{View: templates.ViewHighPerforming},
			contains: []string{"WHERE ai_response_score >= $1"},
			wantArgs: []any{85},
		},
		{
			name:     "recent",
			filter:   templates.Filter{View: templates.ViewRecent},
			contains: []string{"WHERE last_used >= $1"},
			wantArgs: []any{now.Add(-30 * 24 * time.Hour)},
		},
		{
			name:   "category tag and search",
			filter: templates.Filter{Category: "Networking", Tag: "chat", Search: " 50%_off "},
			contains: []string{
				"LOWER(category) = LOWER($1)",
				"LOWER(tag) = LOWER($2)",
				"title ILIKE $3 OR preview ILIKE $3",
				" AND ",
			},
			wantArgs: []any{"Networking", "chat", `%50\%\_off%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.filter, now)
			for _, s := range tt.contains {
				assert.Contains(t, query, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, query, s)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSchemaSQL(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS email_templates")
	assert.Contains(t, schemaSQL, "tags              TEXT[]")
}
