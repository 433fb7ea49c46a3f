package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/cold-outreach/internal/templates"
	"github.com/jonathan/cold-outreach/internal/types"
)

const templateColumns = `id, title, subject, body, preview, tags, category,
	usage_count, last_used, ai_response_score, created_at`

// TemplateStore implements templates.Store on PostgreSQL.
type TemplateStore struct {
	db  *DB
	now func() time.Time
}

// NewTemplateStore returns a store backed by db.
func NewTemplateStore(db *DB) *TemplateStore {
	return &TemplateStore{db: db, now: time.Now}
}

var _ templates.Store = (*TemplateStore)(nil)

func (s *TemplateStore) List(ctx context.Context, filter templates.Filter) ([]types.Template, error) {
	query, args := buildListQuery(filter, s.now())

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	result := []types.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return result, nil
}

// buildListQuery translates a Filter into SQL. Matching is the same as
// templates.Filter.Match.
func buildListQuery(filter templates.Filter, now time.Time) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	switch filter.View {
	case templates.ViewHighPerforming:
		where = append(where, "ai_response_score >= "+arg(templates.HighPerformingScore))
	case templates.ViewRecent:
		where = append(where, "last_used >= "+arg(now.Add(-templates.RecentWindow)))
	}
	if filter.Category != "" {
		where = append(where, "LOWER(category) = LOWER("+arg(filter.Category)+")")
	}
	if filter.Tag != "" {
		p := arg(filter.Tag)
		where = append(where, "EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE LOWER(tag) = LOWER("+p+"))")
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		p := arg("%" + escapeLike(q) + "%")
		where = append(where, "(title ILIKE "+p+" OR preview ILIKE "+p+
			" OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE "+p+"))")
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + templateColumns + " FROM email_templates")
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY last_used DESC NULLS LAST, created_at DESC")
	return sb.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *TemplateStore) Get(ctx context.Context, id string) (*types.Template, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM email_templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, templates.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get template %s: %w", id, err)
	}
	return t, nil
}

func (s *TemplateStore) Save(ctx context.Context, t *types.Template) error {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO email_templates (`+templateColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			subject = EXCLUDED.subject,
			body = EXCLUDED.body,
			preview = EXCLUDED.preview,
			tags = EXCLUDED.tags,
			category = EXCLUDED.category,
			ai_response_score = EXCLUDED.ai_response_score`,
		t.ID, t.Title, t.Subject, t.Body, t.Preview, tags, t.Category,
		t.UsageCount, t.LastUsed, t.AIResponseScore, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save template %s: %w", t.ID, err)
	}
	return nil
}

// UpdateContent rewrites the editable columns in a single statement, so usage
// recorded concurrently is kept.
func (s *TemplateStore) UpdateContent(ctx context.Context, t *types.Template) (*types.Template, error) {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	row := s.db.pool.QueryRow(ctx,
		`UPDATE email_templates SET title = $2, subject = $3, body = $4, preview = $5,
			tags = $6, category = $7, ai_response_score = $8
		 WHERE id = $1
		 RETURNING `+templateColumns,
		t.ID, t.Title, t.Subject, t.Body, t.Preview, tags, t.Category, t.AIResponseScore)
	updated, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, templates.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update template %s: %w", t.ID, err)
	}
	return updated, nil
}

func (s *TemplateStore) RecordUse(ctx context.Context, id string, at time.Time) (*types.Template, error) {
	row := s.db.pool.QueryRow(ctx,
		`UPDATE email_templates SET usage_count = usage_count + 1, last_used = $2
		 WHERE id = $1
		 RETURNING `+templateColumns, id, at)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, templates.ErrNotFound
		}
		return nil, fmt.Errorf("failed to record use of template %s: %w", id, err)
	}
	return t, nil
}

func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return templates.ErrNotFound
	}
	return nil
}

func scanTemplate(row pgx.Row) (*types.Template, error) {
	var t types.Template
	err := row.Scan(
		&t.ID, &t.Title, &t.Subject, &t.Body, &t.Preview, &t.Tags, &t.Category,
		&t.UsageCount, &t.LastUsed, &t.AIResponseScore, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}
