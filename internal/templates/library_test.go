package templates

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/cold-outreach/internal/normalize"
	"github.com/jonathan/cold-outreach/internal/types"
)

var fixedNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func newTestLibrary(t *testing.T) (*Library, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	store.now = func() time.Time { return fixedNow }

	lib := NewLibrary(store, zaptest.NewLogger(t))
	lib.now = func() time.Time { return fixedNow }
	n := 0
	lib.newID = func() string {
		n++
		return fmt.Sprintf("tpl-%d", n)
	}
	return lib, store
}

func TestLibrary_SaveFromFields(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	saved, err := lib.SaveFromFields(ctx, types.TemplateFields{
		Title:   "  Backend intro ",
		Subject: "Interest in {{ Role Title }} at {{company_name}}",
		Body:    "Hi {{recruiter_name}},<br/>I build APIs.",
		Tags:    []string{"backend", " ", "backend", "intro"},
	}, "Job Application", 140)
	require.NoError(t, err)

	assert.Equal(t, "tpl-1", saved.ID)
	assert.Equal(t, "Backend intro", saved.Title)
	assert.Equal(t, "Interest in {{role_title}} at {{company_name}}", saved.Subject)
	assert.Equal(t, "Hi {{recruiter_name}},<br/>I build APIs.", saved.Preview)
	assert.Equal(t, []string{"backend", "intro"}, saved.Tags)
	assert.Equal(t, 100, saved.AIResponseScore)
	assert.Equal(t, 0, saved.UsageCount)
	require.NotNil(t, saved.LastUsed)
	assert.Equal(t, fixedNow, *saved.LastUsed)
	assert.Equal(t, fixedNow, saved.CreatedAt)

	got, err := lib.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestLibrary_SaveFromFields_Validation(t *testing.T) {
	lib, store := newTestLibrary(t)

	tests := []struct {
		name   string
		fields types.TemplateFields
		field  string
	}{
		{name: "empty subject", fields: types.TemplateFields{Subject: " ", Body: "b"}, field: "subject"},
		{name: "empty body", fields: types.TemplateFields{Subject: "s", Body: ""}, field: "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.SaveFromFields(context.Background(), tt.fields, "", 0)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	all, err := store.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLibrary_DefaultTitle(t *testing.T) {
	lib, _ := newTestLibrary(t)
	saved, err := lib.SaveFromFields(context.Background(), types.TemplateFields{Subject: "s", Body: "b"}, "", 0)
	require.NoError(t, err)
	assert.Equal(t, normalize.DefaultTemplateTitle, saved.Title)
	assert.NotNil(t, saved.Tags)
}

func TestLibrary_UpdateKeepsUsage(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	saved, err := lib.SaveFromFields(ctx, types.TemplateFields{Subject: "s", Body: "b"}, "", 10)
	require.NoError(t, err)
	_, err = lib.Use(ctx, saved.ID)
	require.NoError(t, err)

	updated, err := lib.Update(ctx, saved.ID, types.TemplateFields{Title: "New", Subject: "s2", Body: "b2"}, "Networking", 90)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "b2", updated.Preview)
	assert.Equal(t, "Networking", updated.Category)
	assert.Equal(t, 90, updated.AIResponseScore)
	assert.Equal(t, 1, updated.UsageCount)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)

	_, err = lib.Update(ctx, "missing", types.TemplateFields{Subject: "s", Body: "b"}, "", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLibrary_UpdateConcurrentWithUse(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	saved, err := lib.SaveFromFields(ctx, types.TemplateFields{Subject: "s", Body: "b"}, "", 10)
	require.NoError(t, err)

	const uses = 50
	var wg sync.WaitGroup
	for i := 0; i < uses; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := lib.Use(ctx, saved.ID)
			assert.NoError(t, err)
		}()
		go func(i int) {
			defer wg.Done()
			_, err := lib.Update(ctx, saved.ID, types.TemplateFields{Subject: "s", Body: fmt.Sprintf("b%d", i)}, "", 10)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := lib.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, uses, got.UsageCount)
}

func TestLibrary_Use(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	saved, err := lib.SaveFromFields(ctx, types.TemplateFields{Subject: "s", Body: "b"}, "", 0)
	require.NoError(t, err)

	later := fixedNow.Add(time.Hour)
	lib.now = func() time.Time { return later }

	used, err := lib.Use(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, used.UsageCount)
	assert.Equal(t, later, *used.LastUsed)

	used, err = lib.Use(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, used.UsageCount)

	_, err = lib.Use(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLibrary_Fill(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	saved, err := lib.SaveFromFields(ctx, types.TemplateFields{
		Subject: "{{role_title}} at {{company_name}}",
		Body:    "Hi {{recruiter_name}},<br/>I love {{company_name}}. {{closing}}",
	}, "", 0)
	require.NoError(t, err)

	filled, err := lib.Fill(ctx, saved.ID, map[string]string{
		"company_name":   "Acme",
		"recruiter_name": "Dana",
	})
	require.NoError(t, err)
	assert.Equal(t, "{{role_title}} at Acme", filled.Subject)
	assert.Equal(t, "Hi Dana,<br/>I love Acme. {{closing}}", filled.Body)
	assert.Equal(t, []string{"role_title", "closing"}, filled.Missing)

	filled, err = lib.Fill(ctx, saved.ID, map[string]string{
		"company_name": "Acme", "recruiter_name": "Dana", "role_title": "SRE", "closing": "Thanks!",
	})
	require.NoError(t, err)
	assert.Empty(t, filled.Missing)
	assert.NotContains(t, filled.Body, "{{")
}

func TestLibrary_Delete(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	saved, err := lib.SaveFromFields(ctx, types.TemplateFields{Subject: "s", Body: "b"}, "", 0)
	require.NoError(t, err)

	require.NoError(t, lib.Delete(ctx, saved.ID))
	_, err = lib.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, lib.Delete(ctx, saved.ID), ErrNotFound)
}

func TestLibrary_Seed(t *testing.T) {
	lib, store := newTestLibrary(t)
	ctx := context.Background()

	added, err := lib.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, added)

	_, err = lib.Use(ctx, "job_app_1")
	require.NoError(t, err)

	added, err = lib.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)

	got, err := store.Get(ctx, "job_app_1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsageCount, "reseeding keeps usage")
}

func TestDefaults(t *testing.T) {
	defaults, err := Defaults()
	require.NoError(t, err)
	require.Len(t, defaults, 6)

	categories := map[string]int{}
	for _, d := range defaults {
		categories[d.Category]++
		assert.Empty(t, normalize.InvalidPlaceholders(d.Subject+d.Body), d.ID)
		assert.NotContains(t, d.Body, "[", d.ID)
		assert.NotContains(t, d.Body, "\n", d.ID)
		assert.LessOrEqual(t, len([]rune(d.Preview)), types.PreviewLength)
		assert.Nil(t, d.LastUsed)
	}
	assert.Equal(t, map[string]int{"Job Application": 2, "Networking": 2, "Referral Request": 2}, categories)

	first := defaults[0]
	assert.Equal(t, "Application for {{job_title}} at {{company_name}}", first.Subject)
	assert.Contains(t, first.Body, "Hi {{hiring_managers_name}},<br/><br/>My name is {{your_name}}")
	assert.Contains(t, first.Body, "{{your_skills_experience}}")
}
