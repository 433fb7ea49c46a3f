package templates

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jonathan/cold-outreach/internal/types"
)

// MemoryStore is an in-process Store. It is used when no database is
// configured and in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string]types.Template
	now       func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates: make(map[string]types.Template),
		now:       time.Now,
	}
}

func (s *MemoryStore) List(_ context.Context, filter Filter) ([]types.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	result := make([]types.Template, 0, len(s.templates))
	for _, t := range s.templates {
		if filter.Match(&t, now) {
			result = append(result, clone(t))
		}
	}
	SortTemplates(result)
	return result, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*types.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(t)
	return &c, nil
}

func (s *MemoryStore) Save(_ context.Context, t *types.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := clone(*t)
	if existing, ok := s.templates[t.ID]; ok {
		c.UsageCount = existing.UsageCount
		c.LastUsed = existing.LastUsed
	}
	s.templates[t.ID] = c
	return nil
}

func (s *MemoryStore) UpdateContent(_ context.Context, t *types.Template) (*types.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.templates[t.ID]
	if !ok {
		return nil, ErrNotFound
	}
	existing.Title = t.Title
	existing.Subject = t.Subject
	existing.Body = t.Body
	existing.Preview = t.Preview
	existing.Tags = slices.Clone(t.Tags)
	existing.Category = t.Category
	existing.AIResponseScore = t.AIResponseScore
	s.templates[t.ID] = existing

	c := clone(existing)
	return &c, nil
}

func (s *MemoryStore) RecordUse(_ context.Context, id string, at time.Time) (*types.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	t.UsageCount++
	t.LastUsed = &at
	s.templates[id] = t

	c := clone(t)
	return &c, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return ErrNotFound
	}
	delete(s.templates, id)
	return nil
}

// clone copies the slice and pointer fields so callers cannot mutate stored state.
func clone(t types.Template) types.Template {
	t.Tags = slices.Clone(t.Tags)
	if t.LastUsed != nil {
		lu := *t.LastUsed
		t.LastUsed = &lu
	}
	return t
}
