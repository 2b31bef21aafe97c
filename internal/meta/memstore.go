package meta

import (
	"context"
	"sync"

	"github.com/smndtrl/nocodb/internal/errs"
)

// MemStore is an in-memory Store implementation backed by plain maps.
// It serves tests, fixtures and single-node deployments where the whole
// schema snapshot fits in memory. Safe for concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	columns map[string]*Column // key: baseID + "/" + columnID
	models  map[string]*Model
	sources map[string]*Source
	hooks   map[string]*Hook
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		columns: make(map[string]*Column),
		models:  make(map[string]*Model),
		sources: make(map[string]*Source),
		hooks:   make(map[string]*Hook),
	}
}

func key(c Context, id string) string {
	return c.BaseID + "/" + id
}

// AddModel registers a model and all of its columns under the given context.
func (s *MemStore) AddModel(c Context, m *Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[key(c, m.ID)] = m
	for _, col := range m.Columns {
		col.ModelID = m.ID
		s.columns[key(c, col.ID)] = col
	}
}

// AddSource registers a source under the given context.
func (s *MemStore) AddSource(c Context, src *Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[key(c, src.ID)] = src
}

// AddHook registers a hook under the given context.
func (s *MemStore) AddHook(c Context, h *Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[key(c, h.ID)] = h
}

// --- Store implementation ---

func (s *MemStore) GetColumn(_ context.Context, c Context, columnID string) (*Column, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.columns[key(c, columnID)]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "column %q not found in base %q", columnID, c.BaseID)
	}
	return col, nil
}

func (s *MemStore) GetColumns(ctx context.Context, c Context, modelID string) ([]*Column, error) {
	m, err := s.GetModel(ctx, c, modelID)
	if err != nil {
		return nil, err
	}
	return m.Columns, nil
}

func (s *MemStore) GetModel(_ context.Context, c Context, modelID string) (*Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[key(c, modelID)]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "model %q not found in base %q", modelID, c.BaseID)
	}
	return m, nil
}

func (s *MemStore) GetSource(_ context.Context, c Context, sourceID string) (*Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.sources[key(c, sourceID)]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "source %q not found in base %q", sourceID, c.BaseID)
	}
	return src, nil
}

func (s *MemStore) GetHook(_ context.Context, c Context, hookID string) (*Hook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hooks[key(c, hookID)]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "hook %q not found in base %q", hookID, c.BaseID)
	}
	return h, nil
}

func (s *MemStore) GetHookFilters(ctx context.Context, c Context, hookID string) ([]*Filter, error) {
	h, err := s.GetHook(ctx, c, hookID)
	if err != nil {
		return nil, err
	}
	return h.Filters, nil
}
