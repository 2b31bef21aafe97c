package meta

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachedStore wraps a Store with a read-through cache. Concurrent requests
// for the same key share one in-flight fetch, so a burst of query builds
// touching the same lookup chain triggers at most one metadata load per
// entity. Caching is a de-duplication optimization, not a consistency
// mechanism: entries live until Invalidate is called.
type CachedStore struct {
	inner Store

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]any
}

// NewCachedStore wraps inner with memoization.
func NewCachedStore(inner Store) *CachedStore {
	return &CachedStore{inner: inner, cache: make(map[string]any)}
}

// Invalidate drops every cached entry. Call after schema mutations.
func (s *CachedStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]any)
	// In-flight fetches will still land in the new map; they fetched from
	// the source of truth, so the entries stay valid.
}

func (s *CachedStore) get(key string, fetch func() (any, error)) (any, error) {
	s.mu.RLock()
	v, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = v
		s.mu.Unlock()
		return v, nil
	})
	return v, err
}

// --- Store implementation ---

func (s *CachedStore) GetColumn(ctx context.Context, c Context, columnID string) (*Column, error) {
	v, err := s.get("col/"+key(c, columnID), func() (any, error) {
		return s.inner.GetColumn(ctx, c, columnID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Column), nil
}

func (s *CachedStore) GetColumns(ctx context.Context, c Context, modelID string) ([]*Column, error) {
	v, err := s.get("cols/"+key(c, modelID), func() (any, error) {
		return s.inner.GetColumns(ctx, c, modelID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Column), nil
}

func (s *CachedStore) GetModel(ctx context.Context, c Context, modelID string) (*Model, error) {
	v, err := s.get("mdl/"+key(c, modelID), func() (any, error) {
		return s.inner.GetModel(ctx, c, modelID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Model), nil
}

func (s *CachedStore) GetSource(ctx context.Context, c Context, sourceID string) (*Source, error) {
	v, err := s.get("src/"+key(c, sourceID), func() (any, error) {
		return s.inner.GetSource(ctx, c, sourceID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Source), nil
}

func (s *CachedStore) GetHook(ctx context.Context, c Context, hookID string) (*Hook, error) {
	v, err := s.get("hk/"+key(c, hookID), func() (any, error) {
		return s.inner.GetHook(ctx, c, hookID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Hook), nil
}

func (s *CachedStore) GetHookFilters(ctx context.Context, c Context, hookID string) ([]*Filter, error) {
	v, err := s.get("hkf/"+key(c, hookID), func() (any, error) {
		return s.inner.GetHookFilters(ctx, c, hookID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Filter), nil
}
