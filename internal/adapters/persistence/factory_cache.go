package persistence

import (
	"context"
	"sync"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
)

// CachedFactoryRepository wraps the factory repository with a
// process-local cache of per-factory unit configuration. Factories
// change only through admin settings edits, so entries live until
// Clear is called; there is no TTL.
type CachedFactoryRepository struct {
	inner *GormFactoryRepository

	mu      sync.RWMutex
	entries map[int]*catalog.Factory
}

// NewCachedFactoryRepository wraps a factory repository
func NewCachedFactoryRepository(inner *GormFactoryRepository) *CachedFactoryRepository {
	return &CachedFactoryRepository{
		inner:   inner,
		entries: make(map[int]*catalog.Factory),
	}
}

// FindByID returns the cached factory, loading through on a miss
func (r *CachedFactoryRepository) FindByID(ctx context.Context, id int) (*catalog.Factory, error) {
	r.mu.RLock()
	cached, ok := r.entries[id]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	factory, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.entries[id] = factory
	r.mu.Unlock()
	return factory, nil
}

// FindAll lists every factory and refreshes the cache with the result
func (r *CachedFactoryRepository) FindAll(ctx context.Context) ([]*catalog.Factory, error) {
	factories, err := r.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	r.store(factories)
	return factories, nil
}

// FindActive lists active factories and refreshes the cache
func (r *CachedFactoryRepository) FindActive(ctx context.Context) ([]*catalog.Factory, error) {
	factories, err := r.inner.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	r.store(factories)
	return factories, nil
}

// DefaultActive resolves the default factory, bypassing the cache for
// the ordering query but caching the result.
func (r *CachedFactoryRepository) DefaultActive(ctx context.Context) (*catalog.Factory, error) {
	factory, err := r.inner.DefaultActive(ctx)
	if err != nil {
		return nil, err
	}
	r.store([]*catalog.Factory{factory})
	return factory, nil
}

// Clear drops every cached entry. Called after settings changes.
func (r *CachedFactoryRepository) Clear() {
	r.mu.Lock()
	r.entries = make(map[int]*catalog.Factory)
	r.mu.Unlock()
}

func (r *CachedFactoryRepository) store(factories []*catalog.Factory) {
	r.mu.Lock()
	for _, f := range factories {
		r.entries[f.ID] = f
	}
	r.mu.Unlock()
}
