package product

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]Product
	err      error
	lists    int
}

func newMemStore() *memStore {
	return &memStore{products: make(map[uuid.UUID]Product)}
}

func (s *memStore) Create(_ context.Context, p *Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	s.products[p.ID] = *p
	out := *p
	return &out, nil
}

func (s *memStore) List(context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *memStore) Update(_ context.Context, id uuid.UUID, in UpdateInput, now time.Time) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	p.UpdatedAt = now
	s.products[id] = p
	return &p, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// memCache is an in-process Cache that can be told to fail.
type memCache struct {
	mu          sync.Mutex
	products    map[uuid.UUID]Product
	list        []Product
	hasList     bool
	invalidated []uuid.UUID
	broken      bool
}

func newMemCache() *memCache {
	return &memCache{products: make(map[uuid.UUID]Product)}
}

var errCacheDown = errors.New("cache down")

func (c *memCache) GetProduct(_ context.Context, id uuid.UUID) (*Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return nil, errCacheDown
	}
	p, ok := c.products[id]
	if !ok {
		return nil, ErrCacheMiss
	}
	return &p, nil
}

func (c *memCache) SetProduct(_ context.Context, p *Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return errCacheDown
	}
	c.products[p.ID] = *p
	return nil
}

func (c *memCache) GetList(context.Context) ([]Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return nil, errCacheDown
	}
	if !c.hasList {
		return nil, ErrCacheMiss
	}
	return c.list, nil
}

func (c *memCache) SetList(_ context.Context, products []Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return errCacheDown
	}
	c.list = products
	c.hasList = true
	return nil
}

func (c *memCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidated = append(c.invalidated, id)
	if c.broken {
		return errCacheDown
	}
	delete(c.products, id)
	c.list = nil
	c.hasList = false
	return nil
}

// interleavingStore runs afterRead once, right after a read returns, to
// model a write landing between a cache miss and the cache fill.
type interleavingStore struct {
	*memStore
	afterRead func()
}

func (s *interleavingStore) fire() {
	if f := s.afterRead; f != nil {
		s.afterRead = nil
		f()
	}
}

func (s *interleavingStore) List(ctx context.Context) ([]Product, error) {
	out, err := s.memStore.List(ctx)
	s.fire()
	return out, err
}

func (s *interleavingStore) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	out, err := s.memStore.GetByID(ctx, id)
	s.fire()
	return out, err
}
