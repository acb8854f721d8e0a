package product

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-product-api/internal/logging"
)

// Store is the persistence the product service needs.
type Store interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput, now time.Time) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles product business logic. Reads go through the cache;
// writes invalidate it.
//
// writes counts invalidations made by this process. A read that filled the
// cache while the counter moved may have stored rows older than that write,
// so it invalidates again. Writes made by other processes are only bounded
// by the cache TTL.
type Service struct {
	store  Store
	cache  Cache
	logger *logging.Logger
	now    func() time.Time
	writes atomic.Uint64
}

func NewService(store Store, cache Cache, logger *logging.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	now := s.now().UTC()

	created, err := s.store.Create(ctx, &Product{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, created.ID)
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.cache.GetList(ctx)
	if err == nil {
		return products, nil
	}
	s.logCacheError("list", err)

	seen := s.writes.Load()
	products, err = s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetList(ctx, products); err != nil {
		s.logger.Warn("failed to cache product list", "error", err.Error())
	} else if s.writes.Load() != seen {
		// uuid.Nil names no product; only the list key is cleared.
		s.dropStale(ctx, uuid.Nil)
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.cache.GetProduct(ctx, id)
	if err == nil {
		return p, nil
	}
	s.logCacheError("get", err)

	seen := s.writes.Load()
	p, err = s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, p); err != nil {
		s.logger.Warn("failed to cache product", "product_id", id, "error", err.Error())
	} else if s.writes.Load() != seen {
		s.dropStale(ctx, id)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Product, error) {
	updated, err := s.store.Update(ctx, id, in, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	s.writes.Add(1)
	s.dropStale(ctx, id)
}

func (s *Service) dropStale(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate product cache", "product_id", id, "error", err.Error())
	}
}

func (s *Service) logCacheError(op string, err error) {
	if errors.Is(err, ErrCacheMiss) {
		return
	}
	s.logger.Warn(fmt.Sprintf("product cache %s failed, falling back to database", op), "error", err.Error())
}
