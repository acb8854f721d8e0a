package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/go-product-api/internal/database"
)

var ErrNotFound = errors.New("product not found")

// Repository handles product persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts p and returns the stored row.
func (r *Repository) Create(ctx context.Context, p *Product) (*Product, error) {
	dbProduct := toDB(p)

	_, err := r.db.NewInsert().
		Model(dbProduct).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return fromDB(dbProduct), nil
}

// List returns every product, newest first.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	var rows []database.Product
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("created_at DESC, id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]Product, 0, len(rows))
	for i := range rows {
		products = append(products, *fromDB(&rows[i]))
	}

	return products, nil
}

// GetByID retrieves a product by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	dbProduct := new(database.Product)
	err := r.db.NewSelect().
		Model(dbProduct).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return fromDB(dbProduct), nil
}

// Update applies the non-nil fields of in and refreshes updated_at.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, in UpdateInput, now time.Time) (*Product, error) {
	dbProduct := &database.Product{ID: id}

	q := r.db.NewUpdate().
		Model(dbProduct).
		Set("updated_at = ?", now)

	if in.Name != nil {
		q = q.Set("name = ?", *in.Name)
	}
	if in.Description != nil {
		q = q.Set("description = ?", *in.Description)
	}
	if in.Price != nil {
		q = q.Set("price = ?", *in.Price)
	}
	if in.Stock != nil {
		q = q.Set("stock = ?", *in.Stock)
	}

	err := q.WherePK().
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return fromDB(dbProduct), nil
}

// Delete removes a product. Deleting a missing id yields ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.Product)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func toDB(p *Product) *database.Product {
	return &database.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromDB(dbp *database.Product) *Product {
	return &Product{
		ID:          dbp.ID,
		Name:        dbp.Name,
		Description: dbp.Description,
		Price:       dbp.Price,
		Stock:       dbp.Stock,
		CreatedAt:   dbp.CreatedAt,
		UpdatedAt:   dbp.UpdatedAt,
	}
}
