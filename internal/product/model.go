package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. Price is serialized as a decimal string.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"19.99"`
	Stock       int32           `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateInput holds the fields of a new product.
type CreateInput struct {
	Name        string          `json:"name" validate:"required,max=255" example:"Keyboard"`
	Description string          `json:"description" validate:"required" example:"Mechanical keyboard"`
	Price       decimal.Decimal `json:"price" validate:"gt=0" swaggertype:"number" example:"49.90"`
	Stock       int32           `json:"stock" validate:"gte=0" example:"10"`
}

// UpdateInput holds a partial update. Nil fields keep their stored value.
type UpdateInput struct {
	Name        *string          `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
	Description *string          `json:"description,omitempty" validate:"omitnil,min=1"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitnil,gt=0" swaggertype:"number"`
	Stock       *int32           `json:"stock,omitempty" validate:"omitnil,gte=0"`
}
