// Package productrepo implements product catalog persistence.
package productrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// Products are maintained by a separate catalog service; this side only
// reads them and adjusts stock, so there is no full write mapping.

// ProductDTO represents the database structure for persisting products.
type ProductDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Unit        string    `gorm:"type:varchar(32);not null"`
	Price       float64   `gorm:"type:double precision;not null"`
	WeightBased bool      `gorm:"not null"`
	Stock       int       `gorm:"type:int;not null"`
	Available   bool      `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(
		id, dto.Name, dto.Unit, dto.Price, dto.WeightBased, dto.Stock, dto.Available, dto.UpdatedAt)
}
