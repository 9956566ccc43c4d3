// Package configrepo persists the singleton dispatch configuration.
package configrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// singletonID pins the configuration to one row.
const singletonID = 1

// DispatchConfigDTO represents the database structure for the dispatch
// configuration. Exactly one row exists.
type DispatchConfigDTO struct {
	ID                    int      `gorm:"primaryKey"`
	PickupName            string   `gorm:"type:varchar(255);not null"`
	PickupAddress         string   `gorm:"type:varchar(512);not null"`
	PickupLat             *float64 `gorm:"type:double precision"`
	PickupLng             *float64 `gorm:"type:double precision"`
	BatchMin              int      `gorm:"type:int;not null"`
	BatchMax              int      `gorm:"type:int;not null"`
	AutoBatch             bool     `gorm:"not null"`
	FreeShippingThreshold float64  `gorm:"type:double precision;not null"`
	BaseDeliveryFee       float64  `gorm:"type:double precision;not null"`
}

// TableName specifies the database table name for the dispatch configuration.
func (DispatchConfigDTO) TableName() string {
	return "dispatch_config"
}

// GormDispatchConfigRepository implements DispatchConfigRepository using GORM.
type GormDispatchConfigRepository struct {
	db *gorm.DB
}

// NewGormDispatchConfigRepository creates a new GORM dispatch config repository.
func NewGormDispatchConfigRepository(db *gorm.DB) *GormDispatchConfigRepository {
	return &GormDispatchConfigRepository{db: db}
}

// Get retrieves the dispatch configuration.
func (r *GormDispatchConfigRepository) Get(ctx context.Context) (*dispatch.Config, error) {
	var dto DispatchConfigDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", singletonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("dispatch config", singletonID)
		}
		return nil, err
	}

	var pickup *kernel.GeoPoint
	if dto.PickupLat != nil && dto.PickupLng != nil {
		point, err := kernel.NewGeoPoint(*dto.PickupLat, *dto.PickupLng)
		if err != nil {
			return nil, err
		}
		pickup = &point
	}

	return dispatch.NewConfig(
		dto.PickupName,
		dto.PickupAddress,
		pickup,
		dto.BatchMin,
		dto.BatchMax,
		dto.AutoBatch,
		dto.FreeShippingThreshold,
		dto.BaseDeliveryFee,
	)
}

// Save upserts the dispatch configuration row.
func (r *GormDispatchConfigRepository) Save(ctx context.Context, config *dispatch.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	var pickupLat, pickupLng *float64
	if pickup := config.Pickup(); pickup != nil {
		lat, lng := pickup.Lat(), pickup.Lng()
		pickupLat, pickupLng = &lat, &lng
	}

	dto := DispatchConfigDTO{
		ID:                    singletonID,
		PickupName:            config.PickupName(),
		PickupAddress:         config.PickupAddress(),
		PickupLat:             pickupLat,
		PickupLng:             pickupLng,
		BatchMin:              config.BatchMin(),
		BatchMax:              config.BatchMax(),
		AutoBatch:             config.AutoBatch(),
		FreeShippingThreshold: config.FreeShippingThreshold(),
		BaseDeliveryFee:       config.BaseDeliveryFee(),
	}

	return r.db.WithContext(ctx).Save(&dto).Error
}
