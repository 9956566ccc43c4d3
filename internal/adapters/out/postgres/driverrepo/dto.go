// Package driverrepo implements driver persistence.
package driverrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
)

// DriverDTO represents the database structure for persisting drivers.
type DriverDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name       string     `gorm:"type:varchar(255);not null"`
	Phone      string     `gorm:"type:varchar(32)"`
	Status     int        `gorm:"type:int;not null"`
	Lat        *float64   `gorm:"type:double precision"`
	Lng        *float64   `gorm:"type:double precision"`
	ReportedAt *time.Time `gorm:""`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *driver.Driver) DriverDTO {
	var lat, lng *float64
	if loc := d.Location(); loc != nil {
		latVal, lngVal := loc.Lat(), loc.Lng()
		lat, lng = &latVal, &lngVal
	}

	return DriverDTO{
		ID:         d.ID().Bytes(),
		Name:       d.Name(),
		Phone:      d.Phone(),
		Status:     int(d.Status()),
		Lat:        lat,
		Lng:        lng,
		ReportedAt: d.ReportedAt(),
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		point, locErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if locErr != nil {
			return nil, locErr
		}
		location = &point
	}

	return driver.RestoreDriver(
		id, dto.Name, dto.Phone, driver.Status(dto.Status), location, dto.ReportedAt)
}
