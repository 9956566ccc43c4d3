package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// GormFleetReader reads fleet map markers straight from the database.
// Snapshots are read-heavy and schema-shaped, so they skip the aggregates.
type GormFleetReader struct {
	db *gorm.DB
}

// NewGormFleetReader creates a database-backed fleet reader.
func NewGormFleetReader(db *gorm.DB) GormFleetReader {
	return GormFleetReader{db: db}
}

// ReadDrivers returns every driver that has reported a position.
func (r GormFleetReader) ReadDrivers(ctx context.Context) ([]DriverMarker, error) {
	markers := make([]DriverMarker, 0)

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			status,
			lat,
			lng,
			reported_at
		FROM drivers
		WHERE lat IS NOT NULL AND lng IS NOT NULL
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var marker DriverMarker
		var id uuid.UUID
		var status int
		var reportedAt time.Time

		err = rows.Scan(&id, &marker.Name, &status, &marker.Lat, &marker.Lng, &reportedAt)
		if err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		marker.ID = driverID
		marker.Status = driver.Status(status).String()
		marker.ReportedAt = reportedAt
		markers = append(markers, marker)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return markers, nil
}

// ReadActiveOrders returns geocoded orders in ready or delivering status.
func (r GormFleetReader) ReadActiveOrders(ctx context.Context) ([]OrderMarker, error) {
	markers := make([]OrderMarker, 0)

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_name,
			address,
			status,
			lat,
			lng
		FROM orders
		WHERE status IN (?, ?)
		  AND lat IS NOT NULL AND lng IS NOT NULL
		ORDER BY updated_at
	`, int(order.Ready), int(order.Delivering)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var marker OrderMarker
		var id uuid.UUID
		var status int

		err = rows.Scan(&id, &marker.CustomerName, &marker.Address, &status, &marker.Lat, &marker.Lng)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		marker.ID = orderID
		marker.Status = order.Status(status).String()
		markers = append(markers, marker)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return markers, nil
}
