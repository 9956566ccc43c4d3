// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Items and history rows hang off the order via foreign keys; history is
// append-only and never updated.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerName  string     `gorm:"type:varchar(255);not null"`
	Phone         string     `gorm:"type:varchar(32);not null"`
	Address       string     `gorm:"type:varchar(512);not null"`
	Lat           *float64   `gorm:"type:double precision"`
	Lng           *float64   `gorm:"type:double precision"`
	GeocodedAt    *time.Time `gorm:""`
	Status        int        `gorm:"type:int;not null;index"`
	Subtotal      float64    `gorm:"type:double precision;not null"`
	DeliveryFee   float64    `gorm:"type:double precision;not null"`
	TotalAmount   float64    `gorm:"type:double precision;not null"`
	PaymentMethod string     `gorm:"type:varchar(32);not null"`
	DriverID      *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryDate  time.Time  `gorm:"not null"`
	IsPreOrder    bool       `gorm:"not null"`
	PriceAlerted  bool       `gorm:"not null"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null;index"`
	Version       int64      `gorm:"type:bigint;not null"`

	Items   []ItemDTO         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []HistoryEntryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one persisted order line.
type ItemDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Quantity  int       `gorm:"type:int;not null"`
	Unit      string    `gorm:"type:varchar(32);not null"`
	UnitPrice float64   `gorm:"type:double precision;not null"`
	LineTotal float64   `gorm:"type:double precision;not null"`
}

// TableName specifies the database table name for order line entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// HistoryEntryDTO represents one persisted status history row.
type HistoryEntryDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status  int       `gorm:"type:int;not null"`
	Note    string    `gorm:"type:varchar(512)"`
	At      time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for order history entities.
func (HistoryEntryDTO) TableName() string {
	return "order_history"
}

// fromDomain converts an order aggregate to its database representation,
// items and full history included.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	var lat, lng *float64
	if loc := aggregate.Location(); loc != nil {
		latVal, lngVal := loc.Lat(), loc.Lng()
		lat, lng = &latVal, &lngVal
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: item.ProductID().Bytes(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			Unit:      item.Unit(),
			UnitPrice: item.UnitPrice(),
			LineTotal: item.LineTotal(),
		})
	}

	return OrderDTO{
		ID:            orderID,
		CustomerName:  aggregate.CustomerName(),
		Phone:         aggregate.Phone(),
		Address:       aggregate.Address(),
		Lat:           lat,
		Lng:           lng,
		GeocodedAt:    aggregate.GeocodedAt(),
		Status:        int(aggregate.Status()),
		Subtotal:      aggregate.Subtotal(),
		DeliveryFee:   aggregate.DeliveryFee(),
		TotalAmount:   aggregate.TotalAmount(),
		PaymentMethod: aggregate.PaymentMethod(),
		DriverID:      driverID,
		DeliveryDate:  aggregate.DeliveryDate(),
		IsPreOrder:    aggregate.IsPreOrder(),
		PriceAlerted:  aggregate.PriceAlerted(),
		CreatedAt:     aggregate.CreatedAt(),
		UpdatedAt:     aggregate.UpdatedAt(),
		Version:       aggregate.Version(),
		Items:         items,
		History:       historyFromDomain(orderID, aggregate.History()),
	}
}

// historyFromDomain converts history entries to database rows.
func historyFromDomain(orderID uuid.UUID, entries []order.HistoryEntry) []HistoryEntryDTO {
	rows := make([]HistoryEntryDTO, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, HistoryEntryDTO{
			ID:      uuid.New(),
			OrderID: orderID,
			Status:  int(entry.Status),
			Note:    entry.Note,
			At:      entry.At,
		})
	}
	return rows
}

// toDomain converts database rows to an order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		point, locErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if locErr != nil {
			return nil, locErr
		}
		location = &point
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, row := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(row.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.NewItem(
			productID, row.Name, row.Quantity, row.Unit, row.UnitPrice, row.LineTotal)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, row := range dto.History {
		history = append(history, order.HistoryEntry{
			Status: order.Status(row.Status),
			Note:   row.Note,
			At:     row.At,
		})
	}

	return order.RestoreOrder(
		id,
		dto.CustomerName,
		dto.Phone,
		dto.Address,
		location,
		dto.GeocodedAt,
		order.Status(dto.Status),
		items,
		dto.Subtotal,
		dto.DeliveryFee,
		dto.TotalAmount,
		dto.PaymentMethod,
		driverID,
		dto.DeliveryDate,
		dto.IsPreOrder,
		dto.PriceAlerted,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.Version,
		history,
	)
}
