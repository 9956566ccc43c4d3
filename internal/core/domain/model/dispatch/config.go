// Package dispatch contains the singleton delivery configuration: the pickup
// point routes start from, batch size bounds for recommendations, the
// auto-batching switch, and the delivery fee rule.
package dispatch

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrConfigIsNotConstructed is returned when a Config was not created via NewConfig.
var ErrConfigIsNotConstructed = errors.New("Config must be created via NewConfig constructor")

// Config is the delivery planning configuration record. There is exactly one
// per deployment; repositories treat it as a singleton row.
type Config struct {
	pickupName    string
	pickupAddress string
	// pickup is the depot position; nil until an operator configures it.
	// Route planning and batching refuse to run without it.
	pickup *kernel.GeoPoint

	batchMin  int
	batchMax  int
	autoBatch bool

	// freeShippingThreshold is the subtotal at which the delivery fee is
	// waived; baseDeliveryFee applies below it.
	freeShippingThreshold float64
	baseDeliveryFee       float64

	isConstructed bool
}

// NewConfig creates a validated delivery configuration.
// Batch bounds must satisfy 1 <= batchMin <= batchMax; fees and threshold must
// be non-negative. The pickup point may be nil until configured.
func NewConfig(
	pickupName string,
	pickupAddress string,
	pickup *kernel.GeoPoint,
	batchMin int,
	batchMax int,
	autoBatch bool,
	freeShippingThreshold float64,
	baseDeliveryFee float64,
) (*Config, error) {
	if batchMin < 1 || batchMax < batchMin {
		return nil, errs.NewValueIsInvalidErrorWithCause("batch bounds",
			fmt.Errorf("min %d, max %d must satisfy 1 <= min <= max", batchMin, batchMax))
	}
	if freeShippingThreshold < 0 {
		return nil, errs.NewValueIsInvalidError("freeShippingThreshold")
	}
	if baseDeliveryFee < 0 {
		return nil, errs.NewValueIsInvalidError("baseDeliveryFee")
	}
	if pickup != nil {
		if err := pickup.Validate(); err != nil {
			return nil, err
		}
	}

	return &Config{
		pickupName:            pickupName,
		pickupAddress:         pickupAddress,
		pickup:                pickup,
		batchMin:              batchMin,
		batchMax:              batchMax,
		autoBatch:             autoBatch,
		freeShippingThreshold: freeShippingThreshold,
		baseDeliveryFee:       baseDeliveryFee,
		isConstructed:         true,
	}, nil
}

// Validate ensures the Config was properly constructed.
func (c *Config) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrConfigIsNotConstructed
	}
	return nil
}

// PickupName returns the display name of the pickup point.
func (c *Config) PickupName() string { return c.pickupName }

// PickupAddress returns the pickup street address.
func (c *Config) PickupAddress() string { return c.pickupAddress }

// Pickup returns the pickup coordinates, nil if not configured.
func (c *Config) Pickup() *kernel.GeoPoint { return c.pickup }

// PickupConfigured reports whether valid pickup coordinates exist.
func (c *Config) PickupConfigured() bool {
	return c.pickup != nil && c.pickup.Validate() == nil
}

// BatchMin returns the minimum recommended batch size.
func (c *Config) BatchMin() int { return c.batchMin }

// BatchMax returns the maximum recommended batch size.
func (c *Config) BatchMax() int { return c.batchMax }

// AutoBatch reports whether the background batching job is enabled.
func (c *Config) AutoBatch() bool { return c.autoBatch }

// FreeShippingThreshold returns the subtotal at which delivery is free.
func (c *Config) FreeShippingThreshold() float64 { return c.freeShippingThreshold }

// BaseDeliveryFee returns the flat fee below the threshold.
func (c *Config) BaseDeliveryFee() float64 { return c.baseDeliveryFee }

// DeliveryFee applies the free-shipping rule: zero at or above the threshold,
// the flat base fee below it.
func (c *Config) DeliveryFee(subtotal float64) float64 {
	if subtotal >= c.freeShippingThreshold {
		return 0
	}
	return c.baseDeliveryFee
}
