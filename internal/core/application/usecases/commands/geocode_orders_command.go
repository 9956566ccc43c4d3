package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrGeocodeOrdersCommandIsNotConstructed = errors.New(
	"GeocodeOrdersCommand must be created via NewGeocodeOrdersCommand constructor",
)

// DefaultGeocodeBatchSize bounds how many orders one backfill pass resolves.
const DefaultGeocodeBatchSize = 20

// GeocodeOrdersCommand requests a backfill pass over orders that still lack
// coordinates.
type GeocodeOrdersCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

// NewGeocodeOrdersCommand creates a backfill command. Non-positive batch
// sizes normalize to DefaultGeocodeBatchSize.
func NewGeocodeOrdersCommand(batchSize int) GeocodeOrdersCommand {
	if batchSize <= 0 {
		batchSize = DefaultGeocodeBatchSize
	}
	return GeocodeOrdersCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c GeocodeOrdersCommand) Validate() error {
	return c.guard.Validate(ErrGeocodeOrdersCommandIsNotConstructed)
}

// BatchSize returns how many orders this pass may resolve.
func (c GeocodeOrdersCommand) BatchSize() int { return c.batchSize }
