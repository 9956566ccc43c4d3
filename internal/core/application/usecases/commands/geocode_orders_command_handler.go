package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// GeocodeOrdersCommandHandler resolves coordinates for orders whose address
// has not been geocoded yet. Unresolvable addresses are skipped and retried
// on later passes; provider outages abort the pass without failing it.
type GeocodeOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	geocoder   ports.Geocoder
	logger     *slog.Logger
	now        func() time.Time
}

// NewGeocodeOrdersCommandHandler creates a handler for coordinate backfill.
func NewGeocodeOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	geocoder ports.Geocoder,
	logger *slog.Logger,
	now func() time.Time,
) GeocodeOrdersCommandHandler {
	if now == nil {
		now = time.Now
	}
	return GeocodeOrdersCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		logger:     logger.With("component", "geocode_orders_handler"),
		now:        now,
	}
}

// Handle runs one backfill pass and returns how many orders were resolved.
func (h GeocodeOrdersCommandHandler) Handle(ctx context.Context, cmd GeocodeOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	if h.geocoder == nil {
		// No provider configured; orders keep missing coordinates.
		return 0, nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	pending, err := orderRepo.GetAllMissingCoordinates(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	geocoded := 0
	for _, aggregate := range pending {
		point, geocodeErr := h.geocoder.Geocode(ctx, aggregate.Address())
		if geocodeErr != nil {
			if errors.Is(geocodeErr, errs.ErrObjectNotFound) {
				h.logger.InfoContext(ctx, "address not resolvable, skipping",
					"order_id", aggregate.ID(), "address", aggregate.Address())
				continue
			}
			if errors.Is(geocodeErr, errs.ErrExternalService) {
				// The provider is down; remaining orders would fail the same way.
				h.logger.WarnContext(ctx, "geocoding provider unavailable, aborting pass",
					"error", geocodeErr)
				break
			}
			return 0, geocodeErr
		}

		if err = aggregate.MarkGeocoded(point, h.now()); err != nil {
			return 0, err
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return 0, err
		}
		geocoded++
	}

	if geocoded == 0 {
		return 0, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.logger.InfoContext(ctx, "geocode backfill pass finished",
		"resolved", geocoded, "candidates", len(pending))
	return geocoded, nil
}
