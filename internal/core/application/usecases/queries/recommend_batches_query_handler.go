package queries

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/dispatch"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// RecommendBatchesQueryHandler groups ready orders into recommended delivery
// batches with optional route previews.
//
// The grouping itself always succeeds once the pickup is configured; the
// route preview per batch is best-effort. Recoverable planning failures
// (missing coordinates, provider trouble) just drop the preview so the admin
// still sees the batch composition.
type RecommendBatchesQueryHandler struct {
	uowFactory RouteUoWFactory
	planner    services.RoutePlanner
	logger     *slog.Logger
}

// NewRecommendBatchesQueryHandler creates a handler for batch recommendation queries.
func NewRecommendBatchesQueryHandler(
	uowFactory RouteUoWFactory,
	planner services.RoutePlanner,
	logger *slog.Logger,
) RecommendBatchesQueryHandler {
	return RecommendBatchesQueryHandler{
		uowFactory: uowFactory,
		planner:    planner,
		logger:     logger.With("component", "recommend_batches_handler"),
	}
}

// Handle computes batch recommendations over the current ready orders.
func (h RecommendBatchesQueryHandler) Handle(
	ctx context.Context, query RecommendBatchesQuery,
) (services.BatchResult, error) {
	if err := query.Validate(); err != nil {
		return services.BatchResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.BatchResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	config, err := uow.DispatchConfigRepository().Get(ctx)
	if err != nil {
		return services.BatchResult{}, err
	}
	if !config.PickupConfigured() {
		return services.BatchResult{}, ErrPickupNotConfigured
	}

	ready, err := uow.OrderRepository().GetAllInStatus(ctx, order.Ready)
	if err != nil {
		return services.BatchResult{}, err
	}

	builder, err := services.NewBatchBuilder(config.BatchMin(), config.BatchMax())
	if err != nil {
		return services.BatchResult{}, err
	}

	summaries := make([]services.OrderSummary, 0, len(ready))
	locations := make(map[string]services.Destination, len(ready))
	for _, o := range ready {
		summaries = append(summaries, services.OrderSummary{
			OrderID:      o.ID(),
			CustomerName: o.CustomerName(),
			Address:      o.Address(),
			TotalAmount:  o.TotalAmount(),
			UpdatedAt:    o.UpdatedAt(),
		})
		if o.Location() != nil {
			locations[o.ID().String()] = services.Destination{
				OrderID:  o.ID(),
				Location: *o.Location(),
			}
		}
	}

	result := builder.Build(summaries, query.Limit())

	for i := range result.Batches {
		route, previewErr := h.previewRoute(ctx, config, result.Batches[i], locations)
		if previewErr != nil {
			if isRecoverablePreviewError(previewErr) {
				h.logger.InfoContext(ctx, "batch route preview skipped",
					"batch_id", result.Batches[i].ID.String(), "reason", previewErr.Error())
				continue
			}
			return services.BatchResult{}, previewErr
		}
		result.Batches[i].Route = route
	}

	return result, nil
}

// previewRoute plans a route over a batch. Every member needs known
// coordinates; the caller has already verified the pickup.
func (h RecommendBatchesQueryHandler) previewRoute(
	ctx context.Context,
	config *dispatch.Config,
	batch services.Batch,
	locations map[string]services.Destination,
) (*services.RoutePlan, error) {
	destinations := make([]services.Destination, 0, len(batch.Orders))
	for _, summary := range batch.Orders {
		dest, ok := locations[summary.OrderID.String()]
		if !ok {
			return nil, ErrCoordinatesMissing
		}
		destinations = append(destinations, dest)
	}

	return h.planner.Plan(ctx,
		config.PickupName(), config.PickupAddress(), *config.Pickup(), destinations)
}

// isRecoverablePreviewError decides whether a planning failure should drop
// the preview instead of failing the whole recommendation.
func isRecoverablePreviewError(err error) bool {
	return errors.Is(err, ErrCoordinatesMissing) ||
		errors.Is(err, errs.ErrExternalService) ||
		errors.Is(err, errs.ErrObjectNotFound)
}
