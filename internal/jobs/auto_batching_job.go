package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
)

// EventBatchRecommended is emitted when an auto-batching pass produced at
// least one batch ready for dispatch.
const EventBatchRecommended = "batch-recommended"

// batchEventOrder is one order reference inside the event payload.
type batchEventOrder struct {
	OrderID     string  `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
}

// batchEvent is one recommended batch inside the event payload.
type batchEvent struct {
	BatchID     string            `json:"batch_id"`
	TotalAmount float64           `json:"total_amount"`
	Orders      []batchEventOrder `json:"orders"`
}

// AutoBatchingJob periodically groups ready orders into delivery batches and
// announces them to dispatch staff. It runs only while auto-batching is
// enabled in the dispatch configuration.
type AutoBatchingJob struct {
	handler    queries.RecommendBatchesQueryHandler
	uowFactory queries.RouteUoWFactory
	publisher  ports.EventPublisher
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewAutoBatchingJob creates the recurring batch recommendation job.
func NewAutoBatchingJob(
	handler queries.RecommendBatchesQueryHandler,
	uowFactory queries.RouteUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) *AutoBatchingJob {
	return &AutoBatchingJob{
		handler:    handler,
		uowFactory: uowFactory,
		publisher:  publisher,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "auto_batching_job"),
	}
}

// Start schedules the job to run every five minutes.
func (j *AutoBatchingJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "auto-batching job started (running every five minutes)")
	return nil
}

// Stop stops the job.
func (j *AutoBatchingJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "auto-batching job stopped")
}

func (j *AutoBatchingJob) run() {
	ctx := context.Background()

	enabled, err := j.autoBatchEnabled(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "auto-batching job could not read dispatch config", "error", err)
		return
	}
	if !enabled {
		return
	}

	result, err := j.handler.Handle(ctx, queries.NewRecommendBatchesQuery(0))
	if err != nil {
		j.logger.ErrorContext(ctx, "auto-batching job failed", "error", err)
		return
	}
	if len(result.Batches) == 0 {
		return
	}

	payload := make([]batchEvent, 0, len(result.Batches))
	for _, batch := range result.Batches {
		orders := make([]batchEventOrder, 0, len(batch.Orders))
		for _, summary := range batch.Orders {
			orders = append(orders, batchEventOrder{
				OrderID:     summary.OrderID.String(),
				TotalAmount: summary.TotalAmount,
			})
		}
		payload = append(payload, batchEvent{
			BatchID:     batch.ID.String(),
			TotalAmount: batch.TotalAmount,
			Orders:      orders,
		})
	}

	if err := j.publisher.Publish(ctx, EventBatchRecommended, payload); err != nil {
		j.logger.WarnContext(ctx, "failed to publish batch recommendation", "error", err)
		return
	}

	j.logger.InfoContext(ctx, "batches recommended",
		"batches", len(result.Batches), "leftovers", len(result.Leftovers))
}

// autoBatchEnabled reads the dispatch configuration inside a short read-only
// transaction.
func (j *AutoBatchingJob) autoBatchEnabled(ctx context.Context) (bool, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	config, err := uow.DispatchConfigRepository().Get(ctx)
	if err != nil {
		return false, err
	}

	return config.AutoBatch(), nil
}
