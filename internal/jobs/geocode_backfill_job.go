package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"fulfillment/internal/core/application/usecases/commands"
)

// GeocodeBackfillJob periodically resolves coordinates for orders whose
// address could not be geocoded at creation time, so route planning and the
// fleet map eventually see every order.
type GeocodeBackfillJob struct {
	handler commands.GeocodeOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewGeocodeBackfillJob creates the recurring coordinate backfill job.
func NewGeocodeBackfillJob(handler commands.GeocodeOrdersCommandHandler, logger *slog.Logger) *GeocodeBackfillJob {
	return &GeocodeBackfillJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "geocode_backfill_job"),
	}
}

// Start schedules the job to run every minute.
func (j *GeocodeBackfillJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewGeocodeOrdersCommand(commands.DefaultGeocodeBatchSize)

		if _, err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "geocode backfill job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "geocode backfill job started (running every minute)")
	return nil
}

// Stop stops the job.
func (j *GeocodeBackfillJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "geocode backfill job stopped")
}
