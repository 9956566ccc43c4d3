// Package jobs provides scheduled background tasks for the fulfillment
// service, implemented with github.com/robfig/cron/v3.
//
// Two jobs run today: GeocodeBackfillJob resolves coordinates for orders the
// geocoder missed at creation time, and AutoBatchingJob groups ready orders
// into delivery batches when auto-batching is enabled in the dispatch
// configuration. Jobs are managed through JobManager, which starts and stops
// them as a unit and rolls back already started jobs when a later one fails
// to start.
package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	geocodeBackfillJob *GeocodeBackfillJob
	autoBatchingJob    *AutoBatchingJob
}

// NewJobManager creates a job manager with all required jobs wired up.
func NewJobManager(
	geocodeHandler commands.GeocodeOrdersCommandHandler,
	batchesHandler queries.RecommendBatchesQueryHandler,
	uowFactory queries.RouteUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		geocodeBackfillJob: NewGeocodeBackfillJob(geocodeHandler, logger),
		autoBatchingJob:    NewAutoBatchingJob(batchesHandler, uowFactory, publisher, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.geocodeBackfillJob.Start(); err != nil {
		return fmt.Errorf("failed to start geocode backfill job: %w", err)
	}

	if err := jm.autoBatchingJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.geocodeBackfillJob.Stop()
		return fmt.Errorf("failed to start auto-batching job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.geocodeBackfillJob.Stop()
	jm.autoBatchingJob.Stop()
}
