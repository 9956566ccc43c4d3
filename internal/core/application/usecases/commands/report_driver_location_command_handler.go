package commands

import (
	"context"
	"time"
)

// ReportDriverLocationCommandHandler persists driver position pings.
// A ping from an offline driver flips them to available, so the fleet map
// picks them up without a separate status call.
type ReportDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
	now        func() time.Time
}

// NewReportDriverLocationCommandHandler creates a handler for driver position pings.
func NewReportDriverLocationCommandHandler(
	uowFactory DriverUoWFactory, now func() time.Time,
) ReportDriverLocationCommandHandler {
	if now == nil {
		now = time.Now
	}
	return ReportDriverLocationCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle processes the position report.
func (h ReportDriverLocationCommandHandler) Handle(ctx context.Context, cmd ReportDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	aggregate, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = aggregate.ReportLocation(cmd.Location(), h.now()); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
