package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// statusForError maps application and domain failures to HTTP status codes.
// Unclassified errors are treated as internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound

	case errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, order.ErrAlreadyClaimed),
		errors.Is(err, commands.ErrInvalidStateForCancellation):
		return http.StatusConflict

	case errors.Is(err, order.ErrNotAssignedToDriver):
		return http.StatusForbidden

	case errors.Is(err, commands.ErrOrderWindowClosed),
		errors.Is(err, commands.ErrPriceMismatch),
		errors.Is(err, commands.ErrDeliveryFeeMismatch),
		errors.Is(err, commands.ErrTotalAmountMismatch),
		errors.Is(err, commands.ErrInsufficientStock),
		errors.Is(err, queries.ErrPickupNotConfigured),
		errors.Is(err, queries.ErrCoordinatesMissing),
		errors.Is(err, errs.ErrBusinessRuleViolated):
		return http.StatusUnprocessableEntity

	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrItemsAreRequired),
		errors.Is(err, queries.ErrNoOrdersSelected):
		return http.StatusBadRequest

	case errors.Is(err, errs.ErrExternalService):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	code := statusForError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		// Internal details stay in the logs.
		message = "internal error"
	}
	return code, ErrorResponse{Code: code, Message: message}
}
