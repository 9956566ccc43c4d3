// Package errs provides standardized error types for the fulfillment application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers two groups of failures:
//   - Input/object errors: ValueIsRequiredError, ValueIsInvalidError,
//     ValueIsOutOfRangeError, ObjectNotFoundError, VersionIsInvalidError
//   - Domain errors: BusinessRuleViolationError (price/fee/stock rules),
//     InvalidTransitionError (order lifecycle), ConfigurationMissingError
//     (pickup/provider setup), ExternalServiceError (geocoding/distance)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrBusinessRuleViolated)
//   - A struct type with structured context fields (expected/actual values,
//     parameter names) instead of string-coded control flow
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method resolving to the sentinel, so errors.Is classifies kinds
//
// This keeps error classification stable for HTTP mapping and for the
// recoverable/fatal distinction in the batch recommendation engine.
package errs
