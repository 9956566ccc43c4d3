// Package kernel contains shared value objects used across the domain model:
// UUID identifiers, geographic points with great-circle distance, and monetary
// comparison helpers with the rounding tolerance applied to order amounts.
//
// All value objects follow the constructor-guard discipline: zero values are
// invalid, construction goes through validated factory functions, and
// Validate() is available for integrity checks when rehydrating from storage.
package kernel
