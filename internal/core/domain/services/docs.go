// Package services contains stateless domain services that operate across
// aggregates: the greedy nearest-neighbor route planner with its distance
// estimation strategy, and the batch builder that groups ready orders into
// size-bounded delivery rounds.
package services
