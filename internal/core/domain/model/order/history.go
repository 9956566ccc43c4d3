package order

import "time"

// HistoryEntry records one lifecycle transition of an order. Entries are
// append-only; one entry per transition, plus the initial pending entry
// written at creation.
type HistoryEntry struct {
	Status Status
	Note   string
	At     time.Time
}
