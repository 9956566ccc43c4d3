package queries

import (
	"context"
	"sync"
	"time"
)

// DefaultSnapshotTTL is how long a generated fleet snapshot stays valid.
const DefaultSnapshotTTL = 30 * time.Second

// FleetReader supplies the raw marker data for the fleet map.
type FleetReader interface {
	// ReadDrivers returns every driver with a reported position.
	ReadDrivers(ctx context.Context) ([]DriverMarker, error)

	// ReadActiveOrders returns geocoded orders in ready or delivering status.
	ReadActiveOrders(ctx context.Context) ([]OrderMarker, error)
}

// MapSnapshotQueryHandler serves the fleet map with a TTL cache.
//
// The snapshot is regenerated at most once per TTL regardless of how many
// dashboards poll it; force requests bypass the cache. The handler owns the
// cache, so one instance must be shared by all callers.
type MapSnapshotQueryHandler struct {
	reader FleetReader
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	cached    *MapSnapshot
	expiresAt time.Time
}

// NewMapSnapshotQueryHandler creates the shared snapshot handler.
// Non-positive TTLs fall back to DefaultSnapshotTTL.
func NewMapSnapshotQueryHandler(
	reader FleetReader, ttl time.Duration, now func() time.Time,
) *MapSnapshotQueryHandler {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MapSnapshotQueryHandler{
		reader: reader,
		ttl:    ttl,
		now:    now,
	}
}

// Handle returns the current fleet snapshot, regenerating it when the cached
// one has expired or the query forces a refresh.
func (h *MapSnapshotQueryHandler) Handle(ctx context.Context, query MapSnapshotQuery) (*MapSnapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if !query.Force() && h.cached != nil && now.Before(h.expiresAt) {
		return h.cached, nil
	}

	drivers, err := h.reader.ReadDrivers(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := h.reader.ReadActiveOrders(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &MapSnapshot{
		GeneratedAt:         now,
		PollIntervalSeconds: int(h.ttl / time.Second),
		Drivers:             drivers,
		Orders:              orders,
	}

	h.cached = snapshot
	h.expiresAt = now.Add(h.ttl)

	return snapshot, nil
}
