package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// DefaultEstimatorTimeout bounds a single table request. Route planning calls
// the estimator once per greedy step, so each call must return quickly.
const DefaultEstimatorTimeout = 3 * time.Second

// OSRMEstimator answers distance queries through an OSRM table endpoint.
// One request covers all candidate destinations of a greedy step.
type OSRMEstimator struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewOSRMEstimator creates an estimator against the given OSRM base URL.
// A non-positive timeout falls back to DefaultEstimatorTimeout.
func NewOSRMEstimator(baseURL string, timeout time.Duration, logger *slog.Logger) (*OSRMEstimator, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if timeout <= 0 {
		timeout = DefaultEstimatorTimeout
	}

	return &OSRMEstimator{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With("component", "osrm_estimator"),
	}, nil
}

// tableResponse is the subset of the OSRM table response the adapter reads.
type tableResponse struct {
	Code      string      `json:"code"`
	Distances [][]float64 `json:"distances"`
	Durations [][]float64 `json:"durations"`
}

// Legs queries the table service with the origin as the single source and
// every destination as a target.
func (e *OSRMEstimator) Legs(
	ctx context.Context, origin kernel.GeoPoint, destinations []kernel.GeoPoint,
) ([]services.Leg, error) {
	if len(destinations) == 0 {
		return nil, errs.NewValueIsRequiredError("destinations")
	}

	requestURL := e.tableURL(origin, destinations)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errs.NewExternalServiceError("osrm", err)
	}

	response, err := e.client.Do(request)
	if err != nil {
		return nil, errs.NewExternalServiceError("osrm", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, errs.NewExternalServiceError("osrm",
			fmt.Errorf("unexpected status %d", response.StatusCode))
	}

	var table tableResponse
	if err := json.NewDecoder(response.Body).Decode(&table); err != nil {
		return nil, errs.NewExternalServiceError("osrm", err)
	}

	if table.Code != "Ok" {
		return nil, errs.NewExternalServiceError("osrm",
			fmt.Errorf("table request rejected with code %q", table.Code))
	}
	if len(table.Distances) != 1 || len(table.Distances[0]) != len(destinations) ||
		len(table.Durations) != 1 || len(table.Durations[0]) != len(destinations) {
		return nil, errs.NewExternalServiceError("osrm",
			fmt.Errorf("table shape mismatch for %d destinations", len(destinations)))
	}

	legs := make([]services.Leg, 0, len(destinations))
	for i := range destinations {
		legs = append(legs, services.Leg{
			DistanceMeters:  table.Distances[0][i],
			DurationSeconds: table.Durations[0][i],
		})
	}

	return legs, nil
}

// tableURL builds the table request with the origin as coordinate 0.
// OSRM expects longitude before latitude.
func (e *OSRMEstimator) tableURL(origin kernel.GeoPoint, destinations []kernel.GeoPoint) string {
	coords := make([]string, 0, len(destinations)+1)
	coords = append(coords, formatCoordinate(origin))
	targets := make([]string, 0, len(destinations))
	for i, dest := range destinations {
		coords = append(coords, formatCoordinate(dest))
		targets = append(targets, strconv.Itoa(i+1))
	}

	return fmt.Sprintf("%s/table/v1/driving/%s?sources=0&destinations=%s&annotations=distance,duration",
		e.baseURL, strings.Join(coords, ";"), strings.Join(targets, ";"))
}

func formatCoordinate(p kernel.GeoPoint) string {
	return strconv.FormatFloat(p.Lng(), 'f', 6, 64) + "," + strconv.FormatFloat(p.Lat(), 'f', 6, 64)
}
