// Package geo provides HTTP-backed geocoding and travel-distance adapters.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// DefaultGeocoderTimeout bounds a single forward-geocoding request.
const DefaultGeocoderTimeout = 5 * time.Second

// NominatimGeocoder resolves street addresses to coordinates through a
// Nominatim-compatible search endpoint.
type NominatimGeocoder struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewNominatimGeocoder creates a geocoder against the given base URL.
// A non-positive timeout falls back to DefaultGeocoderTimeout.
func NewNominatimGeocoder(baseURL string, timeout time.Duration, logger *slog.Logger) (*NominatimGeocoder, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if timeout <= 0 {
		timeout = DefaultGeocoderTimeout
	}

	return &NominatimGeocoder{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With("component", "geocoder"),
	}, nil
}

// nominatimResult is the subset of the search response the adapter reads.
// Nominatim serializes coordinates as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address to a geographic point. An address the provider
// does not know yields errs.ErrObjectNotFound; transport and protocol
// failures yield errs.ErrExternalService.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if address == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	requestURL := g.baseURL + "/search?" + query.Encode()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoder", err)
	}

	response, err := g.client.Do(request)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoder", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoder",
			fmt.Errorf("unexpected status %d", response.StatusCode))
	}

	var results []nominatimResult
	if err := json.NewDecoder(response.Body).Decode(&results); err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoder", err)
	}

	if len(results) == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("address", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoder", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoder", err)
	}

	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoder", err)
	}

	g.logger.Debug("address geocoded", "address", address, "lat", lat, "lng", lng)
	return point, nil
}
