package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/adapters/out/geo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

func mustGeoPoint(t *testing.T, lat float64, lng float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return point
}

func TestOSRMEstimator_Legs_Success(t *testing.T) {
	var capturedPath string
	var capturedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"distances": [[420.5, 1337.0]],
			"durations": [[61.2, 180.4]]
		}`))
	}))
	defer server.Close()

	estimator, err := geo.NewOSRMEstimator(server.URL, time.Second, discardLogger())
	require.NoError(t, err)

	origin := mustGeoPoint(t, 24.162, 120.685)
	destinations := []kernel.GeoPoint{
		mustGeoPoint(t, 24.165, 120.686),
		mustGeoPoint(t, 24.170, 120.690),
	}

	legs, err := estimator.Legs(context.Background(), origin, destinations)

	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.InDelta(t, 420.5, legs[0].DistanceMeters, 0.001)
	assert.InDelta(t, 61.2, legs[0].DurationSeconds, 0.001)
	assert.InDelta(t, 1337.0, legs[1].DistanceMeters, 0.001)
	assert.InDelta(t, 180.4, legs[1].DurationSeconds, 0.001)

	// Origin first, lng before lat, origin as the only source.
	assert.Equal(t, "/table/v1/driving/120.685000,24.162000;120.686000,24.165000;120.690000,24.170000",
		capturedPath)
	assert.Contains(t, capturedQuery, "sources=0")
	assert.Contains(t, capturedQuery, "destinations=1;2")
	assert.Contains(t, capturedQuery, "annotations=distance,duration")
}

func TestOSRMEstimator_Legs_NoDestinations_ShouldReturnError(t *testing.T) {
	estimator, err := geo.NewOSRMEstimator("http://localhost", time.Second, discardLogger())
	require.NoError(t, err)

	_, err = estimator.Legs(context.Background(), mustGeoPoint(t, 24.162, 120.685), nil)

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestOSRMEstimator_Legs_RejectedCode_ShouldReturnExternalServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code": "NoTable"}`))
	}))
	defer server.Close()

	estimator, err := geo.NewOSRMEstimator(server.URL, time.Second, discardLogger())
	require.NoError(t, err)

	_, err = estimator.Legs(context.Background(),
		mustGeoPoint(t, 24.162, 120.685),
		[]kernel.GeoPoint{mustGeoPoint(t, 24.165, 120.686)})

	assert.ErrorIs(t, err, errs.ErrExternalService)
}

func TestOSRMEstimator_Legs_ShapeMismatch_ShouldReturnExternalServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code": "Ok", "distances": [[420.5]], "durations": [[61.2]]}`))
	}))
	defer server.Close()

	estimator, err := geo.NewOSRMEstimator(server.URL, time.Second, discardLogger())
	require.NoError(t, err)

	_, err = estimator.Legs(context.Background(),
		mustGeoPoint(t, 24.162, 120.685),
		[]kernel.GeoPoint{
			mustGeoPoint(t, 24.165, 120.686),
			mustGeoPoint(t, 24.170, 120.690),
		})

	assert.ErrorIs(t, err, errs.ErrExternalService)
}

func TestOSRMEstimator_Legs_ServerError_ShouldReturnExternalServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	estimator, err := geo.NewOSRMEstimator(server.URL, time.Second, discardLogger())
	require.NoError(t, err)

	_, err = estimator.Legs(context.Background(),
		mustGeoPoint(t, 24.162, 120.685),
		[]kernel.GeoPoint{mustGeoPoint(t, 24.165, 120.686)})

	assert.ErrorIs(t, err, errs.ErrExternalService)
}
