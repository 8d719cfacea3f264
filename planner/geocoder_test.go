// Copyright 2026 The Flotilla Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(ts *httptest.Server) *GoogleMapsGeocoder {
	return &GoogleMapsGeocoder{
		apiKey:     "test-key",
		baseURL:    ts.URL,
		httpClient: &http.Client{Timeout: time.Second},
	}
}

func TestGeocodeSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "uy", r.URL.Query().Get("region"))
		assert.Contains(t, r.URL.Query().Get("address"), "Uruguay")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"geometry": {
					"location": {"lat": -34.8942, "lng": -56.1589},
					"location_type": "ROOFTOP"
				},
				"formatted_address": "Estadio Centenario, Montevideo, Uruguay"
			}]
		}`))
	}))
	defer ts.Close()

	result, err := newTestGeocoder(ts).Geocode("Estadio Centenario")
	require.NoError(t, err)

	assert.InDelta(t, -34.8942, result.Latitude, 1e-6)
	assert.InDelta(t, -56.1589, result.Longitude, 1e-6)
	assert.Equal(t, "high", result.Confidence)
	assert.Equal(t, "google_maps", result.Provider)
}

func TestGeocodeZeroResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer ts.Close()

	_, err := newTestGeocoder(ts).Geocode("nowhere at all")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestGeocodeRateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := newTestGeocoder(ts).Geocode("Estadio Centenario")
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))
}

func TestGeocodeTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status": "OK", "results": []}`))
	}))
	defer ts.Close()

	g := &GoogleMapsGeocoder{
		apiKey:     "test-key",
		baseURL:    ts.URL,
		httpClient: &http.Client{Timeout: 50 * time.Millisecond},
	}

	_, err := g.Geocode("Estadio Centenario")
	require.Error(t, err)
	assert.True(t, IsTimeoutError(err))
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusForbidden, ErrorTypeQuotaExceeded},
		{http.StatusBadRequest, ErrorTypeInvalidRequest},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusBadGateway, ErrorTypeNetworkError},
		{http.StatusTeapot, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyHTTPError(tt.status).Type)
	}
}
