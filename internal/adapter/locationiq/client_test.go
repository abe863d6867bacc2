package locationiq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskport/worker-match-system/config"
)

func testClient(serverURL string) *Client {
	return New(config.GeocoderConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Timeout: 2 * time.Second,
		// No throttling in tests.
		CallDelay: 0,
	})
}

func TestForwardGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "SW1A 1AA", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"51.501","lon":"-0.1416","display_name":"Buckingham Palace"}]`))
	}))
	defer srv.Close()

	point, err := testClient(srv.URL).ForwardGeocode(context.Background(), "SW1A 1AA")
	require.NoError(t, err)

	assert.InDelta(t, 51.501, point.Latitude, 1e-9)
	assert.InDelta(t, -0.1416, point.Longitude, 1e-9)
}

func TestForwardGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ForwardGeocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestForwardGeocode_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ForwardGeocode(context.Background(), "SW1A 1AA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reverse", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"10 Downing Street, London","address":{"postcode":"SW1A 2AA"}}`))
	}))
	defer srv.Close()

	place, err := testClient(srv.URL).ReverseGeocode(context.Background(), 51.5034, -0.1276)
	require.NoError(t, err)

	assert.Equal(t, "10 Downing Street, London", place.Label)
	assert.Equal(t, "SW1A 2AA", place.PostalCode)
}

func TestReverseGeocode_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ReverseGeocode(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestThrottleSpacesCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"1","lon":"2"}]`))
	}))
	defer srv.Close()

	client := New(config.GeocoderConfig{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
		CallDelay: 50 * time.Millisecond,
	})

	start := time.Now()
	_, err := client.ForwardGeocode(context.Background(), "a")
	require.NoError(t, err)
	_, err = client.ForwardGeocode(context.Background(), "b")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
