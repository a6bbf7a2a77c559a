package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petrolmate/crawler/internal/fuel"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		BaseURL:      srv.URL,
		CountryCodes: "au",
		UserAgent:    "fuelcrawler-test",
		Timeout:      2 * time.Second,
	})
}

func TestClientLookup_BestMatchFirst(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "12 Main St, Exampletown, 5000", r.URL.Query().Get("q"))
		require.Equal(t, "json", r.URL.Query().Get("format"))
		require.Equal(t, "au", r.URL.Query().Get("countrycodes"))
		require.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"-34.9285","lon":"138.6007"},{"lat":"0","lon":"0"}]`))
	}))
	defer srv.Close()

	coords, err := newTestClient(srv).Lookup(context.Background(), "12 Main St, Exampletown, 5000")
	require.NoError(t, err)
	require.Equal(t, fuel.Coordinates{Latitude: "-34.9285", Longitude: "138.6007"}, coords)
}

func TestClientLookup_EmptyResultIsAbsentNotError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	coords, err := newTestClient(srv).Lookup(context.Background(), "nowhere")
	require.NoError(t, err)
	require.True(t, coords.Empty())
}

func TestClientLookup_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Lookup(context.Background(), "12 Main St")
	require.Error(t, err)
}

func TestClientLookup_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Lookup(context.Background(), "12 Main St")
	require.Error(t, err)
}

func TestClientLookup_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Lookup(context.Background(), "12 Main St")
	require.Error(t, err)
}

type fakeLookup struct {
	coords fuel.Coordinates
	err    error
}

func (f *fakeLookup) Lookup(context.Context, string) (fuel.Coordinates, error) {
	return f.coords, f.err
}

func TestEnricher_AbsorbsLookupFailures(t *testing.T) {
	t.Parallel()

	enricher := NewEnricher(&fakeLookup{err: errors.New("connection refused")}, zap.NewNop())
	coords := enricher.Resolve(context.Background(), "12 Main St")
	require.True(t, coords.Empty())
}

func TestEnricher_AbsorbsEmptyResult(t *testing.T) {
	t.Parallel()

	enricher := NewEnricher(&fakeLookup{}, zap.NewNop())
	coords := enricher.Resolve(context.Background(), "12 Main St")
	require.True(t, coords.Empty())
}

func TestEnricher_PassesThroughMatch(t *testing.T) {
	t.Parallel()

	want := fuel.Coordinates{Latitude: "-34.9", Longitude: "138.6"}
	enricher := NewEnricher(&fakeLookup{coords: want}, zap.NewNop())
	require.Equal(t, want, enricher.Resolve(context.Background(), "12 Main St"))
}
