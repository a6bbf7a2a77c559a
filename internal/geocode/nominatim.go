// Package geocode resolves station addresses to coordinates via Nominatim.
package geocode

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/petrolmate/crawler/internal/fuel"
)

// Config controls the address lookup client.
type Config struct {
	BaseURL      string
	CountryCodes string
	UserAgent    string
	Timeout      time.Duration
}

// Client issues best-match-first searches against a Nominatim endpoint.
type Client struct {
	http         *resty.Client
	countryCodes string
}

// NewClient builds a lookup client. Requests are never retried.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)
	if cfg.UserAgent != "" {
		http.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Client{
		http:         http,
		countryCodes: cfg.CountryCodes,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup returns the first matching coordinates for the address, or the
// zero Coordinates when the service finds nothing.
func (c *Client) Lookup(ctx context.Context, address string) (fuel.Coordinates, error) {
	var results []searchResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":            address,
			"format":       "json",
			"limit":        "1",
			"countrycodes": c.countryCodes,
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return fuel.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	if resp.IsError() {
		return fuel.Coordinates{}, fmt.Errorf("geocode status %d", resp.StatusCode())
	}
	if len(results) == 0 {
		return fuel.Coordinates{}, nil
	}
	return fuel.Coordinates{
		Latitude:  results[0].Lat,
		Longitude: results[0].Lon,
	}, nil
}

// Lookup is the collaborator contract the Enricher consumes.
type Lookup interface {
	Lookup(ctx context.Context, address string) (fuel.Coordinates, error)
}

// Enricher wraps a Lookup so that geocoding can never fail the pipeline:
// every error class collapses to absent coordinates.
type Enricher struct {
	lookup Lookup
	logger *zap.Logger
}

// NewEnricher builds an Enricher.
func NewEnricher(lookup Lookup, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{lookup: lookup, logger: logger}
}

// Resolve returns the best-match coordinates for the address, or the zero
// Coordinates on any lookup failure or empty result.
func (e *Enricher) Resolve(ctx context.Context, fullAddress string) fuel.Coordinates {
	coords, err := e.lookup.Lookup(ctx, fullAddress)
	if err != nil {
		fuel.TotalGeocodeMisses.Inc()
		e.logger.Warn("Geocode lookup failed", zap.String("address", fullAddress), zap.Error(err))
		return fuel.Coordinates{}
	}
	if coords.Empty() {
		fuel.TotalGeocodeMisses.Inc()
		e.logger.Debug("Geocode lookup returned no match", zap.String("address", fullAddress))
		return fuel.Coordinates{}
	}
	return coords
}
