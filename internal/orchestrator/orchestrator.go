// Package orchestrator drives one crawl run across the city and fuel-type
// cross product.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/petrolmate/crawler/internal/catalog"
	"github.com/petrolmate/crawler/internal/extract"
	"github.com/petrolmate/crawler/internal/fuel"
	"github.com/petrolmate/crawler/internal/report"
	"github.com/petrolmate/crawler/internal/writer"
)

// Config controls run scheduling.
type Config struct {
	// Concurrent runs one task per city instead of a sequential sweep.
	Concurrent bool
	// StartStagger spaces concurrent city starts so the source site and
	// the geocoder are not hit by every session at once.
	StartStagger time.Duration
	// ArchivePrefix is the blob path prefix for raw listing snapshots.
	ArchivePrefix string
	// Topic is the completion event topic; empty disables publishing.
	Topic string
}

// Orchestrator owns one run at a time. Per-listing and per-combination
// faults are contained; only catalog validation or ID generation failures
// abort a run.
type Orchestrator struct {
	catalog     catalog.Catalog
	sessions    fuel.SessionFactory
	geocoder    fuel.Geocoder
	writer      *writer.Writer
	archive     fuel.ArchiveStore
	publisher   fuel.Publisher
	clock       fuel.Clock
	ids         fuel.IDGenerator
	extractOpts extract.Options
	cfg         Config
	logger      *zap.Logger
}

// New constructs an Orchestrator. archive and publisher may be nil.
func New(
	cat catalog.Catalog,
	sessions fuel.SessionFactory,
	geocoder fuel.Geocoder,
	writer *writer.Writer,
	archive fuel.ArchiveStore,
	publisher fuel.Publisher,
	clock fuel.Clock,
	ids fuel.IDGenerator,
	extractOpts extract.Options,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		catalog:     cat,
		sessions:    sessions,
		geocoder:    geocoder,
		writer:      writer,
		archive:     archive,
		publisher:   publisher,
		clock:       clock,
		ids:         ids,
		extractOpts: extractOpts,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run crawls every (city, fuel type) combination once, writes the freshness
// marker, and reports run metadata.
func (o *Orchestrator) Run(ctx context.Context) (fuel.CrawlRun, error) {
	if err := o.catalog.Validate(); err != nil {
		return fuel.CrawlRun{}, fmt.Errorf("validate catalog: %w", err)
	}
	runID, err := o.ids.NewID()
	if err != nil {
		return fuel.CrawlRun{}, fmt.Errorf("generate run id: %w", err)
	}

	run := fuel.CrawlRun{ID: runID, StartedAt: o.clock.Now()}
	o.logger.Info("Crawl run started",
		zap.String("run_id", runID),
		zap.Int("cities", len(o.catalog.Cities)),
		zap.Int("fuel_types", len(o.catalog.FuelTypes)))

	if o.cfg.Concurrent {
		var wg sync.WaitGroup
		for i, city := range o.catalog.Cities {
			wg.Add(1)
			go func(city catalog.City, delay time.Duration) {
				defer wg.Done()
				select {
				case <-ctx.Done():
					return
				case <-time.After(delay):
				}
				o.crawlCity(ctx, runID, city)
			}(city, time.Duration(i)*o.cfg.StartStagger)
		}
		wg.Wait()
	} else {
		for _, city := range o.catalog.Cities {
			if ctx.Err() != nil {
				break
			}
			o.crawlCity(ctx, runID, city)
		}
	}

	run.FinishedAt = o.clock.Now()
	o.writer.WriteRunMetadata(ctx, run)
	o.publishCompletion(ctx, run)

	o.logger.Info("Crawl run finished",
		zap.String("run_id", runID),
		zap.Duration("duration", run.Duration()))
	return run, nil
}

// crawlCity works through the fuel types for one city on a single browsing
// session, strictly in catalog order. A failed session acquisition skips
// the whole city; a failed combination skips only that combination.
func (o *Orchestrator) crawlCity(ctx context.Context, runID string, city catalog.City) {
	logger := o.logger.With(zap.String("run_id", runID), zap.String("city", city.Key))

	session, err := o.sessions.NewSession(ctx)
	if err != nil {
		logger.Error("Browsing session unavailable, skipping city", zap.Error(err))
		return
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("Failed to close browsing session", zap.Error(cerr))
		}
	}()

	for _, ft := range o.catalog.FuelTypes {
		if ctx.Err() != nil {
			return
		}
		if err := o.crawlCombination(ctx, runID, session, city, ft); err != nil {
			fuel.TotalCombinationFailures.Inc()
			logger.Error("Combination failed", zap.String("fuel_type", ft.Key), zap.Error(err))
		}
	}
}

func (o *Orchestrator) crawlCombination(
	ctx context.Context,
	runID string,
	session fuel.Session,
	city catalog.City,
	ft catalog.FuelType,
) error {
	if err := session.NavigateTo(ctx, city.LocationDescriptor); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if err := session.SelectFuelType(ctx, ft.SiteID); err != nil {
		return fmt.Errorf("select fuel type: %w", err)
	}
	if err := session.SwitchToListView(ctx); err != nil {
		return fmt.Errorf("switch to list view: %w", err)
	}
	listings, err := session.ListStations(ctx)
	if err != nil {
		return fmt.Errorf("list stations: %w", err)
	}

	o.archiveListings(ctx, runID, city.Key, ft.Key, listings)

	rpt := report.Summarize(o.buildStations(ctx, listings))
	o.writer.WriteReport(ctx, city.Key, ft.Key, rpt)
	return nil
}

// buildStations extracts and geocodes every listing. Listings without a
// price are dropped silently; geocode misses keep the record with absent
// coordinates.
func (o *Orchestrator) buildStations(ctx context.Context, listings []fuel.RawListing) []fuel.StationRecord {
	stations := make([]fuel.StationRecord, 0, len(listings))
	for _, listing := range listings {
		record, ok := extract.Station(listing, o.extractOpts)
		if !ok {
			fuel.TotalListingsSkipped.Inc()
			continue
		}
		record.Coordinates = o.geocoder.Resolve(ctx, record.Address.FullAddress)
		fuel.TotalStationsExtracted.Inc()
		stations = append(stations, record)
	}
	return stations
}

// archiveListings snapshots the raw listing bundle for later inspection.
// Best effort: archive failures never affect the run.
func (o *Orchestrator) archiveListings(ctx context.Context, runID, cityKey, fuelTypeKey string, listings []fuel.RawListing) {
	if o.archive == nil {
		return
	}
	data, err := json.Marshal(listings)
	if err != nil {
		o.logger.Warn("Failed to encode listing snapshot", zap.Error(err))
		return
	}
	path := fmt.Sprintf("%s/%s/%s/%s.json", o.cfg.ArchivePrefix, runID, cityKey, fuelTypeKey)
	if _, err := o.archive.PutObject(ctx, path, "application/json", data); err != nil {
		o.logger.Warn("Failed to archive listings",
			zap.String("city", cityKey),
			zap.String("fuel_type", fuelTypeKey),
			zap.Error(err))
	}
}

func (o *Orchestrator) publishCompletion(ctx context.Context, run fuel.CrawlRun) {
	if o.publisher == nil || o.cfg.Topic == "" {
		return
	}
	payload := map[string]any{
		"run_id":      run.ID,
		"started_at":  run.StartedAt.Format(time.RFC3339),
		"finished_at": run.FinishedAt.Format(time.RFC3339),
		"duration_ms": run.Duration().Milliseconds(),
	}
	if _, err := o.publisher.Publish(ctx, o.cfg.Topic, payload); err != nil {
		o.logger.Warn("Failed to publish run completion", zap.String("run_id", run.ID), zap.Error(err))
	}
}
