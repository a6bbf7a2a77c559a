// Package writer maps crawl results onto document store paths.
package writer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/petrolmate/crawler/internal/fuel"
)

// Mode selects how report subtrees are written.
type Mode string

const (
	// ModeMerge updates only the named subtree, leaving siblings untouched.
	ModeMerge Mode = "merge"
	// ModeReplace overwrites the named subtree entirely.
	ModeReplace Mode = "replace"
)

// Writer issues best-effort writes: a failed write is logged and counted,
// never retried, and never aborts the run.
type Writer struct {
	store  fuel.DocumentStore
	mode   Mode
	logger *zap.Logger
}

// New creates a Writer. The mode applies to report writes; run metadata is
// always merged so a replace at the root cannot discard the city tree.
func New(store fuel.DocumentStore, mode Mode, logger *zap.Logger) *Writer {
	if mode != ModeReplace {
		mode = ModeMerge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{store: store, mode: mode, logger: logger}
}

// WriteReport persists one fuel report under /City/{cityKey}/{fuelTypeKey}.
// Empty reports are written too; an explicit empty page beats stale data.
func (w *Writer) WriteReport(ctx context.Context, cityKey, fuelTypeKey string, rpt fuel.FuelReport) {
	path := fmt.Sprintf("/City/%s/%s", cityKey, fuelTypeKey)

	var err error
	if w.mode == ModeReplace {
		err = w.store.Set(ctx, path, rpt)
	} else {
		err = w.store.Update(ctx, path, rpt)
	}
	if err != nil {
		fuel.TotalStoreWriteErrors.Inc()
		w.logger.Error("Report write failed",
			zap.String("city", cityKey),
			zap.String("fuel_type", fuelTypeKey),
			zap.Error(err))
		return
	}
	w.logger.Info("Report saved",
		zap.String("city", cityKey),
		zap.String("fuel_type", fuelTypeKey),
		zap.Int("stations", len(rpt.Stations)))
}

// WriteRunMetadata persists the freshness marker for a completed run.
func (w *Writer) WriteRunMetadata(ctx context.Context, run fuel.CrawlRun) {
	meta := MetadataFor(run)
	if err := w.store.Update(ctx, "/Updated", meta); err != nil {
		fuel.TotalStoreWriteErrors.Inc()
		w.logger.Error("Run metadata write failed", zap.String("run_id", run.ID), zap.Error(err))
		return
	}
	w.logger.Info("Run metadata saved", zap.String("run_id", run.ID), zap.String("at", meta.At))
}

// MetadataFor renders the freshness marker for a run.
func MetadataFor(run fuel.CrawlRun) fuel.RunMetadata {
	d := run.Duration()
	return fuel.RunMetadata{
		At:       run.FinishedAt.Format(fuel.TimestampFormat),
		Duration: fmt.Sprintf("%d hours and %d minutes", int(d.Hours()), int(d.Minutes())%60),
	}
}
