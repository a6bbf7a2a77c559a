package fuel

import (
	"context"
	"time"
)

// Session is one browsing session against the price-comparison site. A
// session owns a single rendered page; calls must not overlap. Every method
// may fail with a navigation or timeout error.
type Session interface {
	NavigateTo(ctx context.Context, locationDescriptor string) error
	SelectFuelType(ctx context.Context, fuelSiteID string) error
	SwitchToListView(ctx context.Context) error
	ListStations(ctx context.Context) ([]RawListing, error)
	Close() error
}

// SessionFactory opens independent browsing sessions, one per city task.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// Geocoder resolves a full address to coordinates. Implementations never
// fail the pipeline: any lookup error or empty result yields the zero
// Coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, fullAddress string) Coordinates
}

// DocumentStore is a hierarchical key-path store. Update merges the value
// into the subtree at path, leaving siblings untouched; Set replaces the
// subtree entirely.
type DocumentStore interface {
	Update(ctx context.Context, path string, value any) error
	Set(ctx context.Context, path string, value any) error
}

// Publisher pushes run events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// ArchiveStore writes raw crawl artifacts and returns a URI.
type ArchiveStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
