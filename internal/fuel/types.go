// Package fuel defines core types shared across subsystems.
package fuel

import "time"

// RawListing is the opaque per-station bundle harvested from one rendered
// listing row. Text is the trimmed row text (price column plus the
// multi-line description block). Suburb carries the distinctly styled suburb
// sub-element when the page marks one; it is empty on the positional layout.
type RawListing struct {
	Text    string `json:"text"`
	Suburb  string `json:"suburb"`
	LogoSrc string `json:"logo_src"`
}

// Address is the normalized station address. FullAddress is derived from the
// other three fields and is the string handed to the geocoder.
type Address struct {
	StreetAddress string `json:"streetAddress"`
	Suburb        string `json:"suburb"`
	Postcode      string `json:"postcode"`
	FullAddress   string `json:"fullAddress"`
}

// Coordinates holds the best-match latitude/longitude for a station. The
// lookup service returns decimal-degree strings and they are persisted
// verbatim. The zero value is the absent state and serializes as an empty
// object, never as null fields.
type Coordinates struct {
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
}

// Empty reports whether no coordinates were resolved.
func (c Coordinates) Empty() bool {
	return c.Latitude == "" || c.Longitude == ""
}

// StationRecord is one validated, geocoded station listing. Price keeps the
// matched decimal text verbatim; a record exists only if a price was found.
type StationRecord struct {
	StationName string      `json:"stationName"`
	Address     Address     `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Price       string      `json:"price"`
	Logo        string      `json:"logo"`
}

// FuelReport is the aggregate for one (city, fuel type) page. MinPrice and
// MaxPrice are recomputed from Stations each run and are absent (omitted)
// when the list is empty.
type FuelReport struct {
	Stations []StationRecord `json:"stations"`
	MinPrice string          `json:"minPrice,omitempty"`
	MaxPrice string          `json:"maxPrice,omitempty"`
}

// CrawlRun records one orchestrator invocation.
type CrawlRun struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns the elapsed run time.
func (r CrawlRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// TimestampFormat renders freshness timestamps, e.g. "28-08-2026 21:04:05".
const TimestampFormat = "02-01-2006 15:04:05"

// RunMetadata is the freshness marker persisted once per run.
type RunMetadata struct {
	At       string `json:"at"`
	Duration string `json:"duration"`
}
