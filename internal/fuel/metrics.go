package fuel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalStationsExtracted tracks listings successfully turned into station records.
	TotalStationsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuelcrawler_stations_extracted_total",
		Help: "The total number of raw listings converted to station records.",
	})
	// TotalListingsSkipped tracks listings dropped because no price was found.
	TotalListingsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuelcrawler_listings_skipped_total",
		Help: "The total number of raw listings dropped without a parseable price.",
	})
	// TotalGeocodeMisses tracks lookups that yielded no coordinates.
	TotalGeocodeMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuelcrawler_geocode_misses_total",
		Help: "The total number of address lookups that returned no coordinates.",
	})
	// TotalCombinationFailures tracks (city, fuel type) pages that could not be crawled.
	TotalCombinationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuelcrawler_combination_failures_total",
		Help: "The total number of city/fuel-type combinations skipped after a navigation failure.",
	})
	// TotalStoreWriteErrors tracks failed document store writes.
	TotalStoreWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuelcrawler_store_write_errors_total",
		Help: "The total number of document store writes that failed.",
	})
)
