// Package report reduces station records into per-page price summaries.
package report

import (
	"strconv"

	"github.com/petrolmate/crawler/internal/fuel"
)

// Summarize builds a FuelReport for one (city, fuel type) page. Min and max
// are compared numerically over the price field; an empty station list
// yields absent extremes, never zero or a sentinel.
func Summarize(stations []fuel.StationRecord) fuel.FuelReport {
	rpt := fuel.FuelReport{Stations: stations}
	if rpt.Stations == nil {
		rpt.Stations = []fuel.StationRecord{}
	}

	var (
		minVal, maxVal float64
		found          bool
	)
	for _, station := range stations {
		value, err := strconv.ParseFloat(station.Price, 64)
		if err != nil {
			continue
		}
		if !found || value < minVal {
			minVal = value
			rpt.MinPrice = station.Price
		}
		if !found || value > maxVal {
			maxVal = value
			rpt.MaxPrice = station.Price
		}
		found = true
	}
	return rpt
}
