// Package extract turns raw scraped listing text into station records.
package extract

import (
	"regexp"
	"strings"

	"github.com/petrolmate/crawler/internal/fuel"
)

// priceRe matches the first decimal price fragment in a listing.
var priceRe = regexp.MustCompile(`\d+\.\d+`)

// Station converts one raw listing into a StationRecord. The second return
// is false when the listing carries no parseable price or is too short to
// hold a name and street line; such listings are dropped, never errors.
func Station(listing fuel.RawListing, opts Options) (fuel.StationRecord, bool) {
	price := priceRe.FindString(listing.Text)
	if price == "" {
		return fuel.StationRecord{}, false
	}

	lines := descriptionLines(listing.Text)
	if len(lines) < 2 {
		return fuel.StationRecord{}, false
	}

	name := lines[0]
	street := lines[1]
	address := NormalizeAddress(street, lines[2:], listing.Suburb, opts)

	return fuel.StationRecord{
		StationName: name,
		Address:     address,
		Price:       price,
		Logo:        listing.LogoSrc,
	}, true
}

// descriptionLines splits the listing text into trimmed, non-empty lines
// with price-bearing lines removed.
func descriptionLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || priceRe.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
