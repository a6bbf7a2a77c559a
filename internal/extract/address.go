package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/petrolmate/crawler/internal/fuel"
)

// IntersectionMode decides how intersection-style street text ("Cnr X & Y")
// is handled when the full address is built for geocoding. The observed
// site data supports either reading, so the choice is configuration, not a
// guess.
type IntersectionMode string

const (
	// IntersectionKeep geocodes the intersection text in full.
	IntersectionKeep IntersectionMode = "keep"
	// IntersectionTruncate keeps only the first named road of the
	// intersection; corner phrasing tends to confuse the address lookup.
	IntersectionTruncate IntersectionMode = "truncate"
)

// Options controls address normalization.
type Options struct {
	Intersections IntersectionMode
}

var (
	cornerRe     = regexp.MustCompile(`(?i)\bcnr\.?\s+|\bcorner\s+(of\s+)?`)
	parensRe     = regexp.MustCompile(`\s*\([^)]*\)`)
	spaceCommaRe = regexp.MustCompile(`\s+,`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	postcodeRe   = regexp.MustCompile(`\b\d{4}\b`)
)

// NormalizeAddress builds an Address from the raw street line and the lines
// that follow it. markedSuburb carries the page's styled suburb element when
// present; when it is empty the suburb and postcode are read positionally
// from the line after the street line. StreetAddress always keeps the raw
// street text; only FullAddress reflects intersection truncation.
func NormalizeAddress(street string, rest []string, markedSuburb string, opts Options) fuel.Address {
	var suburb, postcode string
	switch {
	case markedSuburb != "":
		suburb = strings.TrimSpace(markedSuburb)
		if len(rest) > 0 {
			last := rest[len(rest)-1]
			parts := strings.Split(last, suburb)
			postcode = strings.TrimSpace(parts[len(parts)-1])
		}
	case len(rest) > 0:
		suburb, postcode = splitSuburbPostcode(rest[0])
	}

	geocodeStreet := street
	if opts.Intersections == IntersectionTruncate {
		geocodeStreet = truncateIntersection(street)
	}

	full := NormalizeFull(joinAddress(geocodeStreet, suburb, postcode))

	return fuel.Address{
		StreetAddress: street,
		Suburb:        suburb,
		Postcode:      postcode,
		FullAddress:   full,
	}
}

// NormalizeFull applies the display normalization steps to a combined
// address: parenthesized asides are stripped, the text is title-cased and
// whitespace is collapsed. The function is idempotent.
func NormalizeFull(address string) string {
	out := parensRe.ReplaceAllString(address, "")
	out = cases.Title(language.English).String(out)
	out = spaceCommaRe.ReplaceAllString(out, ",")
	out = multiSpaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// splitSuburbPostcode reads "Exampletown, 5000" style positional lines. A
// missing comma falls back to peeling a trailing four-digit postcode token.
func splitSuburbPostcode(line string) (string, string) {
	line = strings.TrimSpace(line)
	if idx := strings.LastIndex(line, ","); idx >= 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:])
	}
	if loc := postcodeRe.FindStringIndex(line); loc != nil && loc[1] == len(line) {
		return strings.TrimSpace(line[:loc[0]]), line[loc[0]:]
	}
	return line, ""
}

// truncateIntersection reduces "Cnr Main St & Second Ave" to "Main St".
// Text without a corner marker passes through unchanged.
func truncateIntersection(street string) string {
	loc := cornerRe.FindStringIndex(street)
	if loc == nil {
		return street
	}
	rest := street[loc[1]:]
	if amp := strings.IndexAny(rest, "&"); amp >= 0 {
		rest = rest[:amp]
	}
	out := strings.TrimSpace(street[:loc[0]] + rest)
	if out == "" {
		return street
	}
	return out
}

func joinAddress(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
