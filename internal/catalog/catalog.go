// Package catalog holds the static city and fuel-type reference data.
package catalog

import "fmt"

// City is one crawl target. LocationDescriptor is the site-specific map
// anchor (a "lat,lng" pair for the PetrolSpy map URL).
type City struct {
	Key                string
	LocationDescriptor string
}

// FuelType pairs a stable key with the site-specific option identifier.
type FuelType struct {
	Key    string
	SiteID string
}

// Catalog is the immutable cross product driving one run. Order is
// significant: fuel types are crawled and written in slice order.
type Catalog struct {
	Cities    []City
	FuelTypes []FuelType
}

// Default returns the catalog of Australian capital cities and the fuel
// types the source site exposes.
func Default() Catalog {
	return Catalog{
		Cities: []City{
			{Key: "Adelaide", LocationDescriptor: "-34.9285,138.6007"},
			{Key: "Brisbane", LocationDescriptor: "-27.4698,153.0251"},
			{Key: "Canberra", LocationDescriptor: "-35.2809,149.1300"},
			{Key: "Darwin", LocationDescriptor: "-12.4634,130.8456"},
			{Key: "Hobart", LocationDescriptor: "-42.8821,147.3272"},
			{Key: "Melbourne", LocationDescriptor: "-37.8136,144.9631"},
			{Key: "Perth", LocationDescriptor: "-31.9523,115.8613"},
			{Key: "Sydney", LocationDescriptor: "-33.8688,151.2093"},
		},
		FuelTypes: []FuelType{
			{Key: "U91", SiteID: "U91"},
			{Key: "P95", SiteID: "P95"},
			{Key: "P98", SiteID: "P98"},
			{Key: "E10", SiteID: "E10"},
			{Key: "Diesel", SiteID: "DL"},
			{Key: "PremiumDiesel", SiteID: "PDL"},
			{Key: "LPG", SiteID: "LPG"},
		},
	}
}

// Validate enforces non-empty, unique keys.
func (c Catalog) Validate() error {
	if len(c.Cities) == 0 {
		return fmt.Errorf("catalog: no cities configured")
	}
	if len(c.FuelTypes) == 0 {
		return fmt.Errorf("catalog: no fuel types configured")
	}
	seen := make(map[string]struct{}, len(c.Cities))
	for _, city := range c.Cities {
		if city.Key == "" || city.LocationDescriptor == "" {
			return fmt.Errorf("catalog: city entry missing key or location")
		}
		if _, dup := seen[city.Key]; dup {
			return fmt.Errorf("catalog: duplicate city key %q", city.Key)
		}
		seen[city.Key] = struct{}{}
	}
	seen = make(map[string]struct{}, len(c.FuelTypes))
	for _, ft := range c.FuelTypes {
		if ft.Key == "" || ft.SiteID == "" {
			return fmt.Errorf("catalog: fuel type entry missing key or site id")
		}
		if _, dup := seen[ft.Key]; dup {
			return fmt.Errorf("catalog: duplicate fuel type key %q", ft.Key)
		}
		seen[ft.Key] = struct{}{}
	}
	return nil
}
