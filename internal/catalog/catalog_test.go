package catalog

import (
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cat := Default()
	if err := cat.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(cat.Cities) != 8 {
		t.Fatalf("expected 8 cities, got %d", len(cat.Cities))
	}
	if len(cat.FuelTypes) != 7 {
		t.Fatalf("expected 7 fuel types, got %d", len(cat.FuelTypes))
	}
	// Diesel variants use site identifiers that differ from their keys.
	for _, ft := range cat.FuelTypes {
		if ft.Key == "Diesel" && ft.SiteID != "DL" {
			t.Fatalf("expected Diesel site id DL, got %q", ft.SiteID)
		}
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cat  Catalog
		want string
	}{
		{
			name: "no cities",
			cat: Catalog{
				FuelTypes: []FuelType{{Key: "U91", SiteID: "U91"}},
			},
			want: "no cities",
		},
		{
			name: "no fuel types",
			cat: Catalog{
				Cities: []City{{Key: "Adelaide", LocationDescriptor: "-34.9,138.6"}},
			},
			want: "no fuel types",
		},
		{
			name: "city missing location",
			cat: Catalog{
				Cities:    []City{{Key: "Adelaide"}},
				FuelTypes: []FuelType{{Key: "U91", SiteID: "U91"}},
			},
			want: "missing key or location",
		},
		{
			name: "duplicate city key",
			cat: Catalog{
				Cities: []City{
					{Key: "Adelaide", LocationDescriptor: "-34.9,138.6"},
					{Key: "Adelaide", LocationDescriptor: "-34.9,138.6"},
				},
				FuelTypes: []FuelType{{Key: "U91", SiteID: "U91"}},
			},
			want: "duplicate city",
		},
		{
			name: "fuel type missing site id",
			cat: Catalog{
				Cities:    []City{{Key: "Adelaide", LocationDescriptor: "-34.9,138.6"}},
				FuelTypes: []FuelType{{Key: "U91"}},
			},
			want: "missing key or site id",
		},
		{
			name: "duplicate fuel type key",
			cat: Catalog{
				Cities: []City{{Key: "Adelaide", LocationDescriptor: "-34.9,138.6"}},
				FuelTypes: []FuelType{
					{Key: "U91", SiteID: "U91"},
					{Key: "U91", SiteID: "E10"},
				},
			},
			want: "duplicate fuel type",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cat.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
