// Package address holds the canonical representation of registry address
// points and the street registry built while mapping them.
package address

import (
	"github.com/paulmach/orb"
)

// Status is the derived classification of a point against host data
type Status struct {
	Processed bool `json:"processed" yaml:"processed"`
	Conflict  bool `json:"conflict" yaml:"conflict"`
}

// Missing reports whether the point is neither present nor conflicting
func (s Status) Missing() bool {
	return !s.Processed && !s.Conflict
}

// AddressPoint is one registry address in canonical form
type AddressPoint struct {
	ID                string    `json:"id" yaml:"id"`
	HouseNumber       string    `json:"houseNumber" yaml:"houseNumber"`
	StreetKey         string    `json:"streetKey" yaml:"streetKey"`
	StreetDisplayName string    `json:"streetDisplayName" yaml:"streetDisplayName"`
	Position          orb.Point `json:"position" yaml:"position"`
	Status            Status    `json:"status" yaml:"status"`
}

// CountByStreet counts points per street key
func CountByStreet(points []AddressPoint) map[string]int {
	counts := make(map[string]int)
	for _, p := range points {
		counts[p.StreetKey]++
	}
	return counts
}
