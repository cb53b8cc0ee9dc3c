// Package host describes what the tool needs from the map-editing host: read
// access to segments, streets and house numbers, a few mutations, and the
// events the host emits. Everything is expressed as ports so the engine never
// reaches into host globals.
package host

import (
	"github.com/paulmach/orb"
)

// Street is a named host street inside a city
type Street struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	CityID string `json:"cityId" yaml:"cityId"`
}

// Segment is a host road geometry with its street associations
type Segment struct {
	ID              string         `json:"id" yaml:"id"`
	Geometry        orb.LineString `json:"geometry" yaml:"geometry"`
	PrimaryStreetID string         `json:"primaryStreetId" yaml:"primaryStreetId"`
	AltStreetIDs    []string       `json:"altStreetIds,omitempty" yaml:"altStreetIds,omitempty"`
}

// StreetIDs returns the primary street followed by the alternates, without
// blanks or repeats
func (s Segment) StreetIDs() []string {
	ids := make([]string, 0, 1+len(s.AltStreetIDs))
	seen := make(map[string]bool, 1+len(s.AltStreetIDs))

	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	add(s.PrimaryStreetID)
	for _, id := range s.AltStreetIDs {
		add(id)
	}
	return ids
}

// HasGeometry reports whether the segment has a usable polyline
func (s Segment) HasGeometry() bool {
	return len(s.Geometry) >= 2
}

// HouseNumber is a host house-number record. Position is nil when the host
// could not resolve one.
type HouseNumber struct {
	ID        string     `json:"id" yaml:"id"`
	Number    string     `json:"number" yaml:"number"`
	SegmentID string     `json:"segmentId" yaml:"segmentId"`
	Position  *orb.Point `json:"position,omitempty" yaml:"position,omitempty"`
}

// Viewport is the on-screen size of the map in pixels
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}
