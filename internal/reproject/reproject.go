// Package reproject converts coordinates between the projections the tool
// deals with: the national grid the address registry publishes in
// (EPSG:3794, D96/TM), geographic WGS84 (EPSG:4326) used by the host's
// mutation API, and the host's working planar projection (EPSG:3857).
package reproject

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Projection identifies a supported coordinate reference system
type Projection int

const (
	// LonLat is EPSG:4326, points are (lon, lat) in degrees
	LonLat Projection = 4326
	// WebMercator is EPSG:3857, the host's working projection
	WebMercator Projection = 3857
	// D96TM is EPSG:3794, the Slovenian national grid
	D96TM Projection = 3794
)

// Transformer converts points between the working projection and the other
// systems. It is a pure function set; implementations hold no mutable state.
type Transformer interface {
	NationalToWorking(p orb.Point) orb.Point
	WorkingToNational(p orb.Point) orb.Point
	WorkingToLonLat(p orb.Point) orb.Point
	LonLatToWorking(p orb.Point) orb.Point
}

// Slovenia is the transformer between EPSG:3794 and EPSG:3857
type Slovenia struct {
	tm *TransverseMercator
}

// NewSlovenia returns the D96/TM <-> Web Mercator transformer
func NewSlovenia() *Slovenia {
	return &Slovenia{tm: NewD96TM()}
}

// NationalToWorking converts EPSG:3794 easting/northing to EPSG:3857
func (s *Slovenia) NationalToWorking(p orb.Point) orb.Point {
	return project.WGS84.ToMercator(s.tm.Inverse(p))
}

// WorkingToNational converts EPSG:3857 to EPSG:3794
func (s *Slovenia) WorkingToNational(p orb.Point) orb.Point {
	return s.tm.Forward(project.Mercator.ToWGS84(p))
}

// WorkingToLonLat converts EPSG:3857 to EPSG:4326
func (s *Slovenia) WorkingToLonLat(p orb.Point) orb.Point {
	return project.Mercator.ToWGS84(p)
}

// LonLatToWorking converts EPSG:4326 to EPSG:3857
func (s *Slovenia) LonLatToWorking(p orb.Point) orb.Point {
	return project.WGS84.ToMercator(p)
}
