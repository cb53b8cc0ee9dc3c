package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultClickRadiusPx is the pixel radius used for marker hit testing
const DefaultClickRadiusPx = 25.0

// PointToSegmentDistance returns the distance from p to the segment a-b,
// clamped to the segment. A degenerate segment (a == b) yields the
// point-to-point distance.
func PointToSegmentDistance(p, a, b orb.Point) float64 {
	if a.Equal(b) {
		return planar.Distance(p, a)
	}
	return planar.DistanceFromSegment(a, b, p)
}

// PointToPolylineDistance returns the minimum segment distance from p to the
// polyline described by vertices. Fewer than two vertices yields +Inf.
func PointToPolylineDistance(p orb.Point, vertices orb.LineString) float64 {
	minDist := math.Inf(1)
	for i := 0; i+1 < len(vertices); i++ {
		d := PointToSegmentDistance(p, vertices[i], vertices[i+1])
		if d < minDist {
			minDist = d
		}
	}
	return minDist
}

// WithinRadius reports whether a and b are at most radius apart, compared on
// squared distances.
func WithinRadius(a, b orb.Point, radius float64) bool {
	return planar.DistanceSquared(a, b) <= radius*radius
}

// NearestFeatureToPixel returns the feature whose screen position is closest
// to pixel and within maxRadius pixels. toPixel projects a feature to screen
// space and reports false when it cannot be placed. Ties keep the first
// minimum encountered.
func NearestFeatureToPixel[T any](pixel orb.Point, features []T, toPixel func(T) (orb.Point, bool), maxRadius float64) (T, bool) {
	var best T
	found := false

	maxSq := maxRadius * maxRadius
	bestSq := math.Inf(1)

	for _, f := range features {
		fp, ok := toPixel(f)
		if !ok {
			continue
		}
		d2 := planar.DistanceSquared(fp, pixel)
		if d2 <= maxSq && d2 < bestSq {
			bestSq = d2
			best = f
			found = true
		}
	}

	return best, found
}
