// Package resolver finds the host segment a registry address point should be
// attached to.
package resolver

import (
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/slhn-import/internal/geometry"
	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/metrics"
)

// Result is a resolved segment. Fallback is set when no segment carried the
// requested street name and the nearest segment overall was taken instead;
// callers must confirm with the user before editing in that case.
type Result struct {
	Segment  host.Segment
	Distance float64
	Fallback bool
}

// Resolve returns the segment nearest to position. When streetName is given,
// only segments carrying a street of that name (case-insensitive, primary or
// alternate) are considered first; if there are none, every segment is
// searched. ok is false only when the host has no segment with geometry.
func Resolve(r host.Reader, position orb.Point, streetName string) (Result, bool) {
	segments := r.Segments()

	if streetName != "" {
		candidates := segmentsNamed(r, segments, streetName)
		if seg, dist, ok := nearest(position, candidates); ok {
			metrics.Resolutions.WithLabelValues("matched").Inc()
			return Result{Segment: seg, Distance: dist}, true
		}
	}

	seg, dist, ok := nearest(position, segments)
	if !ok {
		metrics.Resolutions.WithLabelValues("none").Inc()
		return Result{}, false
	}

	// A request without a street name has nothing to fall back from
	fallback := streetName != ""
	if fallback {
		metrics.Resolutions.WithLabelValues("fallback").Inc()
	} else {
		metrics.Resolutions.WithLabelValues("matched").Inc()
	}
	return Result{Segment: seg, Distance: dist, Fallback: fallback}, true
}

func segmentsNamed(r host.Reader, segments []host.Segment, streetName string) []host.Segment {
	want := strings.ToLower(streetName)

	streetIDs := make(map[string]bool)
	for _, st := range r.Streets() {
		if strings.ToLower(st.Name) == want {
			streetIDs[st.ID] = true
		}
	}
	if len(streetIDs) == 0 {
		return nil
	}

	var out []host.Segment
	for _, seg := range segments {
		for _, id := range seg.StreetIDs() {
			if streetIDs[id] {
				out = append(out, seg)
				break
			}
		}
	}
	return out
}

// nearest keeps the first segment at the minimum polyline distance
func nearest(position orb.Point, segments []host.Segment) (host.Segment, float64, bool) {
	var best host.Segment
	bestDist := math.Inf(1)
	found := false

	for _, seg := range segments {
		if !seg.HasGeometry() {
			continue
		}
		d := geometry.PointToPolylineDistance(position, seg.Geometry)
		if d < bestDist {
			best = seg
			bestDist = d
			found = true
		}
	}
	return best, bestDist, found
}
