// Package conflation reconciles registry address points with the house
// numbers the host already has: it classifies each point as processed,
// conflicting or missing, picks the street that best matches the user's
// selection, and looks for street name mismatches.
package conflation

import (
	"strings"

	"github.com/slhn-import/internal/address"
	"github.com/slhn-import/internal/debug"
	"github.com/slhn-import/internal/geometry"
	"github.com/slhn-import/internal/index"
	"github.com/slhn-import/internal/metrics"
)

const (
	// DefaultConflictRadius is the distance, in working projection units,
	// within which a differently numbered host record marks a conflict
	DefaultConflictRadius = 10.0

	// LegacyConflictRadius is the wider radius used by the display-only tool
	LegacyConflictRadius = 25.0
)

// Classify computes the status of one point against idx. A point is
// processed when its street bucket already has its number. Otherwise it
// conflicts when a different number sits within radius on the same street.
func Classify(p address.AddressPoint, idx index.ExistingHouseNumberIndex, radius float64) address.Status {
	b := idx.Bucket(p.StreetKey)
	if b == nil {
		return address.Status{}
	}

	if b.Contains(p.HouseNumber) {
		return address.Status{Processed: true}
	}

	for _, e := range b.Positioned {
		if strings.EqualFold(e.Number, p.HouseNumber) {
			continue
		}
		if geometry.WithinRadius(p.Position, e.Position, radius) {
			return address.Status{Conflict: true}
		}
	}

	return address.Status{}
}

// Reclassify recomputes the status of every point in place. Identity and
// position are untouched.
func Reclassify(points []address.AddressPoint, idx index.ExistingHouseNumberIndex, radius float64) {
	localDebug := debug.Enabled()
	defer debug.DebugTiming(localDebug, "Reclassify")()

	var processed, conflict, missing int
	for i := range points {
		points[i].Status = Classify(points[i], idx, radius)
		switch {
		case points[i].Status.Processed:
			processed++
		case points[i].Status.Conflict:
			conflict++
		default:
			missing++
		}
	}

	metrics.Classifications.WithLabelValues("processed").Add(float64(processed))
	metrics.Classifications.WithLabelValues("conflict").Add(float64(conflict))
	metrics.Classifications.WithLabelValues("missing").Add(float64(missing))

	debug.DebugOutput(localDebug, "Reclassified %d points: %d processed, %d conflict, %d missing",
		len(points), processed, conflict, missing)
}

// Summary counts points by status
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Processed int `json:"processed" yaml:"processed"`
	Conflict  int `json:"conflict" yaml:"conflict"`
	Missing   int `json:"missing" yaml:"missing"`
}

// Summarize counts the statuses of points
func Summarize(points []address.AddressPoint) Summary {
	s := Summary{Total: len(points)}
	for _, p := range points {
		switch {
		case p.Status.Processed:
			s.Processed++
		case p.Status.Conflict:
			s.Conflict++
		default:
			s.Missing++
		}
	}
	return s
}
