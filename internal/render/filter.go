package render

import (
	"github.com/slhn-import/internal/address"
)

// Filters are the user's marker filters
type Filters struct {
	OnlyMissing  bool `json:"onlyMissing" yaml:"onlyMissing"`
	SelectedOnly bool `json:"selectedOnly" yaml:"selectedOnly"`
}

// Apply returns the points that pass the filters. SelectedOnly applies only
// when a current street is known; OnlyMissing keeps conflicts and anything
// not yet processed.
func (f Filters) Apply(points []address.AddressPoint, currentStreet string) []address.AddressPoint {
	out := make([]address.AddressPoint, 0, len(points))
	for _, p := range points {
		if f.SelectedOnly && currentStreet != "" && p.StreetKey != currentStreet {
			continue
		}
		if f.OnlyMissing && !(p.Status.Conflict || !p.Status.Processed) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// LayerShown reports whether the marker layer is drawn at zoom
func LayerShown(wantVisible bool, zoom, minZoom int) bool {
	return wantVisible && zoom >= minZoom
}
