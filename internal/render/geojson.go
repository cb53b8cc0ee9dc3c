package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/slhn-import/internal/address"
)

// FeatureCollection encodes points as GeoJSON point features in EPSG:4326.
// toLonLat converts from the working projection.
func (pal Palette) FeatureCollection(points []address.AddressPoint, currentStreet string, toLonLat func(orb.Point) orb.Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, p := range points {
		f := geojson.NewFeature(toLonLat(p.Position))
		f.ID = p.ID

		s := pal.StyleFor(p, currentStreet)
		f.Properties["number"] = p.HouseNumber
		f.Properties["street"] = p.StreetKey
		f.Properties["streetName"] = p.StreetDisplayName
		f.Properties["processed"] = p.Status.Processed
		f.Properties["conflict"] = p.Status.Conflict
		f.Properties["fillColor"] = s.Color
		f.Properties["opacity"] = s.Opacity
		f.Properties["radius"] = s.Radius
		f.Properties["label"] = s.Label
		f.Properties["title"] = s.Title
		if s.Clickable {
			f.Properties["cursor"] = "pointer"
		} else {
			f.Properties["cursor"] = ""
		}

		fc.Append(f)
	}

	return fc
}
