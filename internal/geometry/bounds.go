package geometry

import (
	"github.com/paulmach/orb"
)

// BoundsOfLines returns the union of the bounds of every non-empty line.
// ok is false when no line carries any vertex.
func BoundsOfLines(lines []orb.LineString) (orb.Bound, bool) {
	var bound orb.Bound
	ok := false

	for _, ls := range lines {
		if len(ls) == 0 {
			continue
		}
		if !ok {
			bound = ls.Bound()
			ok = true
			continue
		}
		bound = bound.Union(ls.Bound())
	}

	return bound, ok
}

// Buffer grows a bound by distance on every side
func Buffer(b orb.Bound, distance float64) orb.Bound {
	return b.Pad(distance)
}

// MapCorners applies fn to the lower-left and upper-right corners of b and
// returns the bound of the transformed corners. Used to move a bbox between
// projections the same way the registry expects it: corner-wise.
func MapCorners(b orb.Bound, fn func(orb.Point) orb.Point) orb.Bound {
	bl := fn(b.Min)
	tr := fn(b.Max)
	return orb.Bound{Min: bl, Max: bl}.Extend(tr)
}
