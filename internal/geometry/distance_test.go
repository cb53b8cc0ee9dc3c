package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestPointToSegmentDistance(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{10, 0}

	tests := []struct {
		name string
		p    orb.Point
		a    orb.Point
		b    orb.Point
		want float64
	}{
		{"perpendicular above middle", orb.Point{5, 5}, a, b, 5.0},
		{"clamped to start", orb.Point{-3, 0}, a, b, 3.0},
		{"clamped to end", orb.Point{13, 0}, a, b, 3.0},
		{"on the segment", orb.Point{4, 0}, a, b, 0.0},
		{"degenerate segment", orb.Point{3, 4}, a, a, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointToSegmentDistance(tt.p, tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PointToSegmentDistance(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointToPolylineDistance(t *testing.T) {
	line := orb.LineString{{0, 0}, {10, 0}, {10, 10}}

	if got := PointToPolylineDistance(orb.Point{12, 5}, line); math.Abs(got-2) > 1e-9 {
		t.Errorf("distance to second leg = %v, want 2", got)
	}
	if got := PointToPolylineDistance(orb.Point{5, -1}, line); math.Abs(got-1) > 1e-9 {
		t.Errorf("distance to first leg = %v, want 1", got)
	}

	if got := PointToPolylineDistance(orb.Point{1, 1}, orb.LineString{{0, 0}}); !math.IsInf(got, 1) {
		t.Errorf("single vertex polyline = %v, want +Inf", got)
	}
	if got := PointToPolylineDistance(orb.Point{1, 1}, nil); !math.IsInf(got, 1) {
		t.Errorf("empty polyline = %v, want +Inf", got)
	}
}

func TestNearestFeatureToPixel(t *testing.T) {
	type marker struct {
		id  string
		pos orb.Point
		ok  bool
	}

	markers := []marker{
		{"far", orb.Point{100, 100}, true},
		{"hidden", orb.Point{1, 1}, false},
		{"near", orb.Point{10, 10}, true},
		{"tie", orb.Point{10, 10}, true},
	}
	toPixel := func(m marker) (orb.Point, bool) { return m.pos, m.ok }

	got, ok := NearestFeatureToPixel(orb.Point{12, 10}, markers, toPixel, DefaultClickRadiusPx)
	if !ok || got.id != "near" {
		t.Errorf("NearestFeatureToPixel = %q (%v), want near", got.id, ok)
	}

	if _, ok := NearestFeatureToPixel(orb.Point{500, 500}, markers, toPixel, DefaultClickRadiusPx); ok {
		t.Error("expected no feature outside the radius")
	}

	// exactly on the radius still qualifies
	edge := []marker{{"edge", orb.Point{25, 0}, true}}
	if _, ok := NearestFeatureToPixel(orb.Point{0, 0}, edge, toPixel, 25); !ok {
		t.Error("expected feature at exactly the radius to qualify")
	}
}

func TestBoundsOfLinesAndBuffer(t *testing.T) {
	lines := []orb.LineString{
		nil,
		{{0, 0}, {10, 5}},
		{{-5, 2}, {3, 20}},
	}

	b, ok := BoundsOfLines(lines)
	if !ok {
		t.Fatal("expected bounds")
	}
	if b.Min != (orb.Point{-5, 0}) || b.Max != (orb.Point{10, 20}) {
		t.Errorf("bounds = %v", b)
	}

	padded := Buffer(b, 100)
	if padded.Min != (orb.Point{-105, -100}) || padded.Max != (orb.Point{110, 120}) {
		t.Errorf("buffered bounds = %v", padded)
	}

	if _, ok := BoundsOfLines([]orb.LineString{nil, {}}); ok {
		t.Error("expected no bounds for empty lines")
	}
}
