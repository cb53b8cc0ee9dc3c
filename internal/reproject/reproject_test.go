package reproject

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestWebMercator(t *testing.T) {
	s := NewSlovenia()

	origin := s.LonLatToWorking(orb.Point{0, 0})
	if math.Abs(origin[0]) > 1e-9 || math.Abs(origin[1]) > 1e-9 {
		t.Errorf("origin = %v, want (0,0)", origin)
	}

	edge := s.LonLatToWorking(orb.Point{180, 0})
	if math.Abs(edge[0]-20037508.342789244) > 1e-6 {
		t.Errorf("x at 180 = %v", edge[0])
	}

	ll := orb.Point{14.5058, 46.0569}
	back := s.WorkingToLonLat(s.LonLatToWorking(ll))
	if math.Abs(back[0]-ll[0]) > 1e-9 || math.Abs(back[1]-ll[1]) > 1e-9 {
		t.Errorf("round trip = %v, want %v", back, ll)
	}
}

func TestTransverseMercatorControlPoints(t *testing.T) {
	tests := []struct {
		name      string
		tm        *TransverseMercator
		ll        orb.Point
		east      float64
		north     float64
		tolerance float64
	}{
		{
			// EPSG Guidance Note 7-2 worked example, OSGB 1936 / British National Grid
			name:      "british national grid",
			tm:        NewTransverseMercator(6377563.396, 299.3249646, -2, 49, 0.9996012717, 400000, -100000),
			ll:        orb.Point{0.5, 50.5},
			east:      577274.98,
			north:     69740.49,
			tolerance: 0.02,
		},
		{
			name:      "d96tm ljubljana",
			tm:        NewD96TM(),
			ll:        orb.Point{14.5058, 46.0569},
			east:      461760.739,
			north:     102018.972,
			tolerance: 0.01,
		},
		{
			name:      "d96tm east edge",
			tm:        NewD96TM(),
			ll:        orb.Point{16.6, 46.5},
			east:      622807.054,
			north:     152392.826,
			tolerance: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tm.Forward(tt.ll)
			if math.Abs(got[0]-tt.east) > tt.tolerance || math.Abs(got[1]-tt.north) > tt.tolerance {
				t.Errorf("Forward(%v) = %v, want (%v, %v)", tt.ll, got, tt.east, tt.north)
			}

			back := tt.tm.Inverse(orb.Point{tt.east, tt.north})
			if math.Abs(back[0]-tt.ll[0]) > 1e-6 || math.Abs(back[1]-tt.ll[1]) > 1e-6 {
				t.Errorf("Inverse(%v, %v) = %v, want %v", tt.east, tt.north, back, tt.ll)
			}
		})
	}
}

func TestD96TMOrigin(t *testing.T) {
	tm := NewD96TM()

	got := tm.Forward(orb.Point{15, 0})
	if math.Abs(got[0]-500000) > 1e-6 || math.Abs(got[1]+5000000) > 1e-6 {
		t.Errorf("Forward(15E, 0N) = %v, want (500000, -5000000)", got)
	}
}

func TestD96TMSymmetry(t *testing.T) {
	tm := NewD96TM()

	east := tm.Forward(orb.Point{16, 46})
	west := tm.Forward(orb.Point{14, 46})

	if math.Abs((east[0]-500000)+(west[0]-500000)) > 1e-6 {
		t.Errorf("eastings not symmetric about central meridian: %v / %v", east, west)
	}
	if math.Abs(east[1]-west[1]) > 1e-6 {
		t.Errorf("northings differ: %v / %v", east[1], west[1])
	}
}

func TestD96TMRoundTrip(t *testing.T) {
	tm := NewD96TM()

	tests := []struct {
		name string
		ll   orb.Point
	}{
		{"Ljubljana", orb.Point{14.5058, 46.0569}},
		{"Maribor", orb.Point{15.6459, 46.5547}},
		{"Koper", orb.Point{13.7302, 45.5481}},
		{"Murska Sobota", orb.Point{16.1664, 46.6581}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back := tm.Inverse(tm.Forward(tt.ll))
			if math.Abs(back[0]-tt.ll[0]) > 1e-7 || math.Abs(back[1]-tt.ll[1]) > 1e-7 {
				t.Errorf("round trip = %v, want %v", back, tt.ll)
			}
		})
	}
}

func TestSloveniaTransformer(t *testing.T) {
	s := NewSlovenia()

	national := orb.Point{462000, 101000}
	working := s.NationalToWorking(national)
	back := s.WorkingToNational(working)

	if math.Abs(back[0]-national[0]) > 1e-3 || math.Abs(back[1]-national[1]) > 1e-3 {
		t.Errorf("national round trip = %v, want %v", back, national)
	}

	ll := s.WorkingToLonLat(working)
	if ll[0] < 13 || ll[0] > 17 || ll[1] < 45 || ll[1] > 47 {
		t.Errorf("lon/lat %v outside Slovenia", ll)
	}

	w2 := s.LonLatToWorking(ll)
	if math.Abs(w2[0]-working[0]) > 1e-6 || math.Abs(w2[1]-working[1]) > 1e-6 {
		t.Errorf("lon/lat round trip = %v, want %v", w2, working)
	}
}
