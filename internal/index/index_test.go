package index

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/slhn-import/internal/host"
)

func pt(x, y float64) *orb.Point {
	p := orb.Point{x, y}
	return &p
}

func TestBuildIndex(t *testing.T) {
	snap := &host.Snapshot{
		SegmentList: []host.Segment{
			{ID: "s1", Geometry: orb.LineString{{0, 0}, {100, 0}}, PrimaryStreetID: "st1", AltStreetIDs: []string{"st2"}},
			{ID: "s2", Geometry: orb.LineString{{0, 50}, {100, 50}}, PrimaryStreetID: "st3"},
			{ID: "s3", Geometry: orb.LineString{{0, 90}, {100, 90}}},
		},
		StreetList: []host.Street{
			{ID: "st1", Name: "Glavna cesta"},
			{ID: "st2", Name: "Regionalna  cesta"},
			{ID: "st3", Name: ""},
		},
		HouseNumberList: []host.HouseNumber{
			{ID: "h1", Number: " 12A ", SegmentID: "s1", Position: pt(10, 5)},
			{ID: "h2", Number: "14", SegmentID: "s1", Position: pt(500, 5)},
			{ID: "h3", Number: "16", SegmentID: "s1"},
			{ID: "h4", Number: "18", SegmentID: "unknown", Position: pt(10, 5)},
			{ID: "h5", Number: "1", SegmentID: "s2", Position: pt(10, 50)},
			{ID: "h6", Number: "2", SegmentID: "s3", Position: pt(10, 90)},
			{ID: "h7", Number: "12A", SegmentID: "s1", Position: pt(11, 5)},
		},
	}
	extent := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{200, 100}}

	idx := BuildIndex(snap, extent)

	if len(idx) != 2 {
		t.Fatalf("got %d buckets, want 2: %v", len(idx), idx)
	}

	for _, key := range []string{"glavna_cesta", "regionalna_cesta"} {
		b := idx.Bucket(key)
		if b == nil {
			t.Fatalf("missing bucket %s", key)
		}
		if _, ok := b.Numbers["12A"]; !ok || len(b.Numbers) != 1 {
			t.Errorf("%s numbers = %v, want {12A}", key, b.Numbers)
		}
		if len(b.Positioned) != 2 {
			t.Errorf("%s positioned = %v, want two entries", key, b.Positioned)
		}
	}

	if !idx.Bucket("glavna_cesta").Contains("12a") {
		t.Error("Contains must compare lower-cased")
	}
	if idx.Bucket("glavna_cesta").Contains("14") {
		t.Error("number outside the extent must not be indexed")
	}
	if idx.Bucket("nobena") != nil {
		t.Error("unknown key must have no bucket")
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	idx := BuildIndex(&host.Snapshot{}, orb.Bound{})
	if len(idx) != 0 {
		t.Errorf("index = %v, want empty", idx)
	}
}
