package session

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/slhn-import/internal/address"
	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/index"
	"github.com/slhn-import/internal/render"
)

func reduceFixture() State {
	streets := address.NewStreetRegistry()
	streets.Register("Glavna cesta", "glavna_cesta")
	streets.Register("Ulica talcev", "ulica_talcev")

	h := &host.Snapshot{
		SegmentList:     []host.Segment{{ID: "s1", Geometry: orb.LineString{{0, 0}, {200, 0}}, PrimaryStreetID: "st1"}},
		StreetList:      []host.Street{{ID: "st1", Name: "Glavna cesta"}},
		HouseNumberList: []host.HouseNumber{{ID: "h1", Number: "12", SegmentID: "s1", Position: pt(100, 100)}},
	}
	idx := index.BuildIndex(h, orb.Bound{Min: orb.Point{-1000, -1000}, Max: orb.Point{1000, 1000}})

	s := Reduce(NewState(10), LoadStarted{})
	s = Reduce(s, LoadSucceeded{
		Points: []address.AddressPoint{
			{ID: "a", HouseNumber: "12", StreetKey: "glavna_cesta", StreetDisplayName: "Glavna cesta", Position: orb.Point{100, 100}},
			{ID: "b", HouseNumber: "14", StreetKey: "glavna_cesta", StreetDisplayName: "Glavna cesta", Position: orb.Point{105, 100}},
			{ID: "c", HouseNumber: "3", StreetKey: "ulica_talcev", StreetDisplayName: "Ulica talcev", Position: orb.Point{0, 300}},
		},
		Streets:       streets,
		Index:         idx,
		SelectedNames: []string{"Glavna cesta"},
	})
	return s
}

func TestReduceLoadLifecycle(t *testing.T) {
	s := Reduce(NewState(10), LoadStarted{})
	if !s.Loading || s.Status != StatusLoading {
		t.Fatalf("after LoadStarted: %+v", s)
	}

	rejected := Reduce(s, LoadRejected{Status: StatusNoSelection})
	if rejected.Loading || rejected.Status != StatusNoSelection {
		t.Errorf("after LoadRejected: %+v", rejected)
	}

	failed := Reduce(s, LoadFailed{Err: errors.New("boom")})
	if failed.Loading || failed.Status != StatusFetchError || len(failed.Points) != 0 {
		t.Errorf("after LoadFailed: %+v", failed)
	}

	loaded := reduceFixture()
	if loaded.Loading || loaded.Status != "Loaded 3 address points." || !loaded.LayerVisible {
		t.Errorf("after LoadSucceeded: %+v", loaded)
	}
	if loaded.CurrentStreet != "glavna_cesta" || loaded.CurrentStreetName() != "Glavna cesta" {
		t.Errorf("current street = %q", loaded.CurrentStreet)
	}

	want := map[string]address.Status{
		"a": {Processed: true},
		"b": {Conflict: true},
		"c": {},
	}
	for _, p := range loaded.Points {
		if p.Status != want[p.ID] {
			t.Errorf("%s status = %+v, want %+v", p.ID, p.Status, want[p.ID])
		}
	}

	// a new load drops the old result before fetching
	restarted := Reduce(loaded, LoadStarted{})
	if len(restarted.Points) != 0 || restarted.CurrentStreet != "" {
		t.Errorf("after second LoadStarted: %+v", restarted)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := reduceFixture()
	before := clonePoints(s.Points)

	next := Reduce(s, HouseNumbersChanged{Index: index.ExistingHouseNumberIndex{}})

	for i := range before {
		if s.Points[i] != before[i] {
			t.Errorf("input point %d changed: %+v", i, s.Points[i])
		}
	}
	for _, p := range next.Points {
		if !p.Status.Missing() {
			t.Errorf("%s status = %+v, want missing against an empty index", p.ID, p.Status)
		}
	}
}

func TestReduceSelectionChanged(t *testing.T) {
	s := reduceFixture()

	tests := []struct {
		name string
		ev   SelectionChanged
		want string
	}{
		{"other street", SelectionChanged{SelectedNames: []string{"Ulica talcev"}, Selected: 1}, "ulica_talcev"},
		{"first of several wins on count", SelectionChanged{SelectedNames: []string{"Ulica talcev", "Glavna cesta"}, Selected: 2}, "glavna_cesta"},
		{"unknown street", SelectionChanged{SelectedNames: []string{"Trg svobode"}, Selected: 1}, ""},
		{"nothing selected keeps current", SelectionChanged{Selected: 0}, "glavna_cesta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(s, tt.ev)
			if got.CurrentStreet != tt.want {
				t.Errorf("current street = %q, want %q", got.CurrentStreet, tt.want)
			}
		})
	}

	empty := Reduce(NewState(10), SelectionChanged{SelectedNames: []string{"Glavna cesta"}, Selected: 1})
	if empty.CurrentStreet != "" {
		t.Errorf("selection without points set current street %q", empty.CurrentStreet)
	}
}

func TestReduceViewEvents(t *testing.T) {
	s := reduceFixture()

	s = Reduce(s, ZoomChanged{Zoom: 17})
	s = Reduce(s, FiltersChanged{Filters: render.Filters{OnlyMissing: true}})
	s = Reduce(s, LayerToggled{Visible: false})
	if s.Zoom != 17 || !s.Filters.OnlyMissing || s.LayerVisible {
		t.Errorf("state = %+v", s)
	}
	if len(s.Points) != 3 {
		t.Error("view events must keep the points")
	}

	cleared := Reduce(s, Cleared{})
	if len(cleared.Points) != 0 || cleared.Status != StatusIdle || cleared.CurrentStreet != "" {
		t.Errorf("after Cleared: %+v", cleared)
	}
	if !cleared.Filters.OnlyMissing {
		t.Error("clear must keep the filters")
	}
}
