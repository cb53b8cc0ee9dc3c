package session

import (
	"context"
	"sync"

	"github.com/paulmach/orb"

	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/prefs"
	"github.com/slhn-import/internal/registry"
)

type identityProjection struct{}

func (identityProjection) NationalToWorking(p orb.Point) orb.Point { return p }
func (identityProjection) WorkingToNational(p orb.Point) orb.Point { return p }
func (identityProjection) WorkingToLonLat(p orb.Point) orb.Point   { return p }
func (identityProjection) LonLatToWorking(p orb.Point) orb.Point   { return p }

type addCall struct {
	number    string
	lonLat    orb.Point
	segmentID string
}

// fakeHost is a snapshot host whose added numbers keep the coordinates they
// were given, so tests can use an identity projection
type fakeHost struct {
	*host.Snapshot
	addErr error
	added  []addCall
}

func (f *fakeHost) AddHouseNumber(ctx context.Context, number string, lonLat orb.Point, segmentID string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, addCall{number: number, lonLat: lonLat, segmentID: segmentID})
	pos := lonLat
	f.HouseNumberList = append(f.HouseNumberList, host.HouseNumber{
		ID:        "added-" + number,
		Number:    number,
		SegmentID: segmentID,
		Position:  &pos,
	})
	return nil
}

type fakeSource struct {
	mu      sync.Mutex
	calls   int
	bboxes  []orb.Bound
	records []registry.RawRecord
	err     error
	gate    chan struct{}
}

func (s *fakeSource) FetchAddressesInBounds(ctx context.Context, bbox orb.Bound) ([]registry.RawRecord, error) {
	s.mu.Lock()
	s.calls++
	s.bboxes = append(s.bboxes, bbox)
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return s.records, s.err
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func pt(x, y float64) *orb.Point {
	p := orb.Point{x, y}
	return &p
}

// scenarioHost: s1 carries Glavna cesta with numbers 10 and 12, s2 carries
// Ulica talcev. The viewport maps one unit to one pixel with the origin at
// pixel (1000, 1000).
func scenarioHost() *fakeHost {
	return &fakeHost{Snapshot: &host.Snapshot{
		SegmentList: []host.Segment{
			{ID: "s1", Geometry: orb.LineString{{0, 0}, {200, 0}}, PrimaryStreetID: "st1"},
			{ID: "s2", Geometry: orb.LineString{{0, 300}, {200, 300}}, PrimaryStreetID: "st2"},
		},
		StreetList: []host.Street{
			{ID: "st1", Name: "Glavna cesta", CityID: "c1"},
			{ID: "st2", Name: "Ulica talcev", CityID: "c1"},
		},
		HouseNumberList: []host.HouseNumber{
			{ID: "h1", Number: "10", SegmentID: "s1", Position: pt(50, 50)},
			{ID: "h2", Number: "12", SegmentID: "s1", Position: pt(100, 100)},
		},
		Selection: []string{"s1"},
		Extent:    orb.Bound{Min: orb.Point{-1000, -1000}, Max: orb.Point{1000, 1000}},
		ZoomLevel: 18,
		View:      host.Viewport{Width: 2000, Height: 2000},
	}}
}

func scenarioRecords() []registry.RawRecord {
	return []registry.RawRecord{
		{ID: "AD.1", Coordinates: "100 100", Number: "12", StreetName: "Glavna cesta"},
		{ID: "AD.2", Coordinates: "102 100", Number: "14", StreetName: "Glavna cesta"},
		{ID: "AD.3", Coordinates: "150 20", Number: "16", StreetName: "Glavna cesta"},
		{ID: "AD.4", Coordinates: "100 290", Number: "3", StreetName: "Ulica talcev"},
		{ID: "AD.5", Coordinates: "100 10", Number: "7", StreetName: "Nonexistent St"},
		{ID: "AD.6", Number: "9", StreetName: "Glavna cesta"},
	}
}

type fixture struct {
	tool   *Tool
	host   *fakeHost
	source *fakeSource
	queue  *Queue
	prefs  *prefs.Prefs
}

func newFixture() *fixture {
	h := scenarioHost()
	src := &fakeSource{records: scenarioRecords()}
	q := NewQueue(0)
	p := prefs.New(prefs.NewMemoryStore())
	tool := NewTool(h, src, identityProjection{}, p, q, DefaultConfig(), nil)
	return &fixture{tool: tool, host: h, source: src, queue: q, prefs: p}
}

func pixelOf(x, y float64) *orb.Point {
	return pt(x+1000, 1000-y)
}
