package host

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"gopkg.in/yaml.v3"
)

// EditOp names a mutation recorded by a Snapshot
type EditOp string

const (
	OpAddHouseNumber             EditOp = "add-house-number"
	OpCreateStreet               EditOp = "create-street"
	OpUpdateSegmentPrimaryStreet EditOp = "update-segment-primary-street"
	OpSelectSegments             EditOp = "select-segments"
)

// Edit is one mutation applied to a Snapshot, kept so the host-side bridge
// can replay it against the real host
type Edit struct {
	Op         EditOp     `json:"op" yaml:"op"`
	Number     string     `json:"number,omitempty" yaml:"number,omitempty"`
	LonLat     *orb.Point `json:"lonLat,omitempty" yaml:"lonLat,omitempty"`
	SegmentID  string     `json:"segmentId,omitempty" yaml:"segmentId,omitempty"`
	SegmentIDs []string   `json:"segmentIds,omitempty" yaml:"segmentIds,omitempty"`
	StreetID   string     `json:"streetId,omitempty" yaml:"streetId,omitempty"`
	CityID     string     `json:"cityId,omitempty" yaml:"cityId,omitempty"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
}

// Snapshot is an in-memory host built from a copy of the host model. It
// answers reads directly, applies mutations locally and records them as
// pending edits.
type Snapshot struct {
	SegmentList     []Segment     `json:"segments" yaml:"segments"`
	StreetList      []Street      `json:"streets" yaml:"streets"`
	HouseNumberList []HouseNumber `json:"houseNumbers" yaml:"houseNumbers"`
	Selection       []string      `json:"selection" yaml:"selection"`
	Extent          orb.Bound     `json:"extent" yaml:"extent"`
	ZoomLevel       int           `json:"zoom" yaml:"zoom"`
	View            Viewport      `json:"viewport" yaml:"viewport"`

	edits  []Edit
	nextID int
}

var _ Host = (*Snapshot)(nil)

// LoadSnapshot reads a snapshot from a YAML or JSON file
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read host snapshot: %w", err)
	}

	var s Snapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &s)
	default:
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse host snapshot %s: %w", path, err)
	}

	return &s, nil
}

// SelectedSegments returns the selected segments in selection order
func (s *Snapshot) SelectedSegments() []Segment {
	out := make([]Segment, 0, len(s.Selection))
	for _, id := range s.Selection {
		if seg, ok := s.Segment(id); ok {
			out = append(out, seg)
		}
	}
	return out
}

func (s *Snapshot) Segments() []Segment {
	return s.SegmentList
}

func (s *Snapshot) Segment(id string) (Segment, bool) {
	for _, seg := range s.SegmentList {
		if seg.ID == id {
			return seg, true
		}
	}
	return Segment{}, false
}

func (s *Snapshot) Streets() []Street {
	return s.StreetList
}

func (s *Snapshot) Street(id string) (Street, bool) {
	for _, st := range s.StreetList {
		if st.ID == id {
			return st, true
		}
	}
	return Street{}, false
}

func (s *Snapshot) HouseNumbers() []HouseNumber {
	return s.HouseNumberList
}

func (s *Snapshot) VisibleExtent() orb.Bound {
	return s.Extent
}

func (s *Snapshot) Zoom() int {
	return s.ZoomLevel
}

// ToPixel maps a working coordinate linearly from the visible extent onto
// the viewport, with the pixel origin at the top-left corner
func (s *Snapshot) ToPixel(p orb.Point) (orb.Point, bool) {
	w := s.Extent.Max[0] - s.Extent.Min[0]
	h := s.Extent.Max[1] - s.Extent.Min[1]
	if w <= 0 || h <= 0 || s.View.Width <= 0 || s.View.Height <= 0 {
		return orb.Point{}, false
	}

	return orb.Point{
		(p[0] - s.Extent.Min[0]) / w * s.View.Width,
		(s.Extent.Max[1] - p[1]) / h * s.View.Height,
	}, true
}

// AddHouseNumber appends a positioned house number to the segment
func (s *Snapshot) AddHouseNumber(ctx context.Context, number string, lonLat orb.Point, segmentID string) error {
	if _, ok := s.Segment(segmentID); !ok {
		return fmt.Errorf("segment %s not found", segmentID)
	}
	if strings.TrimSpace(number) == "" {
		return fmt.Errorf("empty house number")
	}

	pos := project.WGS84.ToMercator(lonLat)
	s.HouseNumberList = append(s.HouseNumberList, HouseNumber{
		ID:        s.newID("hn"),
		Number:    number,
		SegmentID: segmentID,
		Position:  &pos,
	})

	ll := lonLat
	s.edits = append(s.edits, Edit{Op: OpAddHouseNumber, Number: number, LonLat: &ll, SegmentID: segmentID})
	return nil
}

// GetOrCreateStreet returns the street named name in cityID, creating it
// when no street with that exact name exists there
func (s *Snapshot) GetOrCreateStreet(ctx context.Context, cityID, name string) (Street, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Street{}, fmt.Errorf("empty street name")
	}

	for _, st := range s.StreetList {
		if st.CityID == cityID && st.Name == name {
			return st, nil
		}
	}

	st := Street{ID: s.newID("st"), Name: name, CityID: cityID}
	s.StreetList = append(s.StreetList, st)
	s.edits = append(s.edits, Edit{Op: OpCreateStreet, StreetID: st.ID, CityID: cityID, Name: name})
	return st, nil
}

func (s *Snapshot) UpdateSegmentPrimaryStreet(ctx context.Context, segmentID, streetID string) error {
	if _, ok := s.Street(streetID); !ok {
		return fmt.Errorf("street %s not found", streetID)
	}
	for i := range s.SegmentList {
		if s.SegmentList[i].ID == segmentID {
			s.SegmentList[i].PrimaryStreetID = streetID
			s.edits = append(s.edits, Edit{Op: OpUpdateSegmentPrimaryStreet, SegmentID: segmentID, StreetID: streetID})
			return nil
		}
	}
	return fmt.Errorf("segment %s not found", segmentID)
}

func (s *Snapshot) SelectSegments(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, ok := s.Segment(id); !ok {
			return fmt.Errorf("segment %s not found", id)
		}
	}
	s.Selection = append([]string(nil), ids...)
	s.edits = append(s.edits, Edit{Op: OpSelectSegments, SegmentIDs: s.Selection})
	return nil
}

// PendingEdits returns the edits applied since the last drain
func (s *Snapshot) PendingEdits() []Edit {
	out := make([]Edit, len(s.edits))
	copy(out, s.edits)
	return out
}

// DrainEdits returns and forgets the pending edits
func (s *Snapshot) DrainEdits() []Edit {
	out := s.edits
	s.edits = nil
	return out
}

// Replace swaps in a fresh copy of the host model, keeping pending edits
func (s *Snapshot) Replace(next *Snapshot) {
	edits := s.edits
	nextID := s.nextID
	*s = *next
	s.edits = append(edits, s.edits...)
	s.nextID = nextID
}

func (s *Snapshot) newID(prefix string) string {
	s.nextID++
	return "local-" + prefix + "-" + strconv.Itoa(s.nextID)
}
