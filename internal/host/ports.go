package host

import (
	"context"

	"github.com/paulmach/orb"
)

// Reader is read access to the host's loaded model. All geometry is in the
// host's working projection.
type Reader interface {
	SelectedSegments() []Segment
	Segments() []Segment
	Segment(id string) (Segment, bool)
	Streets() []Street
	Street(id string) (Street, bool)
	HouseNumbers() []HouseNumber
	VisibleExtent() orb.Bound
	Zoom() int
}

// PixelMapper projects working coordinates to screen pixels. ok is false
// when the point cannot be placed on screen.
type PixelMapper interface {
	ToPixel(p orb.Point) (orb.Point, bool)
}

// Mutator is the set of edits the tool may ask the host to perform
type Mutator interface {
	// AddHouseNumber attaches number at lonLat (EPSG:4326) to a segment
	AddHouseNumber(ctx context.Context, number string, lonLat orb.Point, segmentID string) error
	GetOrCreateStreet(ctx context.Context, cityID, name string) (Street, error)
	UpdateSegmentPrimaryStreet(ctx context.Context, segmentID, streetID string) error
	SelectSegments(ctx context.Context, ids []string) error
}

// Host bundles the ports a session works against
type Host interface {
	Reader
	PixelMapper
	Mutator
}

// EventKind names a host event the tool subscribes to
type EventKind string

const (
	EventSelectionChanged   EventKind = "selection-changed"
	EventHouseNumberAdded   EventKind = "house-number-added"
	EventHouseNumberDeleted EventKind = "house-number-deleted"
	EventHouseNumberMoved   EventKind = "house-number-moved"
	EventHouseNumberUpdated EventKind = "house-number-updated"
	EventMapDataLoaded      EventKind = "map-data-loaded"
	EventZoomChanged        EventKind = "zoom-changed"
	EventPostEdit           EventKind = "post-edit"
)

// Valid reports whether k is a known event kind
func (k EventKind) Valid() bool {
	switch k {
	case EventSelectionChanged, EventHouseNumberAdded, EventHouseNumberDeleted,
		EventHouseNumberMoved, EventHouseNumberUpdated, EventMapDataLoaded,
		EventZoomChanged, EventPostEdit:
		return true
	}
	return false
}

// ChangesHouseNumbers reports whether the event invalidates the existing
// house-number index
func (k EventKind) ChangesHouseNumbers() bool {
	switch k {
	case EventHouseNumberAdded, EventHouseNumberDeleted, EventHouseNumberMoved,
		EventHouseNumberUpdated, EventMapDataLoaded, EventPostEdit:
		return true
	}
	return false
}
