// Package session holds one running instance of the import tool: its state,
// the pure transitions host events and loads cause, and the Tool that drives
// them against a host and the address registry.
package session

import (
	"fmt"

	"github.com/slhn-import/internal/address"
	"github.com/slhn-import/internal/conflation"
	"github.com/slhn-import/internal/index"
	"github.com/slhn-import/internal/render"
)

// Status lines shown to the user
const (
	StatusIdle         = "Select a segment, load the street, then click house numbers on the map to add them."
	StatusLoading      = "Loading address data..."
	StatusNoSelection  = "No segment selected."
	StatusNoGeometry   = "No geometry for selected segments."
	StatusNoPoints     = "No address points in view."
	StatusFetchError   = "Error fetching address data."
	statusLoadedFormat = "Loaded %d address points."
)

// State is everything a session knows. It is replaced, never shared: Reduce
// returns a new State and leaves its input alone.
type State struct {
	Points         []address.AddressPoint
	Streets        *address.StreetRegistry
	CurrentStreet  string
	Loading        bool
	Status         string
	Filters        render.Filters
	LayerVisible   bool
	Zoom           int
	ConflictRadius float64
}

// NewState returns an idle state
func NewState(conflictRadius float64) State {
	return State{
		Streets:        address.NewStreetRegistry(),
		Status:         StatusIdle,
		ConflictRadius: conflictRadius,
	}
}

// CurrentStreetName returns the display name of the current street
func (s State) CurrentStreetName() string {
	if s.CurrentStreet == "" || s.Streets == nil {
		return ""
	}
	name, _ := s.Streets.NameFor(s.CurrentStreet)
	return name
}

// Event is a transition input for Reduce
type Event interface {
	isEvent()
}

// LoadStarted clears the previous result and marks a load in flight
type LoadStarted struct{}

// LoadRejected ends a load that never reached the registry
type LoadRejected struct {
	Status string
}

// LoadSucceeded carries a finished load: mapped points, the street registry
// they were mapped into, the index to classify against and the names of the
// streets on the selection at completion time
type LoadSucceeded struct {
	Points        []address.AddressPoint
	Streets       *address.StreetRegistry
	Index         index.ExistingHouseNumberIndex
	SelectedNames []string
}

// LoadFailed ends a load whose fetch failed
type LoadFailed struct {
	Err error
}

// Cleared drops the loaded points and hides the layer
type Cleared struct{}

// SelectionChanged carries the street names on the new selection and the
// number of selected segments
type SelectionChanged struct {
	SelectedNames []string
	Selected      int
}

// HouseNumbersChanged carries a freshly built index after a host edit
type HouseNumbersChanged struct {
	Index index.ExistingHouseNumberIndex
}

// ZoomChanged records the host zoom level
type ZoomChanged struct {
	Zoom int
}

// FiltersChanged replaces the marker filters
type FiltersChanged struct {
	Filters render.Filters
}

// LayerToggled records whether the user wants the layer shown
type LayerToggled struct {
	Visible bool
}

func (LoadStarted) isEvent()         {}
func (LoadRejected) isEvent()        {}
func (LoadSucceeded) isEvent()       {}
func (LoadFailed) isEvent()          {}
func (Cleared) isEvent()             {}
func (SelectionChanged) isEvent()    {}
func (HouseNumbersChanged) isEvent() {}
func (ZoomChanged) isEvent()         {}
func (FiltersChanged) isEvent()      {}
func (LayerToggled) isEvent()        {}

// Reduce applies ev to s. It never mutates s.Points in place; points that
// need reclassifying are copied first.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case LoadStarted:
		s.Points = nil
		s.Streets = address.NewStreetRegistry()
		s.CurrentStreet = ""
		s.Loading = true
		s.Status = StatusLoading

	case LoadRejected:
		s.Loading = false
		s.Status = e.Status

	case LoadSucceeded:
		points := clonePoints(e.Points)
		conflation.Reclassify(points, e.Index, s.ConflictRadius)

		s.Points = points
		s.Streets = e.Streets
		if s.Streets == nil {
			s.Streets = address.NewStreetRegistry()
		}
		s.CurrentStreet, _ = conflation.SelectCurrentStreet(e.SelectedNames, points, s.Streets)
		s.Loading = false
		s.LayerVisible = true
		if len(points) == 0 {
			s.Status = StatusNoPoints
		} else {
			s.Status = fmt.Sprintf(statusLoadedFormat, len(points))
		}

	case LoadFailed:
		s.Loading = false
		s.Status = StatusFetchError

	case Cleared:
		s.Points = nil
		s.Streets = address.NewStreetRegistry()
		s.CurrentStreet = ""
		s.LayerVisible = false
		s.Status = StatusIdle

	case SelectionChanged:
		// Deselecting everything keeps the last current street
		if len(s.Points) == 0 || e.Selected == 0 {
			return s
		}
		s.CurrentStreet, _ = conflation.SelectCurrentStreet(e.SelectedNames, s.Points, s.Streets)

	case HouseNumbersChanged:
		if len(s.Points) == 0 {
			return s
		}
		points := clonePoints(s.Points)
		conflation.Reclassify(points, e.Index, s.ConflictRadius)
		s.Points = points

	case ZoomChanged:
		s.Zoom = e.Zoom

	case FiltersChanged:
		s.Filters = e.Filters

	case LayerToggled:
		s.LayerVisible = e.Visible
	}

	return s
}

func clonePoints(points []address.AddressPoint) []address.AddressPoint {
	if points == nil {
		return nil
	}
	out := make([]address.AddressPoint, len(points))
	copy(out, points)
	return out
}
