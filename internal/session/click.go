package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/slhn-import/internal/address"
	"github.com/slhn-import/internal/apperr"
	"github.com/slhn-import/internal/conflation"
	"github.com/slhn-import/internal/geometry"
	"github.com/slhn-import/internal/metrics"
	"github.com/slhn-import/internal/resolver"
)

// ClickTarget picks a marker either by screen pixel or by point id
type ClickTarget struct {
	Pixel   *orb.Point `json:"pixel,omitempty"`
	PointID string     `json:"pointId,omitempty"`
}

// Confirmer asks the user to approve adding a number to a street other than
// the one the registry names
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// ClickOutcome says what a click did
type ClickOutcome string

const (
	OutcomeNoMarker       ClickOutcome = "no-marker"
	OutcomeAlreadyPresent ClickOutcome = "already-present"
	OutcomeDeclined       ClickOutcome = "declined"
	OutcomeAdded          ClickOutcome = "added"
)

// ClickResult describes a handled click
type ClickResult struct {
	Outcome   ClickOutcome `json:"outcome"`
	PointID   string       `json:"pointId,omitempty"`
	Number    string       `json:"number,omitempty"`
	SegmentID string       `json:"segmentId,omitempty"`
	Fallback  bool         `json:"fallback"`
}

// FallbackDetails accompanies a KindAmbiguousStreetFallback error
type FallbackDetails struct {
	Message           string `json:"message"`
	StreetName        string `json:"streetName"`
	NearestStreetName string `json:"nearestStreetName"`
	SegmentID         string `json:"segmentId"`
}

// FallbackMessage is the question put to the user before adding a number to
// the nearest segment of an unmatched street
func FallbackMessage(streetName, nearestStreetName string) string {
	return fmt.Sprintf("Street name %q could not be found.\n\nDo you want to add this number to %q?", streetName, nearestStreetName)
}

// Click adds the house number of the clicked marker to the nearest matching
// segment. Processed markers are ignored. When the resolver had to fall back
// to any segment, confirm decides; a nil confirm makes Click return a
// KindAmbiguousStreetFallback error carrying FallbackDetails instead.
func (t *Tool) Click(ctx context.Context, target ClickTarget, confirm Confirmer) (ClickResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, found, err := t.hitLocked(target)
	if err != nil {
		return ClickResult{}, err
	}
	if !found {
		return ClickResult{Outcome: OutcomeNoMarker}, nil
	}

	result := ClickResult{PointID: p.ID, Number: p.HouseNumber}
	if p.Status.Processed {
		result.Outcome = OutcomeAlreadyPresent
		return result, nil
	}

	streetName, ok := t.state.Streets.NameFor(p.StreetKey)
	if !ok {
		streetName = p.StreetDisplayName
	}

	res, ok := resolver.Resolve(t.host, p.Position, streetName)
	if !ok {
		t.notify(LevelWarning, "No nearby segment found")
		return result, apperr.New(apperr.KindNoNearbySegment, "No nearby segment found").WithOp("click")
	}
	result.SegmentID = res.Segment.ID
	result.Fallback = res.Fallback

	if res.Fallback {
		nearestName := "Unknown"
		if st, ok := t.host.Street(res.Segment.PrimaryStreetID); ok && st.Name != "" {
			nearestName = st.Name
		}
		msg := FallbackMessage(streetName, nearestName)

		if confirm == nil {
			return result, apperr.New(apperr.KindAmbiguousStreetFallback, msg).
				WithOp("click").
				WithDetails(FallbackDetails{
					Message:           msg,
					StreetName:        streetName,
					NearestStreetName: nearestName,
					SegmentID:         res.Segment.ID,
				})
		}
		if !confirm.Confirm(msg) {
			result.Outcome = OutcomeDeclined
			return result, nil
		}
	}

	if err := t.host.SelectSegments(ctx, []string{res.Segment.ID}); err != nil {
		metrics.Mutations.WithLabelValues("select_segments", "error").Inc()
		t.logger.Warn("failed to select target segment", zap.String("segment", res.Segment.ID), zap.Error(err))
	}

	lonLat := t.proj.WorkingToLonLat(p.Position)
	if err := t.host.AddHouseNumber(ctx, p.HouseNumber, lonLat, res.Segment.ID); err != nil {
		metrics.Mutations.WithLabelValues("add_house_number", "error").Inc()
		t.logger.Error("failed to add house number",
			zap.String("number", p.HouseNumber),
			zap.String("segment", res.Segment.ID),
			zap.Error(err))
		t.notify(LevelError, "Failed to add house number "+p.HouseNumber)
		return result, apperr.Wrap(apperr.KindMutation, "Failed to add house number "+p.HouseNumber, err).WithOp("click")
	}

	metrics.Mutations.WithLabelValues("add_house_number", "ok").Inc()
	t.logger.Info("added house number",
		zap.String("number", p.HouseNumber),
		zap.String("street", streetName),
		zap.String("segment", res.Segment.ID),
		zap.Bool("fallback", res.Fallback))
	t.notify(LevelSuccess, "Added house number "+p.HouseNumber)

	result.Outcome = OutcomeAdded
	return result, nil
}

func (t *Tool) hitLocked(target ClickTarget) (address.AddressPoint, bool, error) {
	visible := t.visiblePointsLocked()

	switch {
	case target.PointID != "":
		for _, p := range visible {
			if p.ID == target.PointID {
				return p, true, nil
			}
		}
		return address.AddressPoint{}, false, nil

	case target.Pixel != nil:
		toPixel := func(p address.AddressPoint) (orb.Point, bool) { return t.host.ToPixel(p.Position) }
		p, ok := geometry.NearestFeatureToPixel(*target.Pixel, visible, toPixel, t.cfg.ClickRadiusPx)
		return p, ok, nil

	default:
		return address.AddressPoint{}, false, apperr.New(apperr.KindValidation, "click needs a pixel or a point id").WithOp("click")
	}
}

// SuggestionResult describes an applied street suggestion
type SuggestionResult struct {
	Street   string `json:"street"`
	Segments int    `json:"segments"`
}

// ApplyStreetSuggestion renames the selected segments' primary street to the
// suggested registry name, creating the street in each segment's city when
// needed. Segments that fail are reported together as a KindMutation error;
// the others keep their update.
func (t *Tool) ApplyStreetSuggestion(ctx context.Context) (SuggestionResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	report := t.mismatchLocked()
	if !report.Mismatch || report.Suggestion == "" {
		return SuggestionResult{}, apperr.New(apperr.KindValidation, "No street suggestion to apply.").WithOp("suggestion")
	}

	result := SuggestionResult{Street: report.Suggestion}
	selected := t.host.SelectedSegments()

	var errs []error
	for _, seg := range selected {
		cityID := ""
		if st, ok := t.host.Street(seg.PrimaryStreetID); ok {
			cityID = st.CityID
		}

		st, err := t.host.GetOrCreateStreet(ctx, cityID, report.Suggestion)
		if err != nil {
			metrics.Mutations.WithLabelValues("get_or_create_street", "error").Inc()
			errs = append(errs, fmt.Errorf("segment %s: %w", seg.ID, err))
			continue
		}
		if err := t.host.UpdateSegmentPrimaryStreet(ctx, seg.ID, st.ID); err != nil {
			metrics.Mutations.WithLabelValues("update_segment_primary_street", "error").Inc()
			errs = append(errs, fmt.Errorf("segment %s: %w", seg.ID, err))
			continue
		}
		metrics.Mutations.WithLabelValues("update_segment_primary_street", "ok").Inc()
		result.Segments++
	}

	t.dispatch(SelectionChanged{
		SelectedNames: conflation.SelectedStreetNames(t.host),
		Selected:      len(t.host.SelectedSegments()),
	})

	if len(errs) > 0 {
		err := errors.Join(errs...)
		t.logger.Error("street suggestion partly failed", zap.String("street", report.Suggestion), zap.Error(err))
		t.notify(LevelError, "Failed to change street on some segments.")
		return result, apperr.Wrap(apperr.KindMutation, "Failed to change street on some segments.", err).WithOp("suggestion")
	}

	t.notify(LevelSuccess, fmt.Sprintf("Street changed to %s", report.Suggestion))
	return result, nil
}
