package session

import (
	"context"
	"errors"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/slhn-import/internal/address"
	"github.com/slhn-import/internal/apperr"
	"github.com/slhn-import/internal/conflation"
	"github.com/slhn-import/internal/geometry"
	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/index"
	"github.com/slhn-import/internal/metrics"
	"github.com/slhn-import/internal/prefs"
	"github.com/slhn-import/internal/registry"
	"github.com/slhn-import/internal/render"
	"github.com/slhn-import/internal/reproject"
)

// AddressSource fetches raw registry records inside a national-grid bbox
type AddressSource interface {
	FetchAddressesInBounds(ctx context.Context, bbox orb.Bound) ([]registry.RawRecord, error)
}

// Config tunes a Tool
type Config struct {
	ConflictRadius float64
	ClickRadiusPx  float64
	MinVisibleZoom int
	Palette        render.Palette
}

// DefaultConfig returns the click-to-add defaults
func DefaultConfig() Config {
	return Config{
		ConflictRadius: conflation.DefaultConflictRadius,
		ClickRadiusPx:  geometry.DefaultClickRadiusPx,
		MinVisibleZoom: render.MinVisibleZoom,
		Palette:        render.DefaultPalette,
	}
}

// Tool is one running instance of the importer. A mutex stands in for the
// host's single UI thread: every transition and every host call happens
// under it, except the registry fetch, whose completion is applied under the
// lock when it arrives.
type Tool struct {
	mu       sync.Mutex
	host     host.Host
	source   AddressSource
	proj     reproject.Transformer
	prefs    *prefs.Prefs
	notifier Notifier
	logger   *zap.Logger
	cfg      Config

	// one slot: a second load while one is pending is refused, not queued
	loadGuard *semaphore.Weighted

	state State
}

// NewTool creates a tool bound to a host and an address source
func NewTool(h host.Host, source AddressSource, proj reproject.Transformer, p *prefs.Prefs, notifier Notifier, cfg Config, logger *zap.Logger) *Tool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewQueue(0)
	}

	ctx := context.Background()
	state := NewState(cfg.ConflictRadius)
	state.LayerVisible = p.LayerVisible(ctx)
	state.Filters.SelectedOnly = p.SelectedOnly(ctx)
	state.Zoom = h.Zoom()

	return &Tool{
		host:      h,
		source:    source,
		proj:      proj,
		prefs:     p,
		notifier:  notifier,
		logger:    logger,
		cfg:       cfg,
		loadGuard: semaphore.NewWeighted(1),
		state:     state,
	}
}

// StartLoad begins a load and returns a channel that receives its outcome.
// A load already in flight makes the call fail with KindLoadInFlight and
// issues no request. Selection problems are reported synchronously.
func (t *Tool) StartLoad(ctx context.Context) (<-chan error, error) {
	if !t.loadGuard.TryAcquire(1) {
		metrics.Loads.WithLabelValues("in_flight").Inc()
		return nil, apperr.New(apperr.KindLoadInFlight, "A load is already in progress.").WithOp("load")
	}

	bbox, err := t.beginLoad(ctx)
	if err != nil {
		t.loadGuard.Release(1)
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		err := t.finishLoad(ctx, bbox)
		t.loadGuard.Release(1)
		done <- err
	}()
	return done, nil
}

// Load runs a load to completion
func (t *Tool) Load(ctx context.Context) error {
	done, err := t.StartLoad(ctx)
	if err != nil {
		return err
	}
	return <-done
}

func (t *Tool) beginLoad(ctx context.Context) (orb.Bound, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dispatch(LoadStarted{})

	selected := t.host.SelectedSegments()
	if len(selected) == 0 {
		t.dispatch(LoadRejected{Status: StatusNoSelection})
		t.notify(LevelWarning, "Select a segment first.")
		metrics.Loads.WithLabelValues("no_selection").Inc()
		return orb.Bound{}, apperr.New(apperr.KindNoSelection, StatusNoSelection).WithOp("load")
	}

	lines := make([]orb.LineString, 0, len(selected))
	for _, seg := range selected {
		lines = append(lines, seg.Geometry)
	}
	bounds, ok := geometry.BoundsOfLines(lines)
	if !ok {
		t.dispatch(LoadRejected{Status: StatusNoGeometry})
		metrics.Loads.WithLabelValues("no_geometry").Inc()
		return orb.Bound{}, apperr.New(apperr.KindNoGeometry, StatusNoGeometry).WithOp("load")
	}

	buffer := t.prefs.Buffer(ctx)
	bbox := geometry.MapCorners(geometry.Buffer(bounds, buffer), t.proj.WorkingToNational)

	t.logger.Info("loading address points",
		zap.Int("segments", len(selected)),
		zap.Float64("buffer", buffer),
		zap.Float64s("bbox", []float64{bbox.Min[0], bbox.Min[1], bbox.Max[0], bbox.Max[1]}))

	return bbox, nil
}

func (t *Tool) finishLoad(ctx context.Context, bbox orb.Bound) error {
	records, err := t.source.FetchAddressesInBounds(ctx, bbox)
	partial := err != nil && errors.Is(err, registry.ErrPartialResult)

	if err != nil && !partial {
		t.mu.Lock()
		t.dispatch(LoadFailed{Err: err})
		t.mu.Unlock()

		t.logger.Error("address fetch failed", zap.Error(err))
		t.notify(LevelError, StatusFetchError)
		metrics.Loads.WithLabelValues("error").Inc()

		kind := apperr.KindNetwork
		if errors.Is(err, registry.ErrDataFormat) {
			kind = apperr.KindDataFormat
		}
		return apperr.Wrap(kind, StatusFetchError, err).WithOp("load")
	}

	t.mu.Lock()
	mapper := registry.NewMapper(t.proj, address.NewStreetRegistry())
	points, skipped := mapper.MapAll(records)
	t.dispatch(LoadSucceeded{
		Points:        points,
		Streets:       mapper.Streets(),
		Index:         index.BuildIndex(t.host, t.host.VisibleExtent()),
		SelectedNames: conflation.SelectedStreetNames(t.host),
	})
	gated := t.zoomGatedLocked()
	summary := conflation.Summarize(t.state.Points)
	current := t.state.CurrentStreetName()
	t.mu.Unlock()

	if err := t.prefs.SetLayerVisible(ctx, true); err != nil {
		t.logger.Warn("failed to persist layer visibility", zap.Error(err))
	}

	t.logger.Info("address points loaded",
		zap.Int("records", len(records)),
		zap.Int("points", summary.Total),
		zap.Int("skipped", skipped),
		zap.Int("processed", summary.Processed),
		zap.Int("conflict", summary.Conflict),
		zap.String("current_street", current))

	if partial {
		t.logger.Warn("registry returned a partial result", zap.Error(err))
		t.notify(LevelWarning, "Some address data could not be fetched; showing a partial result.")
		metrics.Loads.WithLabelValues("partial").Inc()
	} else {
		metrics.Loads.WithLabelValues("ok").Inc()
	}
	if gated {
		t.notify(LevelInfo, zoomInMessage)
	}
	return nil
}

// Clear drops the loaded points and hides the layer
func (t *Tool) Clear(ctx context.Context) {
	t.mu.Lock()
	t.dispatch(Cleared{})
	t.mu.Unlock()

	if err := t.prefs.SetLayerVisible(ctx, false); err != nil {
		t.logger.Warn("failed to persist layer visibility", zap.Error(err))
	}
}

// SetFilters replaces the marker filters and, when layerVisible is not nil,
// the user's layer visibility choice
func (t *Tool) SetFilters(ctx context.Context, f render.Filters, layerVisible *bool) error {
	t.mu.Lock()
	t.dispatch(FiltersChanged{Filters: f})
	gated := false
	if layerVisible != nil {
		wasShown := t.layerShownLocked()
		t.dispatch(LayerToggled{Visible: *layerVisible})
		gated = !wasShown && t.zoomGatedLocked()
	}
	t.mu.Unlock()

	if err := t.prefs.SetSelectedOnly(ctx, f.SelectedOnly); err != nil {
		return apperr.Wrap(apperr.KindUnknown, "failed to save preference", err).WithOp("filters")
	}
	if layerVisible != nil {
		if err := t.prefs.SetLayerVisible(ctx, *layerVisible); err != nil {
			return apperr.Wrap(apperr.KindUnknown, "failed to save preference", err).WithOp("filters")
		}
	}
	if gated {
		t.notify(LevelInfo, zoomInMessage)
	}
	return nil
}

// HandleHostEvent reacts to a host event. House-number edits and map data
// reloads rebuild the index and reclassify every loaded point; selection
// changes recompute the current street.
func (t *Tool) HandleHostEvent(ctx context.Context, kind host.EventKind) error {
	if !kind.Valid() {
		return apperr.New(apperr.KindValidation, "unknown host event "+string(kind)).WithOp("event")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case kind == host.EventSelectionChanged:
		t.dispatch(SelectionChanged{
			SelectedNames: conflation.SelectedStreetNames(t.host),
			Selected:      len(t.host.SelectedSegments()),
		})
	case kind == host.EventZoomChanged:
		t.applyZoomLocked()
	case kind.ChangesHouseNumbers():
		if kind == host.EventMapDataLoaded {
			t.applyZoomLocked()
		}
		if len(t.state.Points) > 0 {
			t.dispatch(HouseNumbersChanged{Index: index.BuildIndex(t.host, t.host.VisibleExtent())})
		}
	}
	return nil
}

// Do runs fn with exclusive access to the host, e.g. to swap in a new
// snapshot before delivering the matching event
func (t *Tool) Do(fn func(h host.Host)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.host)
}

// View is a summary of the session for display
type View struct {
	Status            string             `json:"status"`
	Loading           bool               `json:"loading"`
	CurrentStreet     string             `json:"currentStreet,omitempty"`
	CurrentStreetName string             `json:"currentStreetName,omitempty"`
	LayerVisible      bool               `json:"layerVisible"`
	LayerShown        bool               `json:"layerShown"`
	Zoom              int                `json:"zoom"`
	Filters           render.Filters     `json:"filters"`
	Summary           conflation.Summary `json:"summary"`
}

// View returns the current session summary
func (t *Tool) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	return View{
		Status:            t.state.Status,
		Loading:           t.state.Loading,
		CurrentStreet:     t.state.CurrentStreet,
		CurrentStreetName: t.state.CurrentStreetName(),
		LayerVisible:      t.state.LayerVisible,
		LayerShown:        t.layerShownLocked(),
		Zoom:              t.state.Zoom,
		Filters:           t.state.Filters,
		Summary:           conflation.Summarize(t.state.Points),
	}
}

// State returns a copy of the session state
func (t *Tool) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.state
	s.Points = clonePoints(s.Points)
	s.Streets = s.Streets.Clone()
	return s
}

// VisiblePoints returns the points currently drawn: nothing while the layer
// is hidden, otherwise the filtered set
func (t *Tool) VisiblePoints() []address.AddressPoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visiblePointsLocked()
}

// Markers returns the drawn points as GeoJSON in EPSG:4326
func (t *Tool) Markers() *geojson.FeatureCollection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg.Palette.FeatureCollection(t.visiblePointsLocked(), t.state.CurrentStreet, t.proj.WorkingToLonLat)
}

// Streets compares the selected street with the loaded street names
func (t *Tool) Streets() conflation.MismatchReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mismatchLocked()
}

func (t *Tool) mismatchLocked() conflation.MismatchReport {
	name, _ := conflation.SelectedPrimaryStreetName(t.host)
	return conflation.AnalyzeMismatch(name, t.state.Points)
}

const zoomInMessage = "Zoom in to level 18+ to see house numbers"

func (t *Tool) visiblePointsLocked() []address.AddressPoint {
	if !t.layerShownLocked() {
		return nil
	}
	return t.state.Filters.Apply(t.state.Points, t.state.CurrentStreet)
}

func (t *Tool) layerShownLocked() bool {
	return render.LayerShown(t.state.LayerVisible, t.state.Zoom, t.cfg.MinVisibleZoom)
}

// zoomGatedLocked reports whether the user wants the layer and has points
// but the zoom level keeps it hidden
func (t *Tool) zoomGatedLocked() bool {
	return t.state.LayerVisible && len(t.state.Points) > 0 && t.state.Zoom < t.cfg.MinVisibleZoom
}

func (t *Tool) applyZoomLocked() {
	wasShown := t.layerShownLocked()
	t.dispatch(ZoomChanged{Zoom: t.host.Zoom()})
	if wasShown && t.zoomGatedLocked() {
		t.notify(LevelInfo, zoomInMessage)
	}
}

func (t *Tool) dispatch(ev Event) {
	t.state = Reduce(t.state, ev)
}

func (t *Tool) notify(level Level, message string) {
	t.notifier.Notify(Notification{Level: level, Message: message})
}
