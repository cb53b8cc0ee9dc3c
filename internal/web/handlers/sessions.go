package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/slhn-import/internal/apperr"
	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/render"
	"github.com/slhn-import/internal/session"
)

// SessionHandler serves the per-session companion endpoints
type SessionHandler struct {
	Store  *Store
	Logger *zap.Logger
}

// CreateResponse is returned when a session is created
type CreateResponse struct {
	ID string `json:"id"`
}

// EventRequest delivers a host event, optionally with the host model as it
// is after the event
type EventRequest struct {
	Kind host.EventKind `json:"kind"`
	Host *host.Snapshot `json:"host,omitempty"`
}

// FiltersRequest sets the marker filters and optionally the layer toggle
type FiltersRequest struct {
	OnlyMissing  bool  `json:"onlyMissing"`
	SelectedOnly bool  `json:"selectedOnly"`
	LayerVisible *bool `json:"layerVisible,omitempty"`
}

// PixelRequest is a screen position
type PixelRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClickRequest picks a marker by pixel or point id. Confirm approves adding
// to the nearest segment when the point's street is not found.
type ClickRequest struct {
	Pixel   *PixelRequest `json:"pixel,omitempty"`
	PointID string        `json:"pointId,omitempty"`
	Confirm bool          `json:"confirm"`
}

// EditsResponse lists host mutations for the bridge to replay
type EditsResponse struct {
	Edits []host.Edit `json:"edits"`
}

// NotificationsResponse lists queued toasts
type NotificationsResponse struct {
	Notifications []session.Notification `json:"notifications"`
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

// CreateSession starts a session. The body may carry an initial host
// snapshot; an empty body starts on an empty host.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var snap *host.Snapshot
	if r.ContentLength != 0 {
		snap = &host.Snapshot{}
		if err := decodeJSON(r, snap); err != nil {
			writeError(w, err)
			return
		}
	}

	sess := h.Store.Create(snap)
	writeJSON(w, http.StatusCreated, CreateResponse{ID: sess.ID})
}

// DeleteSession drops a session
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.Store.Delete(mux.Vars(r)["id"]) {
		writeError(w, apperr.New(apperr.KindNotFound, "Session not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutHost replaces the session's copy of the host model. Pending edits are
// kept. No event is implied; the bridge follows up with one.
func (h *SessionHandler) PutHost(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var next host.Snapshot
	if err := decodeJSON(r, &next); err != nil {
		writeError(w, err)
		return
	}

	sess.Tool.Do(func(host.Host) { sess.Host.Replace(&next) })
	writeJSON(w, http.StatusOK, sess.Tool.View())
}

// PostEvent delivers a host event
func (h *SessionHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !req.Kind.Valid() {
		writeError(w, apperr.New(apperr.KindValidation, "Unknown host event "+string(req.Kind)))
		return
	}

	if req.Host != nil {
		sess.Tool.Do(func(host.Host) { sess.Host.Replace(req.Host) })
	}
	if err := sess.Tool.HandleHostEvent(r.Context(), req.Kind); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Tool.View())
}

// Load starts a load and answers 202 while the fetch runs. With ?wait=true
// the request blocks until the load has finished.
func (h *SessionHandler) Load(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		if err := sess.Tool.Load(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.Tool.View())
		return
	}

	// the fetch outlives this request
	done, err := sess.Tool.StartLoad(context.WithoutCancel(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	go func() {
		if err := <-done; err != nil {
			h.Logger.Warn("load failed", zap.String("session", sess.ID), zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusAccepted, sess.Tool.View())
}

// Clear drops the loaded points
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Tool.Clear(r.Context())
	writeJSON(w, http.StatusOK, sess.Tool.View())
}

// PutFilters sets the marker filters
func (h *SessionHandler) PutFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req FiltersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	f := render.Filters{OnlyMissing: req.OnlyMissing, SelectedOnly: req.SelectedOnly}
	if err := sess.Tool.SetFilters(r.Context(), f, req.LayerVisible); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Tool.View())
}

// GetState returns the session summary
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Tool.View())
}

// GetMarkers returns the drawn markers as GeoJSON
func (h *SessionHandler) GetMarkers(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	data, err := sess.Tool.Markers().MarshalJSON()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetStreets returns the street mismatch analysis
func (h *SessionHandler) GetStreets(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Tool.Streets())
}

// Click handles a click on the marker layer
func (h *SessionHandler) Click(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ClickRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	target := session.ClickTarget{PointID: req.PointID}
	if req.Pixel != nil {
		target.Pixel = &orb.Point{req.Pixel.X, req.Pixel.Y}
	}

	// without confirmation the tool reports the fallback as a 409 with the
	// question to ask; the bridge re-sends with confirm set
	var confirm session.Confirmer
	if req.Confirm {
		confirm = session.ConfirmFunc(func(string) bool { return true })
	}

	res, err := sess.Tool.Click(r.Context(), target, confirm)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ApplySuggestion renames the selected segments' street to the suggestion
func (h *SessionHandler) ApplySuggestion(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := sess.Tool.ApplyStreetSuggestion(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DrainEdits returns and forgets the host mutations made since the last call
func (h *SessionHandler) DrainEdits(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	resp := EditsResponse{Edits: []host.Edit{}}
	sess.Tool.Do(func(host.Host) {
		if edits := sess.Host.DrainEdits(); len(edits) > 0 {
			resp.Edits = edits
		}
	})
	writeJSON(w, http.StatusOK, resp)
}

// DrainNotifications returns and forgets the queued toasts
func (h *SessionHandler) DrainNotifications(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	resp := NotificationsResponse{Notifications: []session.Notification{}}
	if items := sess.Queue.Drain(); len(items) > 0 {
		resp.Notifications = items
	}
	writeJSON(w, http.StatusOK, resp)
}
