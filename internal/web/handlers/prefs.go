package handlers

import (
	"errors"
	"net/http"

	"github.com/slhn-import/internal/apperr"
	"github.com/slhn-import/internal/prefs"
)

// PrefsHandler reads and writes the shared preferences
type PrefsHandler struct {
	Prefs *prefs.Prefs
}

// PrefsRequest updates the preferences that are set
type PrefsRequest struct {
	Buffer       *float64 `json:"buffer,omitempty"`
	LayerVisible *bool    `json:"layerVisible,omitempty"`
	SelectedOnly *bool    `json:"selectedOnly,omitempty"`
}

// GetPrefs returns every preference
func (h *PrefsHandler) GetPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Prefs.Load(r.Context()))
}

// PutPrefs updates preferences. An invalid buffer is rejected and the
// stored value kept.
func (h *PrefsHandler) PutPrefs(w http.ResponseWriter, r *http.Request) {
	var req PrefsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	if req.Buffer != nil {
		if err := h.Prefs.SetBuffer(ctx, *req.Buffer); err != nil {
			writeError(w, prefsError(err))
			return
		}
	}
	if req.LayerVisible != nil {
		if err := h.Prefs.SetLayerVisible(ctx, *req.LayerVisible); err != nil {
			writeError(w, prefsError(err))
			return
		}
	}
	if req.SelectedOnly != nil {
		if err := h.Prefs.SetSelectedOnly(ctx, *req.SelectedOnly); err != nil {
			writeError(w, prefsError(err))
			return
		}
	}

	writeJSON(w, http.StatusOK, h.Prefs.Load(ctx))
}

func prefsError(err error) error {
	if errors.Is(err, prefs.ErrInvalidBuffer) {
		return apperr.Wrap(apperr.KindValidation, err.Error(), err).WithOp("prefs")
	}
	return apperr.Wrap(apperr.KindUnknown, "failed to save preference", err).WithOp("prefs")
}
