package handlers

import (
	"net/http"
)

// HealthHandler answers liveness probes
type HealthHandler struct {
	Store *Store
}

// HealthResponse is the liveness body
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Health reports that the server is up
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Sessions: h.Store.Len()})
}
