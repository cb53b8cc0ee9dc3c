package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/slhn-import/internal/apperr"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps tool errors to their status code. Anything without a kind
// is reported as an internal error without leaking its text.
func writeError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   apperr.KindUnknown.String(),
			Message: "internal error",
		})
		return
	}

	writeJSON(w, ae.HTTPStatus(), ErrorResponse{
		Error:   ae.Kind.String(),
		Message: ae.Message,
		Details: ae.Details,
	})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid JSON request", err)
	}
	return nil
}
