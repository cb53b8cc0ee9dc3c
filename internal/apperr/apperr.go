// Package apperr carries the tool's error taxonomy. Every failure a user can
// run into has a Kind; the web layer maps kinds to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a tool error
type Kind int

const (
	KindUnknown Kind = iota
	// KindNoSelection: a load was triggered with no host segments selected
	KindNoSelection
	// KindNetwork: the registry could not be reached
	KindNetwork
	// KindDataFormat: the registry answered with something unparseable
	KindDataFormat
	// KindNoGeometry: the selected segments carry no usable geometry
	KindNoGeometry
	// KindNoNearbySegment: the resolver found no segment at all
	KindNoNearbySegment
	// KindAmbiguousStreetFallback: the resolver fell back to an unrestricted
	// search and the add needs explicit confirmation
	KindAmbiguousStreetFallback
	// KindMutation: the host rejected an edit
	KindMutation
	// KindLoadInFlight: a load was requested while another is pending
	KindLoadInFlight
	KindValidation
	KindNotFound
)

var kindNames = map[Kind]string{
	KindUnknown:                 "unknown",
	KindNoSelection:             "no_selection",
	KindNetwork:                 "network",
	KindDataFormat:              "data_format",
	KindNoGeometry:              "no_geometry",
	KindNoNearbySegment:         "no_nearby_segment",
	KindAmbiguousStreetFallback: "ambiguous_street_fallback",
	KindMutation:                "mutation",
	KindLoadInFlight:            "load_in_flight",
	KindValidation:              "validation",
	KindNotFound:                "not_found",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a tool error with a Kind
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
	Details interface{}
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code the web layer answers with
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindLoadInFlight, KindAmbiguousStreetFallback:
		return http.StatusConflict
	case KindNoSelection, KindNoGeometry, KindNoNearbySegment:
		return http.StatusUnprocessableEntity
	case KindNetwork, KindDataFormat:
		return http.StatusBadGateway
	case KindMutation:
		return http.StatusFailedDependency
	default:
		return http.StatusInternalServerError
	}
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around err
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the failing operation
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails attaches data the caller may show to the user
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// GetKind extracts the kind from anywhere in err's chain
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
