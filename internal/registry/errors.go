package registry

import "errors"

var (
	// ErrNetwork reports a transport failure talking to the registry
	ErrNetwork = errors.New("registry request failed")

	// ErrDataFormat reports a registry response that could not be parsed
	ErrDataFormat = errors.New("registry response not parseable")

	// ErrPartialResult accompanies records returned when a later page failed
	// after at least one page succeeded
	ErrPartialResult = errors.New("registry returned a partial result")
)
