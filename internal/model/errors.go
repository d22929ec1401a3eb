package model

import "errors"

var (
	// ErrDataUnavailable means the provider returned nothing usable.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrMissingField means the table has no close-price column.
	ErrMissingField = errors.New("missing close price field")
	// ErrComputation means forecast preconditions failed.
	ErrComputation = errors.New("computation error")
	// ErrInvalidControl means a user control value is out of range.
	ErrInvalidControl = errors.New("invalid control")
)
