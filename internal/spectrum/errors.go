package spectrum

import "errors"

var (
	ErrUnknownWindow = errors.New("unknown window function")
	ErrInvalidRange  = errors.New("decibel range minimum must be below maximum")
)
