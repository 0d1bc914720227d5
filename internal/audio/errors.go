package audio

import "errors"

var (
	// ErrStreamStopped reports that the capture device stopped on its own.
	ErrStreamStopped = errors.New("stream stopped with error")
	// ErrNoMatchingSource means none of the requested sources exist.
	ErrNoMatchingSource = errors.New("no capture source matches the requested names")
	// ErrUnsupportedFile is returned for files the replay source cannot decode.
	ErrUnsupportedFile = errors.New("unsupported audio file")
)
