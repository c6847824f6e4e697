package sample

import "errors"

var (
	// ErrUnknownFormat indicates a file extension no decoder handles.
	ErrUnknownFormat = errors.New("unknown sample format")

	// ErrInvalidWAV indicates a file the WAV decoder rejected.
	ErrInvalidWAV = errors.New("invalid wav file")

	// ErrEmptyBuffer indicates an export of a buffer with no frames.
	ErrEmptyBuffer = errors.New("buffer holds no frames")
)
