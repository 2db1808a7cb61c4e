package track

import "errors"

var (
	// ErrEmptyHandle is the panic value raised when an empty Handle is
	// dereferenced.
	ErrEmptyHandle = errors.New("dereference of empty track handle")

	// ErrUnknownKind is returned when a track format is not recognised.
	ErrUnknownKind = errors.New("unknown track kind")
)
