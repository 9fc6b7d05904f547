package core

import (
	"errors"
)

var (
	// ErrDecodeFailure wraps network or parse errors coming out of a decoder.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrUnsupportedFormat is returned when no decoder or strategy can handle a format.
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrAssetNotFound     = errors.New("asset not found")
	// ErrStaleLoad marks a result produced for a superseded selection.
	ErrStaleLoad = errors.New("stale load result")
)
