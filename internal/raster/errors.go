// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import "errors"

var (
	// ErrDecode is returned when a file's content is not a supported image.
	ErrDecode = errors.New("raster: cannot decode image")

	// ErrInvalidParameter is returned for non-positive sizes, DPI or a
	// negative dot size.
	ErrInvalidParameter = errors.New("raster: invalid parameter")

	// ErrUnsupportedFormat is returned when an output extension has no encoder.
	ErrUnsupportedFormat = errors.New("raster: unsupported format")

	// ErrUnsupportedImage is returned when an image type cannot be drawn on.
	ErrUnsupportedImage = errors.New("raster: unsupported image type")
)

// Error kinds reported by Kind.
const (
	KindDecode           = "decode"
	KindIO               = "io"
	KindInvalidParameter = "invalid_parameter"
	KindUnsupported      = "unsupported"
)

// Kind classifies err for logging and the run ledger. It returns "" for nil.
// Anything that is not one of the sentinels above is a filesystem error.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrInvalidParameter):
		return KindInvalidParameter
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrUnsupportedImage):
		return KindUnsupported
	}
	return KindIO
}
