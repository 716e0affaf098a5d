// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/pdiddy/tagprint/pkg/types"
)

// mmPerInch converts millimeters to inches.
const mmPerInch = 25.4

// PixelSize returns the pixel dimensions of size: mm / 25.4 * dpi, truncated
// (types.RoundFloor, also used when Rounding is empty) or rounded half up
// (types.RoundNearest).
func PixelSize(size types.PrintSize) (width, height int, err error) {
	if !validLength(size.WidthMM) || !validLength(size.HeightMM) {
		return 0, 0, fmt.Errorf("%w: size %gx%g mm", ErrInvalidParameter, size.WidthMM, size.HeightMM)
	}
	if size.DPI <= 0 {
		return 0, 0, fmt.Errorf("%w: dpi %d", ErrInvalidParameter, size.DPI)
	}

	var round func(float64) float64
	switch size.Rounding {
	case "", types.RoundFloor:
		round = math.Floor
	case types.RoundNearest:
		round = func(v float64) float64 { return math.Floor(v + 0.5) }
	default:
		return 0, 0, fmt.Errorf("%w: rounding %q", ErrInvalidParameter, size.Rounding)
	}

	dpi := float64(size.DPI)
	w := round(size.WidthMM / mmPerInch * dpi)
	h := round(size.HeightMM / mmPerInch * dpi)
	if w < 1 || h < 1 || w > math.MaxInt32 || h > math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w: %gx%g mm at %d dpi is %.0fx%.0f px",
			ErrInvalidParameter, size.WidthMM, size.HeightMM, size.DPI, w, h)
	}
	return int(w), int(h), nil
}

func validLength(mm float64) bool {
	return mm > 0 && !math.IsInf(mm, 1)
}

// Resize resamples src to width x height pixels with nearest-neighbor
// sampling, so hard black/white edges stay hard. The result has its origin
// at (0, 0) and keeps src's color model where it can be drawn on; other
// image types (e.g. JPEG's YCbCr) become *image.RGBA.
func Resize(src image.Image, width, height int) (draw.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d px", ErrInvalidParameter, width, height)
	}
	dst := newLike(src, image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// ResizeToPrint resizes src to the pixel dimensions of size.
func ResizeToPrint(src image.Image, size types.PrintSize) (draw.Image, error) {
	w, h, err := PixelSize(size)
	if err != nil {
		return nil, err
	}
	return Resize(src, w, h)
}

// newLike allocates an image of src's type with bounds r. Paletted images
// get a copy of the palette so the corner marks can extend it.
func newLike(src image.Image, r image.Rectangle) draw.Image {
	switch s := src.(type) {
	case *image.Gray:
		return image.NewGray(r)
	case *image.Gray16:
		return image.NewGray16(r)
	case *image.Paletted:
		return image.NewPaletted(r, append(color.Palette(nil), s.Palette...))
	case *image.NRGBA:
		return image.NewNRGBA(r)
	case *image.NRGBA64:
		return image.NewNRGBA64(r)
	case *image.RGBA64:
		return image.NewRGBA64(r)
	case *image.CMYK:
		return image.NewCMYK(r)
	}
	return image.NewRGBA(r)
}
