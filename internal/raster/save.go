// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

// SaveOptions are optional arguments to Save. The zero value is valid.
type SaveOptions struct {
	// JPEGQuality is the JPEG encoder quality. Zero means 95.
	JPEGQuality int
}

const defaultJPEGQuality = 95

// Encode writes img in format to a byte slice, embedding dpi as the
// horizontal and vertical resolution. GIF has no resolution field, so for
// GIF the dpi is validated but not stored.
func Encode(img image.Image, format string, dpi int, opts *SaveOptions) ([]byte, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: dpi %d", ErrInvalidParameter, dpi)
	}

	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		if !fitsPixelsPerMeter(dpi) {
			return nil, fmt.Errorf("%w: dpi %d does not fit a pHYs chunk", ErrInvalidParameter, dpi)
		}
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding png: %w", err)
		}
		return withPNGDensity(buf.Bytes(), dpi)

	case FormatJPEG:
		if dpi > math.MaxUint16 {
			return nil, fmt.Errorf("%w: dpi %d does not fit a JFIF header", ErrInvalidParameter, dpi)
		}
		q := defaultJPEGQuality
		if opts != nil && opts.JPEGQuality != 0 {
			q = opts.JPEGQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, fmt.Errorf("encoding jpeg: %w", err)
		}
		return withJPEGDensity(buf.Bytes(), dpi)

	case FormatBMP:
		if !fitsPixelsPerMeter(dpi) {
			return nil, fmt.Errorf("%w: dpi %d does not fit a BMP header", ErrInvalidParameter, dpi)
		}
		if err := bmp.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding bmp: %w", err)
		}
		return withBMPDensity(buf.Bytes(), dpi)

	case FormatGIF:
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("encoding gif: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save encodes img in the format implied by path's extension and writes it
// to path. The file is written to a temporary name in the same directory and
// renamed on success, so a failed save never leaves a truncated image.
func Save(img image.Image, path string, dpi int, opts *SaveOptions) error {
	format, ok := FormatForPath(path)
	if !ok {
		return fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	data, err := Encode(img, format, dpi, opts)
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tagprint-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
