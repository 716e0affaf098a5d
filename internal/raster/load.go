// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster implements the per-image stages of the print pipeline:
// loading, resizing to a physical print size, stamping corner marks and
// saving with resolution metadata.
package raster

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Format names as reported by image.Decode.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
)

var extFormats = map[string]string{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".bmp":  FormatBMP,
	".gif":  FormatGIF,
}

// FormatForPath returns the format implied by path's extension, compared
// case-insensitively. ok is false for extensions outside png, jpg, jpeg, bmp
// and gif.
func FormatForPath(path string) (format string, ok bool) {
	format, ok = extFormats[strings.ToLower(filepath.Ext(path))]
	return format, ok
}

// IsImageName reports whether name has a recognized image extension.
func IsImageName(name string) bool {
	_, ok := FormatForPath(name)
	return ok
}

// Load decodes the image at path. The format is sniffed from the content,
// not the extension, and returned alongside the image.
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(path), err)
	}
	return img, format, nil
}
