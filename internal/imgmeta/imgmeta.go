// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imgmeta reads format, dimensions, color space and print resolution
// from image file headers without decoding pixel data. It understands the
// four formats tagprint writes: PNG, JPEG, GIF and BMP.
package imgmeta

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
)

var (
	// ErrUnsupportedFormat is returned when the magic bytes match no known format.
	ErrUnsupportedFormat = errors.New("imgmeta: unsupported format")

	// ErrTruncated is returned when a header ends before a required field.
	ErrTruncated = errors.New("imgmeta: truncated header")
)

// Format names, matching those reported by image.Decode.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
)

// Info is the header metadata of one image file.
type Info struct {
	Format     string `json:"format" yaml:"format"`
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
	ColorSpace string `json:"color_space" yaml:"color_space"`

	// DPIX and DPIY are the stored resolution in dots per inch, 0 when the
	// file carries none (always the case for GIF).
	DPIX int `json:"dpi_x" yaml:"dpi_x"`
	DPIY int `json:"dpi_y" yaml:"dpi_y"`

	FileSize int64 `json:"file_size" yaml:"file_size"`
}

// HasDPI reports whether the file stores a resolution.
func (i *Info) HasDPI() bool {
	return i.DPIX > 0 && i.DPIY > 0
}

// Inspect reads the file at path and parses its header.
func Inspect(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse detects the format of data by its magic bytes and parses the header.
func Parse(data []byte) (*Info, error) {
	info := &Info{FileSize: int64(len(data))}

	var err error
	switch info.Format = detect(data); info.Format {
	case FormatPNG:
		err = parsePNG(data, info)
	case FormatJPEG:
		err = parseJPEG(data, info)
	case FormatGIF:
		err = parseGIF(data, info)
	case FormatBMP:
		err = parseBMP(data, info)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s header: %w", info.Format, err)
	}
	return info, nil
}

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func detect(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return FormatPNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP
	}
	return ""
}

// dpiFromPPM converts pixels per meter to dots per inch.
func dpiFromPPM(ppm uint32) int {
	return int(math.Round(float64(ppm) * 0.0254))
}
