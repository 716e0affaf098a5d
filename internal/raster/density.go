// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"
)

// metersPerInch converts dots per inch to dots per meter.
const metersPerInch = 0.0254

var (
	pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

	errNoIHDR = errors.New("raster: encoded PNG does not start with IHDR")
	errNoSOI  = errors.New("raster: encoded JPEG does not start with SOI")
	errNoBMP  = errors.New("raster: encoded BMP header is too short")
)

// PixelsPerMeter converts a DPI value to the pixels-per-meter unit used by
// PNG and BMP headers. The result is only meaningful when
// fitsPixelsPerMeter(dpi) holds.
func PixelsPerMeter(dpi int) uint32 {
	return uint32(math.Round(float64(dpi) / metersPerInch))
}

// fitsPixelsPerMeter reports whether dpi converts to a pixels-per-meter
// value that fits the 32-bit header fields.
func fitsPixelsPerMeter(dpi int) bool {
	return dpi > 0 && math.Round(float64(dpi)/metersPerInch) <= math.MaxUint32
}

// withPNGDensity inserts a pHYs chunk (unit: meter) right after IHDR.
// The stdlib encoder never writes one itself.
func withPNGDensity(enc []byte, dpi int) ([]byte, error) {
	// signature (8) + IHDR length (4) + type (4) + data (13) + crc (4)
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	if len(enc) < ihdrEnd || !bytes.Equal(enc[:8], pngSignature) || string(enc[12:16]) != "IHDR" {
		return nil, errNoIHDR
	}

	ppm := PixelsPerMeter(dpi)
	chunk := make([]byte, 0, 4+4+9+4)
	chunk = binary.BigEndian.AppendUint32(chunk, 9)
	chunk = append(chunk, "pHYs"...)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = append(chunk, 1)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := make([]byte, 0, len(enc)+len(chunk))
	out = append(out, enc[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, enc[ihdrEnd:]...)
	return out, nil
}

// withJPEGDensity inserts a JFIF APP0 segment (unit: dots per inch) right
// after SOI. The stdlib encoder writes no APP0.
func withJPEGDensity(enc []byte, dpi int) ([]byte, error) {
	if len(enc) < 2 || enc[0] != 0xFF || enc[1] != 0xD8 {
		return nil, errNoSOI
	}
	d := uint16(dpi)

	seg := make([]byte, 0, 18)
	seg = append(seg, 0xFF, 0xE0)
	seg = binary.BigEndian.AppendUint16(seg, 16)
	seg = append(seg, 'J', 'F', 'I', 'F', 0x00)
	seg = append(seg, 0x01, 0x01) // version 1.01
	seg = append(seg, 0x01)       // units: dots per inch
	seg = binary.BigEndian.AppendUint16(seg, d)
	seg = binary.BigEndian.AppendUint16(seg, d)
	seg = append(seg, 0x00, 0x00) // no thumbnail

	out := make([]byte, 0, len(enc)+len(seg))
	out = append(out, enc[:2]...)
	out = append(out, seg...)
	out = append(out, enc[2:]...)
	return out, nil
}

// withBMPDensity patches the horizontal and vertical pixels-per-meter fields
// of the info header in place.
func withBMPDensity(enc []byte, dpi int) ([]byte, error) {
	// file header (14) + info header up to and including biYPelsPerMeter (32)
	if len(enc) < 14+32 || enc[0] != 'B' || enc[1] != 'M' {
		return nil, errNoBMP
	}
	ppm := PixelsPerMeter(dpi)
	binary.LittleEndian.PutUint32(enc[38:42], ppm)
	binary.LittleEndian.PutUint32(enc[42:46], ppm)
	return enc, nil
}
