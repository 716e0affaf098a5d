// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imgmeta

import (
	"encoding/binary"
	"math"
)

func parsePNG(data []byte, info *Info) error {
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		start := pos + 8
		end := start + length
		if length < 0 || end+4 > len(data) {
			return ErrTruncated
		}
		chunk := data[start:end]

		switch typ {
		case "IHDR":
			if length < 13 {
				return ErrTruncated
			}
			info.Width = int(binary.BigEndian.Uint32(chunk[0:4]))
			info.Height = int(binary.BigEndian.Uint32(chunk[4:8]))
			info.ColorSpace = pngColorSpace(chunk[9])
		case "pHYs":
			// Unit 0 only gives an aspect ratio.
			if length >= 9 && chunk[8] == 1 {
				info.DPIX = dpiFromPPM(binary.BigEndian.Uint32(chunk[0:4]))
				info.DPIY = dpiFromPPM(binary.BigEndian.Uint32(chunk[4:8]))
			}
		case "IDAT", "IEND":
			// pHYs must precede the image data.
			return nil
		}
		pos = end + 4 // skip CRC
	}
	if info.Width == 0 {
		return ErrTruncated
	}
	return nil
}

func pngColorSpace(colorType byte) string {
	switch colorType {
	case 0:
		return "Grayscale"
	case 2:
		return "RGB"
	case 3:
		return "Indexed"
	case 4:
		return "GrayscaleAlpha"
	case 6:
		return "RGBA"
	}
	return "Unknown"
}

func parseJPEG(data []byte, info *Info) error {
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return ErrTruncated
		}
		marker := data[pos+1]
		if marker == 0xFF {
			pos++
			continue
		}
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) {
			pos += 2
			continue
		}
		if marker == 0xD9 || marker == 0xDA {
			break
		}

		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		start, end := pos+4, pos+2+length
		if length < 2 || end > len(data) {
			return ErrTruncated
		}
		seg := data[start:end]

		switch {
		case marker == 0xE0 && len(seg) >= 12 && string(seg[:5]) == "JFIF\x00":
			x := int(binary.BigEndian.Uint16(seg[8:10]))
			y := int(binary.BigEndian.Uint16(seg[10:12]))
			switch seg[7] {
			case 1:
				info.DPIX, info.DPIY = x, y
			case 2:
				info.DPIX = int(math.Round(float64(x) * 2.54))
				info.DPIY = int(math.Round(float64(y) * 2.54))
			}
		case isSOF(marker) && len(seg) >= 6:
			info.Height = int(binary.BigEndian.Uint16(seg[1:3]))
			info.Width = int(binary.BigEndian.Uint16(seg[3:5]))
			switch seg[5] {
			case 1:
				info.ColorSpace = "Grayscale"
			case 3:
				info.ColorSpace = "RGB"
			case 4:
				info.ColorSpace = "CMYK"
			default:
				info.ColorSpace = "Unknown"
			}
		}
		pos = end
	}
	if info.Width == 0 {
		return ErrTruncated
	}
	return nil
}

// isSOF reports whether marker starts a frame. C4 (DHT), C8 (JPG) and CC
// (DAC) share the range but are not frames.
func isSOF(marker byte) bool {
	return marker >= 0xC0 && marker <= 0xCF &&
		marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}

func parseGIF(data []byte, info *Info) error {
	if len(data) < 10 {
		return ErrTruncated
	}
	info.Width = int(binary.LittleEndian.Uint16(data[6:8]))
	info.Height = int(binary.LittleEndian.Uint16(data[8:10]))
	info.ColorSpace = "Indexed"
	return nil
}

func parseBMP(data []byte, info *Info) error {
	if len(data) < 18 {
		return ErrTruncated
	}
	dibSize := binary.LittleEndian.Uint32(data[14:18])
	switch {
	case dibSize == 12:
		if len(data) < 26 {
			return ErrTruncated
		}
		info.Width = int(int16(binary.LittleEndian.Uint16(data[18:20])))
		info.Height = int(int16(binary.LittleEndian.Uint16(data[20:22])))
		info.ColorSpace = bmpColorSpace(binary.LittleEndian.Uint16(data[24:26]))
		return nil
	case dibSize >= 40:
		if len(data) < 14+40 {
			return ErrTruncated
		}
	default:
		return ErrTruncated
	}

	info.Width = int(int32(binary.LittleEndian.Uint32(data[18:22])))
	height := int(int32(binary.LittleEndian.Uint32(data[22:26])))
	if height < 0 {
		// Top-down bitmap.
		height = -height
	}
	info.Height = height
	info.ColorSpace = bmpColorSpace(binary.LittleEndian.Uint16(data[28:30]))
	info.DPIX = dpiFromPPM(binary.LittleEndian.Uint32(data[38:42]))
	info.DPIY = dpiFromPPM(binary.LittleEndian.Uint32(data[42:46]))
	return nil
}

func bmpColorSpace(bitsPerPixel uint16) string {
	switch bitsPerPixel {
	case 1, 4, 8:
		return "Indexed"
	case 16, 24:
		return "RGB"
	case 32:
		return "RGBA"
	}
	return "Unknown"
}
