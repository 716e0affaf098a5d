// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package samples renders synthetic square markers shaped like AprilTag
// 36h11 bitmaps. They feed the tests and the mage Samples target; they are
// not decodable tags.
package samples

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// Grid is the marker size in cells: a one-cell white quiet zone, a one-cell
// black border and a 6x6 payload.
const Grid = 10

// Name returns the file name used for marker id, following the upstream
// tag36h11 image set (tag36_11_00007.png).
func Name(id int) string {
	return fmt.Sprintf("tag36_11_%05d.png", id)
}

// Tag renders marker id with each cell scale pixels wide.
func Tag(id, scale int) *image.Gray {
	if scale < 1 {
		scale = 1
	}
	m := image.NewGray(image.Rect(0, 0, Grid*scale, Grid*scale))
	bits := uint64(id+1) * 0x9E3779B97F4A7C15

	for cy := 0; cy < Grid; cy++ {
		for cx := 0; cx < Grid; cx++ {
			v := uint8(0xFF)
			switch {
			case cx == 0 || cy == 0 || cx == Grid-1 || cy == Grid-1:
				// Quiet zone.
			case cx == 1 || cy == 1 || cx == Grid-2 || cy == Grid-2:
				v = 0x00
			default:
				bit := uint((cy-2)*6 + (cx - 2))
				if (bits>>bit)&1 == 0 {
					v = 0x00
				}
			}
			fill(m, cx*scale, cy*scale, scale, color.Gray{Y: v})
		}
	}
	return m
}

func fill(m *image.Gray, x0, y0, n int, c color.Gray) {
	for y := y0; y < y0+n; y++ {
		for x := x0; x < x0+n; x++ {
			m.SetGray(x, y, c)
		}
	}
}

// WriteTags writes one PNG per id into dir, creating dir if needed, and
// returns the written paths.
func WriteTags(dir string, ids []int, scale int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	paths := make([]string, 0, len(ids))
	for _, id := range ids {
		path := filepath.Join(dir, Name(id))
		if err := writePNG(path, Tag(id, scale)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, m image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, m); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
