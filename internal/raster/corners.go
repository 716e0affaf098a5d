// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// CornerRects returns the four corner squares for an image with bounds b, in
// drawing order: top-left, top-right, bottom-left, bottom-right. Each square
// covers the inclusive range [0, dotSize] from the top-left corner and
// [edge-dotSize, edge] towards the right and bottom edges, so the right and
// bottom squares overhang the image by one pixel. Squares are not clipped.
func CornerRects(b image.Rectangle, dotSize int) [4]image.Rectangle {
	s := dotSize + 1
	return [4]image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Min.X+s, b.Min.Y+s),
		image.Rect(b.Max.X-dotSize, b.Min.Y, b.Max.X+1, b.Min.Y+s),
		image.Rect(b.Min.X, b.Max.Y-dotSize, b.Min.X+s, b.Max.Y+1),
		image.Rect(b.Max.X-dotSize, b.Max.Y-dotSize, b.Max.X+1, b.Max.Y+1),
	}
}

// MarkCorners paints a solid black square in each corner of img, in place,
// clipped to the image. Visible marks are dotSize+1 pixels at the top-left,
// dotSize pixels wide on the right and dotSize pixels tall at the bottom. A
// dotSize of 0 marks only the top-left pixel.
func MarkCorners(img image.Image, dotSize int) error {
	if dotSize < 0 {
		return fmt.Errorf("%w: dot size %d", ErrInvalidParameter, dotSize)
	}
	dst, ok := img.(draw.Image)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnsupportedImage, img)
	}
	if p, ok := dst.(*image.Paletted); ok {
		ensureBlack(p)
	}

	b := dst.Bounds()
	for _, r := range CornerRects(b, dotSize) {
		draw.Draw(dst, r.Intersect(b), image.Black, image.Point{}, draw.Src)
	}
	return nil
}

// ensureBlack appends opaque black to p's palette unless it is already there
// or the palette is full, in which case the darkest entry is used.
func ensureBlack(p *image.Paletted) {
	for _, c := range p.Palette {
		if r, g, b, a := c.RGBA(); r == 0 && g == 0 && b == 0 && a == 0xffff {
			return
		}
	}
	if len(p.Palette) < 256 {
		p.Palette = append(p.Palette, color.Black)
	}
}
