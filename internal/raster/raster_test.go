// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tagprint/pkg/types"
)

// checker returns a w x h RGBA image of 10 px black and white squares.
func checker(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/10+y/10)%2 == 0 {
				m.SetRGBA(x, y, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
			} else {
				m.SetRGBA(x, y, color.RGBA{0x00, 0x00, 0x00, 0xFF})
			}
		}
	}
	return m
}

// white returns a w x h opaque white RGBA image.
func white(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = 0xFF
	}
	return m
}

func isBlack(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return r == 0 && g == 0 && b == 0 && a == 0xFFFF
}

func TestPixelSize(t *testing.T) {
	tests := []struct {
		name         string
		size         types.PrintSize
		wantW, wantH int
	}{
		{"60mm at 300dpi", types.PrintSize{WidthMM: 60, HeightMM: 60, DPI: 300}, 708, 708},
		{"one inch", types.PrintSize{WidthMM: 25.4, HeightMM: 50.8, DPI: 300}, 300, 600},
		{"non-square", types.PrintSize{WidthMM: 100, HeightMM: 30, DPI: 150}, 590, 177},
		{"explicit floor", types.PrintSize{WidthMM: 60, HeightMM: 60, DPI: 300, Rounding: types.RoundFloor}, 708, 708},
		{"nearest", types.PrintSize{WidthMM: 60, HeightMM: 60, DPI: 300, Rounding: types.RoundNearest}, 709, 709},
		{"nearest below half", types.PrintSize{WidthMM: 100, HeightMM: 30, DPI: 150, Rounding: types.RoundNearest}, 591, 177},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := PixelSize(tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestPixelSize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		size types.PrintSize
	}{
		{"zero width", types.PrintSize{WidthMM: 0, HeightMM: 60, DPI: 300}},
		{"negative height", types.PrintSize{WidthMM: 60, HeightMM: -1, DPI: 300}},
		{"zero dpi", types.PrintSize{WidthMM: 60, HeightMM: 60, DPI: 0}},
		{"negative dpi", types.PrintSize{WidthMM: 60, HeightMM: 60, DPI: -300}},
		{"below one pixel", types.PrintSize{WidthMM: 0.01, HeightMM: 60, DPI: 300}},
		{"unknown rounding", types.PrintSize{WidthMM: 60, HeightMM: 60, DPI: 300, Rounding: "ceil"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := PixelSize(tt.size)
			assert.ErrorIs(t, err, ErrInvalidParameter)
			assert.Equal(t, KindInvalidParameter, Kind(err))
		})
	}
}

func TestResize_Dimensions(t *testing.T) {
	src := checker(200, 200)
	for _, size := range []struct{ w, h int }{{708, 708}, {50, 50}, {300, 120}} {
		dst, err := Resize(src, size.w, size.h)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, size.w, size.h), dst.Bounds())
	}
}

func TestResize_InvalidTarget(t *testing.T) {
	_, err := Resize(checker(10, 10), 0, 10)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestResize_IdentityIsNoOp(t *testing.T) {
	src := checker(64, 48)
	dst, err := Resize(src, 64, 48)
	require.NoError(t, err)
	got, ok := dst.(*image.RGBA)
	require.True(t, ok, "resized image type = %T", dst)
	assert.Equal(t, src.Pix, got.Pix)
}

func TestResize_NearestNeighborKeepsBinaryEdges(t *testing.T) {
	src := checker(40, 40)
	dst, err := Resize(src, 137, 91)
	require.NoError(t, err)

	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := dst.At(x, y).RGBA()
			require.True(t, (r == 0 && g == 0 && bl == 0) || (r == 0xFFFF && g == 0xFFFF && bl == 0xFFFF),
				"pixel (%d,%d) is blended: %v", x, y, dst.At(x, y))
		}
	}
}

func TestResize_UpscaleByIntegerFactor(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(0, 0, color.Gray{0})
	src.SetGray(1, 0, color.Gray{255})
	src.SetGray(0, 1, color.Gray{255})
	src.SetGray(1, 1, color.Gray{0})

	dst, err := Resize(src, 4, 4)
	require.NoError(t, err)
	g, ok := dst.(*image.Gray)
	require.True(t, ok, "gray source should stay gray, got %T", dst)

	want := []uint8{
		0, 0, 255, 255,
		0, 0, 255, 255,
		255, 255, 0, 0,
		255, 255, 0, 0,
	}
	assert.Equal(t, want, g.Pix)
}

func TestResize_KeepsColorModel(t *testing.T) {
	r := image.Rect(0, 0, 8, 8)
	pal := color.Palette{color.White, color.Black}
	tests := []struct {
		name string
		src  image.Image
		want string
	}{
		{"gray", image.NewGray(r), "*image.Gray"},
		{"paletted", image.NewPaletted(r, pal), "*image.Paletted"},
		{"nrgba", image.NewNRGBA(r), "*image.NRGBA"},
		{"rgba", image.NewRGBA(r), "*image.RGBA"},
		{"ycbcr", image.NewYCbCr(r, image.YCbCrSubsampleRatio420), "*image.RGBA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, err := Resize(tt.src, 16, 16)
			require.NoError(t, err)
			assert.Equal(t, tt.want, typeName(dst))
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *image.Gray:
		return "*image.Gray"
	case *image.Paletted:
		return "*image.Paletted"
	case *image.NRGBA:
		return "*image.NRGBA"
	case *image.RGBA:
		return "*image.RGBA"
	}
	return "other"
}

func TestMarkCorners(t *testing.T) {
	const w, h, dot = 50, 40, 3
	img := checker(w, h)
	before := checker(w, h)

	require.NoError(t, MarkCorners(img, dot))

	rects := CornerRects(img.Bounds(), dot)
	inCorner := func(x, y int) bool {
		p := image.Pt(x, y)
		for _, r := range rects {
			if p.In(r) {
				return true
			}
		}
		return false
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if inCorner(x, y) {
				require.True(t, isBlack(img.At(x, y)), "corner pixel (%d,%d) not black", x, y)
			} else {
				require.Equal(t, before.RGBAAt(x, y), img.RGBAAt(x, y), "pixel (%d,%d) changed", x, y)
			}
		}
	}

	// Each square is dot+1 on a side; the right and bottom ones end one past
	// the last column or row.
	b := img.Bounds()
	for _, r := range rects {
		assert.Equal(t, dot+1, r.Dx())
		assert.Equal(t, dot+1, r.Dy())
	}
	assert.True(t, rects[0].In(b))
	assert.Equal(t, b.Max.X+1, rects[1].Max.X)
	assert.Equal(t, b.Max.Y+1, rects[2].Max.Y)
	assert.Equal(t, b.Max, rects[3].Max.Sub(image.Pt(1, 1)))
}

func TestMarkCorners_InclusiveRanges(t *testing.T) {
	const size, dot = 20, 3
	img := white(size, size)
	require.NoError(t, MarkCorners(img, dot))

	// Black exactly where x is in [0,dot] or [size-dot,size] and y likewise.
	near := func(v int) bool { return v <= dot || v >= size-dot }
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			want := near(x) && near(y)
			assert.Equal(t, want, isBlack(img.At(x, y)), "pixel (%d,%d)", x, y)
		}
	}

	// Visible marks: 4x4 top-left, 3x4 top-right, 4x3 bottom-left, 3x3 bottom-right.
	assert.False(t, isBlack(img.At(size-dot-1, 0)))
	assert.False(t, isBlack(img.At(0, size-dot-1)))
	assert.True(t, isBlack(img.At(size-dot, dot)))
	assert.True(t, isBlack(img.At(dot, size-dot)))
}

func TestMarkCorners_ZeroDotMarksTopLeftPixel(t *testing.T) {
	img := white(10, 8)
	require.NoError(t, MarkCorners(img, 0))

	black := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			if isBlack(img.At(x, y)) {
				black++
			}
		}
	}
	// The other three marks start at the right or bottom edge and clip away.
	assert.Equal(t, 1, black)
	assert.True(t, isBlack(img.At(0, 0)))
}

func TestMarkCorners_OverlapOnTinyImage(t *testing.T) {
	img := white(5, 5)
	require.NoError(t, MarkCorners(img, 3))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			assert.True(t, isBlack(img.At(x, y)), "(%d,%d) not black", x, y)
		}
	}
}

func TestMarkCorners_Errors(t *testing.T) {
	err := MarkCorners(white(10, 10), -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	err = MarkCorners(image.NewYCbCr(image.Rect(0, 0, 10, 10), image.YCbCrSubsampleRatio444), 1)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.Equal(t, KindUnsupported, Kind(err))
}

func TestMarkCorners_PalettedAddsBlack(t *testing.T) {
	pal := color.Palette{color.White, color.RGBA{0xFF, 0, 0, 0xFF}}
	img := image.NewPaletted(image.Rect(0, 0, 10, 10), pal)

	require.NoError(t, MarkCorners(img, 1))
	require.Len(t, img.Palette, 3)
	assert.True(t, isBlack(img.At(0, 0)))
	assert.True(t, isBlack(img.At(9, 9)))
	assert.False(t, isBlack(img.At(5, 5)))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Load(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, KindIO, Kind(err))

	bogus := filepath.Join(dir, "bogus.png")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0o644))
	_, _, err = Load(bogus)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, KindDecode, Kind(err))
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"tag01.png", FormatPNG, true},
		{"TAG01.PNG", FormatPNG, true},
		{"a.jpg", FormatJPEG, true},
		{"a.JPEG", FormatJPEG, true},
		{"a.bmp", FormatBMP, true},
		{"a.Gif", FormatGIF, true},
		{"readme.txt", "", false},
		{"noext", "", false},
		{"a.tiff", "", false},
	}
	for _, tt := range tests {
		got, ok := FormatForPath(tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
		assert.Equal(t, tt.wantOK, IsImageName(tt.name), tt.name)
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, KindIO, Kind(errors.New("disk on fire")))
	assert.Equal(t, KindUnsupported, Kind(ErrUnsupportedFormat))
}
