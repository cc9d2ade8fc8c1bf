package pixelate

import (
	"bytes"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// Channels is the number of samples stored per pixel.
const Channels = 3

// RGB is an 8-bit per channel color without alpha.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex formats the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Buffer owns a width×height×3 array of 8-bit samples in row-major order.
//
// A Buffer never changes size after creation. Fill is the only region write;
// it rejects any tile that is not fully inside the buffer. Distinct tiles of
// a Plan may be filled from different goroutines without locking because
// they never share samples.
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// NewBuffer allocates a black buffer of the given size.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*Channels),
	}, nil
}

// FromImage converts a decoded image into a Buffer, dropping alpha.
//
// Sources of any color model are normalised to non-premultiplied NRGBA first,
// so a semi-transparent pixel keeps its straight color values. The
// returned Buffer is nil only when the image is empty.
func FromImage(img image.Image) *Buffer {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	buf, err := NewBuffer(w, h)
	if err != nil {
		return nil
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Pix[y*src.Stride : y*src.Stride+w*4]
			out := buf.pix[y*w*Channels : (y+1)*w*Channels]
			for x := 0; x < w; x++ {
				out[x*3] = in[x*4]
				out[x*3+1] = in[x*4+1]
				out[x*3+2] = in[x*4+2]
			}
		}
	})
	return buf
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the buffer rectangle with origin (0,0).
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// Pix returns the live sample slice. Writes through it bypass bounds checks.
func (b *Buffer) Pix() []uint8 { return b.pix }

func (b *Buffer) offset(x, y int) int { return (y*b.width + x) * Channels }

// At returns the color at (x, y). It panics if the point is outside the buffer.
func (b *Buffer) At(x, y int) RGB {
	i := b.offset(x, y)
	return RGB{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2]}
}

// Set writes a single pixel. It panics if the point is outside the buffer.
func (b *Buffer) Set(x, y int, c RGB) {
	i := b.offset(x, y)
	b.pix[i], b.pix[i+1], b.pix[i+2] = c.R, c.G, c.B
}

// Contains reports whether the tile is non-empty and fully inside the buffer.
func (b *Buffer) Contains(t Tile) bool {
	return t.Width > 0 && t.Height > 0 &&
		t.X >= 0 && t.Y >= 0 &&
		t.X+t.Width <= b.width && t.Y+t.Height <= b.height
}

// Fill overwrites every pixel of the tile with c.
func (b *Buffer) Fill(t Tile, c RGB) error {
	if !b.Contains(t) {
		return fmt.Errorf("%w: (%d,%d) %dx%d in %dx%d", ErrOutOfBoundsTile, t.X, t.Y, t.Width, t.Height, b.width, b.height)
	}

	row := b.pix[b.offset(t.X, t.Y):b.offset(t.X+t.Width, t.Y)]
	for i := 0; i < len(row); i += Channels {
		row[i], row[i+1], row[i+2] = c.R, c.G, c.B
	}
	for y := 1; y < t.Height; y++ {
		start := b.offset(t.X, t.Y+y)
		copy(b.pix[start:start+len(row)], row)
	}
	return nil
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// Equal reports whether both buffers have the same size and identical samples.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil {
		return false
	}
	return b.width == other.width && b.height == other.height && bytes.Equal(b.pix, other.pix)
}

// Image returns an opaque NRGBA copy suitable for encoders and displays.
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	parallel.Line(b.height, func(start, end int) {
		for y := start; y < end; y++ {
			in := b.pix[y*b.width*Channels : (y+1)*b.width*Channels]
			out := img.Pix[y*img.Stride : y*img.Stride+b.width*4]
			for x := 0; x < b.width; x++ {
				out[x*4] = in[x*3]
				out[x*4+1] = in[x*3+1]
				out[x*4+2] = in[x*3+2]
				out[x*4+3] = 0xff
			}
		}
	})
	return img
}
