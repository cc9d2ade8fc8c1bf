package pixelate

import "fmt"

// Reduce returns the per-channel mean color of the tile, truncated toward zero.
//
// It only reads the tile's own samples, so it is safe to call concurrently
// with Fill on any other tile of the same plan.
func Reduce(b *Buffer, t Tile) (RGB, error) {
	if !b.Contains(t) {
		return RGB{}, fmt.Errorf("%w: (%d,%d) %dx%d in %dx%d", ErrOutOfBoundsTile, t.X, t.Y, t.Width, t.Height, b.width, b.height)
	}

	var r, g, bl uint64
	for y := t.Y; y < t.Y+t.Height; y++ {
		row := b.pix[b.offset(t.X, y):b.offset(t.X+t.Width, y)]
		for i := 0; i < len(row); i += Channels {
			r += uint64(row[i])
			g += uint64(row[i+1])
			bl += uint64(row[i+2])
		}
	}

	n := uint64(t.Area())
	return RGB{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n)}, nil
}

// pixelateTile reduces the tile and overwrites it with the mean color.
func pixelateTile(b *Buffer, t Tile) (RGB, error) {
	c, err := Reduce(b, t)
	if err != nil {
		return RGB{}, err
	}
	if err := b.Fill(t, c); err != nil {
		return RGB{}, err
	}
	return c, nil
}
