package pixelate

import (
	"fmt"
	"image"
)

// Tile is a rectangular region of a Buffer.
//
// Index is the tile's position in plan order. Width and Height are smaller
// than the nominal tile size only for tiles on the right or bottom edge.
type Tile struct {
	Index  int `json:"index"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the tile as an image rectangle.
func (t Tile) Rect() image.Rectangle {
	return image.Rect(t.X, t.Y, t.X+t.Width, t.Y+t.Height)
}

// Area returns the number of pixels covered by the tile.
func (t Tile) Area() int { return t.Width * t.Height }

// Plan partitions a width×height buffer into tiles of tileSize pixels.
//
// Tiles are returned in row-major order: the top row left to right, then the
// row starting at y=tileSize, and so on. Edge tiles are clipped to the buffer,
// and a tile size larger than the buffer yields a single tile. The tiles are
// pairwise disjoint and cover the buffer exactly; see CheckCoverage.
func Plan(width, height, tileSize int) ([]Tile, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTileSize, tileSize)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	tiles := make([]Tile, 0, TileCount(width, height, tileSize))
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			tiles = append(tiles, Tile{
				Index:  len(tiles),
				X:      x,
				Y:      y,
				Width:  min(tileSize, width-x),
				Height: min(tileSize, height-y),
			})
		}
	}
	return tiles, nil
}

// TileCount returns how many tiles Plan produces, or 0 for invalid input.
func TileCount(width, height, tileSize int) int {
	if tileSize <= 0 || width <= 0 || height <= 0 {
		return 0
	}
	cols := (width-1)/tileSize + 1
	rows := (height-1)/tileSize + 1
	return cols * rows
}

// CheckCoverage verifies that tiles cover [0,width)×[0,height) exactly once.
//
// It reports the first pixel that is claimed twice, the first tile reaching
// outside the rectangle, or the first pixel not claimed at all.
func CheckCoverage(width, height int, tiles []Tile) error {
	owner := make([]int32, width*height)
	for i := range owner {
		owner[i] = -1
	}

	bounds := image.Rect(0, 0, width, height)
	for _, t := range tiles {
		if t.Area() <= 0 || !t.Rect().In(bounds) {
			return fmt.Errorf("%w: tile %d (%d,%d) %dx%d", ErrOutOfBoundsTile, t.Index, t.X, t.Y, t.Width, t.Height)
		}
		for y := t.Y; y < t.Y+t.Height; y++ {
			for x := t.X; x < t.X+t.Width; x++ {
				if prev := owner[y*width+x]; prev >= 0 {
					return fmt.Errorf("pixel (%d,%d) covered by tiles %d and %d", x, y, prev, t.Index)
				}
				owner[y*width+x] = int32(t.Index)
			}
		}
	}

	for i, o := range owner {
		if o < 0 {
			return fmt.Errorf("pixel (%d,%d) not covered by any tile", i%width, i/width)
		}
	}
	return nil
}
