package pixelate

import (
	"errors"
	"math"
	"testing"
)

func TestPlan_EdgeTiling(t *testing.T) {
	tiles, err := Plan(10, 10, 4)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(tiles) != 9 {
		t.Fatalf("tile count: got %d, want 9", len(tiles))
	}

	want := []Tile{
		{0, 0, 0, 4, 4}, {1, 4, 0, 4, 4}, {2, 8, 0, 2, 4},
		{3, 0, 4, 4, 4}, {4, 4, 4, 4, 4}, {5, 8, 4, 2, 4},
		{6, 0, 8, 4, 2}, {7, 4, 8, 4, 2}, {8, 8, 8, 2, 2},
	}
	for i, w := range want {
		if tiles[i] != w {
			t.Errorf("tile %d: got %+v, want %+v", i, tiles[i], w)
		}
	}
}

func TestPlan_InvalidTileSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		_, err := Plan(10, 10, size)
		if !errors.Is(err, ErrInvalidTileSize) {
			t.Errorf("Plan(10,10,%d): got %v, want ErrInvalidTileSize", size, err)
		}
	}
}

func TestPlan_InvalidDimensions(t *testing.T) {
	_, err := Plan(0, 10, 4)
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("got %v, want ErrInvalidDimensions", err)
	}
}

func TestPlan_TileLargerThanBuffer(t *testing.T) {
	tiles, err := Plan(7, 3, 50)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(tiles) != 1 {
		t.Fatalf("tile count: got %d, want 1", len(tiles))
	}
	if tiles[0] != (Tile{Index: 0, X: 0, Y: 0, Width: 7, Height: 3}) {
		t.Errorf("got %+v, want whole buffer", tiles[0])
	}
}

func TestPlan_RowMajorOrder(t *testing.T) {
	tiles, err := Plan(9, 7, 3)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	for i := 1; i < len(tiles); i++ {
		prev, cur := tiles[i-1], tiles[i]
		if cur.Index != i {
			t.Errorf("tile %d has index %d", i, cur.Index)
		}
		if cur.Y < prev.Y || (cur.Y == prev.Y && cur.X <= prev.X) {
			t.Errorf("tile %d %+v not after %+v in row-major order", i, cur, prev)
		}
	}
}

func TestPlan_Coverage(t *testing.T) {
	tests := []struct {
		width, height, size int
	}{
		{1, 1, 1},
		{10, 10, 4},
		{10, 10, 5},
		{17, 3, 4},
		{3, 17, 4},
		{64, 48, 7},
		{5, 5, 100},
		{100, 1, 3},
	}

	for _, tt := range tests {
		tiles, err := Plan(tt.width, tt.height, tt.size)
		if err != nil {
			t.Fatalf("Plan(%d,%d,%d) failed: %v", tt.width, tt.height, tt.size, err)
		}
		if err := CheckCoverage(tt.width, tt.height, tiles); err != nil {
			t.Errorf("Plan(%d,%d,%d): %v", tt.width, tt.height, tt.size, err)
		}
		if got, want := len(tiles), TileCount(tt.width, tt.height, tt.size); got != want {
			t.Errorf("Plan(%d,%d,%d): %d tiles, TileCount says %d", tt.width, tt.height, tt.size, got, want)
		}
		for _, tile := range tiles {
			if tile.Width > tt.size || tile.Height > tt.size {
				t.Errorf("tile %+v larger than size %d", tile, tt.size)
			}
		}
	}
}

func TestCheckCoverage_Violations(t *testing.T) {
	tests := []struct {
		name  string
		tiles []Tile
	}{
		{"overlap", []Tile{{0, 0, 0, 4, 4}, {1, 2, 0, 2, 4}}},
		{"gap", []Tile{{0, 0, 0, 2, 4}}},
		{"outside", []Tile{{0, 0, 0, 4, 4}, {1, 4, 0, 1, 4}}},
		{"empty tile", []Tile{{0, 0, 0, 4, 4}, {1, 0, 0, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckCoverage(4, 4, tt.tiles); err == nil {
				t.Error("CheckCoverage should fail")
			}
		})
	}
}

func TestTileCount(t *testing.T) {
	if got := TileCount(10, 10, 4); got != 9 {
		t.Errorf("TileCount(10,10,4): got %d, want 9", got)
	}
	if got := TileCount(10, 10, 0); got != 0 {
		t.Errorf("TileCount(10,10,0): got %d, want 0", got)
	}
}

func TestTileCount_HugeTileSize(t *testing.T) {
	for _, size := range []int{math.MaxInt, math.MaxInt - 1, math.MaxInt / 2} {
		if got := TileCount(10, 10, size); got != 1 {
			t.Errorf("TileCount(10,10,%d): got %d, want 1", size, got)
		}
		tiles, err := Plan(10, 10, size)
		if err != nil {
			t.Fatalf("Plan(10,10,%d): %v", size, err)
		}
		if len(tiles) != 1 || tiles[0].Width != 10 || tiles[0].Height != 10 {
			t.Errorf("Plan(10,10,%d): got %+v, want one 10x10 tile", size, tiles)
		}
	}
}
