package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/pixelate-mcp/internal/pixelate"
)

// TileGridResult contains the image with tile boundaries drawn over it
type TileGridResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Tiles       int    `json:"tiles"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// TileGridOverlay draws the boundary of every tile onto a copy of img.
//
// Lines are drawn along each tile's top and left edge, skipping the image
// border, so clipped edge tiles are visibly narrower. With showIndex each
// tile is labelled with its plan index in its top-left corner.
func TileGridOverlay(img image.Image, tiles []pixelate.Tile, showIndex bool, lineColorHex string) (*TileGridResult, error) {
	lineColor, err := parseHexColor(lineColorHex)
	if err != nil {
		lineColor = color.NRGBA{255, 0, 0, 255} // Default: red
	}

	result := imaging.Clone(img)
	bounds := result.Bounds()

	for _, t := range tiles {
		r := t.Rect().Intersect(bounds)
		if r.Empty() {
			continue
		}
		if r.Min.X > bounds.Min.X {
			for y := r.Min.Y; y < r.Max.Y; y++ {
				result.SetNRGBA(r.Min.X, y, lineColor)
			}
		}
		if r.Min.Y > bounds.Min.Y {
			for x := r.Min.X; x < r.Max.X; x++ {
				result.SetNRGBA(x, r.Min.Y, lineColor)
			}
		}
	}

	if showIndex {
		labelColor := color.NRGBA{255, 255, 255, 255}
		bgColor := color.NRGBA{0, 0, 0, 180}
		for _, t := range tiles {
			drawLabel(result, t.X+2, t.Y+2, strconv.Itoa(t.Index), labelColor, bgColor)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &TileGridResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Tiles:       len(tiles),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, err
	}

	switch len(hex) {
	case 6:
		return color.NRGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}
}

// digitGlyphs is a 3x5 pixel font for tile indices.
var digitGlyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws a digit label with a background box, clipped to the image.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	bounds := img.Bounds()
	const charWidth, labelHeight = 4, 7
	labelWidth := len(text) * charWidth

	in := func(px, py int) bool {
		return px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if px, py := x+dx, y+dy; in(px, py) {
				img.SetNRGBA(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := digitGlyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if px, py := cx+col, y+row; pixel == '1' && in(px, py) {
					img.SetNRGBA(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
