package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/ironsheep/pixelate-mcp/internal/imaging"
	"github.com/ironsheep/pixelate-mcp/internal/pixelate"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_pixelate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	// Meta carries request metadata such as the client's progress token.
	Meta *RequestMeta `json:"_meta,omitempty"`
}

// RequestMeta is the _meta object of a tools/call request.
type RequestMeta struct {
	// ProgressToken is echoed back in every notifications/progress message.
	// The client chooses its type (string or number).
	ProgressToken interface{} `json:"progressToken,omitempty"`
}

// ProgressParams is the payload of a notifications/progress message.
type ProgressParams struct {
	ProgressToken interface{} `json:"progressToken"`
	Progress      int         `json:"progress"`
	Total         int         `json:"total"`
	Message       string      `json:"message,omitempty"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	var token interface{}
	if params.Meta != nil {
		token = params.Meta.ProgressToken
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments, token)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
// token is the request's progress token, nil when the client did not ask for progress.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage, token interface{}) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Tiling
	case "image_tile_plan":
		return s.handleImageTilePlan(args)
	case "image_tile_color":
		return s.handleImageTileColor(args)

	// Pixelation
	case "image_pixelate":
		return s.handleImagePixelate(ctx, args, token)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// loadBuffer decodes the image at path into a pixel buffer.
func (s *Server) loadBuffer(path string) (*pixelate.Buffer, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	buf := pixelate.FromImage(img)
	if buf == nil {
		return nil, fmt.Errorf("image %s is empty: %w", path, pixelate.ErrInvalidDimensions)
	}
	return buf, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Tiling Handlers ===

type imageTilePlanArgs struct {
	Path      string `json:"path"`
	TileSize  int    `json:"tile_size"`
	Overlay   bool   `json:"overlay"`
	ShowIndex bool   `json:"show_index"`
	LineColor string `json:"line_color"`
}

// TilePlanResult describes how an image splits into tiles.
type TilePlanResult struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	TileSize int `json:"tile_size"`
	Tiles    int `json:"tiles"`
	Columns  int `json:"columns"`
	Rows     int `json:"rows"`

	// EdgeWidth and EdgeHeight are the sizes of the clipped last column
	// and row; they equal TileSize when the image divides evenly.
	EdgeWidth  int `json:"edge_width"`
	EdgeHeight int `json:"edge_height"`

	Overlay *imaging.TileGridResult `json:"overlay,omitempty"`
}

func (s *Server) handleImageTilePlan(args json.RawMessage) (interface{}, error) {
	var a imageTilePlanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.TileSize == 0 {
		a.TileSize = s.cfg.Pixelate.TileSize
	}
	if a.LineColor == "" {
		a.LineColor = "#FF0000"
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	tiles, err := pixelate.Plan(bounds.Dx(), bounds.Dy(), a.TileSize)
	if err != nil {
		return nil, err
	}

	last := tiles[len(tiles)-1]
	result := &TilePlanResult{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		TileSize:   a.TileSize,
		Tiles:      len(tiles),
		Columns:    last.X/a.TileSize + 1,
		Rows:       last.Y/a.TileSize + 1,
		EdgeWidth:  last.Width,
		EdgeHeight: last.Height,
	}

	if a.Overlay {
		overlay, err := imaging.TileGridOverlay(img, tiles, a.ShowIndex, a.LineColor)
		if err != nil {
			return nil, err
		}
		result.Overlay = overlay
	}
	return result, nil
}

type imageTileColorArgs struct {
	Path     string `json:"path"`
	TileSize int    `json:"tile_size"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// TileColorResult is the mean color of one tile.
type TileColorResult struct {
	Tile  pixelate.Tile       `json:"tile"`
	Color imaging.ColorResult `json:"color"`
}

func (s *Server) handleImageTileColor(args json.RawMessage) (interface{}, error) {
	var a imageTileColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.TileSize == 0 {
		a.TileSize = s.cfg.Pixelate.TileSize
	}

	buf, err := s.loadBuffer(a.Path)
	if err != nil {
		return nil, err
	}
	if a.X < 0 || a.Y < 0 || a.X >= buf.Width() || a.Y >= buf.Height() {
		return nil, fmt.Errorf("point (%d,%d) outside image bounds %dx%d", a.X, a.Y, buf.Width(), buf.Height())
	}

	tiles, err := pixelate.Plan(buf.Width(), buf.Height(), a.TileSize)
	if err != nil {
		return nil, err
	}
	columns := (buf.Width()-1)/a.TileSize + 1
	tile := tiles[(a.Y/a.TileSize)*columns+a.X/a.TileSize]

	c, err := pixelate.Reduce(buf, tile)
	if err != nil {
		return nil, err
	}
	return &TileColorResult{
		Tile:  tile,
		Color: imaging.DescribeColor(c.R, c.G, c.B),
	}, nil
}

// === Pixelation Handlers ===

type imagePixelateArgs struct {
	Path        string `json:"path"`
	TileSize    int    `json:"tile_size"`
	Mode        string `json:"mode"`
	Workers     int    `json:"workers"`
	OutputPath  string `json:"output_path"`
	JPEGQuality int    `json:"jpeg_quality"`
}

// PixelateResult describes a finished pixelation and the file it wrote.
type PixelateResult struct {
	Output    *imaging.SaveResult `json:"output"`
	RunID     string              `json:"run_id"`
	Strategy  string              `json:"strategy"`
	TileSize  int                 `json:"tile_size"`
	Tiles     int                 `json:"tiles"`
	ElapsedMS float64             `json:"elapsed_ms"`

	// Events is the number of progress events the server consumed.
	Events int `json:"events"`
}

func (s *Server) handleImagePixelate(ctx context.Context, args json.RawMessage, token interface{}) (interface{}, error) {
	var a imagePixelateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.TileSize == 0 {
		a.TileSize = s.cfg.Pixelate.TileSize
	}
	if a.Mode == "" {
		a.Mode = s.cfg.Pixelate.Mode
	}
	if a.Workers == 0 {
		a.Workers = s.cfg.Pixelate.Workers
	}
	if a.JPEGQuality == 0 {
		a.JPEGQuality = s.cfg.Output.JPEGQuality
	}
	if a.OutputPath == "" {
		a.OutputPath = s.cfg.Output.Path
	}
	if !filepath.IsAbs(a.OutputPath) {
		a.OutputPath = filepath.Join(filepath.Dir(a.Path), a.OutputPath)
	}

	strategy, err := pixelate.ParseMode(a.Mode, a.Workers)
	if err != nil {
		return nil, err
	}
	buf, err := s.loadBuffer(a.Path)
	if err != nil {
		return nil, err
	}

	var opts []pixelate.ProgressOption
	if s.cfg.Progress.Snapshots {
		opts = append(opts, pixelate.WithSnapshots())
	}
	progress := pixelate.NewProgress(s.cfg.Progress.Capacity, opts...)

	// The consumer runs for the whole call so a bounded queue never stalls
	// the workers; Run closes progress on return, which ends the loop.
	events := make(chan int, 1)
	go func() {
		n := 0
		for ev := range progress.All() {
			n++
			if token == nil {
				continue
			}
			s.notify("notifications/progress", ProgressParams{
				ProgressToken: token,
				Progress:      n,
				Total:         ev.Total,
				Message:       fmt.Sprintf("tile %d at (%d,%d) %s", ev.Tile.Index, ev.Tile.X, ev.Tile.Y, ev.Color.Hex()),
			})
		}
		events <- n
	}()

	stats, err := pixelate.RunWithStats(ctx, buf, pixelate.Options{
		TileSize: a.TileSize,
		Strategy: strategy,
		Progress: progress,
	})
	delivered := <-events
	if err != nil {
		var perr *pixelate.ProcessingError
		if errors.As(err, &perr) {
			log.Printf("pixelate run %s: %d of %d tiles failed", stats.RunID, len(perr.Failures), stats.Tiles)
		}
		return nil, err
	}

	if s.cfg.Debug() {
		log.Printf("pixelate run %s: %d tiles (%s) in %v, %d events", stats.RunID, stats.Tiles, stats.Strategy, stats.Elapsed, delivered)
	}

	saved, err := imaging.SaveImage(buf.Image(), a.OutputPath, a.JPEGQuality)
	if err != nil {
		return nil, err
	}

	return &PixelateResult{
		Output:    saved,
		RunID:     stats.RunID,
		Strategy:  stats.Strategy,
		TileSize:  stats.TileSize,
		Tiles:     stats.Tiles,
		ElapsedMS: float64(stats.Elapsed.Microseconds()) / 1000,
		Events:    delivered,
	}, nil
}
