package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema shared by every tool's path argument.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Tiling
		{
			Name:        "image_tile_plan",
			Description: "Describe how an image splits into square tiles: tile count, columns, rows and the size of the clipped edge tiles. Optionally returns a base64 PNG with the tile boundaries drawn on the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"tile_size": map[string]interface{}{
						"type":        "integer",
						"description": "Tile side in pixels. Defaults to the configured tile size",
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the image with tile boundaries drawn. Default false",
						"default":     false,
					},
					"show_index": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each tile with its index when drawing the overlay. Default false",
						"default":     false,
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Boundary color as hex (e.g., '#FF0000' or '#FF000080'). Default '#FF0000'",
						"default":     "#FF0000",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_tile_color",
			Description: "Get the mean color of the tile containing a pixel, as the pixelation would paint it. Returns hex, RGB and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"tile_size": map[string]interface{}{
						"type":        "integer",
						"description": "Tile side in pixels. Defaults to the configured tile size",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate of a pixel inside the tile (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate of a pixel inside the tile (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Pixelation
		{
			Name:        "image_pixelate",
			Description: "Pixelate an image by replacing every square tile with its mean color, then save the result. Mode 'S' processes tiles one at a time, mode 'M' uses a worker pool. Send _meta.progressToken to receive a notifications/progress message per completed tile.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"tile_size": map[string]interface{}{
						"type":        "integer",
						"description": "Tile side in pixels. Defaults to the configured tile size",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"S", "M"},
						"description": "'S' for sequential, 'M' for concurrent. Defaults to the configured mode",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Worker count for mode 'M'. Defaults to the configured worker count",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the result; the extension selects the format. Relative paths resolve against the source image's directory. Defaults to the configured output path",
					},
					"jpeg_quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100 for .jpg output. Defaults to the configured quality",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
