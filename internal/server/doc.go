// Package server implements the MCP (Model Context Protocol) server for image pixelation.
//
// This package provides a JSON-RPC 2.0 server that exposes block pixelation and the
// tile geometry behind it through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout (one per line)
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Tiling:
//   - image_tile_plan: Tile count, columns, rows and edge tile sizes, with an optional grid overlay
//   - image_tile_color: Mean color of the tile containing a pixel
//
// Pixelation:
//   - image_pixelate: Pixelate sequentially ("S") or with a worker pool ("M") and save the result
//
// # Progress
//
// A tools/call request for image_pixelate that carries _meta.progressToken receives one
// notifications/progress message per completed tile while the run is in flight:
//
//	{"jsonrpc":"2.0","method":"notifications/progress",
//	 "params":{"progressToken":"t1","progress":3,"total":16,"message":"tile 2 at (20,0) #7F3A10"}}
//
// Notifications and responses share stdout; every write holds the server's output
// lock so each message stays on its own line.
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images. Images are cached
// by path and reused across tool calls; pixelation works on a copy, so the
// cached source is never modified.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, _ := config.Load()
//	srv := server.NewWithConfig(cfg, os.Stdin, os.Stdout)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
