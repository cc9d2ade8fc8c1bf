package server

import (
	"slices"
	"testing"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not defined", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_tile_plan",
		"image_tile_color",
		"image_pixelate",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || props == nil {
				t.Fatal("InputSchema missing 'properties' map")
			}

			// Every required parameter must be described.
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %s has no property", r)
				}
			}
			if !slices.Contains(required, "path") {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_PixelateMode(t *testing.T) {
	tool := toolByName(t, "image_pixelate")
	props := tool.InputSchema["properties"].(map[string]interface{})

	mode, ok := props["mode"].(map[string]interface{})
	if !ok {
		t.Fatal("image_pixelate missing 'mode' property")
	}
	enum, ok := mode["enum"].([]string)
	if !ok {
		t.Fatal("mode should declare an enum")
	}
	if !slices.Equal(enum, []string{"S", "M"}) {
		t.Errorf("mode enum: got %v, want [S M]", enum)
	}

	for _, name := range []string{"tile_size", "workers", "output_path", "jpeg_quality"} {
		if _, ok := props[name]; !ok {
			t.Errorf("image_pixelate missing %s property", name)
		}
	}
}

func TestToolDefinitions_TileColorCoordinates(t *testing.T) {
	tool := toolByName(t, "image_tile_color")
	required := tool.InputSchema["required"].([]string)
	props := tool.InputSchema["properties"].(map[string]interface{})

	for _, coord := range []string{"x", "y"} {
		if !slices.Contains(required, coord) {
			t.Errorf("%s should be required", coord)
		}
		prop, ok := props[coord].(map[string]interface{})
		if !ok {
			t.Fatalf("%s property missing", coord)
		}
		if prop["type"] != "integer" {
			t.Errorf("%s type: got %v, want integer", coord, prop["type"])
		}
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	defaults := map[string]map[string]interface{}{
		"image_tile_plan": {
			"overlay":    false,
			"show_index": false,
			"line_color": "#FF0000",
		},
	}

	for toolName, params := range defaults {
		props := toolByName(t, toolName).InputSchema["properties"].(map[string]interface{})
		for paramName, expected := range params {
			prop, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: property missing", toolName, paramName)
				continue
			}
			if prop["default"] != expected {
				t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, prop["default"], expected)
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
