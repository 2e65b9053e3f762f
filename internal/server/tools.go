package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_resize",
			Description: "Resize an image file to fit inside the given width and/or height, preserving aspect ratio. Images are only ever scaled down. Returns the resized image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum output width in pixels. Omit to derive from height.",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum output height in pixels. Omit to derive from width.",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"image/png", "image/jpeg", "image/gif", "image/bmp", "image/tiff"},
						"description": "Output MIME type (default from server config, normally image/png)",
					},
					"quality": map[string]interface{}{
						"type":        "number",
						"description": "JPEG quality between 0 and 1 (default 0.92)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_load",
			Description: "Decode an image file and return its dimensions, MIME type and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
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
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "engine_status",
			Description: "Report which resize engine and filter are loaded and whether initialization succeeded.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
