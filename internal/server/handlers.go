package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/ironsheep/image-resize-mcp/internal/dataurl"
	"github.com/ironsheep/image-resize-mcp/internal/decode"
	"github.com/ironsheep/image-resize-mcp/internal/engine"
	"github.com/ironsheep/image-resize-mcp/internal/resizer"
	"github.com/ironsheep/image-resize-mcp/internal/source"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_resize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// imageResult is returned by tools whose result is an image rather than
// JSON. It is rendered as MCP image content followed by a text summary.
type imageResult struct {
	mime    string
	data    string
	summary interface{}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// JSON results are wrapped in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Image results add an {"type": "image"} entry ahead of the text.
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.WithField("tool", params.Name).Warnf("Tool failed: %v", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	var content []map[string]interface{}
	if img, ok := result.(*imageResult); ok {
		content = append(content, map[string]interface{}{
			"type":     "image",
			"data":     img.data,
			"mimeType": img.mime,
		})
		result = img.summary
	}
	content = append(content, map[string]interface{}{
		"type": "text",
		"text": mustMarshalJSON(result),
	})

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_resize":
		return s.handleImageResize(ctx, args)
	case "image_load":
		return s.handleImageLoad(ctx, args)
	case "image_dimensions":
		return s.handleImageDimensions(ctx, args)
	case "engine_status":
		return s.handleEngineStatus(), nil
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

var errNoPath = errors.New("path is required")

type imagePathArgs struct {
	Path string `json:"path"`
}

func parsePathArgs(args json.RawMessage) (imagePathArgs, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, err
	}
	if a.Path == "" {
		return a, errNoPath
	}
	return a, nil
}

// ImageInfo describes a decoded image file.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// MIMEType is the type the file was decoded as.
	MIMEType string `json:"mime_type"`

	// HasAlpha reports whether any pixel is less than fully opaque.
	HasAlpha bool `json:"has_alpha"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResizeResult summarises an image_resize call.
type ResizeResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MIMEType string `json:"mime_type"`
	Bytes    int    `json:"bytes"`
}

func (s *Server) handleImageLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	bmp, err := decode.DecodeFromFile(ctx, source.Open(a.Path))
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         bmp.Width(),
		Height:        bmp.Height(),
		MIMEType:      bmp.MIME(),
		HasAlpha:      !isOpaque(bmp.Image()),
		FileSizeBytes: stat.Size(),
	}, nil
}

// isOpaque inspects pixels rather than the decoded type: EXIF rotation
// yields NRGBA for opaque JPEGs and paletted PNGs can be transparent.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

// EngineStatus is the engine_status result.
type EngineStatus struct {
	engine.Status

	// LiveSurfaces counts surfaces still attached to the document body.
	// Between calls it is zero.
	LiveSurfaces int `json:"live_surfaces"`
}

func (s *Server) handleEngineStatus() *EngineStatus {
	return &EngineStatus{
		Status:       s.runtime.Status(),
		LiveSurfaces: s.resizer.Document().Body().Len(),
	}
}

func (s *Server) handleImageDimensions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	bmp, err := decode.DecodeFromFile(ctx, source.Open(a.Path))
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: bmp.Width(), Height: bmp.Height()}, nil
}

type imageResizeArgs struct {
	Path    string   `json:"path"`
	Width   *int     `json:"width"`
	Height  *int     `json:"height"`
	Format  string   `json:"format"`
	Quality *float64 `json:"quality"`
}

func (s *Server) handleImageResize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errNoPath
	}

	var opts []resizer.Option
	if a.Width != nil {
		opts = append(opts, resizer.WithWidth(*a.Width))
	}
	if a.Height != nil {
		opts = append(opts, resizer.WithHeight(*a.Height))
	}
	opts = append(opts, resizer.WithOutput(resizer.Output{MIME: a.Format, Quality: a.Quality}))

	encoded, err := s.resizer.ResizeFile(ctx, source.Open(a.Path), opts...)
	if err != nil {
		return nil, err
	}

	d, err := dataurl.Parse(encoded)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(d.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to read resized image: %w", err)
	}

	return &imageResult{
		mime: d.MIME,
		data: encodedPayload(encoded),
		summary: &ResizeResult{
			Width:    cfg.Width,
			Height:   cfg.Height,
			MIMEType: d.MIME,
			Bytes:    len(d.Data),
		},
	}, nil
}

// encodedPayload returns the base64 part of a data URL.
func encodedPayload(url string) string {
	if i := strings.IndexByte(url, ','); i >= 0 {
		return url[i+1:]
	}
	return ""
}
