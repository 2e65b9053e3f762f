package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/image-resize-mcp/internal/engine"
	"github.com/ironsheep/image-resize-mcp/internal/resizer"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	}
	resp := s.handleRequest(context.Background(), req)
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

func toolContent(t *testing.T, resp *MCPResponse) []map[string]interface{} {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) == 0 {
		t.Fatal("Result should have content")
	}
	return content
}

// textResult decodes the JSON in the last text content block into v.
func textResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	content := toolContent(t, resp)
	last := content[len(content)-1]
	if last["type"] != "text" {
		t.Fatalf("last content type: got %v, want text", last["type"])
	}
	if err := json.Unmarshal([]byte(last["text"].(string)), v); err != nil {
		t.Fatalf("bad text content: %v", err)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info ImageInfo
	textResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.MIMEType != "image/png" {
		t.Errorf("mime_type: got %s", info.MIMEType)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("file_size_bytes: got %d", info.FileSizeBytes)
	}
	if info.HasAlpha {
		t.Error("opaque PNG should report has_alpha false")
	}
}

func TestHandleToolsCall_ImageLoadAlpha(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		img  image.Image
		want bool
	}{
		{"opaque nrgba", filledNRGBA(4, 4, color.NRGBA{1, 2, 3, 255}), false},
		{"translucent nrgba", filledNRGBA(4, 4, color.NRGBA{1, 2, 3, 128}), true},
		{"transparent paletted", transparentPaletted(4, 4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "alpha.png")
			f, err := os.Create(path)
			if err != nil {
				t.Fatalf("failed to create file: %v", err)
			}
			if err := png.Encode(f, tt.img); err != nil {
				t.Fatalf("failed to encode image: %v", err)
			}
			f.Close()

			var info ImageInfo
			textResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}), &info)
			if info.HasAlpha != tt.want {
				t.Errorf("has_alpha: got %v, want %v", info.HasAlpha, tt.want)
			}
		})
	}
}

func filledNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func transparentPaletted(w, h int) *image.Paletted {
	pal := color.Palette{color.NRGBA{0, 0, 0, 0}, color.NRGBA{255, 0, 0, 255}}
	img := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	img.SetColorIndex(1, 1, 1)
	return img
}

func TestIsOpaque_RotatedLikeJPEG(t *testing.T) {
	// EXIF-rotated JPEGs come back as NRGBA with every pixel opaque.
	if !isOpaque(filledNRGBA(3, 5, color.NRGBA{200, 100, 50, 255})) {
		t.Error("opaque NRGBA should be opaque")
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	var dims DimensionsResult
	textResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}), &dims)

	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_ImageResize(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{0, 0, 255, 255})

	resp := callTool(t, s, "image_resize", map[string]interface{}{"path": imgPath, "width": 50})
	content := toolContent(t, resp)
	if len(content) != 2 {
		t.Fatalf("expected image and text content, got %d blocks", len(content))
	}

	img := content[0]
	if img["type"] != "image" || img["mimeType"] != "image/png" {
		t.Errorf("image block: type=%v mimeType=%v", img["type"], img["mimeType"])
	}
	raw, err := base64.StdEncoding.DecodeString(img["data"].(string))
	if err != nil {
		t.Fatalf("image data is not base64: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("image data is not PNG: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 40 {
		t.Errorf("decoded size: got %dx%d, want 50x40", cfg.Width, cfg.Height)
	}

	var summary ResizeResult
	textResult(t, resp, &summary)
	if summary.Width != 50 || summary.Height != 40 {
		t.Errorf("summary size: got %dx%d, want 50x40", summary.Width, summary.Height)
	}
	if summary.Bytes != len(raw) {
		t.Errorf("summary bytes: got %d, want %d", summary.Bytes, len(raw))
	}
}

func TestHandleToolsCall_ImageResizeNoUpscale(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 30, 20, color.White)

	var summary ResizeResult
	textResult(t, callTool(t, s, "image_resize", map[string]interface{}{"path": imgPath, "width": 300, "height": 300}), &summary)

	if summary.Width != 30 || summary.Height != 20 {
		t.Errorf("got %dx%d, want 30x20", summary.Width, summary.Height)
	}
}

func TestHandleToolsCall_ImageResizeJPEG(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 64, 64, color.RGBA{10, 20, 30, 255})

	resp := callTool(t, s, "image_resize", map[string]interface{}{
		"path":    imgPath,
		"height":  32,
		"format":  "image/jpeg",
		"quality": 0.6,
	})
	content := toolContent(t, resp)
	if content[0]["mimeType"] != "image/jpeg" {
		t.Errorf("mimeType: got %v, want image/jpeg", content[0]["mimeType"])
	}

	var summary ResizeResult
	textResult(t, resp, &summary)
	if summary.Width != 32 || summary.Height != 32 {
		t.Errorf("got %dx%d, want 32x32", summary.Width, summary.Height)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 10, 10, color.Black)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"load missing file", "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}},
		{"dimensions missing path", "image_dimensions", map[string]interface{}{}},
		{"resize missing path", "image_resize", map[string]interface{}{"width": 10}},
		{"resize zero width", "image_resize", map[string]interface{}{"path": imgPath, "width": 0}},
		{"resize negative height", "image_resize", map[string]interface{}{"path": imgPath, "height": -5}},
		{"unknown tool", "image_rotate", map[string]interface{}{"path": imgPath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	}

	resp := s.handleToolsCall(context.Background(), req)
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_EngineStatus(t *testing.T) {
	s := newTestServer(t)

	var st engine.Status
	textResult(t, callTool(t, s, "engine_status", nil), &st)

	if st.State != "ready" {
		t.Errorf("state: got %s, want ready", st.State)
	}
	if st.Engine != "imaging" {
		t.Errorf("engine: got %s, want imaging", st.Engine)
	}
}

func TestHandleToolsCall_EngineStatusLiveSurfaces(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 20, 20, color.White)
	toolContent(t, callTool(t, s, "image_resize", map[string]interface{}{"path": imgPath, "width": 10}))

	var st EngineStatus
	textResult(t, callTool(t, s, "engine_status", nil), &st)
	if st.State != "ready" {
		t.Errorf("state: got %s, want ready", st.State)
	}
	if st.LiveSurfaces != 0 {
		t.Errorf("live_surfaces: got %d, want 0", st.LiveSurfaces)
	}
}

func TestHandleToolsCall_ImageResizeQualityZero(t *testing.T) {
	s := newTestServer(t)
	path := filepath.Join(t.TempDir(), "gradient.png")
	img := image.NewNRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 5), uint8(y * 5), uint8(x ^ y), 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	f.Close()

	sizeAt := func(q float64) int {
		var summary ResizeResult
		textResult(t, callTool(t, s, "image_resize", map[string]interface{}{
			"path":    path,
			"format":  "image/jpeg",
			"quality": q,
		}), &summary)
		return summary.Bytes
	}

	if low, high := sizeAt(0), sizeAt(0.92); low >= high {
		t.Errorf("quality 0 gave %d bytes, quality 0.92 gave %d", low, high)
	}
}

func TestHandleToolsCall_ResizeBeforeInit(t *testing.T) {
	rt := engine.NewRuntime(engine.Loader("imaging", "", nil))
	s := New(resizer.New(resizer.Config{Engine: rt}), rt, nil, "test")
	imgPath := createTestImageFile(t, 10, 10, color.Black)

	resp := callTool(t, s, "image_resize", map[string]interface{}{"path": imgPath, "width": 5})
	if resp.Error == nil {
		t.Fatal("expected an error before the engine is initialised")
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, "not initialized") {
		t.Errorf("error data: got %v", resp.Error.Data)
	}

	var st engine.Status
	textResult(t, callTool(t, s, "engine_status", nil), &st)
	if st.State != "uninitialized" {
		t.Errorf("state: got %s, want uninitialized", st.State)
	}
}
