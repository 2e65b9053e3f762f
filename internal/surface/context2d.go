package surface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Context2D draws onto a surface's pixel buffer. Pixels are stored as
// non-premultiplied RGBA, the layout canvas image data uses.
type Context2D struct {
	pix *image.NRGBA
}

// ImageData is a rectangle of non-premultiplied RGBA pixels, four bytes per
// pixel, rows packed without padding.
type ImageData struct {
	Width  int
	Height int
	Data   []uint8
}

// NewImageData copies img into a fresh ImageData.
func NewImageData(img *image.NRGBA) *ImageData {
	b := img.Bounds()
	d := &ImageData{
		Width:  b.Dx(),
		Height: b.Dy(),
		Data:   make([]uint8, 4*b.Dx()*b.Dy()),
	}
	rowLen := 4 * b.Dx()
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(d.Data[y*rowLen:(y+1)*rowLen], img.Pix[src:src+rowLen])
	}
	return d
}

// NRGBA views the data as an image without copying.
func (d *ImageData) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    d.Data,
		Stride: 4 * d.Width,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}
}

// DrawImage composites img onto the surface with its top-left corner at
// (dx, dy), source-over.
func (c *Context2D) DrawImage(img image.Image, dx, dy int) {
	b := img.Bounds()
	r := image.Rect(dx, dy, dx+b.Dx(), dy+b.Dy())
	draw.Draw(c.pix, r, img, b.Min, draw.Over)
}

// GetImageData copies out the w x h rectangle at (x, y). Regions outside
// the surface read as transparent black.
func (c *Context2D) GetImageData(x, y, w, h int) (*ImageData, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image data size must be positive, got %dx%d", w, h)
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), c.pix, image.Pt(x, y), draw.Src)
	return NewImageData(out), nil
}

// PutImageData replaces the pixels under d at (dx, dy). Unlike DrawImage no
// compositing happens.
func (c *Context2D) PutImageData(d *ImageData, dx, dy int) error {
	if len(d.Data) != 4*d.Width*d.Height {
		return fmt.Errorf("image data length %d does not match %dx%d", len(d.Data), d.Width, d.Height)
	}
	r := image.Rect(dx, dy, dx+d.Width, dy+d.Height)
	draw.Draw(c.pix, r, d.NRGBA(), image.Point{}, draw.Src)
	return nil
}

// ParseColor parses a CSS hex colour (#rgb or #rrggbb) into an opaque
// color.Color.
func ParseColor(hex string) (color.Color, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
