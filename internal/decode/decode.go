// Package decode turns data URLs into drawable bitmaps.
//
// Supported payload formats are PNG, JPEG and GIF (standard library), BMP
// and TIFF (registered through imaging's golang.org/x/image imports) and
// WebP. EXIF orientation is applied while decoding, as an HTML image
// element does by default.
package decode

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/image-resize-mcp/internal/dataurl"
	"github.com/ironsheep/image-resize-mcp/internal/source"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Error reports that a payload could not be decoded as an image.
type Error struct {
	MIME string
	Err  error
}

func (e *Error) Error() string {
	if e.MIME != "" {
		return fmt.Sprintf("failed to decode %s image: %v", e.MIME, e.Err)
	}
	return fmt.Sprintf("failed to decode image: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Bitmap is a decoded image with known natural dimensions.
type Bitmap struct {
	img  image.Image
	mime string
}

// NewBitmap wraps an already decoded image.
func NewBitmap(img image.Image, mime string) *Bitmap {
	return &Bitmap{img: img, mime: mime}
}

// Image returns the decoded pixels.
func (b *Bitmap) Image() image.Image { return b.img }

// MIME returns the media type the bitmap was decoded from.
func (b *Bitmap) MIME() string { return b.mime }

// Width is the natural width in pixels.
func (b *Bitmap) Width() int { return b.img.Bounds().Dx() }

// Height is the natural height in pixels.
func (b *Bitmap) Height() int { return b.img.Bounds().Dy() }

// Decode parses encoded as a data URL and decodes its payload. Every
// failure, including a malformed data URL, is reported as *Error. There is
// no retry.
func Decode(ctx context.Context, encoded string) (*Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d, err := dataurl.Parse(encoded)
	if err != nil {
		return nil, &Error{Err: err}
	}

	img, err := imaging.Decode(bytes.NewReader(d.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &Error{MIME: d.MIME, Err: err}
	}
	return &Bitmap{img: img, mime: d.MIME}, nil
}

// DecodeFromFile reads f as a data URL and decodes it. The first error
// ends the chain and is returned unchanged.
func DecodeFromFile(ctx context.Context, f source.File) (*Bitmap, error) {
	encoded, err := source.ReadAsDataURL(ctx, f)
	if err != nil {
		return nil, err
	}
	return Decode(ctx, encoded)
}
