package surface

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/image-resize-mcp/internal/dataurl"
)

// DefaultJPEGQuality is used when a quality outside 0..1 is requested.
const DefaultJPEGQuality = 0.92

// EmptyDataURL is what a zero-area surface encodes to.
const EmptyDataURL = "data:,"

var formatsByMIME = map[string]imaging.Format{
	"image/png":  imaging.PNG,
	"image/jpeg": imaging.JPEG,
	"image/jpg":  imaging.JPEG,
	"image/gif":  imaging.GIF,
	"image/bmp":  imaging.BMP,
	"image/tiff": imaging.TIFF,
}

var mimeByFormat = map[imaging.Format]string{
	imaging.PNG:  "image/png",
	imaging.JPEG: "image/jpeg",
	imaging.GIF:  "image/gif",
	imaging.BMP:  "image/bmp",
	imaging.TIFF: "image/tiff",
}

// OutputMIME normalises typ to the MIME type ToDataURL will actually emit.
// Unknown and empty types resolve to image/png.
func OutputMIME(typ string) string {
	f, ok := formatsByMIME[strings.ToLower(strings.TrimSpace(typ))]
	if !ok {
		return "image/png"
	}
	return mimeByFormat[f]
}

// ToDataURL encodes the surface contents. typ selects the format and falls
// back to PNG when unsupported; quality (0..1) only applies to JPEG and
// falls back to DefaultJPEGQuality when out of range. JPEG output is
// flattened onto the document's matte colour.
//
// A zero-area surface encodes to EmptyDataURL. A surface the document
// refuses a context for returns ErrNoContext.
func (s *Surface) ToDataURL(typ string, quality float64) (string, error) {
	if s.width == 0 || s.height == 0 {
		return EmptyDataURL, nil
	}
	ctx, err := s.Context2D()
	if err != nil {
		return "", err
	}

	mime := OutputMIME(typ)
	format := formatsByMIME[mime]

	var img image.Image = ctx.pix
	var opts []imaging.EncodeOption
	if format == imaging.JPEG {
		if quality < 0 || quality > 1 || math.IsNaN(quality) {
			quality = DefaultJPEGQuality
		}
		opts = append(opts, imaging.JPEGQuality(int(math.Round(quality*100))))
		bg := imaging.New(s.width, s.height, s.doc.matte)
		img = imaging.Overlay(bg, ctx.pix, image.Pt(0, 0), 1.0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return "", fmt.Errorf("failed to encode surface as %s: %w", mime, err)
	}
	return dataurl.Encode(mime, buf.Bytes()), nil
}
