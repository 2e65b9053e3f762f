package engine

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/image-resize-mcp/internal/logger"
	"github.com/ironsheep/image-resize-mcp/internal/surface"
)

// Target carries optional output dimensions. A nil axis is absent.
type Target struct {
	Width  *int
	Height *int
}

// Dim returns a pointer to n for building a Target.
func Dim(n int) *int { return &n }

func (t Target) String() string {
	return fmt.Sprintf("%s x %s", axisString(t.Width), axisString(t.Height))
}

func axisString(v *int) string {
	if v == nil {
		return "auto"
	}
	return fmt.Sprintf("%d", *v)
}

// ResizeEngine resamples a surface into a new one that fits inside t.
type ResizeEngine interface {
	ResizeInside(src *surface.Surface, t Target) (*surface.Surface, error)
}

// ResizeError reports input an engine refused to resize.
type ResizeError struct {
	Reason string
}

func (e *ResizeError) Error() string {
	return "resize rejected: " + e.Reason
}

// InsideSize computes the output size for a w x h source. A present target
// axis must be positive, and the result must not collapse to zero pixels.
func InsideSize(w, h int, t Target) (int, int, error) {
	if w <= 0 || h <= 0 {
		return 0, 0, &ResizeError{Reason: fmt.Sprintf("source surface is empty (%dx%d)", w, h)}
	}
	widthRatio, heightRatio := 1.0, 1.0
	if t.Width != nil {
		if *t.Width <= 0 {
			return 0, 0, &ResizeError{Reason: fmt.Sprintf("target width must be positive, got %d", *t.Width)}
		}
		widthRatio = float64(*t.Width) / float64(w)
	}
	if t.Height != nil {
		if *t.Height <= 0 {
			return 0, 0, &ResizeError{Reason: fmt.Sprintf("target height must be positive, got %d", *t.Height)}
		}
		heightRatio = float64(*t.Height) / float64(h)
	}

	// Downsize only.
	scale := math.Min(math.Min(widthRatio, heightRatio), 1.0)

	outW := int(math.Floor(float64(w) * scale))
	outH := int(math.Floor(float64(h) * scale))
	if outW == 0 || outH == 0 {
		return 0, 0, &ResizeError{Reason: fmt.Sprintf("%dx%d source scaled to %s collapses to %dx%d", w, h, t, outW, outH)}
	}
	return outW, outH, nil
}

// resampleFunc scales src to exactly w x h.
type resampleFunc func(src *image.NRGBA, w, h int) image.Image

// resizeInside is the surface plumbing shared by every back end: read the
// source pixels, resample, and write them to a fresh surface from the same
// document.
func resizeInside(log logger.Logger, src *surface.Surface, t Target, resample resampleFunc) (*surface.Surface, error) {
	srcCtx, err := src.Context2D()
	if err != nil {
		return nil, err
	}

	w, h := src.Width(), src.Height()
	outW, outH, err := InsideSize(w, h, t)
	if err != nil {
		return nil, err
	}

	data, err := srcCtx.GetImageData(0, 0, w, h)
	if err != nil {
		return nil, err
	}
	resized := imaging.Clone(resample(data.NRGBA(), outW, outH))

	doc := src.OwnerDocument()
	out := doc.CreateSurface(outW, outH)
	outCtx, err := out.Context2D()
	if err != nil {
		return nil, err
	}
	if err := outCtx.PutImageData(surface.NewImageData(resized), 0, 0); err != nil {
		return nil, err
	}
	surface.Mount(doc.Body(), out)

	log.Debugf("Image resized from %dx%d to %dx%d", w, h, outW, outH)
	return out, nil
}
