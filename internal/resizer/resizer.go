// Package resizer is the top-level resize pipeline: it materializes a
// decoded bitmap onto a surface, hands the surface to a resize engine,
// encodes the result as a data URL and reclaims both surfaces on every
// exit path.
package resizer

import (
	"context"
	"errors"

	"github.com/ironsheep/image-resize-mcp/internal/decode"
	"github.com/ironsheep/image-resize-mcp/internal/engine"
	"github.com/ironsheep/image-resize-mcp/internal/logger"
	"github.com/ironsheep/image-resize-mcp/internal/source"
	"github.com/ironsheep/image-resize-mcp/internal/surface"
)

// ErrNoOutput is returned when an engine reports success without a surface,
// or with one that has no pixels.
var ErrNoOutput = errors.New("resize engine returned no surface")

// Output controls how the resized surface is encoded.
type Output struct {
	// MIME is the requested output type; unsupported types fall back to PNG.
	MIME string
	// Quality is the JPEG quality in 0..1. Nil means unset; 0 is a valid
	// (lowest) quality.
	Quality *float64
}

// Quality returns a pointer to q for building an Output.
func Quality(q float64) *float64 { return &q }

// DefaultOutput mirrors canvas.toDataURL() with no arguments.
var DefaultOutput = Output{MIME: "image/png", Quality: Quality(surface.DefaultJPEGQuality)}

// Resizer runs the resize pipeline against one engine and document.
// It is safe for concurrent use; each call owns its surfaces.
type Resizer struct {
	engine engine.ResizeEngine
	doc    *surface.Document
	output Output
	log    logger.Logger
}

// Config assembles a Resizer.
type Config struct {
	Engine   engine.ResizeEngine
	Document *surface.Document
	Output   Output
	Logger   logger.Logger
}

// New returns a Resizer. A nil Document gets a fresh one; unset Output
// fields take their DefaultOutput values.
func New(cfg Config) *Resizer {
	r := &Resizer{
		engine: cfg.Engine,
		doc:    cfg.Document,
		output: cfg.Output,
		log:    cfg.Logger,
	}
	if r.log == nil {
		r.log = logger.NewTestLogger()
	}
	if r.doc == nil {
		r.doc = surface.NewDocument(surface.WithLogger(r.log))
	}
	if r.output.MIME == "" {
		r.output.MIME = DefaultOutput.MIME
	}
	if r.output.Quality == nil {
		r.output.Quality = Quality(*DefaultOutput.Quality)
	}
	return r
}

// Document returns the document surfaces are allocated from.
func (r *Resizer) Document() *surface.Document { return r.doc }

// Option adjusts a single Resize call.
type Option func(*call)

type call struct {
	target engine.Target
	output Output
}

// WithWidth sets the target width.
func WithWidth(w int) Option {
	return func(c *call) { c.target.Width = engine.Dim(w) }
}

// WithHeight sets the target height.
func WithHeight(h int) Option {
	return func(c *call) { c.target.Height = engine.Dim(h) }
}

// WithOutput overrides the encoding for this call.
func WithOutput(o Output) Option {
	return func(c *call) {
		if o.MIME != "" {
			c.output.MIME = o.MIME
		}
		if o.Quality != nil {
			c.output.Quality = Quality(*o.Quality)
		}
	}
}

// Resize resamples bmp and returns the result as a data URL.
//
// Target dimensions left unset are passed to the engine as absent. Errors
// from the surface factory, the engine and the encoder are returned
// unchanged. Whatever happens, no surface created by the call is still
// attached to the document when Resize returns.
//
// ctx is consulted once, before any surface is allocated; an engine call
// in progress is not interrupted.
func (r *Resizer) Resize(ctx context.Context, bmp *decode.Bitmap, opts ...Option) (string, error) {
	c := call{output: r.output}
	for _, opt := range opts {
		opt(&c)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	log := r.log.WithField("target", c.target.String())

	input, err := surface.Materialize(r.doc, bmp.Image())
	if err != nil {
		log.Warnf("Cannot materialize %dx%d bitmap: %v", bmp.Width(), bmp.Height(), err)
		return "", err
	}
	defer surface.Reclaim(input)

	output, err := r.engine.ResizeInside(input, c.target)
	if err != nil {
		log.Debugf("Engine rejected %dx%d surface: %v", input.Width(), input.Height(), err)
		return "", err
	}
	if output == nil {
		return "", ErrNoOutput
	}
	defer surface.Reclaim(output)

	encoded, err := output.ToDataURL(c.output.MIME, *c.output.Quality)
	if err != nil {
		return "", err
	}
	if encoded == surface.EmptyDataURL {
		log.Debugf("Engine returned an empty %dx%d surface", output.Width(), output.Height())
		return "", ErrNoOutput
	}

	log.Debugf("Resized %dx%d to %dx%d (%s, %d bytes)",
		input.Width(), input.Height(), output.Width(), output.Height(),
		surface.OutputMIME(c.output.MIME), len(encoded))
	return encoded, nil
}

// ResizeFile decodes f and resizes it. Read and decode errors are returned
// unchanged, before any surface exists.
func (r *Resizer) ResizeFile(ctx context.Context, f source.File, opts ...Option) (string, error) {
	bmp, err := decode.DecodeFromFile(ctx, f)
	if err != nil {
		return "", err
	}
	return r.Resize(ctx, bmp, opts...)
}
