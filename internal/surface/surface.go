package surface

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/google/uuid"
	"github.com/ironsheep/image-resize-mcp/internal/logger"
)

// ErrNoContext is returned when a document cannot provide a 2D drawing
// context for a surface.
var ErrNoContext = errors.New("failed to get 2D context from surface")

// DefaultMaxArea is the largest width*height a Document hands a context out
// for unless configured otherwise.
const DefaultMaxArea = 16384 * 16384

// Document allocates surfaces and owns the body container they are attached
// to while in use.
type Document struct {
	maxArea int
	matte   color.Color
	body    *Stage
	log     logger.Logger
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithMaxArea caps the pixel area of surfaces that may obtain a context.
func WithMaxArea(area int) DocumentOption {
	return func(d *Document) {
		if area > 0 {
			d.maxArea = area
		}
	}
}

// WithMatte sets the colour transparent pixels are flattened onto when a
// surface is encoded to a format without alpha.
func WithMatte(c color.Color) DocumentOption {
	return func(d *Document) {
		if c != nil {
			d.matte = c
		}
	}
}

// WithLogger attaches a logger for surface lifecycle events.
func WithLogger(log logger.Logger) DocumentOption {
	return func(d *Document) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDocument returns an empty document.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{
		maxArea: DefaultMaxArea,
		matte:   color.Black,
		log:     logger.NewTestLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.body = NewStage(d.log)
	return d
}

// Body is the container surfaces are attached to while a pipeline uses them.
func (d *Document) Body() *Stage { return d.body }

// CreateSurface allocates a detached surface of the given size. No pixel
// memory is reserved until Context2D is called.
func (d *Document) CreateSurface(width, height int) *Surface {
	return &Surface{
		id:     uuid.NewString(),
		doc:    d,
		width:  width,
		height: height,
	}
}

// Surface is a drawable pixel area with explicit dimensions.
type Surface struct {
	id     string
	doc    *Document
	width  int
	height int

	mu     sync.Mutex
	ctx    *Context2D
	parent Container
}

// ID uniquely identifies the surface for logging.
func (s *Surface) ID() string { return s.id }

// Width in pixels.
func (s *Surface) Width() int { return s.width }

// Height in pixels.
func (s *Surface) Height() int { return s.height }

// Bounds is the surface rectangle anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.width, s.height) }

// OwnerDocument returns the document that created the surface.
func (s *Surface) OwnerDocument() *Document { return s.doc }

// Parent returns the container the surface is attached to, or nil.
func (s *Surface) Parent() Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parent
}

// Context2D returns the surface's drawing context, allocating the pixel
// buffer on first use. It returns ErrNoContext when the owner document
// refuses the surface size. The same context is returned on every call.
func (s *Surface) Context2D() (*Context2D, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return s.ctx, nil
	}
	if s.width < 0 || s.height < 0 {
		return nil, ErrNoContext
	}
	if int64(s.width)*int64(s.height) > int64(s.doc.maxArea) {
		return nil, ErrNoContext
	}

	s.ctx = &Context2D{
		pix: image.NewNRGBA(s.Bounds()),
	}
	return s.ctx, nil
}
