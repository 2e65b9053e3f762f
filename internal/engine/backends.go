package engine

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"github.com/ironsheep/image-resize-mcp/internal/logger"
	"github.com/ironsheep/image-resize-mcp/internal/surface"
)

// DefaultFilter is the filter both back ends use when none is named.
const DefaultFilter = "lanczos"

var imagingFilters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"hermite":    imaging.Hermite,
	"mitchell":   imaging.MitchellNetravali,
	"catmullrom": imaging.CatmullRom,
	"bspline":    imaging.BSpline,
	"gaussian":   imaging.Gaussian,
	"bartlett":   imaging.Bartlett,
	"lanczos":    imaging.Lanczos,
	"hann":       imaging.Hann,
	"hamming":    imaging.Hamming,
	"blackman":   imaging.Blackman,
	"welch":      imaging.Welch,
	"cosine":     imaging.Cosine,
}

var bildFilters = map[string]transform.ResampleFilter{
	"nearest":    transform.NearestNeighbor,
	"box":        transform.Box,
	"linear":     transform.Linear,
	"gaussian":   transform.Gaussian,
	"mitchell":   transform.MitchellNetravali,
	"catmullrom": transform.CatmullRom,
	"lanczos":    transform.Lanczos,
}

// ImagingEngine resamples with disintegration/imaging.
type ImagingEngine struct {
	filterName string
	filter     imaging.ResampleFilter
	log        logger.Logger
}

// NewImagingEngine returns an engine using the named filter. An empty name
// selects DefaultFilter.
func NewImagingEngine(filter string, log logger.Logger) (*ImagingEngine, error) {
	name := normalizeFilter(filter)
	f, ok := imagingFilters[name]
	if !ok {
		return nil, fmt.Errorf("unknown imaging filter %q (known: %s)", filter, knownFilters(imagingFilters))
	}
	if log == nil {
		log = logger.NewTestLogger()
	}
	return &ImagingEngine{filterName: name, filter: f, log: log}, nil
}

// Name identifies the back end in engine_status.
func (e *ImagingEngine) Name() string { return "imaging" }

// Filter is the normalised resampling filter name.
func (e *ImagingEngine) Filter() string { return e.filterName }

// ResizeInside implements ResizeEngine.
func (e *ImagingEngine) ResizeInside(src *surface.Surface, t Target) (*surface.Surface, error) {
	return resizeInside(e.log, src, t, func(img *image.NRGBA, w, h int) image.Image {
		return imaging.Resize(img, w, h, e.filter)
	})
}

// BildEngine resamples with anthonynsimon/bild.
type BildEngine struct {
	filterName string
	filter     transform.ResampleFilter
	log        logger.Logger
}

// NewBildEngine returns an engine using the named filter. An empty name
// selects DefaultFilter.
func NewBildEngine(filter string, log logger.Logger) (*BildEngine, error) {
	name := normalizeFilter(filter)
	f, ok := bildFilters[name]
	if !ok {
		return nil, fmt.Errorf("unknown bild filter %q (known: %s)", filter, knownFilters(bildFilters))
	}
	if log == nil {
		log = logger.NewTestLogger()
	}
	return &BildEngine{filterName: name, filter: f, log: log}, nil
}

// Name identifies the back end in engine_status.
func (e *BildEngine) Name() string { return "bild" }

// Filter is the normalised resampling filter name.
func (e *BildEngine) Filter() string { return e.filterName }

// ResizeInside implements ResizeEngine.
func (e *BildEngine) ResizeInside(src *surface.Surface, t Target) (*surface.Surface, error) {
	return resizeInside(e.log, src, t, func(img *image.NRGBA, w, h int) image.Image {
		return transform.Resize(img, w, h, e.filter)
	})
}

func normalizeFilter(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultFilter
	}
	return name
}

func knownFilters[T any](m map[string]T) string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
