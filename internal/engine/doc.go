// Package engine provides the resampling back ends the resize pipeline
// delegates to.
//
// An engine takes a source surface and optional target dimensions and
// returns a new surface that fits inside them. The pipeline treats it as a
// black box; everything about how a missing axis is derived lives here.
//
// # Sizing
//
// Engines compute "inside" dimensions: the image is scaled by the smaller of
// targetWidth/width and targetHeight/height, an absent axis contributing a
// ratio of 1, and the scale is capped at 1 so images are never enlarged.
// Results are floored to whole pixels.
//
// # Back ends
//
//   - ImagingEngine resamples with github.com/disintegration/imaging.
//   - BildEngine resamples with github.com/anthonynsimon/bild/transform.
//
// Both default to a Lanczos filter.
//
// # Initialization
//
// Engines are not used directly by callers. A Runtime wraps a loader and
// must be initialised once with Init before any resize; until then every
// ResizeInside call fails with ErrNotInitialized.
package engine
