// Package surface models in-memory drawable surfaces, the Go counterpart of
// an HTML canvas element.
//
// A Document allocates surfaces and owns a body container they can be
// attached to. A Surface gets its pixel buffer only when its 2D context is
// first requested, and the Document may refuse that request for surfaces
// that are too large, which is how a browser reports an unusable canvas.
//
// # Lifecycle
//
// Surfaces used by the resize pipeline follow one path:
//
//	s, err := surface.Materialize(doc, img) // allocate, draw at (0,0), attach
//	...
//	surface.Reclaim(s)                      // detach; safe to repeat
//
// Reclaim only changes container membership. Pixel data is left alone and
// released by the garbage collector once nothing references the surface.
//
// # Thread Safety
//
// Document and Stage are safe for concurrent use. A Surface and its
// Context2D belong to one caller at a time and must not be drawn on
// concurrently.
package surface
