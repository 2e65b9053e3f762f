package surface

import "image"

// Materialize creates a surface sized exactly to img, draws img at the
// origin and attaches the surface to doc's body.
//
// If the document cannot provide a drawing context ErrNoContext is
// returned and nothing is attached, so there is nothing to reclaim.
func Materialize(doc *Document, img image.Image) (*Surface, error) {
	b := img.Bounds()
	s := doc.CreateSurface(b.Dx(), b.Dy())

	ctx, err := s.Context2D()
	if err != nil {
		return nil, err
	}
	ctx.DrawImage(img, 0, 0)

	Mount(doc.Body(), s)
	return s, nil
}
