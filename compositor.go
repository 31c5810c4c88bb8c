package traitgen

import (
	"image"

	"golang.org/x/image/draw"
)

// Composite flattens images bottom -> top. The first image is the base
// canvas and fixes the output size; every later image is alpha-composited
// over it with its top-left corner at the origin. Sizes are not checked:
// larger overlays are cropped, smaller ones cover only their own area.
func Composite(images []image.Image) (*image.NRGBA, error) {
	if len(images) == 0 {
		return nil, ErrNoLayers
	}
	base := images[0]
	b := base.Bounds()
	canvas := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), base, b.Min, draw.Src)
	for _, img := range images[1:] {
		draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Over)
	}
	return canvas, nil
}

// CompositeAssets composites the images of assets in layer order.
func CompositeAssets(assets []Asset) (*image.NRGBA, error) {
	images := make([]image.Image, len(assets))
	for i, a := range assets {
		images[i] = a.Image
	}
	return Composite(images)
}
