package background

import (
	"image"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/frameshot/mockup-renderer/internal/palette"
)

// Expand-style tuning constants. These are empirical: the scale pushes UI
// chrome off the visible canvas, the blur divisor removes remaining detail.
const (
	expandScaleFactor = 1.8
	expandBlurDivisor = 8
	expandDarkenAlpha = 40
	expandTintAlpha   = 20
)

// expand builds the background from the screenshot itself: scale well past
// cover, center-crop, blur twice, darken, then tint with the primary
// palette color. The framed device stays sharp against its own blurred
// content.
func (g *Generator) expand(source image.Image, colors []palette.RGB) *image.NRGBA {
	srcW := source.Bounds().Dx()
	srcH := source.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return g.mesh(colors)
	}

	srcAspect := float64(srcW) / float64(srcH)
	targetAspect := float64(g.width) / float64(g.height)

	// Scale to cover, then well beyond it.
	var newW, newH int
	if srcAspect > targetAspect {
		newH = g.height
		newW = int(float64(newH) * srcAspect)
	} else {
		newW = g.width
		newH = int(float64(newW) / srcAspect)
	}
	newW = int(float64(newW) * expandScaleFactor)
	newH = int(float64(newH) * expandScaleFactor)

	scaled := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), source, source.Bounds(), xdraw.Src, nil)

	img := imaging.CropCenter(scaled, g.width, g.height)

	blur := float64(minInt(g.width, g.height) / expandBlurDivisor)
	img = imaging.Blur(img, blur)
	img = imaging.Blur(img, blur/2)

	img = g.tintOver(img, palette.RGB{}, expandDarkenAlpha)
	if len(colors) > 0 {
		img = g.tintOver(img, colors[0], expandTintAlpha)
	}
	return img
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
