package device

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// cornerInset keeps the screenshot mask slightly inside the bezel curve.
const cornerInset = 10

// ShadowOptions controls the drop shadow behind a framed device.
type ShadowOptions struct {
	OffsetX int
	OffsetY int
	Blur    int
}

// DefaultShadow matches the single-device mockup look.
var DefaultShadow = ShadowOptions{OffsetX: 40, OffsetY: 50, Blur: 80}

// MultiShadow is the tighter shadow used in multi-device compositions.
var MultiShadow = ShadowOptions{OffsetX: 30, OffsetY: 40, Blur: 60}

// CompositeScreenshot places a screenshot into the device frame: resized
// to the screen rectangle, masked to rounded corners, pasted at the screen
// offset, with an optional drop shadow. A nil shadow renders no shadow.
func (f *Frame) CompositeScreenshot(screenshot image.Image, shadow *ShadowOptions) (*image.NRGBA, error) {
	if screenshot == nil {
		return nil, fmt.Errorf("screenshot is required")
	}

	res := f.Render()

	// The screen rect is the target aspect; no aspect preservation.
	resized := imaging.Resize(screenshot, res.ScreenSize.X, res.ScreenSize.Y, imaging.Lanczos)
	masked := roundCorners(resized, float64(f.spec.CornerRadius-cornerInset))

	framed := imaging.Overlay(res.Image, masked, res.ScreenOffset, 1.0)

	if shadow != nil {
		framed = addShadow(framed, *shadow)
	}
	return framed, nil
}

// roundCorners replaces the image's alpha channel with a rounded-rectangle
// coverage mask.
func roundCorners(img *image.NRGBA, radius float64) *image.NRGBA {
	if radius < 0 {
		radius = 0
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), radius)
	dc.Fill()
	mask := dc.Image().(*image.RGBA)

	out := imaging.Clone(img)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x*4+3] = mask.Pix[y*mask.Stride+x*4+3]
		}
	}
	return out
}

// addShadow places a soft drop shadow behind the device: the device's
// alpha silhouette capped at 40, shifted by the offset, blurred across a
// padded canvas, with the crisp device pasted back on top.
func addShadow(img *image.NRGBA, opts ShadowOptions) *image.NRGBA {
	padding := opts.Blur * 3
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	silhouette := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := img.Pix[y*img.Stride+x*4+3]
			if a > 40 {
				a = 40
			}
			silhouette.Pix[y*silhouette.Stride+x*4+3] = a
		}
	}

	result := image.NewNRGBA(image.Rect(0, 0, w+padding*2, h+padding*2))
	result = imaging.Overlay(result, silhouette, image.Pt(padding+opts.OffsetX, padding+opts.OffsetY), 1.0)
	result = imaging.Blur(result, float64(opts.Blur))
	return imaging.Overlay(result, img, image.Pt(padding, padding), 1.0)
}
