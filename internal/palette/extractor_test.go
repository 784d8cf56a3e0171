package palette

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

// solidImage returns a uniformly colored test image.
func solidImage(c color.NRGBA, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// stripedImage returns an image with two equal vertical color bands.
func stripedImage(left, right color.NRGBA, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := left
			if x >= w/2 {
				c = right
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func saturation(c RGB) float64 {
	col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	_, s, _ := col.Hsv()
	return s
}

func TestDominant(t *testing.T) {
	img := solidImage(color.NRGBA{R: 200, G: 30, B: 30, A: 255}, 64, 64)
	e := NewExtractor(img)

	dom, err := e.Dominant()
	if err != nil {
		t.Fatalf("Dominant failed: %v", err)
	}

	// Dominant color of a solid image must be (close to) that color.
	if math.Abs(float64(dom.R)-200) > 12 || math.Abs(float64(dom.G)-30) > 12 || math.Abs(float64(dom.B)-30) > 12 {
		t.Errorf("dominant %+v too far from {200 30 30}", dom)
	}

	// Second call returns the cached value.
	dom2, err := e.Dominant()
	if err != nil {
		t.Fatalf("cached Dominant failed: %v", err)
	}
	if dom2 != dom {
		t.Errorf("cached dominant %+v differs from first %+v", dom2, dom)
	}
}

func TestPaletteQuantization(t *testing.T) {
	img := stripedImage(
		color.NRGBA{R: 250, G: 10, B: 10, A: 255},
		color.NRGBA{R: 10, G: 10, B: 250, A: 255},
		80, 40,
	)
	e := NewExtractor(img)

	pal, err := e.Palette(2)
	if err != nil {
		t.Fatalf("Palette failed: %v", err)
	}
	if len(pal) != 2 {
		t.Fatalf("got %d colors, want 2", len(pal))
	}

	// Both bands should be represented, one reddish and one bluish.
	var haveRed, haveBlue bool
	for _, c := range pal {
		if c.R > 150 && c.B < 100 {
			haveRed = true
		}
		if c.B > 150 && c.R < 100 {
			haveBlue = true
		}
	}
	if !haveRed || !haveBlue {
		t.Errorf("palette %+v missing a band color", pal)
	}

	t.Run("cached palette truncates", func(t *testing.T) {
		one, err := e.Palette(1)
		if err != nil {
			t.Fatalf("Palette(1) failed: %v", err)
		}
		if len(one) != 1 {
			t.Errorf("got %d colors, want 1", len(one))
		}
		if one[0] != pal[0] {
			t.Errorf("truncated palette %+v does not prefix cached %+v", one, pal)
		}
	})

	t.Run("invalid size", func(t *testing.T) {
		if _, err := e.Palette(0); err == nil {
			t.Error("expected error for n=0")
		}
	})
}

func TestComplementary(t *testing.T) {
	img := stripedImage(
		color.NRGBA{R: 230, G: 20, B: 40, A: 255},
		color.NRGBA{R: 20, G: 40, B: 230, A: 255},
		80, 40,
	)
	e := NewExtractor(img)

	pal, err := e.Palette(4)
	if err != nil {
		t.Fatalf("Palette failed: %v", err)
	}
	comp, err := e.Complementary()
	if err != nil {
		t.Fatalf("Complementary failed: %v", err)
	}
	if len(comp) != len(pal) {
		t.Fatalf("got %d complementary colors, want %d", len(comp), len(pal))
	}

	// Complementary colors are desaturated: s_out <= s_in*0.4 (+ the 0.1
	// floor and rounding slack).
	const eps = 0.02
	for i, c := range comp {
		in := saturation(pal[i])
		out := saturation(c)
		bound := in*0.4 + eps
		if bound < 0.1+eps {
			bound = 0.1 + eps
		}
		if out > bound {
			t.Errorf("color %d: saturation %.3f exceeds bound %.3f (input %.3f)", i, out, bound, in)
		}
	}
}

func TestGradientColors(t *testing.T) {
	img := stripedImage(
		color.NRGBA{R: 250, G: 10, B: 10, A: 255},
		color.NRGBA{R: 10, G: 10, B: 250, A: 255},
		80, 40,
	)
	c1, c2, err := NewExtractor(img).GradientColors()
	if err != nil {
		t.Fatalf("GradientColors failed: %v", err)
	}

	// Both gradient stops are lightened toward white, so every channel
	// must be at least its lighten floor.
	for _, c := range []RGB{c1, c2} {
		if c.R < 100 && c.G < 100 && c.B < 100 {
			t.Errorf("gradient color %+v not lightened", c)
		}
	}
}

func TestExtractorDegenerateInputs(t *testing.T) {
	t.Run("nil image", func(t *testing.T) {
		e := NewExtractor(nil)
		if _, err := e.Dominant(); err == nil {
			t.Error("expected error for nil image")
		}
		if _, err := e.Palette(4); err == nil {
			t.Error("expected error for nil image")
		}
	})

	t.Run("fully transparent image", func(t *testing.T) {
		img := solidImage(color.NRGBA{}, 16, 16)
		if _, err := NewExtractor(img).Palette(4); err == nil {
			t.Error("expected error for fully transparent image")
		}
	})
}
