package background

import (
	"image"
	"image/color"
	"testing"

	"github.com/frameshot/mockup-renderer/internal/palette"
)

func testPalette(n int) []palette.RGB {
	all := []palette.RGB{
		{R: 255, G: 87, B: 51},
		{R: 51, G: 189, B: 255},
		{R: 255, G: 189, B: 51},
		{R: 51, G: 255, B: 87},
		{R: 180, G: 100, B: 200},
	}
	return all[:n]
}

// checkerboard returns a maximally sharp source image.
func checkerboard(w, h, cell int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{A: 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// maxNeighborDiff measures sharpness as the maximum absolute difference
// between horizontally adjacent pixels, over all channels.
func maxNeighborDiff(img *image.NRGBA) int {
	b := img.Bounds()
	maxDiff := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X-1; x++ {
			i := img.PixOffset(x, y)
			j := img.PixOffset(x+1, y)
			for ch := 0; ch < 3; ch++ {
				d := int(img.Pix[i+ch]) - int(img.Pix[j+ch])
				if d < 0 {
					d = -d
				}
				if d > maxDiff {
					maxDiff = d
				}
			}
		}
	}
	return maxDiff
}

func TestGenerateExactSize(t *testing.T) {
	const w, h = 120, 150
	g := New(w, h)
	source := checkerboard(60, 120, 4)

	for _, style := range Styles() {
		t.Run(string(style), func(t *testing.T) {
			img := g.Generate(testPalette(4), style, source)
			if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
				t.Errorf("got %dx%d, want %dx%d",
					img.Bounds().Dx(), img.Bounds().Dy(), w, h)
			}
		})
	}
}

func TestGenerateSingleColorPalette(t *testing.T) {
	g := New(80, 64)
	source := checkerboard(40, 60, 4)

	// Every style must auto-pad a one-color palette instead of panicking.
	for _, style := range Styles() {
		t.Run(string(style), func(t *testing.T) {
			img := g.Generate(testPalette(1), style, source)
			if img == nil {
				t.Fatal("got nil image")
			}
		})
	}
}

func TestGenerateEmptyPalette(t *testing.T) {
	g := New(40, 40)
	if img := g.Generate(nil, StyleMesh, nil); img == nil {
		t.Fatal("got nil image for empty palette")
	}
}

func TestUnknownStyleFallsBackToMesh(t *testing.T) {
	g := New(64, 64)
	colors := testPalette(4)

	want := g.Generate(colors, StyleMesh, nil)
	got := g.Generate(colors, Style("no-such-style"), nil)

	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds mismatch: %v vs %v", got.Bounds(), want.Bounds())
	}
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("pixel data diverges from mesh at offset %d", i)
		}
	}
}

func TestGradientCorners(t *testing.T) {
	const w, h = 100, 100
	g := New(w, h)
	colors := []palette.RGB{{R: 255, G: 0, B: 0}, {R: 0, G: 0, B: 255}}

	img := g.Generate(colors, StyleGradient, nil)

	const tol = 6
	check := func(x, y int, want palette.RGB, label string) {
		i := img.PixOffset(x, y)
		got := palette.RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
		for ch, pair := range [][2]uint8{{got.R, want.R}, {got.G, want.G}, {got.B, want.B}} {
			d := int(pair[0]) - int(pair[1])
			if d < 0 {
				d = -d
			}
			if d > tol {
				t.Errorf("%s channel %d: got %d, want %d±%d", label, ch, pair[0], pair[1], tol)
			}
		}
	}

	check(0, 0, palette.RGB{R: 255, G: 0, B: 0}, "top-left")
	check(w-1, h-1, palette.RGB{R: 0, G: 0, B: 255}, "bottom-right")
	check(w/2, h/2, palette.RGB{R: 127, G: 0, B: 127}, "center")
}

func TestExpandBlursSource(t *testing.T) {
	const w, h = 96, 96
	g := New(w, h)
	source := checkerboard(64, 64, 4)

	img := g.Generate(testPalette(2), StyleExpand, source)

	srcSharp := maxNeighborDiff(source)
	outSharp := maxNeighborDiff(img)
	if outSharp >= srcSharp {
		t.Errorf("expand output sharpness %d not below source %d", outSharp, srcSharp)
	}
	// Two blur passes at canvas/8 must leave no hard edges at all.
	if outSharp > 64 {
		t.Errorf("expand output still has near-sharp edges: max diff %d", outSharp)
	}
}

func TestExpandWithoutSourceFallsBack(t *testing.T) {
	g := New(50, 40)
	img := g.Generate(testPalette(4), StyleExpand, nil)
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 40 {
		t.Errorf("got %v, want 50x40", img.Bounds())
	}
}

func TestFlowingSingleColorKeepsSolidBase(t *testing.T) {
	const w, h = 80, 64
	g := New(w, h)
	c := palette.RGB{R: 200, G: 30, B: 30}

	img := g.Generate([]palette.RGB{c}, StyleFlowing, nil)

	// Base and shape layers all carry the single color, so nothing may
	// drift toward white anywhere on the canvas.
	const tol = 4
	for _, pt := range [][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}, {w / 2, h / 2}} {
		i := img.PixOffset(pt[0], pt[1])
		for ch, want := range []uint8{c.R, c.G, c.B} {
			d := int(img.Pix[i+ch]) - int(want)
			if d < 0 {
				d = -d
			}
			if d > tol {
				t.Errorf("(%d,%d) channel %d: got %d, want %d±%d",
					pt[0], pt[1], ch, img.Pix[i+ch], want, tol)
			}
		}
	}
}

func TestSoftGlowStaysSubtle(t *testing.T) {
	const w, h = 80, 64
	g := New(w, h)
	colors := []palette.RGB{{R: 255, G: 255, B: 255}, {R: 0, G: 0, B: 255}}

	img := g.Generate(colors, StyleSoft, nil)

	base := palette.Lighten(colors[0], 0.9)
	// Peak glow alpha is 25, so even at the bottom-right anchor the shift
	// away from the base stays small.
	i := img.PixOffset(w-1, h-1)
	for ch, want := range []uint8{base.R, base.G, base.B} {
		d := int(img.Pix[i+ch]) - int(want)
		if d < 0 {
			d = -d
		}
		if d > 12 {
			t.Errorf("corner channel %d shifted by %d from base %d, want <=12", ch, d, want)
		}
	}
}

func TestFlowingDeterministicPerCall(t *testing.T) {
	g := New(60, 60)
	colors := testPalette(3)

	a := g.Generate(colors, StyleFlowing, nil)
	b := g.Generate(colors, StyleFlowing, nil)

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatal("flowing style not reproducible across calls with same inputs")
		}
	}
}
