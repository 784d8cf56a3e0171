package background

import (
	"image"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/frameshot/mockup-renderer/internal/palette"
)

// layerSeed derives the deterministic per-layer seed. Seeding is explicit
// per layer, never global state, so layers render reproducibly within a
// call and can be generated independently.
func layerSeed(layer int) int64 {
	return int64(layer) * 42
}

// flowing renders a diagonal gradient base overlaid with layers of blurred
// organic shapes, one layer per palette color (up to four), with opacity
// increasing per layer.
func (g *Generator) flowing(colors []palette.RGB) *image.NRGBA {
	base := colors
	if len(base) == 1 {
		// A one-color palette keeps a solid base rather than fading to white.
		base = []palette.RGB{base[0], base[0]}
	}
	img := g.gradient(base)

	n := len(colors)
	if n > 4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		layer := g.flowingShape(colors[i], uint8(60+i*20), layerSeed(i), 0.8-float64(i)*0.15)
		img = over(img, layer)
	}

	return imaging.Blur(img, 3)
}

// flowingShape draws one organic blob layer: 8-15 overlapping ellipses
// scattered around a random center, blended together by a heavy blur.
func (g *Generator) flowingShape(c palette.RGB, alpha uint8, seed int64, scale float64) image.Image {
	rng := rand.New(rand.NewSource(seed))

	dc := gg.NewContext(g.width, g.height)
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(alpha))

	fw, fh := float64(g.width), float64(g.height)
	centerX := fw * (0.3 + rng.Float64()*0.4)
	centerY := fh * (0.3 + rng.Float64()*0.4)

	numEllipses := 8 + rng.Intn(8)
	for i := 0; i < numEllipses; i++ {
		x := centerX + (rng.Float64()-0.5)*fw*0.5*scale
		y := centerY + (rng.Float64()-0.5)*fh*0.5*scale
		w := float64(randRange(rng, int(200*scale), int(600*scale)))
		h := float64(randRange(rng, int(300*scale), int(800*scale)))
		dc.DrawEllipse(x, y, w, h)
		dc.Fill()
	}

	return imaging.Blur(imaging.Clone(dc.Image()), 80)
}

// waves renders up to three sine-wave-boundary polygons over a white base,
// each with its own frequency, amplitude and phase.
func (g *Generator) waves(colors []palette.RGB) *image.NRGBA {
	img := g.solid(palette.RGB{R: 255, G: 255, B: 255})

	n := len(colors)
	if n > 3 {
		n = 3
	}
	for i := 0; i < n; i++ {
		layer := g.waveLayer(colors[i], 80,
			0.005+float64(i)*0.002,
			200+float64(i)*50,
			float64(i)*math.Pi/3)
		img = over(img, layer)
	}

	return imaging.Blur(img, 5)
}

// waveLayer fills the area below one sine curve across the canvas.
func (g *Generator) waveLayer(c palette.RGB, alpha uint8, frequency, amplitude, phase float64) image.Image {
	dc := gg.NewContext(g.width, g.height)
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(alpha))

	mid := float64(g.height) / 2
	dc.MoveTo(0, mid+math.Sin(phase)*amplitude)
	for x := 10; x <= g.width+10; x += 10 {
		fx := float64(x)
		dc.LineTo(fx, mid+math.Sin(fx*frequency+phase)*amplitude)
	}
	dc.LineTo(float64(g.width), float64(g.height))
	dc.LineTo(0, float64(g.height))
	dc.ClosePath()
	dc.Fill()

	return imaging.Blur(imaging.Clone(dc.Image()), 30)
}

// blobs renders soft blurred circles over a lightened base, one per palette
// color (up to five), with opacity increasing per layer.
func (g *Generator) blobs(colors []palette.RGB) *image.NRGBA {
	img := g.solid(palette.Lighten(colors[0], 0.8))

	n := len(colors)
	if n > 5 {
		n = 5
	}
	for i := 0; i < n; i++ {
		rng := rand.New(rand.NewSource(layerSeed(i) + 7))
		layer := g.blob(colors[i], uint8(40+i*15),
			rng.Intn(g.width+1), rng.Intn(g.height+1),
			randRange(rng, 400, 1000))
		img = over(img, layer)
	}
	return img
}

// blob draws a single circle softened by a size-proportional blur.
func (g *Generator) blob(c palette.RGB, alpha uint8, x, y, size int) image.Image {
	dc := gg.NewContext(g.width, g.height)
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(alpha))
	dc.DrawEllipse(float64(x), float64(y), float64(size), float64(size))
	dc.Fill()
	return imaging.Blur(imaging.Clone(dc.Image()), float64(size)/3)
}

// aurora renders three soft vertical color bands over a lightened base.
// Each band is a Gaussian-falloff column field around a jittered center,
// heavily blurred.
func (g *Generator) aurora(colors []palette.RGB) *image.NRGBA {
	img := g.solid(palette.Lighten(colors[0], 0.85))

	const numBands = 3
	bandWidth := float64(g.width) / numBands
	sigma := bandWidth * 0.4

	n := len(colors)
	if n > numBands {
		n = numBands
	}
	for i := 0; i < n; i++ {
		rng := rand.New(rand.NewSource(layerSeed(i) + 3))
		centerX := bandWidth*(float64(i)+0.5) + (rng.Float64()-0.5)*bandWidth*0.3
		img = over(img, g.auroraBand(colors[i], centerX, sigma))
	}
	return img
}

// auroraBand fills each column with Gaussian-falloff alpha around centerX.
func (g *Generator) auroraBand(c palette.RGB, centerX, sigma float64) image.Image {
	layer := g.transparent()

	for x := 0; x < g.width; x++ {
		dist := float64(x) - centerX
		alpha := uint8(60 * math.Exp(-(dist*dist)/(2*sigma*sigma)))
		if alpha == 0 {
			continue
		}
		for y := 0; y < g.height; y++ {
			i := y*layer.Stride + x*4
			layer.Pix[i] = c.R
			layer.Pix[i+1] = c.G
			layer.Pix[i+2] = c.B
			layer.Pix[i+3] = alpha
		}
	}

	return imaging.Blur(layer, 50)
}

// soft renders a near-white base with a single subtle radial glow anchored
// at the bottom-right corner, tinted by the second palette color.
func (g *Generator) soft(colors []palette.RGB) *image.NRGBA {
	img := g.solid(palette.Lighten(colors[0], 0.9))
	if len(colors) < 2 {
		return img
	}

	accent := palette.Lighten(colors[1], 0.7)
	glow := g.transparent()
	radius := float64(g.width) * 1.2

	for y := 0; y < g.height; y++ {
		dy := float64(g.height - y)
		row := glow.Pix[y*glow.Stride:]
		for x := 0; x < g.width; x++ {
			dx := float64(g.width - x)
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= radius {
				continue
			}
			i := x * 4
			row[i] = accent.R
			row[i+1] = accent.G
			row[i+2] = accent.B
			row[i+3] = uint8(25 * (1 - d/radius))
		}
	}

	return over(img, glow)
}

// glass renders a frosted-glass texture: a light base with per-pixel noise
// plus a few large, heavily blurred color blobs.
func (g *Generator) glass(colors []palette.RGB) *image.NRGBA {
	base := palette.Lighten(colors[0], 0.7)

	noise := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	rng := rand.New(rand.NewSource(layerSeed(1)))
	for y := 0; y < g.height; y++ {
		row := noise.Pix[y*noise.Stride:]
		for x := 0; x < g.width; x++ {
			v := rng.Intn(17) - 8
			i := x * 4
			row[i] = clampChan(int(base.R) + v)
			row[i+1] = clampChan(int(base.G) + v)
			row[i+2] = clampChan(int(base.B) + v)
			row[i+3] = 255
		}
	}
	img := imaging.Blur(noise, 3)

	if len(colors) < 2 {
		return img
	}

	dc := gg.NewContext(g.width, g.height)
	n := len(colors)
	if n > 3 {
		n = 3
	}
	for i := 0; i < n; i++ {
		blobRng := rand.New(rand.NewSource(layerSeed(i) + 11))
		c := colors[i]
		size := float64(randRange(blobRng, 600, 1200))
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 20)
		dc.DrawEllipse(
			float64(blobRng.Intn(g.width+1)),
			float64(blobRng.Intn(g.height+1)),
			size, size)
		dc.Fill()
	}
	overlay := imaging.Blur(imaging.Clone(dc.Image()), 200)

	return over(img, overlay)
}

// randRange returns a random int in [lo, hi].
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func clampChan(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
