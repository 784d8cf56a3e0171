package background

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/frameshot/mockup-renderer/internal/palette"
)

// gradient renders a two-color diagonal linear gradient.
func (g *Generator) gradient(colors []palette.RGB) *image.NRGBA {
	c1 := colors[0]
	c2 := palette.RGB{R: 255, G: 255, B: 255}
	if len(colors) >= 2 {
		c2 = colors[1]
	}

	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	fw, fh := float64(g.width), float64(g.height)

	for y := 0; y < g.height; y++ {
		fy := float64(y) / fh
		row := img.Pix[y*img.Stride:]
		for x := 0; x < g.width; x++ {
			factor := (float64(x)/fw + fy) / 2
			c := palette.Blend(c1, c2, factor)
			i := x * 4
			row[i] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = 255
		}
	}
	return img
}

// meshPoint is a color anchor for inverse-distance blending.
type meshPoint struct {
	x, y float64
	c    palette.RGB
}

// mesh renders a smooth multi-point gradient: four corner anchors plus a
// lightened center, blended per pixel by inverse-distance weighting.
func (g *Generator) mesh(colors []palette.RGB) *image.NRGBA {
	for len(colors) < 4 {
		colors = append(colors, palette.Lighten(colors[0], 0.3))
	}

	fw, fh := float64(g.width), float64(g.height)
	points := []meshPoint{
		{0, 0, colors[0]},
		{fw, 0, colors[1]},
		{0, fh, colors[2]},
		{fw, fh, colors[3]},
		{fw / 2, fh / 2, palette.Lighten(colors[0], 0.4)},
	}

	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < g.width; x++ {
			var r, gc, b, total float64
			for _, p := range points {
				dx := float64(x) - p.x
				dy := float64(y) - p.y
				dist := math.Sqrt(dx*dx+dy*dy) + 1
				w := 1 / math.Pow(dist, 1.5)
				total += w
				r += float64(p.c.R) * w
				gc += float64(p.c.G) * w
				b += float64(p.c.B) * w
			}
			i := x * 4
			row[i] = uint8(r / total)
			row[i+1] = uint8(gc / total)
			row[i+2] = uint8(b / total)
			row[i+3] = 255
		}
	}

	return imaging.Blur(img, 2)
}

// sunsetStops is the fixed warm gradient: orange, pink, purple, deep purple.
var sunsetStops = []palette.RGB{
	{R: 255, G: 150, B: 100},
	{R: 255, G: 120, B: 150},
	{R: 180, G: 100, B: 200},
	{R: 100, G: 80, B: 160},
}

// sunset renders a fixed warm 4-stop vertical gradient, with the first stop
// pulled 30% toward the extracted dominant color.
func (g *Generator) sunset(colors []palette.RGB) *image.NRGBA {
	stops := make([]palette.RGB, len(sunsetStops))
	copy(stops, sunsetStops)
	stops[0] = palette.Blend(stops[0], colors[0], 0.3)

	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		c := fourStop(stops, float64(y)/float64(g.height))
		row := img.Pix[y*img.Stride:]
		for x := 0; x < g.width; x++ {
			i := x * 4
			row[i] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = 255
		}
	}
	return imaging.Blur(img, 2)
}

// oceanStops is the fixed cool gradient: sky blue down to deep ocean.
var oceanStops = []palette.RGB{
	{R: 200, G: 230, B: 245},
	{R: 100, G: 180, B: 220},
	{R: 60, G: 140, B: 180},
	{R: 40, G: 100, B: 140},
}

// ocean renders a cool 4-stop gradient along a 0.3*x + 0.7*y diagonal, with
// the second stop pulled 30% toward the extracted dominant color.
func (g *Generator) ocean(colors []palette.RGB) *image.NRGBA {
	stops := make([]palette.RGB, len(oceanStops))
	copy(stops, oceanStops)
	stops[1] = palette.Blend(stops[1], colors[0], 0.3)

	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	fw, fh := float64(g.width), float64(g.height)
	for y := 0; y < g.height; y++ {
		fy := float64(y) / fh * 0.7
		row := img.Pix[y*img.Stride:]
		for x := 0; x < g.width; x++ {
			c := fourStop(stops, float64(x)/fw*0.3+fy)
			i := x * 4
			row[i] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = 255
		}
	}
	return imaging.Blur(img, 2)
}

// fourStop interpolates a 4-stop gradient in thirds.
func fourStop(stops []palette.RGB, factor float64) palette.RGB {
	switch {
	case factor < 0.33:
		return palette.Blend(stops[0], stops[1], factor/0.33)
	case factor < 0.66:
		return palette.Blend(stops[1], stops[2], (factor-0.33)/0.33)
	default:
		t := (factor - 0.66) / 0.34
		if t > 1 {
			t = 1
		}
		return palette.Blend(stops[2], stops[3], t)
	}
}
