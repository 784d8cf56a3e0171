package palette

import (
	"fmt"
	"image"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// maxSampleDim bounds the bitmap analyzed for color extraction. Quantizing
// the full-resolution screenshot buys nothing visually and costs seconds.
const maxSampleDim = 96

// Extractor quantizes an image into palette colors. Dominant color and
// palette results are cached per instance.
type Extractor struct {
	img      image.Image
	dominant *RGB
	palette  []RGB
}

// NewExtractor creates an extractor for the given image.
func NewExtractor(img image.Image) *Extractor {
	return &Extractor{img: img}
}

// Dominant returns the single most dominant color in the image.
func (e *Extractor) Dominant() (RGB, error) {
	if e.dominant != nil {
		return *e.dominant, nil
	}
	if e.img == nil {
		return RGB{}, fmt.Errorf("no image to extract colors from")
	}

	c := dominantcolor.Find(e.sample())
	rgb := RGB{R: c.R, G: c.G, B: c.B}
	e.dominant = &rgb
	return rgb, nil
}

// Palette returns up to n quantized colors, most dominant first. A cached
// palette with at least n entries is truncated and returned without
// recomputation.
func (e *Extractor) Palette(n int) ([]RGB, error) {
	if n <= 0 {
		return nil, fmt.Errorf("palette size must be positive, got %d", n)
	}
	if len(e.palette) >= n {
		return e.palette[:n], nil
	}
	if e.img == nil {
		return nil, fmt.Errorf("no image to extract colors from")
	}

	dataset := e.observations()
	if len(dataset) == 0 {
		return nil, fmt.Errorf("image has no opaque pixels")
	}

	k := n
	if k > len(dataset) {
		k = len(dataset)
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("color quantization failed: %w", err)
	}
	if len(cc) == 0 {
		return nil, fmt.Errorf("color quantization produced no clusters")
	}

	// Most populated clusters first so index 0 is the dominant entry.
	sort.Slice(cc, func(i, j int) bool {
		return len(cc[i].Observations) > len(cc[j].Observations)
	})

	out := make([]RGB, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		out = append(out, RGB{
			R: uint8(clamp01(c.Center[0]) * 255),
			G: uint8(clamp01(c.Center[1]) * 255),
			B: uint8(clamp01(c.Center[2]) * 255),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("color quantization produced no colors")
	}

	e.palette = out
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Complementary derives background-safe tones from the extracted palette:
// desaturated and brightened versions of the first four palette colors.
func (e *Extractor) Complementary() ([]RGB, error) {
	pal, err := e.Palette(4)
	if err != nil {
		return nil, err
	}

	out := make([]RGB, 0, len(pal))
	for _, c := range pal {
		col := colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}
		h, s, v := col.Hsv()

		s = s * 0.4
		if s < 0.1 {
			s = 0.1
		}
		v = v*1.3 + 0.2
		if v > 1.0 {
			v = 1.0
		}

		soft := colorful.Hsv(h, s, v).Clamped()
		r8, g8, b8 := soft.RGB255()
		out = append(out, RGB{R: r8, G: g8, B: b8})
	}
	return out, nil
}

// GradientColors returns two lightened colors for a simple two-stop
// gradient background.
func (e *Extractor) GradientColors() (RGB, RGB, error) {
	pal, err := e.Palette(3)
	if err != nil || len(pal) < 2 {
		dom, derr := e.Dominant()
		if derr != nil {
			if err == nil {
				err = derr
			}
			return RGB{}, RGB{}, err
		}
		return Lighten(dom, 0.7), Lighten(dom, 0.9), nil
	}
	return Lighten(pal[0], 0.6), Lighten(pal[1], 0.8), nil
}

// sample returns a reduced-resolution copy of the image for analysis.
func (e *Extractor) sample() image.Image {
	b := e.img.Bounds()
	if b.Dx() <= maxSampleDim && b.Dy() <= maxSampleDim {
		return e.img
	}
	return imaging.Fit(e.img, maxSampleDim, maxSampleDim, imaging.Box)
}

// observations converts the sampled bitmap into kmeans observations,
// skipping fully transparent pixels.
func (e *Extractor) observations() clusters.Observations {
	img := e.sample()
	b := img.Bounds()

	dataset := make(clusters.Observations, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(bb) / 65535.0,
			})
		}
	}
	return dataset
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
