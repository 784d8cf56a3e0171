// Package background synthesizes full-canvas abstract backgrounds from a
// color palette. Each style is a pure function of (colors, canvas size),
// except StyleExpand which also consumes the source screenshot.
package background

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/frameshot/mockup-renderer/internal/palette"
)

// Style names a background rendering algorithm.
type Style string

const (
	StyleMesh     Style = "mesh"
	StyleGradient Style = "gradient"
	StyleAurora   Style = "aurora"
	StyleSoft     Style = "soft"
	StyleGlass    Style = "glass"
	StyleSunset   Style = "sunset"
	StyleOcean    Style = "ocean"
	StyleFlowing  Style = "flowing"
	StyleWaves    Style = "waves"
	StyleBlobs    Style = "blobs"
	StyleExpand   Style = "expand"
)

// Styles lists every recognized style name.
func Styles() []Style {
	return []Style{
		StyleMesh, StyleGradient, StyleAurora, StyleSoft, StyleGlass,
		StyleSunset, StyleOcean, StyleFlowing, StyleWaves, StyleBlobs,
		StyleExpand,
	}
}

// Known reports whether the style name is recognized.
func Known(s Style) bool {
	for _, known := range Styles() {
		if s == known {
			return true
		}
	}
	return false
}

// Generator renders backgrounds at a fixed canvas size.
type Generator struct {
	width  int
	height int
}

// New creates a generator for the given canvas size.
func New(width, height int) *Generator {
	return &Generator{width: width, height: height}
}

// Size returns the canvas dimensions.
func (g *Generator) Size() (int, int) {
	return g.width, g.height
}

// Generate renders a background in the given style. Styles are cosmetic:
// an unknown style falls back to mesh instead of failing. source is only
// consulted for StyleExpand. An empty palette is padded with white.
func (g *Generator) Generate(colors []palette.RGB, style Style, source image.Image) *image.NRGBA {
	if len(colors) == 0 {
		colors = []palette.RGB{{R: 255, G: 255, B: 255}}
	}

	switch style {
	case StyleExpand:
		if source != nil {
			return g.expand(source, colors)
		}
		return g.mesh(colors)
	case StyleGradient:
		return g.gradient(colors)
	case StyleAurora:
		return g.aurora(colors)
	case StyleSoft:
		return g.soft(colors)
	case StyleGlass:
		return g.glass(colors)
	case StyleSunset:
		return g.sunset(colors)
	case StyleOcean:
		return g.ocean(colors)
	case StyleFlowing:
		return g.flowing(colors)
	case StyleWaves:
		return g.waves(colors)
	case StyleBlobs:
		return g.blobs(colors)
	default:
		return g.mesh(colors)
	}
}

// solid returns a canvas-sized image filled with an opaque color.
func (g *Generator) solid(c palette.RGB) *image.NRGBA {
	return imaging.New(g.width, g.height, c.NRGBA())
}

// transparent returns a canvas-sized fully transparent layer.
func (g *Generator) transparent() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
}

// over alpha-composites layer onto base at the origin.
func over(base *image.NRGBA, layer image.Image) *image.NRGBA {
	return imaging.Overlay(base, layer, image.Pt(0, 0), 1.0)
}

// tint composites a uniform translucent color over the whole canvas.
func (g *Generator) tintOver(base *image.NRGBA, c palette.RGB, alpha uint8) *image.NRGBA {
	layer := imaging.New(g.width, g.height, color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha})
	return over(base, layer)
}
