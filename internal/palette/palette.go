package palette

import (
	"fmt"
	"image/color"
	"strings"
)

// RGB is a single palette entry. Alpha is implied opaque; backgrounds and
// frames own their own alpha.
type RGB struct {
	R, G, B uint8
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns the color as a #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromColor converts any color.Color to an RGB palette entry.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// Lighten mixes a color toward white. factor 0 leaves it unchanged,
// factor 1 is pure white.
func Lighten(c RGB, factor float64) RGB {
	return RGB{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
	}
}

// Blend interpolates between two colors. factor 0 returns a, factor 1 returns b.
func Blend(a, b RGB, factor float64) RGB {
	return RGB{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*factor),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*factor),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*factor),
	}
}

// Presets maps palette names to curated four-color palettes.
var Presets = map[string][]RGB{
	"vibrant": {
		{255, 87, 51},
		{255, 189, 51},
		{51, 255, 87},
		{51, 189, 255},
	},
	"pastel": {
		{255, 209, 220},
		{255, 230, 179},
		{179, 230, 255},
		{198, 255, 179},
	},
	"dark": {
		{30, 30, 40},
		{50, 50, 70},
		{80, 60, 90},
		{40, 60, 80},
	},
	"warm": {
		{255, 140, 100},
		{255, 180, 100},
		{255, 120, 80},
		{255, 200, 150},
	},
	"cool": {
		{100, 180, 255},
		{150, 200, 255},
		{100, 220, 200},
		{180, 220, 255},
	},
	"sunset": {
		{255, 150, 100},
		{255, 120, 150},
		{180, 100, 200},
		{100, 80, 160},
	},
	"ocean": {
		{200, 230, 245},
		{100, 180, 220},
		{60, 140, 180},
		{40, 100, 140},
	},
	"forest": {
		{180, 210, 180},
		{120, 180, 120},
		{80, 140, 100},
		{60, 100, 80},
	},
	"berry": {
		{255, 180, 200},
		{220, 100, 150},
		{180, 80, 130},
		{120, 60, 100},
	},
	"monochrome": {
		{240, 240, 245},
		{200, 200, 210},
		{150, 150, 160},
		{100, 100, 110},
	},
}

// DefaultPreset is the final fallback when no color source resolves.
const DefaultPreset = "vibrant"

// AvailablePresets returns the preset palette names.
func AvailablePresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

// ParseHexColor parses a 3- or 6-digit hex color, with or without a
// leading '#'. Three-digit colors double each digit per channel.
func ParseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color: %q", s)
	}

	var c RGB
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, fmt.Errorf("invalid hex color: %q", s)
	}
	return c, nil
}

// ParseColorString parses a color argument: either a preset palette name or
// a comma-separated list of hex colors. An empty or unparseable list falls
// back to the default preset.
func ParseColorString(s string) ([]RGB, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if preset, ok := Presets[s]; ok {
		out := make([]RGB, len(preset))
		copy(out, preset)
		return out, nil
	}

	var colors []RGB
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := ParseHexColor(part)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}

	if len(colors) == 0 {
		out := make([]RGB, len(Presets[DefaultPreset]))
		copy(out, Presets[DefaultPreset])
		return out, nil
	}
	return colors, nil
}
