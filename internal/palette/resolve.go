package palette

import (
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Resolve picks a palette from the first non-empty source, in priority order:
//
//  1. colorArg: a preset name or comma-separated hex list
//  2. projectPath: colors extracted from the project's app icon
//  3. screenshot: complementary colors extracted from the screenshot
//  4. the default preset
//
// Extraction failures are expected (degenerate or missing images) and fall
// through to the next source rather than surfacing to the caller.
func Resolve(colorArg, projectPath string, screenshot image.Image) []RGB {
	if colorArg != "" {
		if colors, err := ParseColorString(colorArg); err == nil && len(colors) > 0 {
			return colors
		}
	}

	if projectPath != "" {
		if colors := FromAppIcon(projectPath); len(colors) > 0 {
			return colors
		}
	}

	if screenshot != nil {
		if colors, err := NewExtractor(screenshot).Complementary(); err == nil && len(colors) > 0 {
			return colors
		}
	}

	out := make([]RGB, len(Presets[DefaultPreset]))
	copy(out, Presets[DefaultPreset])
	return out
}

// FromAppIcon extracts a palette from the largest app icon found under the
// given project directory. Returns nil when no usable icon exists.
func FromAppIcon(projectPath string) []RGB {
	iconPath := findAppIcon(projectPath)
	if iconPath == "" {
		return nil
	}

	img, err := imaging.Open(iconPath)
	if err != nil {
		return nil
	}
	colors, err := NewExtractor(img).Palette(4)
	if err != nil {
		return nil
	}
	return colors
}

// findAppIcon scans for app icon PNGs, preferring the largest by pixel area.
func findAppIcon(projectPath string) string {
	var best string
	var bestArea int

	filepath.WalkDir(projectPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".png") {
			return nil
		}
		lower := strings.ToLower(name)
		inIconSet := strings.Contains(path, "AppIcon.appiconset") ||
			strings.Contains(path, "AppIcon.imageset")
		if !inIconSet && !strings.HasPrefix(lower, "appicon") && !strings.HasPrefix(lower, "icon") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			return nil
		}
		if area := cfg.Width * cfg.Height; area > bestArea {
			bestArea = area
			best = path
		}
		return nil
	})

	return best
}
