// Package device owns device frame geometry and rendering: bezel images or
// procedural frames, screenshot compositing with corner masking, and drop
// shadows.
package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RGBA is the procedural frame fill color.
type RGBA struct {
	R uint8 `yaml:"r" json:"r"`
	G uint8 `yaml:"g" json:"g"`
	B uint8 `yaml:"b" json:"b"`
	A uint8 `yaml:"a" json:"a"`
}

// Spec describes one device frame: its optional bezel asset, the screen
// rectangle within it, and procedural-rendering parameters. Specs are
// immutable after catalog load and shared across all mockups using the
// device; the screen offset actually used by a render is part of the
// render result, never written back here.
type Spec struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	FrameAsset   string `yaml:"frameAsset" json:"frameAsset"`
	ScreenWidth  int    `yaml:"screenWidth" json:"screenWidth"`
	ScreenHeight int    `yaml:"screenHeight" json:"screenHeight"`
	ScreenX      int    `yaml:"screenX" json:"screenX"`
	ScreenY      int    `yaml:"screenY" json:"screenY"`
	CornerRadius int    `yaml:"cornerRadius" json:"cornerRadius"`
	FrameColor   RGBA   `yaml:"frameColor" json:"frameColor"`
}

// DefaultDevice is used when an unknown device name is requested.
const DefaultDevice = "iphone_17_pro_max"

// builtinSpecs is the compiled-in device catalog. Screen coordinates for
// the 15/16 Pro Max match their 938x1926 bezel assets.
var builtinSpecs = map[string]Spec{
	"iphone_15_pro_max": {
		ID:           "iphone_15_pro_max",
		Name:         "iPhone 15 Pro Max",
		FrameAsset:   "iphone_15_pro_max.png",
		ScreenWidth:  862,
		ScreenHeight: 1868,
		ScreenX:      38,
		ScreenY:      29,
		CornerRadius: 100,
		FrameColor:   RGBA{R: 30, G: 30, B: 35, A: 255},
	},
	"iphone_16_pro_max": {
		ID:           "iphone_16_pro_max",
		Name:         "iPhone 16 Pro Max",
		FrameAsset:   "iphone_16_pro_max.png",
		ScreenWidth:  862,
		ScreenHeight: 1868,
		ScreenX:      38,
		ScreenY:      29,
		CornerRadius: 100,
		FrameColor:   RGBA{R: 20, G: 20, B: 25, A: 255},
	},
	"iphone_17_pro_max": {
		ID:           "iphone_17_pro_max",
		Name:         "iPhone 17 Pro Max",
		FrameAsset:   "iphone_17_pro_max.png",
		ScreenWidth:  1320,
		ScreenHeight: 2868,
		ScreenX:      48,
		ScreenY:      48,
		CornerRadius: 140,
		FrameColor:   RGBA{R: 30, G: 30, B: 35, A: 255},
	},
}

// Catalog is a read-only device spec table keyed by device ID.
type Catalog struct {
	specs map[string]Spec
}

// NewCatalog creates a catalog with the built-in device specs.
func NewCatalog() *Catalog {
	specs := make(map[string]Spec, len(builtinSpecs))
	for id, spec := range builtinSpecs {
		specs[id] = spec
	}
	return &Catalog{specs: specs}
}

// LoadDir merges device spec YAML files from a directory into the catalog.
// Files override built-in entries with the same ID. Unreadable files are
// skipped; a missing directory is not an error.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read device catalog directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		spec, err := LoadSpec(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		c.specs[spec.ID] = *spec
	}
	return nil
}

// LoadSpec loads a single device spec YAML file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device spec: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse device spec: %w", err)
	}
	if spec.ID == "" {
		return nil, fmt.Errorf("device spec %s has no id", path)
	}
	if spec.ScreenWidth <= 0 || spec.ScreenHeight <= 0 {
		return nil, fmt.Errorf("device spec %s has invalid screen size %dx%d",
			path, spec.ScreenWidth, spec.ScreenHeight)
	}
	return &spec, nil
}

// Get returns the spec for a device ID, falling back to the default device
// for unknown names. The second return reports whether the name matched.
func (c *Catalog) Get(id string) (Spec, bool) {
	if spec, ok := c.specs[id]; ok {
		return spec, true
	}
	return c.specs[DefaultDevice], false
}

// IDs returns all device IDs in the catalog.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.specs))
	for id := range c.specs {
		ids = append(ids, id)
	}
	return ids
}

// List returns all specs in the catalog.
func (c *Catalog) List() []Spec {
	specs := make([]Spec, 0, len(c.specs))
	for _, spec := range c.specs {
		specs = append(specs, spec)
	}
	return specs
}
