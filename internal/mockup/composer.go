// Package mockup composes marketing imagery: a palette-driven background,
// one or more framed screenshots with drop shadows, placed on a
// platform-sized canvas.
package mockup

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/frameshot/mockup-renderer/internal/background"
	"github.com/frameshot/mockup-renderer/internal/device"
	"github.com/frameshot/mockup-renderer/internal/palette"
)

// Options controls a single mockup composition.
type Options struct {
	Style       background.Style
	Colors      string // palette override: preset name or comma-separated hex
	ProjectPath string // optional project directory for app-icon palette lookup
	Device      string // device ID; empty uses the catalog default
	Platform    string // platform preset ID; empty resolves per Width/Height
	Width       int    // custom canvas, honored only without a platform
	Height      int
	Scale       float64 // device height as a fraction of canvas height; 0 uses the preset's
	Angle       float64 // rotation in degrees, counter-clockwise
	PosX        float64 // paste position fractions; (0.5, 0.5) centers
	PosY        float64
}

// DefaultOptions returns the options used when a request specifies nothing.
func DefaultOptions() Options {
	return Options{
		Style: background.StyleFlowing,
		PosX:  0.5,
		PosY:  0.5,
	}
}

// Mockup is a rendered canvas plus provenance.
type Mockup struct {
	Image   *image.NRGBA
	Style   background.Style
	Palette []palette.RGB
	Device  string
	Width   int
	Height  int
}

// Composer orchestrates palette resolution, background rendering and
// device framing. Safe for concurrent use; device frames are rendered
// once and shared.
type Composer struct {
	catalog       *device.Catalog
	framesDir     string
	defaultDevice string
	logger        *zap.Logger

	mu     sync.Mutex
	frames map[string]*device.Frame
}

// NewComposer creates a composer over the given device catalog. framesDir
// holds optional bezel assets; defaultDevice is used when a request names
// no device, empty falls through to the catalog default.
func NewComposer(catalog *device.Catalog, framesDir, defaultDevice string, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		catalog:       catalog,
		framesDir:     framesDir,
		defaultDevice: defaultDevice,
		logger:        logger,
		frames:        make(map[string]*device.Frame),
	}
}

// frameFor returns the shared frame renderer for a device ID, falling back
// to the configured default and then the catalog default.
func (c *Composer) frameFor(deviceID string) *device.Frame {
	if deviceID == "" {
		deviceID = c.defaultDevice
	}
	spec, _ := c.catalog.Get(deviceID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.frames[spec.ID]; ok {
		return f
	}
	f := device.NewFrame(spec, c.framesDir, c.logger)
	c.frames[spec.ID] = f
	return f
}

// resolveCanvas picks the canvas size and base device scale: platform
// preset when named, explicit custom size otherwise, default platform
// when neither is given. An explicit Options.Scale overrides the preset.
func resolveCanvas(opts Options) (w, h int, scale float64, err error) {
	switch {
	case opts.Platform != "":
		p, ok := PresetFor(opts.Platform)
		if !ok {
			return 0, 0, 0, fmt.Errorf("unknown platform: %s", opts.Platform)
		}
		w, h, scale = p.Width, p.Height, p.DeviceScale
	case opts.Width > 0 && opts.Height > 0:
		w, h, scale = opts.Width, opts.Height, customDeviceScale
	default:
		p, _ := PresetFor(DefaultPlatform)
		w, h, scale = p.Width, p.Height, p.DeviceScale
	}
	if opts.Scale > 0 {
		scale = opts.Scale
	}
	return w, h, scale, nil
}

// CreateMockup renders one screenshot into a framed device on a styled
// background. The palette comes from the options override when present,
// otherwise from the screenshot itself.
func (c *Composer) CreateMockup(screenshot image.Image, opts Options) (*Mockup, error) {
	if screenshot == nil {
		return nil, fmt.Errorf("screenshot is required")
	}

	w, h, scale, err := resolveCanvas(opts)
	if err != nil {
		return nil, err
	}

	colors := palette.Resolve(opts.Colors, opts.ProjectPath, screenshot)

	canvas := background.New(w, h).Generate(colors, opts.Style, screenshot)

	frame := c.frameFor(opts.Device)
	framed, err := frame.CompositeScreenshot(screenshot, &device.DefaultShadow)
	if err != nil {
		return nil, err
	}

	canvas = placeDevice(canvas, framed, scale, opts.Angle, opts.PosX, opts.PosY)

	c.logger.Debug("Composed mockup",
		zap.String("style", string(opts.Style)),
		zap.String("device", frame.Spec().ID),
		zap.Int("width", w),
		zap.Int("height", h))

	return &Mockup{
		Image:   canvas,
		Style:   opts.Style,
		Palette: colors,
		Device:  frame.Spec().ID,
		Width:   w,
		Height:  h,
	}, nil
}

// CreateMultiDeviceMockup places several framed screenshots on one square
// canvas using a named layout. The palette is derived from the first
// screenshot only; later screenshots contribute no color.
func (c *Composer) CreateMultiDeviceMockup(screenshots []image.Image, style background.Style, layout Layout, deviceID string) (*Mockup, error) {
	if len(screenshots) == 0 {
		return nil, fmt.Errorf("at least one screenshot is required")
	}
	if len(screenshots) > maxMultiDevices {
		screenshots = screenshots[:maxMultiDevices]
	}

	const w, h = multiCanvasSize, multiCanvasSize

	colors := palette.Resolve("", "", screenshots[0])
	// No expand source here: multi-device canvases never embed a blurred
	// screenshot, so that style renders its mesh fallback instead.
	canvas := background.New(w, h).Generate(colors, style, nil)

	frame := c.frameFor(deviceID)
	slots := placements(layout, len(screenshots))

	for i, shot := range screenshots {
		framed, err := frame.CompositeScreenshot(shot, &device.MultiShadow)
		if err != nil {
			return nil, fmt.Errorf("screenshot %d: %w", i, err)
		}
		p := slots[i]
		canvas = placeDevice(canvas, framed, p.Scale, p.Angle, p.PosX, p.PosY)
	}

	c.logger.Debug("Composed multi-device mockup",
		zap.String("style", string(style)),
		zap.String("layout", string(layout)),
		zap.Int("devices", len(screenshots)))

	return &Mockup{
		Image:   canvas,
		Style:   style,
		Palette: colors,
		Device:  frame.Spec().ID,
		Width:   w,
		Height:  h,
	}, nil
}

// placeDevice scales the framed device to scale×canvas height, rotates it
// with an expanded bounding box, and alpha-composites it at
// (canvas − device) × position fraction.
func placeDevice(canvas, framed *image.NRGBA, scale, angle, posX, posY float64) *image.NRGBA {
	cw := canvas.Bounds().Dx()
	ch := canvas.Bounds().Dy()

	targetH := int(float64(ch) * scale)
	if targetH < 1 {
		targetH = 1
	}
	scaled := imaging.Resize(framed, 0, targetH, imaging.Lanczos)

	if angle != 0 {
		scaled = imaging.Rotate(scaled, angle, color.NRGBA{})
	}

	x := int(float64(cw-scaled.Bounds().Dx()) * posX)
	y := int(float64(ch-scaled.Bounds().Dy()) * posY)
	return imaging.Overlay(canvas, scaled, image.Pt(x, y), 1.0)
}

// Encode writes the mockup in the named format. PNG keeps alpha; JPEG
// flattens onto white at the given quality (defaulted when out of range).
func (m *Mockup) Encode(w io.Writer, format string, quality int) error {
	switch strings.ToLower(format) {
	case "", "png":
		return png.Encode(w, m.Image)
	case "jpg", "jpeg":
		flat := imaging.New(m.Width, m.Height, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		flat = imaging.Overlay(flat, m.Image, image.Pt(0, 0), 1.0)
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		return jpeg.Encode(w, flat, &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Save writes the mockup to disk; the format follows the file extension.
func (m *Mockup) Save(path string) error {
	return imaging.Save(m.Image, path)
}
