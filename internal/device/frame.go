package device

import (
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// Procedural frame proportions.
const (
	bezelMargin     = 24 // bezel around the screen
	buttonAllowance = 12 // extra left-edge space for side buttons
)

// RenderResult is a rendered device frame plus the screen rectangle
// actually used, which may differ from the catalog offset when the frame
// is drawn procedurally. Callers place screenshots at ScreenOffset; the
// catalog spec is never mutated.
type RenderResult struct {
	Image        *image.NRGBA
	ScreenOffset image.Point
	ScreenSize   image.Point
	FromAsset    bool
}

// Frame renders one device's bezel and composites screenshots into it.
// The rendered frame is cached for the Frame's lifetime and is safe for
// concurrent use.
type Frame struct {
	spec      Spec
	assetsDir string
	logger    *zap.Logger

	mu     sync.Mutex
	cached *RenderResult
}

// NewFrame creates a frame renderer for the given spec. assetsDir holds
// optional bezel PNGs keyed by the spec's FrameAsset name.
func NewFrame(spec Spec, assetsDir string, logger *zap.Logger) *Frame {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Frame{spec: spec, assetsDir: assetsDir, logger: logger}
}

// Spec returns the device spec this frame renders.
func (f *Frame) Spec() Spec {
	return f.spec
}

// Render returns the device frame, loading a bundled bezel image when one
// exists and drawing a procedural frame otherwise. The result is computed
// once; subsequent calls return a copy of the cached image.
func (f *Frame) Render() *RenderResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != nil {
		return f.copyOfCached()
	}

	if f.spec.FrameAsset != "" && f.assetsDir != "" {
		assetPath := filepath.Join(f.assetsDir, f.spec.FrameAsset)
		if img, err := imaging.Open(assetPath); err == nil {
			f.logger.Debug("Loaded device frame asset",
				zap.String("device", f.spec.ID),
				zap.String("path", assetPath))
			f.cached = &RenderResult{
				Image:        imaging.Clone(img),
				ScreenOffset: image.Pt(f.spec.ScreenX, f.spec.ScreenY),
				ScreenSize:   image.Pt(f.spec.ScreenWidth, f.spec.ScreenHeight),
				FromAsset:    true,
			}
			return f.copyOfCached()
		} else if !os.IsNotExist(err) {
			f.logger.Debug("Device frame asset unreadable, using procedural frame",
				zap.String("device", f.spec.ID),
				zap.Error(err))
		}
	}

	f.logger.Debug("Rendering procedural device frame", zap.String("device", f.spec.ID))
	f.cached = f.drawProcedural()
	return f.copyOfCached()
}

func (f *Frame) copyOfCached() *RenderResult {
	return &RenderResult{
		Image:        imaging.Clone(f.cached.Image),
		ScreenOffset: f.cached.ScreenOffset,
		ScreenSize:   f.cached.ScreenSize,
		FromAsset:    f.cached.FromAsset,
	}
}

// drawProcedural draws a realistic phone frame: layered rounded rectangles
// for body, edge highlight, inner bezel and screen, a camera island, side
// buttons, and a top-edge reflection.
func (f *Frame) drawProcedural() *RenderResult {
	spec := f.spec
	screenW := float64(spec.ScreenWidth)
	screenH := float64(spec.ScreenHeight)

	frameW := spec.ScreenWidth + bezelMargin*2 + buttonAllowance
	frameH := spec.ScreenHeight + bezelMargin*2
	bodyLeft := float64(buttonAllowance)
	radius := float64(spec.CornerRadius)

	dc := gg.NewContext(frameW, frameH)

	baseR, baseG, baseB := int(spec.FrameColor.R), int(spec.FrameColor.G), int(spec.FrameColor.B)

	// Device body.
	dc.SetRGBA255(baseR, baseG, baseB, int(spec.FrameColor.A))
	dc.DrawRoundedRectangle(bodyLeft, 0, float64(frameW)-bodyLeft, float64(frameH), radius)
	dc.Fill()

	// Titanium edge highlight.
	dc.SetRGBA255(clampChan(baseR+40), clampChan(baseG+40), clampChan(baseB+40), 255)
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(bodyLeft+2, 2, float64(frameW)-bodyLeft-5, float64(frameH)-5, posF(radius-2))
	dc.Stroke()

	// Darker inner edge for depth.
	dc.SetRGBA255(clampChan(baseR-30), clampChan(baseG-30), clampChan(baseB-30), 255)
	dc.DrawRoundedRectangle(bodyLeft+bezelMargin-3, bezelMargin-3, screenW+5, screenH+5, posF(radius-15))
	dc.Fill()

	// Screen bezel, nearly black.
	dc.SetRGBA255(10, 10, 12, 255)
	dc.DrawRoundedRectangle(bodyLeft+bezelMargin-1, bezelMargin-1, screenW+1, screenH+1, posF(radius-16))
	dc.Fill()

	// Screen area.
	screenLeft := bodyLeft + bezelMargin
	screenTop := float64(bezelMargin)
	dc.SetRGBA255(0, 0, 0, 255)
	dc.DrawRoundedRectangle(screenLeft, screenTop, screenW, screenH, posF(radius-18))
	dc.Fill()

	// Dynamic island, proportional to screen width.
	islandW := screenW * 0.19
	islandH := islandW * 0.32
	islandX := screenLeft + (screenW-islandW)/2
	islandY := screenTop + screenH*0.012
	dc.DrawRoundedRectangle(islandX, islandY, islandW, islandH, islandH/2)
	dc.Fill()

	f.drawSideButtons(dc, float64(frameH))
	f.drawTopHighlight(dc, bodyLeft, float64(frameW), radius)

	return &RenderResult{
		Image:        imaging.Clone(dc.Image()),
		ScreenOffset: image.Pt(int(screenLeft), int(screenTop)),
		ScreenSize:   image.Pt(spec.ScreenWidth, spec.ScreenHeight),
	}
}

// drawSideButtons draws the action button and two volume bars on the left
// edge at fixed proportional offsets.
func (f *Frame) drawSideButtons(dc *gg.Context, frameH float64) {
	baseR, baseG, baseB := int(f.spec.FrameColor.R), int(f.spec.FrameColor.G), int(f.spec.FrameColor.B)

	// Action button.
	const actionSize = 28.0
	actionY := frameH * 0.15
	dc.SetRGBA255(clampChan(baseR-15), clampChan(baseG-15), clampChan(baseB-15), 255)
	dc.DrawCircle(actionSize/2, actionY+actionSize/2, actionSize/2)
	dc.Fill()
	dc.SetRGBA255(clampChan(baseR+20), clampChan(baseG+20), clampChan(baseB+20), 255)
	dc.SetLineWidth(1)
	dc.DrawCircle(actionSize/2, actionY+actionSize/2, actionSize/2)
	dc.Stroke()

	// Volume up and down bars.
	dc.SetRGBA255(clampChan(baseR-15), clampChan(baseG-15), clampChan(baseB-15), 255)
	volUpY := frameH * 0.22
	volH := frameH * 0.045
	dc.DrawRoundedRectangle(0, volUpY, 8, volH, 4)
	dc.Fill()
	dc.DrawRoundedRectangle(0, volUpY+volH+15, 8, volH, 4)
	dc.Fill()
}

// drawTopHighlight draws a thin fading highlight along the top edge for a
// metallic look.
func (f *Frame) drawTopHighlight(dc *gg.Context, bodyLeft, frameW, radius float64) {
	dc.SetLineWidth(1)
	for i := 0; i < 8; i++ {
		alpha := 25 - i*3
		if alpha <= 0 {
			break
		}
		dc.SetRGBA255(255, 255, 255, alpha)
		y := float64(i) + 0.5
		dc.DrawLine(bodyLeft+radius, y, frameW-radius, y)
		dc.Stroke()
	}
}

func clampChan(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// posF clamps a radius to non-negative so tiny custom devices cannot
// produce invalid rounded rectangles.
func posF(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
