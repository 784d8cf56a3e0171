// Package video builds device-framed video mockups. The core renders a
// static background and a bezel overlay with a transparent screen hole;
// temporal compositing is delegated entirely to ffmpeg.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"github.com/frameshot/mockup-renderer/internal/background"
	"github.com/frameshot/mockup-renderer/internal/config"
	"github.com/frameshot/mockup-renderer/internal/device"
	"github.com/frameshot/mockup-renderer/internal/mockup"
	"github.com/frameshot/mockup-renderer/internal/palette"
)

// Options controls a video composition. Geometry fields mirror the still
// composer: platform preset, or explicit canvas size, or the default.
type Options struct {
	Style    background.Style
	Colors   string
	Device   string
	Platform string
	Width    int
	Height   int
	Scale    float64
	PosX     float64
	PosY     float64
}

// DefaultOptions centers the device with the still composer's default style.
func DefaultOptions() Options {
	return Options{Style: background.StyleFlowing, PosX: 0.5, PosY: 0.5}
}

// Compositor drives ffmpeg/ffprobe to wrap screen recordings in a device
// frame over a styled background.
type Compositor struct {
	ffmpeg    string
	ffprobe   string
	timeout   time.Duration
	catalog   *device.Catalog
	framesDir string
	logger    *zap.Logger
}

// NewCompositor creates a video compositor using the configured tool paths.
func NewCompositor(cfg *config.VideoConfig, catalog *device.Catalog, framesDir string, logger *zap.Logger) *Compositor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compositor{
		ffmpeg:    cfg.FFmpegPath,
		ffprobe:   cfg.FFprobePath,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		catalog:   catalog,
		framesDir: framesDir,
		logger:    logger,
	}
}

// Probe returns the pixel dimensions of the video's first video stream.
func (c *Compositor) Probe(ctx context.Context, videoPath string) (int, int, error) {
	out, err := c.run(ctx, c.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		videoPath)
	if err != nil {
		return 0, 0, err
	}

	parts := strings.Split(strings.TrimSpace(string(out)), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected ffprobe output: %q", out)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad width in ffprobe output %q: %w", out, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad height in ffprobe output %q: %w", out, err)
	}
	return w, h, nil
}

// ExtractFirstFrame writes the video's first frame as an image file. It is
// used to seed palette extraction before the real composition runs.
func (c *Compositor) ExtractFirstFrame(ctx context.Context, videoPath, outPath string) error {
	_, err := c.run(ctx, c.ffmpeg,
		"-y",
		"-i", videoPath,
		"-ss", "0",
		"-vframes", "1",
		"-q:v", "2",
		outPath)
	return err
}

// Compose renders a framed video mockup: static background, the recording
// scaled into the device's screen rectangle, and the bezel overlaid on top.
func (c *Compositor) Compose(ctx context.Context, videoPath, outPath string, opts Options) error {
	if opts.Style == "" {
		opts.Style = background.StyleFlowing
	}

	canvasW, canvasH, scale, err := c.resolveCanvas(opts)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "videomockup")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	framePath := filepath.Join(tmpDir, "first_frame.png")
	if err := c.ExtractFirstFrame(ctx, videoPath, framePath); err != nil {
		return err
	}
	firstFrame, err := imaging.Open(framePath)
	if err != nil {
		return fmt.Errorf("failed to open extracted frame: %w", err)
	}

	colors := palette.Resolve(opts.Colors, "", firstFrame)
	bg := background.New(canvasW, canvasH).Generate(colors, opts.Style, firstFrame)
	bgPath := filepath.Join(tmpDir, "background.png")
	if err := imaging.Save(bg, bgPath); err != nil {
		return fmt.Errorf("failed to save background: %w", err)
	}

	spec, _ := c.catalog.Get(opts.Device)
	frame := device.NewFrame(spec, c.framesDir, c.logger)
	overlay, screen := frameOverlay(frame, canvasW, canvasH, scale, opts.PosX, opts.PosY)
	overlayPath := filepath.Join(tmpDir, "overlay.png")
	if err := imaging.Save(overlay, overlayPath); err != nil {
		return fmt.Errorf("failed to save frame overlay: %w", err)
	}

	args := composeArgs(bgPath, videoPath, overlayPath, outPath, screen)
	c.logger.Debug("Running video composition",
		zap.String("video", videoPath),
		zap.String("output", outPath),
		zap.Int("screen_w", screen.Dx()),
		zap.Int("screen_h", screen.Dy()))

	if _, err := c.run(ctx, c.ffmpeg, args...); err != nil {
		return err
	}
	return nil
}

func (c *Compositor) resolveCanvas(opts Options) (int, int, float64, error) {
	var w, h int
	var scale float64
	switch {
	case opts.Platform != "":
		p, ok := mockup.PresetFor(opts.Platform)
		if !ok {
			return 0, 0, 0, fmt.Errorf("unknown platform: %s", opts.Platform)
		}
		w, h, scale = p.Width, p.Height, p.DeviceScale
	case opts.Width > 0 && opts.Height > 0:
		w, h, scale = opts.Width, opts.Height, 0.7
	default:
		p, _ := mockup.PresetFor(mockup.DefaultPlatform)
		w, h, scale = p.Width, p.Height, p.DeviceScale
	}
	if opts.Scale > 0 {
		scale = opts.Scale
	}
	return w, h, scale, nil
}

// frameOverlay renders the device bezel with a transparent screen hole,
// scaled and positioned on a transparent canvas. It returns the overlay
// and the screen rectangle in canvas coordinates, where ffmpeg places the
// scaled recording.
func frameOverlay(frame *device.Frame, canvasW, canvasH int, scale, posX, posY float64) (*image.NRGBA, image.Rectangle) {
	res := frame.Render()
	spec := frame.Spec()

	cut := cutScreenHole(res, float64(spec.CornerRadius-10))

	targetH := int(float64(canvasH) * scale)
	if targetH < 1 {
		targetH = 1
	}
	scaled := imaging.Resize(cut, 0, targetH, imaging.Lanczos)
	factor := float64(scaled.Bounds().Dy()) / float64(cut.Bounds().Dy())

	x := int(float64(canvasW-scaled.Bounds().Dx()) * posX)
	y := int(float64(canvasH-scaled.Bounds().Dy()) * posY)

	canvas := image.NewNRGBA(image.Rect(0, 0, canvasW, canvasH))
	canvas = imaging.Overlay(canvas, scaled, image.Pt(x, y), 1.0)

	screen := image.Rect(
		x+int(float64(res.ScreenOffset.X)*factor),
		y+int(float64(res.ScreenOffset.Y)*factor),
		x+int(float64(res.ScreenOffset.X+res.ScreenSize.X)*factor),
		y+int(float64(res.ScreenOffset.Y+res.ScreenSize.Y)*factor),
	)
	return canvas, screen
}

// cutScreenHole zeroes the frame's alpha inside the rounded screen
// rectangle so the video shows through the bezel.
func cutScreenHole(res *device.RenderResult, radius float64) *image.NRGBA {
	if radius < 0 {
		radius = 0
	}
	out := imaging.Clone(res.Image)
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.DrawRoundedRectangle(
		float64(res.ScreenOffset.X), float64(res.ScreenOffset.Y),
		float64(res.ScreenSize.X), float64(res.ScreenSize.Y), radius)
	dc.Fill()
	mask := dc.Image().(*image.RGBA)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x*4+3] > 128 {
				out.Pix[y*out.Stride+x*4+3] = 0
			}
		}
	}
	return out
}

// composeArgs builds the full ffmpeg invocation: the recording is scaled
// into the screen rectangle (letterboxed transparent), overlaid onto the
// background, then the bezel overlay goes on top.
func composeArgs(bgPath, videoPath, overlayPath, outPath string, screen image.Rectangle) []string {
	filter := fmt.Sprintf(
		"[1:v]scale=%d:%d:force_original_aspect_ratio=decrease,"+
			"pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black@0[scaled];"+
			"[0:v][scaled]overlay=%d:%d[with_video];"+
			"[with_video][2:v]overlay=0:0[out]",
		screen.Dx(), screen.Dy(),
		screen.Dx(), screen.Dy(),
		screen.Min.X, screen.Min.Y)

	return []string{
		"-y",
		"-loop", "1",
		"-i", bgPath,
		"-i", videoPath,
		"-i", overlayPath,
		"-filter_complex", filter,
		"-map", "[out]",
		"-map", "1:a?",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-shortest",
		"-pix_fmt", "yuv420p",
		outPath,
	}
}

// run executes an external tool, attaching its stderr to any failure.
func (c *Compositor) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
