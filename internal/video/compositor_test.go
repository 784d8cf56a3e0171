package video

import (
	"image"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/frameshot/mockup-renderer/internal/device"
)

func TestComposeArgs(t *testing.T) {
	screen := image.Rect(100, 200, 500, 1000)
	args := composeArgs("bg.png", "in.mov", "overlay.png", "out.mp4", screen)

	joined := strings.Join(args, " ")

	t.Run("inputs in order", func(t *testing.T) {
		for _, want := range []string{"-i bg.png", "-i in.mov", "-i overlay.png"} {
			if !strings.Contains(joined, want) {
				t.Errorf("args missing %q: %s", want, joined)
			}
		}
		if args[len(args)-1] != "out.mp4" {
			t.Errorf("last arg = %q, want out.mp4", args[len(args)-1])
		}
	})

	t.Run("filter geometry", func(t *testing.T) {
		var filter string
		for i, a := range args {
			if a == "-filter_complex" {
				filter = args[i+1]
			}
		}
		if filter == "" {
			t.Fatal("no -filter_complex in args")
		}
		for _, want := range []string{
			"scale=400:800:force_original_aspect_ratio=decrease",
			"pad=400:800:(ow-iw)/2:(oh-ih)/2:color=black@0",
			"overlay=100:200",
			"[2:v]overlay=0:0[out]",
		} {
			if !strings.Contains(filter, want) {
				t.Errorf("filter missing %q: %s", want, filter)
			}
		}
	})

	t.Run("encoder settings", func(t *testing.T) {
		for _, want := range []string{"-c:v libx264", "-crf 23", "-pix_fmt yuv420p", "-shortest"} {
			if !strings.Contains(joined, want) {
				t.Errorf("args missing %q", want)
			}
		}
	})
}

func TestFrameOverlayGeometry(t *testing.T) {
	catalog := device.NewCatalog()
	spec, _ := catalog.Get("")
	frame := device.NewFrame(spec, "", zap.NewNop())

	overlay, screen := frameOverlay(frame, 1200, 1500, 0.8, 0.5, 0.5)

	if overlay.Bounds().Dx() != 1200 || overlay.Bounds().Dy() != 1500 {
		t.Errorf("overlay %dx%d, want 1200x1500", overlay.Bounds().Dx(), overlay.Bounds().Dy())
	}

	if screen.Empty() {
		t.Fatal("empty screen rectangle")
	}
	if screen.Min.X < 0 || screen.Min.Y < 0 || screen.Max.X > 1200 || screen.Max.Y > 1500 {
		t.Errorf("screen rect %v outside canvas", screen)
	}

	// The hole pierces the overlay: the screen center is transparent, the
	// bezel just outside it is not.
	cx := (screen.Min.X + screen.Max.X) / 2
	cy := (screen.Min.Y + screen.Max.Y) / 2
	if a := overlay.NRGBAAt(cx, cy).A; a != 0 {
		t.Errorf("screen center alpha = %d, want 0", a)
	}
	if a := overlay.NRGBAAt(screen.Min.X-4, cy).A; a == 0 {
		t.Error("bezel left of the screen hole is transparent")
	}
}

func TestCutScreenHoleCorners(t *testing.T) {
	res := &device.RenderResult{
		Image:        image.NewNRGBA(image.Rect(0, 0, 200, 300)),
		ScreenOffset: image.Pt(50, 50),
		ScreenSize:   image.Pt(100, 200),
	}
	for i := range res.Image.Pix {
		res.Image.Pix[i] = 255
	}

	out := cutScreenHole(res, 40)

	if a := out.NRGBAAt(100, 150).A; a != 0 {
		t.Errorf("hole center alpha = %d, want 0", a)
	}
	// Rounded corners: the exact screen-rect corner stays opaque.
	if a := out.NRGBAAt(51, 51).A; a == 0 {
		t.Error("rounded screen corner was cut out")
	}
	if a := out.NRGBAAt(10, 10).A; a != 255 {
		t.Errorf("bezel alpha = %d, want 255", a)
	}
}
