package device

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// testSpec is a small procedural-only device to keep tests fast.
func testSpec() Spec {
	return Spec{
		ID:           "test_phone",
		Name:         "Test Phone",
		ScreenWidth:  100,
		ScreenHeight: 200,
		ScreenX:      10,
		ScreenY:      10,
		CornerRadius: 40,
		FrameColor:   RGBA{R: 30, G: 30, B: 35, A: 255},
	}
}

func solidScreenshot(w, h int) *image.NRGBA {
	return imaging.New(w, h, color.NRGBA{R: 120, G: 180, B: 240, A: 255})
}

func TestCatalogGet(t *testing.T) {
	c := NewCatalog()

	t.Run("known device", func(t *testing.T) {
		spec, ok := c.Get("iphone_15_pro_max")
		if !ok {
			t.Fatal("expected known device")
		}
		if spec.ScreenWidth != 862 || spec.ScreenHeight != 1868 {
			t.Errorf("got screen %dx%d, want 862x1868", spec.ScreenWidth, spec.ScreenHeight)
		}
	})

	t.Run("unknown device falls back to default", func(t *testing.T) {
		spec, ok := c.Get("nokia_3310")
		if ok {
			t.Error("unknown device reported as known")
		}
		if spec.ID != DefaultDevice {
			t.Errorf("got %q, want %q", spec.ID, DefaultDevice)
		}
	})
}

func TestCatalogLoadDir(t *testing.T) {
	dir := t.TempDir()

	specYAML := `
id: pixel_9_pro
name: Pixel 9 Pro
screenWidth: 1008
screenHeight: 2244
screenX: 30
screenY: 30
cornerRadius: 80
frameColor: {r: 40, g: 40, b: 45, a: 255}
`
	if err := os.WriteFile(filepath.Join(dir, "pixel_9_pro.yaml"), []byte(specYAML), 0644); err != nil {
		t.Fatalf("failed to write spec: %v", err)
	}
	// Broken files are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: [oops"), 0644); err != nil {
		t.Fatalf("failed to write spec: %v", err)
	}

	c := NewCatalog()
	if err := c.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	spec, ok := c.Get("pixel_9_pro")
	if !ok {
		t.Fatal("loaded device not found")
	}
	if spec.ScreenWidth != 1008 || spec.CornerRadius != 80 {
		t.Errorf("unexpected spec: %+v", spec)
	}

	t.Run("missing directory is not an error", func(t *testing.T) {
		if err := NewCatalog().LoadDir(filepath.Join(dir, "does-not-exist")); err != nil {
			t.Errorf("LoadDir on missing dir: %v", err)
		}
	})
}

func TestLoadSpecValidation(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing id", func(t *testing.T) {
		path := filepath.Join(dir, "noid.yaml")
		os.WriteFile(path, []byte("name: No ID\nscreenWidth: 100\nscreenHeight: 200\n"), 0644)
		if _, err := LoadSpec(path); err == nil {
			t.Error("expected error for spec without id")
		}
	})

	t.Run("invalid screen size", func(t *testing.T) {
		path := filepath.Join(dir, "nosize.yaml")
		os.WriteFile(path, []byte("id: x\nscreenWidth: 0\nscreenHeight: 200\n"), 0644)
		if _, err := LoadSpec(path); err == nil {
			t.Error("expected error for zero screen width")
		}
	})
}

func TestProceduralRender(t *testing.T) {
	f := NewFrame(testSpec(), "", zap.NewNop())

	res := f.Render()
	if res.FromAsset {
		t.Error("expected procedural frame, got asset")
	}

	wantW := 100 + bezelMargin*2 + buttonAllowance
	wantH := 200 + bezelMargin*2
	if res.Image.Bounds().Dx() != wantW || res.Image.Bounds().Dy() != wantH {
		t.Errorf("frame is %v, want %dx%d", res.Image.Bounds(), wantW, wantH)
	}

	// Procedural layout shifts the screen right of the catalog offset to
	// make room for side buttons; the result must report the real offset.
	wantOffset := image.Pt(buttonAllowance+bezelMargin, bezelMargin)
	if res.ScreenOffset != wantOffset {
		t.Errorf("screen offset %v, want %v", res.ScreenOffset, wantOffset)
	}
	if res.ScreenSize != image.Pt(100, 200) {
		t.Errorf("screen size %v, want (100,200)", res.ScreenSize)
	}

	t.Run("second render returns cached copy", func(t *testing.T) {
		res2 := f.Render()
		if res2.ScreenOffset != res.ScreenOffset {
			t.Errorf("cached offset %v differs from first %v", res2.ScreenOffset, res.ScreenOffset)
		}
		// Mutating the returned image must not poison the cache.
		res2.Image.Pix[0] = 99
		res3 := f.Render()
		if res3.Image.Pix[0] == 99 {
			t.Error("cache shares pixel storage with returned image")
		}
	})
}

func TestRenderFromAsset(t *testing.T) {
	dir := t.TempDir()
	asset := imaging.New(120, 240, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	if err := imaging.Save(asset, filepath.Join(dir, "test_phone.png")); err != nil {
		t.Fatalf("failed to save asset: %v", err)
	}

	spec := testSpec()
	spec.FrameAsset = "test_phone.png"
	f := NewFrame(spec, dir, zap.NewNop())

	res := f.Render()
	if !res.FromAsset {
		t.Fatal("expected frame from asset")
	}
	if res.Image.Bounds().Dx() != 120 || res.Image.Bounds().Dy() != 240 {
		t.Errorf("asset frame is %v, want 120x240", res.Image.Bounds())
	}
	// Asset frames keep the catalog screen offset.
	if res.ScreenOffset != image.Pt(10, 10) {
		t.Errorf("screen offset %v, want (10,10)", res.ScreenOffset)
	}
}

func TestMissingAssetFallsBackToProcedural(t *testing.T) {
	spec := testSpec()
	spec.FrameAsset = "not_there.png"
	f := NewFrame(spec, t.TempDir(), zap.NewNop())

	res := f.Render()
	if res.FromAsset {
		t.Error("expected procedural fallback for missing asset")
	}
}

func TestRoundCorners(t *testing.T) {
	img := solidScreenshot(100, 200)
	masked := roundCorners(img, 30)

	alphaAt := func(x, y int) uint8 {
		return masked.Pix[y*masked.Stride+x*4+3]
	}

	if a := alphaAt(50, 100); a == 0 {
		t.Error("center pixel is transparent after masking")
	}
	for _, pt := range []image.Point{{0, 0}, {99, 0}, {0, 199}, {99, 199}} {
		if a := alphaAt(pt.X, pt.Y); a != 0 {
			t.Errorf("corner %v has alpha %d, want 0", pt, a)
		}
	}
}

func TestCompositeScreenshot(t *testing.T) {
	f := NewFrame(testSpec(), "", zap.NewNop())
	shot := solidScreenshot(50, 120)

	t.Run("without shadow", func(t *testing.T) {
		framed, err := f.CompositeScreenshot(shot, nil)
		if err != nil {
			t.Fatalf("CompositeScreenshot failed: %v", err)
		}

		res := f.Render()
		if framed.Bounds() != res.Image.Bounds() {
			t.Errorf("framed bounds %v differ from frame %v", framed.Bounds(), res.Image.Bounds())
		}

		// Center of the screen region shows the screenshot, opaque.
		cx := res.ScreenOffset.X + res.ScreenSize.X/2
		cy := res.ScreenOffset.Y + res.ScreenSize.Y/2
		i := framed.PixOffset(cx, cy)
		if framed.Pix[i+3] == 0 {
			t.Error("screen center is transparent")
		}
		if framed.Pix[i] != 120 || framed.Pix[i+1] != 180 || framed.Pix[i+2] != 240 {
			t.Errorf("screen center color (%d,%d,%d), want (120,180,240)",
				framed.Pix[i], framed.Pix[i+1], framed.Pix[i+2])
		}
	})

	t.Run("with shadow pads the canvas", func(t *testing.T) {
		shadow := &ShadowOptions{OffsetX: 5, OffsetY: 6, Blur: 10}
		framed, err := f.CompositeScreenshot(shot, shadow)
		if err != nil {
			t.Fatalf("CompositeScreenshot failed: %v", err)
		}

		res := f.Render()
		padding := shadow.Blur * 3
		wantW := res.Image.Bounds().Dx() + padding*2
		wantH := res.Image.Bounds().Dy() + padding*2
		if framed.Bounds().Dx() != wantW || framed.Bounds().Dy() != wantH {
			t.Errorf("shadowed bounds %v, want %dx%d", framed.Bounds(), wantW, wantH)
		}

		// Shadow trails in the offset direction: below and right of the
		// device there must be translucent, not opaque, pixels.
		x := padding + res.Image.Bounds().Dx() + shadow.Blur/2
		y := padding + res.Image.Bounds().Dy()/2
		i := framed.PixOffset(x, y)
		if a := framed.Pix[i+3]; a == 0 || a == 255 {
			t.Errorf("expected soft shadow alpha beside device, got %d", a)
		}
	})

	t.Run("nil screenshot is an error", func(t *testing.T) {
		if _, err := f.CompositeScreenshot(nil, nil); err == nil {
			t.Error("expected error for nil screenshot")
		}
	})
}
