package handlers

import (
	"testing"

	"github.com/frameshot/mockup-renderer/internal/background"
	"github.com/frameshot/mockup-renderer/internal/mockup"
)

func TestValidateOptions(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		if errs := ValidateOptions(mockup.DefaultOptions()); len(errs) != 0 {
			t.Errorf("unexpected errors: %+v", errs)
		}
	})

	t.Run("unknown style is allowed", func(t *testing.T) {
		opts := mockup.DefaultOptions()
		opts.Style = background.Style("vaporwave")
		if errs := ValidateOptions(opts); len(errs) != 0 {
			t.Errorf("unknown style rejected: %+v", errs)
		}
	})

	t.Run("unknown platform is rejected", func(t *testing.T) {
		opts := mockup.DefaultOptions()
		opts.Platform = "myspace"
		errs := ValidateOptions(opts)
		if len(errs) != 1 || errs[0].Code != "unknown_platform" {
			t.Errorf("got %+v, want one unknown_platform error", errs)
		}
	})

	t.Run("malformed colors rejected", func(t *testing.T) {
		opts := mockup.DefaultOptions()
		opts.Colors = "ff00zz"
		errs := ValidateOptions(opts)
		if len(errs) != 1 || errs[0].Code != "invalid_colors" {
			t.Errorf("got %+v, want one invalid_colors error", errs)
		}
	})

	t.Run("preset palette name accepted", func(t *testing.T) {
		opts := mockup.DefaultOptions()
		opts.Colors = "sunset"
		if errs := ValidateOptions(opts); len(errs) != 0 {
			t.Errorf("preset name rejected: %+v", errs)
		}
	})

	t.Run("out of range geometry", func(t *testing.T) {
		opts := mockup.DefaultOptions()
		opts.Scale = 1.5
		opts.PosX = -0.2
		opts.Angle = 400
		errs := ValidateOptions(opts)
		if len(errs) != 3 {
			t.Errorf("got %d errors, want 3: %+v", len(errs), errs)
		}
	})

	t.Run("width without height", func(t *testing.T) {
		opts := mockup.DefaultOptions()
		opts.Width = 800
		errs := ValidateOptions(opts)
		if len(errs) != 1 || errs[0].Code != "invalid_size" {
			t.Errorf("got %+v, want one invalid_size error", errs)
		}
	})
}

func TestValidateLayout(t *testing.T) {
	for _, layout := range mockup.Layouts() {
		if err := ValidateLayout(layout); err != nil {
			t.Errorf("layout %s rejected: %v", layout, err)
		}
	}
	if err := ValidateLayout("grid"); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{"", "png", "jpeg", "jpg", "PNG"} {
		if err := ValidateFormat(format); err != nil {
			t.Errorf("format %q rejected: %v", format, err)
		}
	}
	if err := ValidateFormat("webp"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
