package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/frameshot/mockup-renderer/internal/mockup"
	"github.com/frameshot/mockup-renderer/internal/palette"
)

// ValidationError represents a validation error for a specific field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidateOptions checks composition options for invalid input. Unknown
// style names are allowed (the renderer falls back to mesh); unknown
// platforms, malformed colors and out-of-range geometry are rejected.
func ValidateOptions(opts mockup.Options) []ValidationError {
	var errors []ValidationError

	if opts.Platform != "" {
		if _, ok := mockup.PresetFor(opts.Platform); !ok {
			errors = append(errors, ValidationError{
				Field:   "platform",
				Message: fmt.Sprintf("Unknown platform '%s'", opts.Platform),
				Code:    "unknown_platform",
			})
		}
	}

	if opts.Colors != "" {
		if _, err := palette.ParseColorString(opts.Colors); err != nil {
			errors = append(errors, ValidationError{
				Field:   "colors",
				Message: fmt.Sprintf("Invalid colors '%s': %v", opts.Colors, err),
				Code:    "invalid_colors",
			})
		}
	}

	if opts.Width < 0 || opts.Height < 0 {
		errors = append(errors, ValidationError{
			Field:   "size",
			Message: "Canvas dimensions must be positive",
			Code:    "invalid_size",
		})
	}
	if (opts.Width > 0) != (opts.Height > 0) {
		errors = append(errors, ValidationError{
			Field:   "size",
			Message: "Custom size requires both width and height",
			Code:    "invalid_size",
		})
	}

	if opts.Scale < 0 || opts.Scale > 1 {
		errors = append(errors, ValidationError{
			Field:   "scale",
			Message: "Scale must be in (0, 1]",
			Code:    "invalid_scale",
		})
	}
	if opts.PosX < 0 || opts.PosX > 1 || opts.PosY < 0 || opts.PosY > 1 {
		errors = append(errors, ValidationError{
			Field:   "position",
			Message: "Position fractions must be in [0, 1]",
			Code:    "invalid_position",
		})
	}
	if opts.Angle < -360 || opts.Angle > 360 {
		errors = append(errors, ValidationError{
			Field:   "angle",
			Message: "Angle must be in [-360, 360] degrees",
			Code:    "invalid_angle",
		})
	}

	return errors
}

// ValidateLayout rejects unknown multi-device layout names.
func ValidateLayout(layout mockup.Layout) error {
	if !mockup.KnownLayout(layout) {
		return fmt.Errorf("unknown layout '%s' (expected one of: %s)", layout, layoutNames())
	}
	return nil
}

// ValidateFormat rejects unsupported output formats.
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "png", "jpg", "jpeg":
		return nil
	default:
		return fmt.Errorf("unsupported format '%s' (expected png or jpeg)", format)
	}
}

func layoutNames() string {
	names := make([]string, 0, len(mockup.Layouts()))
	for _, l := range mockup.Layouts() {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}

// formValue returns a form value or a default when absent.
func formValue(r *http.Request, key, defaultValue string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return defaultValue
}

// formInt parses an optional integer form value.
func formInt(r *http.Request, key string) (int, error) {
	v := r.FormValue(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': expected an integer", key, v)
	}
	return n, nil
}

// formFloat parses an optional float form value.
func formFloat(r *http.Request, key string, defaultValue float64) (float64, error) {
	v := r.FormValue(key)
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': expected a number", key, v)
	}
	return f, nil
}
