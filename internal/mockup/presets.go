package mockup

// Preset fixes the output canvas geometry for a publishing platform.
type Preset struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	DeviceScale float64 `json:"device_scale"`
}

// DefaultPlatform is used when a request names no platform and no custom
// canvas size.
const DefaultPlatform = "twitter"

const (
	// multiCanvasSize is the square canvas used for multi-device
	// compositions, which have no platform preset.
	multiCanvasSize = 2400

	// customDeviceScale applies when the caller supplies an explicit
	// canvas size instead of a platform.
	customDeviceScale = 0.7

	// maxMultiDevices caps a multi-device composition; the layout tables
	// place at most three devices.
	maxMultiDevices = 3
)

var presets = []Preset{
	{ID: "twitter", Name: "Twitter/X single image", Width: 1200, Height: 1500, DeviceScale: 0.82},
	{ID: "twitter4", Name: "Twitter/X four-image grid tile", Width: 1200, Height: 1200, DeviceScale: 0.72},
	{ID: "instagram", Name: "Instagram portrait post", Width: 1080, Height: 1350, DeviceScale: 0.82},
	{ID: "square", Name: "Square post", Width: 1200, Height: 1200, DeviceScale: 0.75},
	{ID: "story", Name: "Story / Reel", Width: 1080, Height: 1920, DeviceScale: 0.70},
	{ID: "wide", Name: "Wide banner", Width: 1600, Height: 900, DeviceScale: 0.85},
}

// Platforms returns every platform preset in declaration order.
func Platforms() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetFor looks up a platform preset by ID.
func PresetFor(id string) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
