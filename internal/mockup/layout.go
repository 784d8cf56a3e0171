package mockup

// Layout names a multi-device arrangement.
type Layout string

const (
	LayoutStacked    Layout = "stacked"
	LayoutSideBySide Layout = "side-by-side"
	LayoutCarousel   Layout = "carousel"
)

// Layouts lists every recognized layout name.
func Layouts() []Layout {
	return []Layout{LayoutStacked, LayoutSideBySide, LayoutCarousel}
}

// KnownLayout reports whether the layout name is recognized.
func KnownLayout(l Layout) bool {
	for _, known := range Layouts() {
		if l == known {
			return true
		}
	}
	return false
}

// placement is one device's transform within a multi-device composition:
// position fractions of the free canvas space, device scale relative to
// canvas height, and rotation in degrees.
type placement struct {
	PosX  float64
	PosY  float64
	Scale float64
	Angle float64
}

type point struct{ X, Y float64 }

// The position, scale and angle tables are hand-tuned design constants,
// keyed by layout and device count (1, 2, or 3+). Changing any value
// changes the rendered composition.

func layoutPositions(layout Layout, count int) []point {
	switch layout {
	case LayoutSideBySide:
		switch {
		case count == 1:
			return []point{{0.5, 0.5}}
		case count == 2:
			return []point{{0.3, 0.5}, {0.7, 0.5}}
		default:
			return []point{{0.2, 0.5}, {0.5, 0.5}, {0.8, 0.5}}
		}
	case LayoutCarousel:
		switch {
		case count == 1:
			return []point{{0.5, 0.5}}
		case count == 2:
			return []point{{0.35, 0.5}, {0.65, 0.5}}
		default:
			return []point{{0.15, 0.55}, {0.5, 0.45}, {0.85, 0.55}}
		}
	default: // stacked
		switch {
		case count == 1:
			return []point{{0.5, 0.5}}
		case count == 2:
			return []point{{0.3, 0.6}, {0.7, 0.4}}
		default:
			return []point{{0.2, 0.7}, {0.5, 0.4}, {0.8, 0.6}}
		}
	}
}

func layoutScales(layout Layout, count int) []float64 {
	switch {
	case count == 1:
		return []float64{0.75}
	case count == 2:
		if layout == LayoutStacked {
			return []float64{0.55, 0.55}
		}
		return []float64{0.5, 0.5}
	default:
		if layout == LayoutCarousel {
			return []float64{0.4, 0.5, 0.4}
		}
		return []float64{0.4, 0.4, 0.4}
	}
}

func layoutAngles(layout Layout, count int) []float64 {
	switch layout {
	case LayoutStacked:
		switch {
		case count == 2:
			return []float64{-5, 5}
		case count >= 3:
			return []float64{-8, 0, 8}
		}
	case LayoutCarousel:
		if count >= 3 {
			return []float64{-15, 0, 15}
		}
	}
	n := count
	if n > maxMultiDevices {
		n = maxMultiDevices
	}
	return make([]float64, n)
}

// placements resolves the layout tables into one placement per device.
// Counts above three reuse the three-device table.
func placements(layout Layout, count int) []placement {
	if count > maxMultiDevices {
		count = maxMultiDevices
	}
	positions := layoutPositions(layout, count)
	scales := layoutScales(layout, count)
	angles := layoutAngles(layout, count)

	out := make([]placement, count)
	for i := range out {
		out[i] = placement{
			PosX:  positions[i].X,
			PosY:  positions[i].Y,
			Scale: scales[i],
			Angle: angles[i],
		}
	}
	return out
}
