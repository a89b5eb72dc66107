// Package lowlight analyzes captures of the low-light calibration chart.
//
// The chart is a red-bordered card holding 20 gray squares: a 4x4 interior
// grid of brightness steps plus 4 diagnostic squares on the outside. The
// pipeline crops the capture to the red border, detects the squares,
// measures each square's luminance, normalizes the chart orientation, and
// checks that the darkest steps are both bright enough and separated
// enough for the low light boost criteria.
//
// Pipeline Overview:
//
// ┌───────────────────────┐
// │ Captured Frame (BGR)  │
// └──────┬────────────────┘
// ┌───────────────────────────────┐
// │ Crop to red chart border      │
// └──────┬────────────────────────┘
// ┌───────────────────────────────┐
// │ Detect 20 squares (contours)  │
// └──────┬────────────────────────┘
// ┌───────────────────────────────┐
// │ Sample luminance per square   │
// └──────┬────────────────────────┘
// ┌───────────────────────────────┐
// │ Correct chart orientation     │
// └──────┬────────────────────────┘
// ┌───────────────────────────────┐
// │ Reorder along brightness path │
// └──────┬────────────────────────┘
// ┌───────────────────────────────┐
// │ Threshold verdict             │
// └───────────────────────────────┘
//
// Usage:
//
//	cfg := lowlight.DefaultConfig()
//	if err := lowlight.Analyze("night_capture", frame, cfg); err != nil {
//	    // typed errors describe what failed; see errors.go
//	}
package lowlight

// Config holds every tunable of the chart analysis. The zero value is not
// usable; start from DefaultConfig and override fields as needed.
type Config struct {
	// LuminanceThreshold is the minimum mean luminance of the darkest 6
	// squares in traversal order.
	LuminanceThreshold float64

	// DeltaThreshold is the minimum mean difference in luminance between
	// the first 6 successive squares in traversal order.
	DeltaThreshold float64

	// ExpectedBoxCount is the number of squares the chart carries.
	// Detection of any other count aborts the analysis.
	ExpectedBoxCount int

	// BoxMinSize is the minimum width and height in pixels for a detected
	// contour to count as a chart square.
	BoxMinSize int

	// MinAspectRatio and MaxAspectRatio bound w/h for accepted squares.
	MinAspectRatio float64
	MaxAspectRatio float64

	// BoxPaddingRatio shrinks each square's sampling window inward by this
	// fraction of the smaller dimension before measuring luminance.
	BoxPaddingRatio float64

	// CropPadding is the number of pixels trimmed inside the detected red
	// border so the border itself never appears in the cropped frame.
	CropPadding int

	// ArtifactDir is where stage images and plots are written.
	ArtifactDir string
}

// DefaultConfig returns the thresholds and detection parameters matched to
// the printed chart geometry.
func DefaultConfig() *Config {
	return &Config{
		LuminanceThreshold: 90,
		DeltaThreshold:     18,
		ExpectedBoxCount:   20,
		BoxMinSize:         20,
		MinAspectRatio:     0.8,
		MaxAspectRatio:     1.2,
		BoxPaddingRatio:    0.2,
		CropPadding:        10,
		ArtifactDir:        "artifacts",
	}
}
