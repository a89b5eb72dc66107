// Package multicam verifies that a logical camera's switch between its
// ultrawide and wide physical lenses keeps exposure, white balance, and
// focus consistent. The checks compare the last frame captured on the
// ultrawide lens with the first frame on the wide lens around the zoom
// crossover point.
package multicam

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/camlab/go-its/images"
	"github.com/camlab/go-its/logging"
	"github.com/camlab/go-its/session"
)

const (
	// PercentChangeThreshold bounds the percent change allowed in luma
	// and color ratio between the two lenses.
	PercentChangeThreshold = 0.5
	// SharpnessRelTol bounds the relative sharpness difference between
	// the two lenses on the focus chart.
	SharpnessRelTol = 0.02
	// PatchMargin insets each quadrant patch to drop chart edges.
	PatchMargin = 50
)

// Crossover is the pair of adjacent captures where the active physical
// camera changed during a zoom sweep.
type Crossover struct {
	// UltrawideIndex is the last capture before the switch.
	UltrawideIndex int
	// WideIndex is the first capture after the switch.
	WideIndex int
	// ZoomRatio is the zoom at which the switch happened.
	ZoomRatio float64
}

// FindCrossover scans the sweep for the first active physical camera
// change. An error means the lens never switched within the sweep and
// the run should be repeated.
func FindCrossover(results []session.CaptureResult) (Crossover, error) {
	if len(results) == 0 {
		return Crossover{}, errors.New("no capture results in zoom sweep")
	}

	prev := results[0].PhysicalID
	for i, r := range results[1:] {
		if r.PhysicalID == prev {
			continue
		}
		c := Crossover{
			UltrawideIndex: i,
			WideIndex:      i + 1,
			ZoomRatio:      r.ZoomRatio,
		}
		logging.Debug("lens crossover found",
			"zoom", c.ZoomRatio, "from", prev, "to", r.PhysicalID)
		return c, nil
	}
	return Crossover{}, errors.New("crossover point not found; rerun the sweep")
}

// CorrectOrientation undoes the sensor-orientation flip that front camera
// preview streams carry. Sensors mounted at 90 or 270 degrees flip the
// preview upside down, other mountings mirror it left to right. Rear
// camera frames pass through unchanged. The caller owns the returned Mat.
func CorrectOrientation(img gocv.Mat, facingFront bool, sensorOrientationDeg int) gocv.Mat {
	if !facingFront {
		return images.Clone(img)
	}
	if sensorOrientationDeg == 90 || sensorOrientationDeg == 270 {
		logging.Debug("sensor orientation, flipping up down", "deg", sensorOrientationDeg)
		return images.FlipVertical(img)
	}
	logging.Debug("sensor orientation, flipping left right", "deg", sensorOrientationDeg)
	return images.FlipHorizontal(img)
}

// MismatchError reports a lens consistency check failure.
type MismatchError struct {
	Check  string
	Actual float64
	Limit  float64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s change %.4f exceeds limit %.4f", e.Check, e.Actual, e.Limit)
}

// QuadrantPatches splits the chart patch into four equal quadrants, each
// inset by PatchMargin pixels, ordered row-major. The returned Mats are
// views into img.
func QuadrantPatches(img gocv.Mat) []gocv.Mat {
	halfW := img.Cols() / 2
	halfH := img.Rows() / 2

	var patches []gocv.Mat
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			b := images.Box{
				X: col*halfW + PatchMargin,
				Y: row*halfH + PatchMargin,
				W: halfW - 2*PatchMargin,
				H: halfH - 2*PatchMargin,
			}
			patches = append(patches, images.Patch(img, b))
		}
	}
	return patches
}

// ClosePatches releases patch views produced by QuadrantPatches.
func ClosePatches(patches []gocv.Mat) {
	for i := range patches {
		patches[i].Close()
	}
}

// CheckAE verifies auto-exposure continuity: the mean luma of the two
// frames may differ by at most PercentChangeThreshold percent.
func CheckAE(ultrawide, wide gocv.Mat) error {
	uwLuma := lumaMean(ultrawide)
	wLuma := lumaMean(wide)
	logging.Debug("ae check", "uw_luma", uwLuma, "w_luma", wLuma)

	change := percentChange(uwLuma, wLuma)
	if change > PercentChangeThreshold {
		return &MismatchError{Check: "luma", Actual: change, Limit: PercentChangeThreshold}
	}
	return nil
}

// CheckAWB verifies white balance continuity: the R/G and B/G channel
// ratios may each drift by at most PercentChangeThreshold percent.
func CheckAWB(ultrawide, wide gocv.Mat) error {
	uwRG, uwBG := colorRatios(ultrawide)
	wRG, wBG := colorRatios(wide)
	logging.Debug("awb check",
		"uw_rg", uwRG, "uw_bg", uwBG, "w_rg", wRG, "w_bg", wBG)

	if change := percentChange(uwRG, wRG); change > PercentChangeThreshold {
		return &MismatchError{Check: "R/G ratio", Actual: change, Limit: PercentChangeThreshold}
	}
	if change := percentChange(uwBG, wBG); change > PercentChangeThreshold {
		return &MismatchError{Check: "B/G ratio", Actual: change, Limit: PercentChangeThreshold}
	}
	return nil
}

// CheckAF verifies focus continuity on the slanted-edge chart patch: the
// sharpness of the two frames must agree within SharpnessRelTol.
func CheckAF(ultrawide, wide gocv.Mat) error {
	uwSharp := images.Sharpness(ultrawide)
	wSharp := images.Sharpness(wide)
	logging.Debug("af check", "uw_sharpness", uwSharp, "w_sharpness", wSharp)

	// Same tolerance semantics as a relative closeness test against the
	// larger magnitude.
	diff := math.Abs(wSharp - uwSharp)
	if diff > SharpnessRelTol*math.Max(math.Abs(wSharp), math.Abs(uwSharp)) {
		rel := diff / math.Max(uwSharp, wSharp)
		return &MismatchError{Check: "sharpness", Actual: rel, Limit: SharpnessRelTol}
	}
	return nil
}

func lumaMean(img gocv.Mat) float64 {
	luma := images.LumaY(img)
	defer luma.Close()
	return images.ChannelMean(luma, 0)
}

func colorRatios(img gocv.Mat) (rg, bg float64) {
	r, g, b := images.RGBMeans(img)
	if g == 0 {
		return 0, 0
	}
	return r / g, b / g
}

func percentChange(ref, v float64) float64 {
	if ref == 0 {
		return 0
	}
	return math.Abs(v-ref) / ref * 100
}
