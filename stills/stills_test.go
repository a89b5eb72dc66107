package stills

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/camlab/go-its/session"
)

// pacedBurst builds a burst with constant frame duration and the given
// per-frame timestamp gaps, starting at an arbitrary base.
func pacedBurst(durationNs int64, gaps []int64) []session.CaptureResult {
	caps := make([]session.CaptureResult, len(gaps)+1)
	ts := int64(1_000_000_000)
	caps[0] = session.CaptureResult{SensorTimestampNs: ts, FrameDurationNs: durationNs}
	for i, g := range gaps {
		ts += g
		caps[i+1] = session.CaptureResult{SensorTimestampNs: ts, FrameDurationNs: durationNs}
	}
	return caps
}

func TestVerifyPacingSteadyBurst(t *testing.T) {
	gaps := make([]int64, BurstFrames-1)
	for i := range gaps {
		gaps[i] = 33_333_333
	}
	caps := pacedBurst(33_333_333, gaps)
	require.NoError(t, VerifyPacing(caps))
	require.Equal(t, int64(0), MaxPacingSlack(caps))
}

func TestVerifyPacingToleratesWarmup(t *testing.T) {
	// A long gap before the warm-up boundary must not be judged.
	gaps := []int64{100_000_000, 33_000_000, 33_000_000, 33_000_000}
	require.NoError(t, VerifyPacing(pacedBurst(33_333_333, gaps)))
}

func TestVerifyPacingWithinTolerance(t *testing.T) {
	// 10% over the frame duration is still acceptable.
	gaps := []int64{33_333_333, 36_000_000, 36_000_000, 36_000_000}
	require.NoError(t, VerifyPacing(pacedBurst(33_333_333, gaps)))
}

func TestVerifyPacingReportsDrops(t *testing.T) {
	gaps := []int64{33_333_333, 33_333_333, 70_000_000, 33_333_333, 70_000_000}
	err := VerifyPacing(pacedBurst(33_333_333, gaps))
	require.Error(t, err)

	var pacingErr *PacingError
	require.ErrorAs(t, err, &pacingErr)
	require.Len(t, pacingErr.Drops, 2)
	require.Equal(t, 3, pacingErr.Drops[0].Index)
	require.Equal(t, int64(70_000_000), pacingErr.Drops[0].DeltaNs)
	require.Equal(t, 5, pacingErr.Drops[1].Index)
}

func TestVerifyPacingRejectsShortBurst(t *testing.T) {
	caps := pacedBurst(33_333_333, []int64{33_333_333})
	require.Error(t, VerifyPacing(caps))
}

func TestMaxPacingSlack(t *testing.T) {
	gaps := []int64{33_333_333, 34_000_000, 35_500_000, 33_000_000}
	caps := pacedBurst(33_333_333, gaps)
	require.Equal(t, int64(35_500_000-33_333_333), MaxPacingSlack(caps))
}

func solidFrame(w, h int, c color.RGBA) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0),
		h, w, gocv.MatTypeCV8UC3)
}

func TestCheckBrightness(t *testing.T) {
	bright := solidFrame(640, 480, color.RGBA{G: 128})
	defer bright.Close()
	require.NoError(t, CheckBrightness(bright))

	dark := solidFrame(640, 480, color.RGBA{G: 10})
	defer dark.Close()
	err := CheckBrightness(dark)
	require.Error(t, err)

	var darkErr *DarkFrameError
	require.ErrorAs(t, err, &darkErr)
	require.InDelta(t, 10.0/255.0, darkErr.GreenMean, 0.01)
}

func TestCheckBrightnessUsesCenterPatch(t *testing.T) {
	// Dark frame with a bright center patch still passes.
	frame := solidFrame(640, 480, color.RGBA{})
	defer frame.Close()
	gocv.Rectangle(&frame, image.Rect(280, 200, 360, 280), color.RGBA{G: 200}, -1)
	require.NoError(t, CheckBrightness(frame))
}

func TestVerifyEntropy(t *testing.T) {
	// 4000x3000 needs at least 900000 bytes.
	require.NoError(t, VerifyEntropy([]int{500_000, 950_000, 700_000}, 4000, 3000))

	err := VerifyEntropy([]int{500_000, 600_000}, 4000, 3000)
	require.Error(t, err)
	var entErr *EntropyError
	require.ErrorAs(t, err, &entErr)
	require.Equal(t, 600_000, entErr.MaxBytes)
	require.InDelta(t, 900_000.0, entErr.MinNeeded, 0.5)

	require.Error(t, VerifyEntropy(nil, 4000, 3000))
}

func TestEntropyZoomSweep(t *testing.T) {
	ratios, err := EntropyZoomSweep(4.0, 4)
	require.NoError(t, err)
	require.Equal(t, []float64{1.0, 2.0, 3.0, 4.0}, ratios)

	// Capped at the max useful zoom.
	ratios, err = EntropyZoomSweep(8.0, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{1.0, 4.0}, ratios)

	_, err = EntropyZoomSweep(1.5, 4)
	require.Error(t, err)

	_, err = EntropyZoomSweep(3.0, 1)
	require.Error(t, err)
}
