// Package stills checks still-capture behavior: burst pacing against the
// reported frame duration and JPEG output size as a proxy for scene entropy.
package stills

import (
	"fmt"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/camlab/go-its/images"
	"github.com/camlab/go-its/session"
)

const (
	// BurstFrames is the number of full-size captures taken in one burst.
	BurstFrames = 15

	// FrameTimeRelTol allows the gap between consecutive sensor timestamps
	// to exceed the reported frame duration by this fraction.
	FrameTimeRelTol = 0.1

	// WarmupFrames are skipped before pacing is evaluated. The first frame
	// of a burst is routinely pushed out by the pipeline spinning up.
	WarmupFrames = 2

	// PatchRatio selects the centered fraction of the frame used for the
	// brightness check.
	PatchRatio = 0.1

	// MinGreenLevel is the minimum normalized green mean of the center
	// patch. Anything below it means the scene was captured too dark.
	MinGreenLevel = 0.1

	// JPEGBytesPerPixel scales frame area to the minimum JPEG byte size a
	// busy scene should compress to.
	JPEGBytesPerPixel = 0.075

	// MinEntropyZoom is the zoom ratio needed to fill the field of view
	// with the high-entropy chart.
	MinEntropyZoom = 2.0

	// MaxEntropyZoom caps the sweep. Past it magnification starts erasing
	// detail and the size check loses meaning.
	MaxEntropyZoom = 4.0
)

// FrameDrop describes one burst gap that exceeded its tolerance.
type FrameDrop struct {
	Index   int
	DeltaNs int64
	AtolNs  float64
}

func (d FrameDrop) String() string {
	return fmt.Sprintf("frame %d -> %d delta %d ns, atol %.1f ns",
		d.Index-1, d.Index, d.DeltaNs, d.AtolNs)
}

// PacingError reports the burst frames whose timestamp gaps indicate drops.
type PacingError struct {
	Drops []FrameDrop
}

func (e *PacingError) Error() string {
	return fmt.Sprintf("frame drops in burst: %v", e.Drops)
}

// VerifyPacing checks that consecutive sensor timestamps in a burst advance
// by no more than the reported frame duration plus tolerance. The warm-up
// frames at the start of the burst are not judged.
func VerifyPacing(caps []session.CaptureResult) error {
	if len(caps) <= WarmupFrames {
		return errors.Errorf("burst too short: %d captures", len(caps))
	}
	var drops []FrameDrop
	for i := WarmupFrames; i < len(caps); i++ {
		delta := caps[i].SensorTimestampNs - caps[i-1].SensorTimestampNs
		atol := float64(caps[i].FrameDurationNs) * (1 + FrameTimeRelTol)
		if float64(delta) > atol {
			drops = append(drops, FrameDrop{Index: i, DeltaNs: delta, AtolNs: atol})
		}
	}
	if len(drops) > 0 {
		return &PacingError{Drops: drops}
	}
	return nil
}

// MaxPacingSlack returns the largest timestamp gap minus frame duration over
// the judged part of the burst, in nanoseconds.
func MaxPacingSlack(caps []session.CaptureResult) int64 {
	var max int64
	first := true
	for i := WarmupFrames; i < len(caps); i++ {
		slack := caps[i].SensorTimestampNs - caps[i-1].SensorTimestampNs - caps[i].FrameDurationNs
		if first || slack > max {
			max = slack
			first = false
		}
	}
	return max
}

// DarkFrameError reports a burst frame whose center patch is too dark.
type DarkFrameError struct {
	GreenMean float64
}

func (e *DarkFrameError) Error() string {
	return fmt.Sprintf("image too dark: G center patch mean %.3f, min %.3f",
		e.GreenMean, MinGreenLevel)
}

// CheckBrightness verifies the centered patch of a burst frame is exposed.
// The green channel mean is compared against MinGreenLevel on a 0..1 scale.
func CheckBrightness(img gocv.Mat) error {
	w, h := img.Cols(), img.Rows()
	pw := int(float64(w) * PatchRatio)
	ph := int(float64(h) * PatchRatio)
	box := images.Box{X: (w - pw) / 2, Y: (h - ph) / 2, W: pw, H: ph}
	patch := images.Patch(img, box)
	defer patch.Close()

	_, g, _ := images.RGBMeans(patch)
	if g/255.0 < MinGreenLevel {
		return &DarkFrameError{GreenMean: g / 255.0}
	}
	return nil
}

// EntropyError reports JPEG output too small for the scene.
type EntropyError struct {
	MaxBytes  int
	MinNeeded float64
}

func (e *EntropyError) Error() string {
	return fmt.Sprintf("JPEG files not large enough: max %d bytes, min %.1f",
		e.MaxBytes, e.MinNeeded)
}

// VerifyEntropy checks that the largest JPEG produced while sweeping zoom
// over the high-entropy chart meets the size floor for the output surface.
// Small files mean the encoder found little detail to spend bits on.
func VerifyEntropy(jpegSizes []int, width, height int) error {
	if len(jpegSizes) == 0 {
		return errors.New("no JPEG captures to judge")
	}
	max := jpegSizes[0]
	for _, s := range jpegSizes[1:] {
		if s > max {
			max = s
		}
	}
	needed := float64(width) * float64(height) * JPEGBytesPerPixel
	if float64(max) < needed {
		return &EntropyError{MaxBytes: max, MinNeeded: needed}
	}
	return nil
}

// EntropyZoomSweep returns the zoom ratios to capture at for the entropy
// check. The device must reach MinEntropyZoom; the sweep is capped at
// MaxEntropyZoom.
func EntropyZoomSweep(zoomMax float64, steps int) ([]float64, error) {
	if zoomMax < MinEntropyZoom {
		return nil, errors.Errorf("maximum zoom ratio %.2f below %.1fx", zoomMax, MinEntropyZoom)
	}
	if zoomMax > MaxEntropyZoom {
		zoomMax = MaxEntropyZoom
	}
	if steps < 2 {
		return nil, errors.Errorf("need at least 2 sweep steps, got %d", steps)
	}
	ratios := make([]float64, steps)
	step := (zoomMax - 1.0) / float64(steps-1)
	for i := range ratios {
		ratios[i] = 1.0 + float64(i)*step
	}
	return ratios, nil
}
