// Package zoom verifies that preview zoom scales the test scene's center
// circle correctly: the detected circle's radius must grow linearly with
// the requested zoom ratio and its center must drift away from the image
// center proportionally.
package zoom

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"gocv.io/x/gocv"

	"github.com/camlab/go-its/images"
	"github.com/camlab/go-its/logging"
)

func imageKsize() image.Point { return image.Pt(3, 3) }

const (
	// RadiusRelTol bounds the relative error between the measured and
	// expected radius scaling.
	RadiusRelTol = 0.1
	// OffsetRelTol bounds the relative error of the zoom-scaled center
	// offset against the reference capture.
	OffsetRelTol = 0.1
	// CirclishRelTol bounds how far a contour's area may deviate from an
	// ideal circle of the same extent before it is rejected.
	CirclishRelTol = 0.05
	// MinZoomSpan is the minimum zMax/zMin span worth testing.
	MinZoomSpan = 2.0
	// minRadiusPx discards contour noise far too small to be the target.
	minRadiusPx = 5
)

// Params is the zoom sweep derived from the device's zoom ratio range.
type Params struct {
	Min  float64
	Max  float64
	Step float64
}

// SweepParams splits [zMin, zMax] into numSteps zoom settings.
func SweepParams(zMin, zMax float64, numSteps int) Params {
	return Params{
		Min:  zMin,
		Max:  zMax,
		Step: (zMax - zMin) / float64(numSteps-1),
	}
}

// Testable reports whether the range spans enough zoom to verify scaling.
func (p Params) Testable() bool {
	return p.Max >= p.Min*MinZoomSpan
}

// Circle is a detected circle in pixel coordinates.
type Circle struct {
	X, Y, R float32
}

// Measurement pairs a detected circle with the zoom it was captured at
// and the tolerances applying to the lens in use.
type Measurement struct {
	Zoom      float64
	Circle    Circle
	RadiusTol float64
	OffsetTol float64
}

// CirclishTol returns the circularity tolerance to use for the given
// zoom ratio. Below 1x the circle occupies few pixels and quantization
// distorts its area, so the tolerance is widened proportionally.
func CirclishTol(zoom float64) float64 {
	if zoom < 1 {
		return CirclishRelTol / zoom
	}
	return CirclishRelTol
}

// FindCenterCircle locates the scene's center circle. Candidate contours
// must be circle-like within circlishTol and not clipped by the frame
// edge; among candidates the one nearest the image center wins. A nil
// result means the circle is zoomed out of view or cropped, and the
// caller should stop the sweep there.
func FindCenterCircle(img gocv.Mat, circlishTol float64) *Circle {
	gray := images.ToGray(img)
	defer gray.Close()

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, imageKsize(), 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(blur, &thresh, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	width := float32(img.Cols())
	height := float32(img.Rows())
	centerX, centerY := width/2, height/2

	var best *Circle
	var bestDist float32
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := float32(gocv.ContourArea(contour))
		b := images.BoxFromRect(gocv.BoundingRect(contour))

		r := float32(b.W+b.H) / 4
		if r < minRadiusPx {
			continue
		}
		ideal := math32.Pi * r * r
		circlish := area / ideal
		if math32.Abs(circlish-1) > float32(circlishTol) {
			continue
		}

		// A circle touching the frame edge is cropped and unusable.
		if b.X <= 0 || b.Y <= 0 ||
			b.X+b.W >= img.Cols()-1 || b.Y+b.H >= img.Rows()-1 {
			continue
		}

		cx, cy := b.Center()
		dist := math32.Hypot(float32(cx)-centerX, float32(cy)-centerY)
		if best == nil || dist < bestDist {
			best = &Circle{X: float32(cx), Y: float32(cy), R: r}
			bestDist = dist
		}
	}
	return best
}

// ScalingError reports a measurement whose circle geometry does not
// track the requested zoom.
type ScalingError struct {
	Zoom     float64
	Quantity string
	Actual   float64
	Expected float64
	Tol      float64
}

func (e *ScalingError) Error() string {
	return fmt.Sprintf(
		"zoom %.2f: %s %.3f deviates from expected %.3f beyond relative tolerance %.2f",
		e.Zoom, e.Quantity, e.Actual, e.Expected, e.Tol)
}

// Verify checks every measurement in the sweep against the first one.
// Radii must scale with zoom to within each measurement's radius
// tolerance, and zoom-normalized center offsets must stay stable to
// within the offset tolerance.
func Verify(data []Measurement, width, height int) error {
	if len(data) < 2 {
		return fmt.Errorf("zoom sweep needs at least 2 measurements, got %d", len(data))
	}

	ref := data[0]
	centerX := float32(width) / 2
	centerY := float32(height) / 2
	refOffset := math32.Hypot(ref.Circle.X-centerX, ref.Circle.Y-centerY)

	for _, m := range data[1:] {
		relZoom := m.Zoom / ref.Zoom

		radiusRatio := float64(m.Circle.R / ref.Circle.R)
		if relErr(radiusRatio, relZoom) > m.RadiusTol {
			return &ScalingError{
				Zoom:     m.Zoom,
				Quantity: "radius ratio",
				Actual:   radiusRatio,
				Expected: relZoom,
				Tol:      m.RadiusTol,
			}
		}

		// The circle center's distance from the image center scales with
		// zoom, so the zoom-normalized offset is invariant. Skip when the
		// reference offset is too small to normalize meaningfully.
		offset := math32.Hypot(m.Circle.X-centerX, m.Circle.Y-centerY)
		if refOffset > 1 {
			normRef := float64(refOffset) / ref.Zoom
			norm := float64(offset) / m.Zoom
			if relErr(norm, normRef) > m.OffsetTol {
				return &ScalingError{
					Zoom:     m.Zoom,
					Quantity: "normalized center offset",
					Actual:   norm,
					Expected: normRef,
					Tol:      m.OffsetTol,
				}
			}
		}

		logging.Debug("zoom measurement ok",
			"zoom", m.Zoom, "radius", m.Circle.R, "offset", offset)
	}
	return nil
}

func relErr(actual, expected float64) float64 {
	if expected == 0 {
		return 0
	}
	d := actual/expected - 1
	if d < 0 {
		d = -d
	}
	return d
}
