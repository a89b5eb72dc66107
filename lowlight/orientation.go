package lowlight

import (
	"gocv.io/x/gocv"

	"github.com/camlab/go-its/images"
)

// Corner names one of the four diagnostic squares of the chart.
type Corner int

const (
	TopLeft Corner = iota
	BottomLeft
	TopRight
	BottomRight
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case BottomLeft:
		return "bottom-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	}
	return "unknown"
}

// Positions of the four corner squares within the column-major ordering
// of all 20 regions.
var cornerIndex = map[Corner]int{
	TopLeft:     2,
	BottomLeft:  5,
	TopRight:    14,
	BottomRight: 17,
}

// Orientation is one transform that maps a misoriented capture back to
// canonical chart orientation (darkest corner bottom-right, brightest
// bottom-left).
type Orientation int

const (
	// Canonical means the capture already has the correct orientation.
	Canonical Orientation = iota
	RotateCWFlipVertical
	RotateCWFlipHorizontal
	RotateCW
	RotateCCW
	FlipVertical
	FlipHorizontal
	FlipBoth
)

// cornerPair keys the orientation table on the observed darkest and
// brightest corners.
type cornerPair struct {
	darkest   Corner
	brightest Corner
}

// orientationTable enumerates every corner arrangement a rotated or
// mirrored capture can produce. Pairs absent from the table cannot arise
// from any rigid transform of the chart and indicate detection failure.
var orientationTable = map[cornerPair]Orientation{
	{TopLeft, BottomLeft}:     RotateCWFlipVertical,
	{TopLeft, TopRight}:       FlipBoth,
	{BottomLeft, TopLeft}:     RotateCCW,
	{BottomLeft, BottomRight}: FlipHorizontal,
	{TopRight, TopLeft}:       FlipVertical,
	{TopRight, BottomRight}:   RotateCW,
	{BottomRight, BottomLeft}: Canonical,
	{BottomRight, TopRight}:   RotateCWFlipHorizontal,
}

// Apply returns a fresh Mat holding the reoriented frame. The input is
// not modified. Canonical returns a plain copy so the caller always owns
// the result.
func (o Orientation) Apply(img gocv.Mat) gocv.Mat {
	switch o {
	case RotateCWFlipVertical:
		rotated := images.Rotate90CW(img)
		defer rotated.Close()
		return images.FlipVertical(rotated)
	case RotateCWFlipHorizontal:
		rotated := images.Rotate90CW(img)
		defer rotated.Close()
		return images.FlipHorizontal(rotated)
	case RotateCW:
		return images.Rotate90CW(img)
	case RotateCCW:
		return images.Rotate90CCW(img)
	case FlipVertical:
		return images.FlipVertical(img)
	case FlipHorizontal:
		return images.FlipHorizontal(img)
	case FlipBoth:
		return images.FlipBoth(img)
	default:
		return images.Clone(img)
	}
}

// DetectOrientation inspects the four corner squares of the column-sorted
// regions and resolves which transform restores canonical orientation.
//
// Two failure modes exist. If the darkest and brightest corners coincide
// the chart gradient was not captured at all, and if the observed pair has
// no table entry the detections are inconsistent with any rigid transform.
// Both return an OrientationError.
func DetectOrientation(sorted []Region) (Orientation, error) {
	darkest, brightest := TopLeft, TopLeft
	darkestLum, brightestLum := int(^uint(0)>>1), -1

	// Fixed iteration order keeps tie-breaking deterministic.
	for _, corner := range []Corner{TopLeft, BottomLeft, TopRight, BottomRight} {
		lum := sorted[cornerIndex[corner]].Luminance
		if lum < darkestLum {
			darkest, darkestLum = corner, lum
		}
		if lum > brightestLum {
			brightest, brightestLum = corner, lum
		}
	}

	if darkest == brightest {
		return Canonical, &OrientationError{
			Reason:    OrientationAmbiguous,
			Darkest:   darkest,
			Brightest: brightest,
		}
	}

	o, ok := orientationTable[cornerPair{darkest, brightest}]
	if !ok {
		return Canonical, &OrientationError{
			Reason:    OrientationUnmapped,
			Darkest:   darkest,
			Brightest: brightest,
		}
	}
	return o, nil
}
