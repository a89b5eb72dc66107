package zoom

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func blackColor() color.RGBA { return color.RGBA{} }

func TestSweepParams(t *testing.T) {
	p := SweepParams(1, 10, 10)
	require.InDelta(t, 1.0, p.Min, 1e-9)
	require.InDelta(t, 10.0, p.Max, 1e-9)
	require.InDelta(t, 1.0, p.Step, 1e-9)
	require.True(t, p.Testable())

	require.False(t, SweepParams(1, 1.5, 10).Testable())
}

func TestCirclishTolWidensBelowUnityZoom(t *testing.T) {
	require.InDelta(t, CirclishRelTol, CirclishTol(1.0), 1e-9)
	require.InDelta(t, CirclishRelTol, CirclishTol(4.0), 1e-9)
	require.InDelta(t, CirclishRelTol*2, CirclishTol(0.5), 1e-9)
}

func circleFrame(t *testing.T, cx, cy, r int) gocv.Mat {
	t.Helper()
	// White scene with a solid black circle, like the zoom test chart.
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(250, 250, 250, 0),
		480, 640, gocv.MatTypeCV8UC3)
	gocv.Circle(&frame, image.Pt(cx, cy), r, blackColor(), -1)
	return frame
}

func TestFindCenterCircle(t *testing.T) {
	frame := circleFrame(t, 320, 240, 60)
	defer frame.Close()

	c := FindCenterCircle(frame, CirclishTol(1))
	require.NotNil(t, c)
	require.InDelta(t, 320, c.X, 3)
	require.InDelta(t, 240, c.Y, 3)
	require.InDelta(t, 60, c.R, 3)
}

func TestFindCenterCircleRejectsCropped(t *testing.T) {
	// Circle partially outside the frame.
	frame := circleFrame(t, 630, 240, 60)
	defer frame.Close()

	require.Nil(t, FindCenterCircle(frame, CirclishTol(1)))
}

func TestFindCenterCircleRejectsSquare(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(250, 250, 250, 0),
		480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	gocv.Rectangle(&frame, image.Rect(270, 190, 370, 290), blackColor(), -1)

	require.Nil(t, FindCenterCircle(frame, CirclishTol(1)))
}

func measurement(z float64, x, y, r float32) Measurement {
	return Measurement{
		Zoom:      z,
		Circle:    Circle{X: x, Y: y, R: r},
		RadiusTol: RadiusRelTol,
		OffsetTol: OffsetRelTol,
	}
}

func TestVerifyAcceptsLinearScaling(t *testing.T) {
	// Center offset of 20px at 1x scaling to 40px at 2x, radius doubling.
	data := []Measurement{
		measurement(1, 340, 240, 50),
		measurement(2, 360, 240, 100),
		measurement(4, 400, 240, 200),
	}
	require.NoError(t, Verify(data, 640, 480))
}

func TestVerifyFlagsRadiusViolation(t *testing.T) {
	data := []Measurement{
		measurement(1, 320, 240, 50),
		// Radius should be ~100 at 2x; 70 is far outside 10%.
		measurement(2, 320, 240, 70),
	}
	err := Verify(data, 640, 480)
	var scalingErr *ScalingError
	require.ErrorAs(t, err, &scalingErr)
	require.Equal(t, "radius ratio", scalingErr.Quantity)
	require.InDelta(t, 2.0, scalingErr.Expected, 1e-9)
}

func TestVerifyFlagsOffsetViolation(t *testing.T) {
	data := []Measurement{
		measurement(1, 360, 240, 50),
		// Offset should roughly double with zoom; tripling it fails.
		measurement(2, 440, 240, 100),
	}
	err := Verify(data, 640, 480)
	var scalingErr *ScalingError
	require.ErrorAs(t, err, &scalingErr)
	require.Equal(t, "normalized center offset", scalingErr.Quantity)
}

func TestVerifyNeedsTwoMeasurements(t *testing.T) {
	require.Error(t, Verify([]Measurement{measurement(1, 320, 240, 50)}, 640, 480))
}
