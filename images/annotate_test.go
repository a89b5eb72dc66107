package images

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestDrawCircleMarksTarget(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0),
		200, 200, gocv.MatTypeCV8UC3)
	defer frame.Close()
	before := Checksum(frame)

	DrawCircle(&frame, 100, 100, 40)
	require.NotEqual(t, before, Checksum(frame))

	// The outline passes through the rightmost point of the circle, in
	// the green outline color.
	require.EqualValues(t, 255, frame.GetUCharAt(100, 140*3+1))
	// The interior stays untouched.
	require.EqualValues(t, 0, frame.GetUCharAt(100, 100*3+1))
}

func TestDrawCrosshairMarksCenter(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0),
		100, 100, gocv.MatTypeCV8UC3)
	defer frame.Close()

	DrawCrosshair(&frame, 50, 50)

	// Both arms pass through the marked point.
	require.EqualValues(t, 255, frame.GetUCharAt(50, 50*3+1))
	require.EqualValues(t, 255, frame.GetUCharAt(50, 44*3+1))
	require.EqualValues(t, 255, frame.GetUCharAt(44, 50*3+1))
}
