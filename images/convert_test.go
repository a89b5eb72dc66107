package images

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func grayFrame(rows, cols int, v float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0),
		rows, cols, gocv.MatTypeCV8UC3)
}

func TestLumaYOfGrayFrame(t *testing.T) {
	frame := grayFrame(50, 50, 100)
	defer frame.Close()

	luma := LumaY(frame)
	defer luma.Close()

	require.Equal(t, 1, luma.Channels())
	// For gray pixels the XYZ luminance coefficients sum to 1.
	require.InDelta(t, 100.0, ChannelMean(luma, 0), 1.5)
}

func TestMeanLuminanceIgnoresBoxEdges(t *testing.T) {
	frame := grayFrame(200, 200, 0)
	defer frame.Close()

	// Bright interior with a dark border ring inside the box: the padded
	// sampling window must see only the interior.
	b := Box{X: 50, Y: 50, W: 100, H: 100}
	gocv.Rectangle(&frame, b.ToRect(), color.RGBA{R: 10, G: 10, B: 10}, -1)
	gocv.Rectangle(&frame, b.Shrink(0.25).ToRect(), color.RGBA{R: 180, G: 180, B: 180}, -1)

	require.InDelta(t, 180, MeanLuminance(frame, b, 0.3), 2)
}

func TestRGBMeans(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0),
		20, 20, gocv.MatTypeCV8UC3)
	defer frame.Close()

	r, g, b := RGBMeans(frame)
	require.InDelta(t, 30.0, r, 1e-6)
	require.InDelta(t, 20.0, g, 1e-6)
	require.InDelta(t, 10.0, b, 1e-6)
}

func TestSharpnessPrefersEdges(t *testing.T) {
	flat := grayFrame(64, 64, 128)
	defer flat.Close()

	striped := grayFrame(64, 64, 0)
	defer striped.Close()
	for x := 0; x < 64; x += 8 {
		gocv.Rectangle(&striped, Box{X: x, Y: 0, W: 4, H: 64}.ToRect(),
			color.RGBA{R: 255, G: 255, B: 255}, -1)
	}

	require.Greater(t, Sharpness(striped), Sharpness(flat))
	require.InDelta(t, 0.0, Sharpness(flat), 1e-6)
}

func TestChecksumDetectsMutation(t *testing.T) {
	frame := grayFrame(32, 32, 77)
	defer frame.Close()

	before := Checksum(frame)
	require.Equal(t, before, Checksum(frame))

	gocv.Rectangle(&frame, Box{X: 4, Y: 4, W: 8, H: 8}.ToRect(),
		color.RGBA{R: 200}, -1)
	require.NotEqual(t, before, Checksum(frame))
}
