package lowlight

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/camlab/go-its/images"
)

// cornerRegions builds a column-sorted region list where only the four
// corner squares carry distinct luminances.
func cornerRegions(tl, bl, tr, br int) []Region {
	regions := make([]Region, 20)
	for i := range regions {
		regions[i] = Region{Luminance: 128}
	}
	regions[cornerIndex[TopLeft]].Luminance = tl
	regions[cornerIndex[BottomLeft]].Luminance = bl
	regions[cornerIndex[TopRight]].Luminance = tr
	regions[cornerIndex[BottomRight]].Luminance = br
	return regions
}

func TestDetectOrientationTable(t *testing.T) {
	tests := []struct {
		name           string
		tl, bl, tr, br int
		want           Orientation
	}{
		{name: "canonical", tl: 100, bl: 250, tr: 150, br: 10, want: Canonical},
		{name: "rotated_cw_from_canonical", tl: 250, bl: 10, tr: 100, br: 150, want: RotateCCW},
		{name: "rotated_ccw_from_canonical", tl: 150, bl: 100, tr: 10, br: 250, want: RotateCW},
		{name: "rotated_180", tl: 10, bl: 150, tr: 250, br: 100, want: FlipBoth},
		{name: "mirrored_horizontal", tl: 150, bl: 10, tr: 100, br: 250, want: FlipHorizontal},
		{name: "mirrored_vertical", tl: 250, bl: 100, tr: 10, br: 150, want: FlipVertical},
		{name: "mirrored_then_rotated_cw", tl: 10, bl: 250, tr: 150, br: 100, want: RotateCWFlipVertical},
		{name: "mirrored_then_rotated_ccw", tl: 100, bl: 150, tr: 250, br: 10, want: RotateCWFlipHorizontal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectOrientation(cornerRegions(tc.tl, tc.bl, tc.tr, tc.br))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDetectOrientationAmbiguous(t *testing.T) {
	// All corners equal: darkest and brightest resolve to the same square.
	_, err := DetectOrientation(cornerRegions(128, 128, 128, 128))

	var orientationErr *OrientationError
	require.ErrorAs(t, err, &orientationErr)
	require.Equal(t, OrientationAmbiguous, orientationErr.Reason)
}

func TestDetectOrientationUnmapped(t *testing.T) {
	// Darkest and brightest on the same diagonal never occurs for any
	// rigid transform of the chart.
	_, err := DetectOrientation(cornerRegions(10, 100, 150, 250))

	var orientationErr *OrientationError
	require.ErrorAs(t, err, &orientationErr)
	require.Equal(t, OrientationUnmapped, orientationErr.Reason)
	require.Equal(t, TopLeft, orientationErr.Darkest)
	require.Equal(t, BottomRight, orientationErr.Brightest)
}

func TestCanonicalApplyCopiesWithoutTransform(t *testing.T) {
	frame := gradientFrame(t, 40, 60)
	defer frame.Close()

	out := Canonical.Apply(frame)
	defer out.Close()

	require.Equal(t, images.Checksum(frame), images.Checksum(out))
}

func TestRotationRoundTrip(t *testing.T) {
	frame := gradientFrame(t, 40, 60)
	defer frame.Close()

	// A capture rotated 90 CW from canonical is corrected by RotateCCW;
	// the result must be bit-identical to the untouched canonical frame.
	rotated := images.Rotate90CW(frame)
	defer rotated.Close()
	restored := RotateCCW.Apply(rotated)
	defer restored.Close()

	require.Equal(t, images.Checksum(frame), images.Checksum(restored))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	frame := gradientFrame(t, 40, 60)
	defer frame.Close()
	before := images.Checksum(frame)

	for _, o := range []Orientation{
		Canonical, RotateCW, RotateCCW, FlipVertical,
		FlipHorizontal, FlipBoth, RotateCWFlipVertical, RotateCWFlipHorizontal,
	} {
		out := o.Apply(frame)
		out.Close()
	}

	require.Equal(t, before, images.Checksum(frame))
}

// gradientFrame fills a BGR Mat with position-dependent values so any
// geometric transform changes the byte layout.
func gradientFrame(t *testing.T, rows, cols int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.SetUCharAt(y, x*3, uint8(x%256))
			m.SetUCharAt(y, x*3+1, uint8(y%256))
			m.SetUCharAt(y, x*3+2, uint8((x+y)%256))
		}
	}
	return m
}
