package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxRectRoundTrip(t *testing.T) {
	b := Box{X: 10, Y: 20, W: 30, H: 40}
	require.Equal(t, image.Rect(10, 20, 40, 60), b.ToRect())
	require.Equal(t, b, BoxFromRect(b.ToRect()))
}

func TestBoxAspectRatio(t *testing.T) {
	require.InDelta(t, 1.0, Box{W: 50, H: 50}.AspectRatio(), 1e-9)
	require.InDelta(t, 2.0, Box{W: 100, H: 50}.AspectRatio(), 1e-9)
	require.Zero(t, Box{W: 100, H: 0}.AspectRatio())
}

func TestBoxShrink(t *testing.T) {
	b := Box{X: 100, Y: 100, W: 50, H: 40}

	// 20% of the smaller dimension (40) is 8 per side.
	inner := b.Shrink(0.2)
	require.Equal(t, Box{X: 108, Y: 108, W: 34, H: 24}, inner)

	require.Equal(t, b, b.Shrink(0))
}

func TestBoxCenter(t *testing.T) {
	cx, cy := Box{X: 10, Y: 20, W: 30, H: 40}.Center()
	require.InDelta(t, 25.0, cx, 1e-9)
	require.InDelta(t, 40.0, cy, 1e-9)
}

func TestIoU(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}

	require.InDelta(t, 1.0, IoU(a, a), 1e-6)
	require.Zero(t, IoU(a, Box{X: 20, Y: 20, W: 10, H: 10}))

	// 5x5 overlap over a union of 175.
	b := Box{X: 5, Y: 5, W: 10, H: 10}
	require.InDelta(t, 25.0/175.0, IoU(a, b), 1e-6)
}
