package distortion

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Point is a 2D point in pixel or chart coordinates.
type Point struct {
	X, Y float64
}

// fitHomography computes the least-squares planar homography mapping src
// onto dst. At least 4 point pairs are required.
func fitHomography(src, dst []Point) ([3][3]float64, error) {
	var h [3][3]float64
	if len(src) != len(dst) {
		return h, errors.Errorf("point count mismatch: %d vs %d", len(src), len(dst))
	}
	if len(src) < 4 {
		return h, errors.Errorf("homography needs at least 4 points, got %d", len(src))
	}

	srcMat := pointsToMat(src)
	defer srcMat.Close()
	dstMat := pointsToMat(dst)
	defer dstMat.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	m := gocv.FindHomography(srcMat, dstMat, gocv.HomographyMethodAllPoints, 3, &mask, 2000, 0.995)
	defer m.Close()
	if m.Empty() {
		return h, errors.New("degenerate point configuration")
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i][j] = m.GetDoubleAt(i, j)
		}
	}
	return h, nil
}

func pointsToMat(pts []Point) gocv.Mat {
	m := gocv.NewMatWithSize(len(pts), 1, gocv.MatTypeCV64FC2)
	for i, p := range pts {
		m.SetDoubleAt(i, 0, p.X)
		m.SetDoubleAt(i, 1, p.Y)
	}
	return m
}

// projectPoint applies the homography to a point.
func projectPoint(h [3][3]float64, p Point) Point {
	w := h[2][0]*p.X + h[2][1]*p.Y + h[2][2]
	if w == 0 {
		w = 1e-12
	}
	return Point{
		X: (h[0][0]*p.X + h[0][1]*p.Y + h[0][2]) / w,
		Y: (h[1][0]*p.X + h[1][1]*p.Y + h[1][2]) / w,
	}
}
