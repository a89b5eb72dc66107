// Package distortion measures geometric lens distortion on captures of
// the chessboard and ArUco calibration charts. Detected chart corners
// are compared against an ideal undistorted plane projection; the mean
// residual, normalized by corner count and chart size, must stay under a
// small percentage.
package distortion

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/camlab/go-its/logging"
)

const (
	// ChessboardDistTol is the maximum normalized distortion error
	// percentage for the chessboard chart.
	ChessboardDistTol = 0.1
	// ArucoDistTol is the same bound for the ArUco chart.
	ArucoDistTol = 0.1
	// ChessboardCorners is the inner corner count per side of the chart.
	ChessboardCorners = 24
	// ArucoCount is how many markers the ArUco chart carries: a 3x3 grid
	// with the center position empty.
	ArucoCount = 8
	// arucoGridSide is the marker grid dimension.
	arucoGridSide = 3
)

// IdealGridPoints returns cols x rows chart points at unit spacing in
// row-major order, matching detector corner ordering.
func IdealGridPoints(cols, rows int) []Point {
	pts := make([]Point, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pts = append(pts, Point{X: float64(c), Y: float64(r)})
		}
	}
	return pts
}

// IdealArucoPoints returns the 8 ideal marker positions of the 3x3 chart
// with the center removed, ordered by marker id.
func IdealArucoPoints() []Point {
	full := IdealGridPoints(arucoGridSide, arucoGridSide)
	middle := (arucoGridSide/2)*arucoGridSide + arucoGridSide/2
	pts := make([]Point, 0, ArucoCount)
	for i, p := range full {
		if i == middle {
			continue
		}
		pts = append(pts, p)
	}
	return pts
}

// Result holds one chart's distortion measurement.
type Result struct {
	// ErrorPercent is the mean reprojection residual normalized by the
	// corner count and the chart diagonal, in percent.
	ErrorPercent float64
	// ChartCoverage is the chart diagonal relative to the image
	// diagonal, in percent. Small coverage means a weak measurement.
	ChartCoverage float64
}

// DistortionError fits the ideal chart plane to the detected corners as
// an undistorted pinhole view and measures how far the detections
// deviate from it. detected and ideal are index-aligned.
func DistortionError(detected, ideal []Point, imageWidth, imageHeight int) (Result, error) {
	if len(detected) != len(ideal) {
		return Result{}, errors.Errorf(
			"detected %d corners for %d ideal points", len(detected), len(ideal))
	}

	h, err := fitHomography(ideal, detected)
	if err != nil {
		return Result{}, errors.Wrap(err, "fitting undistorted chart projection")
	}

	var total float64
	for i, p := range ideal {
		proj := projectPoint(h, p)
		total += math.Hypot(proj.X-detected[i].X, proj.Y-detected[i].Y)
	}
	meanResidual := total / float64(len(detected))

	// Normalize by the flattened coordinate count, then by chart size,
	// so the score is comparable across resolutions and chart distances.
	normalized := meanResidual / float64(2*len(detected))

	first, last := detected[0], detected[len(detected)-1]
	chartDiagonal := math.Hypot(last.X-first.X, last.Y-first.Y)
	if chartDiagonal == 0 {
		return Result{}, errors.New("degenerate chart: zero diagonal")
	}
	imageDiagonal := math.Hypot(float64(imageWidth), float64(imageHeight))

	res := Result{
		ErrorPercent:  normalized / chartDiagonal * 100,
		ChartCoverage: chartDiagonal / imageDiagonal * 100,
	}
	logging.Debug("distortion measured",
		"mean_residual_px", meanResidual,
		"error_percent", res.ErrorPercent,
		"chart_coverage", res.ChartCoverage)
	return res, nil
}

// ToleranceError reports a chart whose distortion exceeds its bound.
type ToleranceError struct {
	Chart   string
	Percent float64
	Tol     float64
}

func (e *ToleranceError) Error() string {
	return fmt.Sprintf("%s distortion error %.4f%% exceeds %.4f%%",
		e.Chart, e.Percent, e.Tol)
}

// VerifyChessboard checks a chessboard measurement against its bound.
func VerifyChessboard(res Result) error {
	if res.ErrorPercent > ChessboardDistTol {
		return &ToleranceError{Chart: "chessboard", Percent: res.ErrorPercent, Tol: ChessboardDistTol}
	}
	return nil
}

// VerifyAruco checks an ArUco measurement against its bound.
func VerifyAruco(res Result) error {
	if res.ErrorPercent > ArucoDistTol {
		return &ToleranceError{Chart: "aruco", Percent: res.ErrorPercent, Tol: ArucoDistTol}
	}
	return nil
}
