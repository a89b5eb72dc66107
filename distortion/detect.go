package distortion

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/camlab/go-its/images"
)

// DetectChessboard finds and subpixel-refines the inner corners of a
// chessboard chart. patternCols and patternRows are inner corner counts.
// ok is false when the full pattern is not visible.
func DetectChessboard(img gocv.Mat, patternCols, patternRows int) (corners []Point, ok bool) {
	gray := images.ToGray(img)
	defer gray.Close()

	cornerMat := gocv.NewMat()
	defer cornerMat.Close()
	pattern := image.Pt(patternCols, patternRows)
	if found := gocv.FindChessboardCorners(gray, pattern, &cornerMat, gocv.CalibCBAdaptiveThresh|gocv.CalibCBNormalizeImage); !found {
		return nil, false
	}

	criteria := gocv.NewTermCriteria(gocv.MaxIter|gocv.EPS, 30, 0.001)
	gocv.CornerSubPix(gray, &cornerMat, image.Pt(11, 11), image.Pt(-1, -1), criteria)

	corners = make([]Point, 0, cornerMat.Rows())
	for i := 0; i < cornerMat.Rows(); i++ {
		v := cornerMat.GetVecfAt(i, 0)
		corners = append(corners, Point{X: float64(v[0]), Y: float64(v[1])})
	}
	return corners, true
}

// DetectArucoMarkers finds the chart's ArUco markers and returns the
// top-left corner of each, ordered by marker id. All ArucoCount markers
// must be visible.
func DetectArucoMarkers(img gocv.Mat) ([]Point, error) {
	dict := gocv.GetPredefinedDictionary(gocv.ArucoDict4x4_100)
	params := gocv.NewArucoDetectorParameters()
	detector := gocv.NewArucoDetectorWithParams(dict, params)
	defer detector.Close()

	markerCorners, markerIDs, _ := detector.DetectMarkers(img)
	if len(markerIDs) < ArucoCount {
		return nil, errors.Errorf("found %d ArUco markers, need %d",
			len(markerIDs), ArucoCount)
	}

	byID := make(map[int]Point, len(markerIDs))
	for i, id := range markerIDs {
		if len(markerCorners[i]) == 0 {
			continue
		}
		first := markerCorners[i][0]
		byID[id] = Point{X: float64(first.X), Y: float64(first.Y)}
	}

	ordered := make([]Point, 0, ArucoCount)
	for id := 0; id < ArucoCount; id++ {
		p, ok := byID[id]
		if !ok {
			return nil, errors.Errorf("ArUco marker id %d missing", id)
		}
		ordered = append(ordered, p)
	}
	return ordered, nil
}
