// Package images - Color-space conversions and channel statistics
// used by the image-quality checks.
//
// All conversions allocate a fresh Mat and never mutate the input, so the
// same captured frame can be fed through several checks. Callers own the
// returned Mats and must Close() them.
package images

import (
	"math"

	"gocv.io/x/gocv"
)

// ToGray converts a BGR frame to single-channel grayscale.
func ToGray(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	return gray
}

// ToHSV converts a BGR frame to HSV. OpenCV hue is in [0, 179].
func ToHSV(img gocv.Mat) gocv.Mat {
	hsv := gocv.NewMat()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)
	return hsv
}

// LumaY converts a BGR frame to CIE XYZ and returns just the Y channel,
// which carries the luminance used by the chart brightness checks.
func LumaY(img gocv.Mat) gocv.Mat {
	xyz := gocv.NewMat()
	gocv.CvtColor(img, &xyz, gocv.ColorBGRToXYZ)
	defer xyz.Close()

	channels := gocv.Split(xyz)
	// X is channel 0, Y is channel 1, Z is channel 2.
	for i, ch := range channels {
		if i != 1 {
			ch.Close()
		}
	}
	return channels[1]
}

// ChannelMean returns the mean of a single channel of the image.
// For a single-channel Mat pass channel 0.
func ChannelMean(img gocv.Mat, channel int) float64 {
	mean := img.Mean()
	switch channel {
	case 0:
		return mean.Val1
	case 1:
		return mean.Val2
	case 2:
		return mean.Val3
	case 3:
		return mean.Val4
	}
	return 0
}

// Patch returns a view of the region bounded by box. The view shares
// pixel storage with img; Close() it when done, but do not write to it
// if the source frame must stay pristine.
func Patch(img gocv.Mat, b Box) gocv.Mat {
	return img.Region(b.ToRect())
}

// MeanLuminance computes the integer mean luminance of the given box,
// shrunk inward by padRatio of the smaller dimension so edge pixels and
// printed borders do not contaminate the sample.
func MeanLuminance(img gocv.Mat, b Box, padRatio float64) int {
	inner := b.Shrink(padRatio)
	patch := Patch(img, inner)
	defer patch.Close()

	luma := LumaY(patch)
	defer luma.Close()

	return int(ChannelMean(luma, 0))
}

// RGBMeans returns the per-channel means of a BGR frame in R, G, B order.
func RGBMeans(img gocv.Mat) (r, g, b float64) {
	mean := img.Mean()
	return mean.Val3, mean.Val2, mean.Val1
}

// Sharpness estimates edge contrast as the mean gradient magnitude of
// the grayscale image. Higher values mean a better focused patch.
func Sharpness(img gocv.Mat) float64 {
	gray := ToGray(img)
	defer gray.Close()

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(gray, &gx, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &gy, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	sum := 0.0
	rows, cols := gray.Rows(), gray.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dx := gx.GetDoubleAt(y, x)
			dy := gy.GetDoubleAt(y, x)
			sum += math.Sqrt(dx*dx + dy*dy)
		}
	}
	return sum / float64(rows*cols)
}
