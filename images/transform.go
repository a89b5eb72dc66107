package images

import "gocv.io/x/gocv"

// Rotate90CW returns a copy of the frame rotated 90 degrees clockwise.
func Rotate90CW(img gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Rotate(img, &out, gocv.Rotate90Clockwise)
	return out
}

// Rotate90CCW returns a copy of the frame rotated 90 degrees counterclockwise.
func Rotate90CCW(img gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Rotate(img, &out, gocv.Rotate90CounterClockwise)
	return out
}

// Rotate180 returns a copy of the frame rotated 180 degrees.
func Rotate180(img gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Rotate(img, &out, gocv.Rotate180Clockwise)
	return out
}

// FlipVertical mirrors the frame around the horizontal axis.
func FlipVertical(img gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Flip(img, &out, 0)
	return out
}

// FlipHorizontal mirrors the frame around the vertical axis.
func FlipHorizontal(img gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Flip(img, &out, 1)
	return out
}

// FlipBoth mirrors the frame around both axes, equivalent to Rotate180.
func FlipBoth(img gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Flip(img, &out, -1)
	return out
}

// Clone returns an owned deep copy of the frame.
func Clone(img gocv.Mat) gocv.Mat {
	return img.Clone()
}
