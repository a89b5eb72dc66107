package images

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	boxOutlineColor = color.RGBA{G: 255}
	labelColor      = color.RGBA{R: 255, G: 255, B: 255}
)

// DrawBox outlines the box on the image in green.
func DrawBox(img *gocv.Mat, b Box) {
	gocv.Rectangle(img, b.ToRect(), boxOutlineColor, 2)
}

// DrawLabeledBox outlines the box and writes the label just above its
// top-left corner. Used to annotate each chart square with its measured
// luminance on the result artifact.
func DrawLabeledBox(img *gocv.Mat, b Box, label string) {
	DrawBox(img, b)
	origin := image.Pt(b.X, b.Y-10)
	gocv.PutText(img, label, origin, gocv.FontHersheyPlain, 1, labelColor, 1)
}

// DrawCircle outlines a circle, used to mark the detected zoom target.
func DrawCircle(img *gocv.Mat, cx, cy, radius int) {
	gocv.Circle(img, image.Pt(cx, cy), radius, boxOutlineColor, 2)
}

// DrawCrosshair marks a point with a small cross, used for principal
// point and circle-center annotations.
func DrawCrosshair(img *gocv.Mat, x, y int) {
	gocv.Line(img, image.Pt(x-8, y), image.Pt(x+8, y), boxOutlineColor, 1)
	gocv.Line(img, image.Pt(x, y-8), image.Pt(x, y+8), boxOutlineColor, 1)
}

// FormatLuminance renders an integer luminance for annotation.
func FormatLuminance(v int) string {
	return fmt.Sprintf("%d", v)
}
