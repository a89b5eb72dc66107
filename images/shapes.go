// Package images - Geometry helpers shared by the analysis pipelines.
package images

import "image"

// Box is an axis-aligned rectangle expressed as origin plus size,
// matching the (x, y, w, h) tuples produced by contour bounding rects.
type Box struct {
	X, Y, W, H int
}

// BoxFromRect converts an image.Rectangle into a Box.
func BoxFromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// ToRect converts the box to an image.Rectangle with exclusive max edges.
func (b Box) ToRect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// AspectRatio returns width divided by height. A zero-height box
// returns 0 rather than dividing by zero.
func (b Box) AspectRatio() float64 {
	if b.H == 0 {
		return 0
	}
	return float64(b.W) / float64(b.H)
}

// Center returns the midpoint of the box.
func (b Box) Center() (float64, float64) {
	return float64(b.X) + float64(b.W)/2, float64(b.Y) + float64(b.H)/2
}

// Area returns the box area in pixels.
func (b Box) Area() int {
	return b.W * b.H
}

// Shrink insets the box on all sides by ratio times the smaller dimension.
// A ratio of 0.2 on a 50x40 box insets by 8 pixels per side.
func (b Box) Shrink(ratio float64) Box {
	pad := int(float64(min(b.W, b.H)) * ratio)
	return Box{
		X: b.X + pad,
		Y: b.Y + pad,
		W: b.W - 2*pad,
		H: b.H - 2*pad,
	}
}

// IoU (Intersection over Union) measures the overlap between two boxes
// as a value in [0, 1]. 1.0 means identical boxes, 0.0 means disjoint.
//
// See also:
//   - http://ronny.rest/tutorials/module/localization_001/iou
func IoU(a, b Box) float64 {
	inter := a.ToRect().Intersect(b.ToRect())
	if inter.Empty() {
		return 0.0
	}
	interArea := inter.Dx() * inter.Dy()
	unionArea := a.Area() + b.Area() - interArea
	if unionArea == 0 {
		return 0.0
	}
	return float64(interArea) / float64(unionArea)
}
