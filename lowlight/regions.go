package lowlight

import (
	"image"
	"sort"

	"gocv.io/x/gocv"

	"github.com/camlab/go-its/images"
)

func image3x3() image.Point { return image.Pt(3, 3) }

// Red wraps around the ends of the OpenCV hue circle, so the border mask
// is the union of a low-hue range and a high-hue range.
var (
	redHueLower1 = gocv.NewScalar(0, 100, 100, 0)
	redHueUpper1 = gocv.NewScalar(20, 255, 255, 0)
	redHueLower2 = gocv.NewScalar(170, 100, 100, 0)
	redHueUpper2 = gocv.NewScalar(179, 255, 255, 0)
)

// Region pairs a detected chart square with its sampled luminance.
type Region struct {
	Box       images.Box
	Luminance int
}

// Crop trims the capture to the interior of the red chart border. The
// border is located as the largest near-square red contour; the crop is
// then inset by cfg.CropPadding so no border pixels remain. If no border
// is found the original frame is returned with found=false, since some
// capture paths already deliver a pre-cropped frame.
//
// When found, the returned Mat is a view sharing storage with img and
// must be Closed by the caller.
func Crop(img gocv.Mat, cfg *Config) (cropped gocv.Mat, found bool) {
	hsv := images.ToHSV(img)
	defer hsv.Close()

	mask1 := gocv.NewMat()
	defer mask1.Close()
	mask2 := gocv.NewMat()
	defer mask2.Close()
	gocv.InRangeWithScalar(hsv, redHueLower1, redHueUpper1, &mask1)
	gocv.InRangeWithScalar(hsv, redHueLower2, redHueUpper2, &mask2)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Add(mask1, mask2, &mask)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	// Largest near-square contour wins; tiny red specks never qualify.
	maxArea := 20
	var best images.Box
	for i := 0; i < contours.Size(); i++ {
		b := images.BoxFromRect(gocv.BoundingRect(contours.At(i)))
		ar := b.AspectRatio()
		if ar <= cfg.MinAspectRatio || ar >= cfg.MaxAspectRatio {
			continue
		}
		if area := b.Area(); area > maxArea {
			maxArea = area
			best = b
			found = true
		}
	}
	if !found {
		return img, false
	}

	inner := images.Box{
		X: best.X + cfg.CropPadding,
		Y: best.Y + cfg.CropPadding,
		W: best.W - 2*cfg.CropPadding,
		H: best.H - 2*cfg.CropPadding,
	}
	return images.Patch(img, inner), true
}

// FindBoxes detects the chart squares in the cropped frame. Squares are
// recovered as external contours of an adaptively thresholded and eroded
// grayscale image, then filtered by minimum size and aspect ratio. No
// count invariant is enforced here; Analyze checks the total.
func FindBoxes(img gocv.Mat, cfg *Config) []images.Box {
	gray := images.ToGray(img)
	defer gray.Close()

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image3x3(), 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(blur, &thresh, 255, gocv.AdaptiveThresholdMean,
		gocv.ThresholdBinary, 31, -5)

	// One erosion pass separates squares whose borders touch after
	// thresholding.
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image3x3())
	defer kernel.Close()
	eroded := gocv.NewMat()
	defer eroded.Close()
	gocv.Erode(thresh, &eroded, kernel)

	contours := gocv.FindContours(eroded, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var boxes []images.Box
	for i := 0; i < contours.Size(); i++ {
		b := images.BoxFromRect(gocv.BoundingRect(contours.At(i)))
		ar := b.AspectRatio()
		if b.W > cfg.BoxMinSize && b.H > cfg.BoxMinSize &&
			ar > cfg.MinAspectRatio && ar < cfg.MaxAspectRatio {
			boxes = append(boxes, b)
		}
	}
	return boxes
}

// SampleLuminance measures each box's mean luminance. It is a pure
// function of the pixels: the frame is never written and identical inputs
// produce identical integer results.
func SampleLuminance(img gocv.Mat, boxes []images.Box, cfg *Config) []Region {
	regions := make([]Region, 0, len(boxes))
	for _, b := range boxes {
		regions = append(regions, Region{
			Box:       b,
			Luminance: images.MeanLuminance(img, b, cfg.BoxPaddingRatio),
		})
	}
	return regions
}

// SortByColumns arranges the 20 regions column-major: the left diagnostic
// pair first, then each 4-square grid column top to bottom, then the right
// diagnostic pair. The result is the canonical indexing the orientation
// and traversal steps rely on.
func SortByColumns(regions []Region) []Region {
	byColumn := make([]Region, len(regions))
	copy(byColumn, regions)
	sort.SliceStable(byColumn, func(i, j int) bool {
		return byColumn[i].Box.X < byColumn[j].Box.X
	})

	byRow := func(rs []Region) []Region {
		out := make([]Region, len(rs))
		copy(out, rs)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Box.Y < out[j].Box.Y
		})
		return out
	}

	result := make([]Region, 0, len(byColumn))
	result = append(result, byRow(byColumn[:2])...)
	for col := 0; col < 4; col++ {
		offset := col*4 + 2
		result = append(result, byRow(byColumn[offset:offset+4])...)
	}
	result = append(result, byRow(byColumn[len(byColumn)-2:])...)
	return result
}
