// Package aeawb verifies that moving the AE/AWB metering region actually
// steers the camera. The chart holds four color patches (blue, light,
// dark, yellow); a recording meters each patch in turn. Metering the dark
// patch must brighten the output relative to metering the light patch,
// and metering the blue patch must raise the red-over-blue balance
// relative to metering the yellow patch.
package aeawb

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/camlab/go-its/images"
	"github.com/camlab/go-its/logging"
)

const (
	// AEChangeThresh is the minimum percent luma increase expected when
	// metering moves from the light patch to the dark patch. Broken
	// metering shows under 0.5 percent.
	AEChangeThresh = 1.0
	// AWBChangeThresh is the minimum percent R/B ratio increase expected
	// when metering moves from the yellow patch to the blue patch.
	AWBChangeThresh = 2.0
	// MeterWeight is the metering weight assigned to each region, on the
	// camera's 1 to 1000 scale.
	MeterWeight = 1000
	// NumRegions is how many patches the chart carries.
	NumRegions = 4
	// RegionDuration is how long each region is metered during the
	// recording.
	RegionDuration = 1800 * time.Millisecond
)

// Region is one metering rectangle in sensor coordinates.
type Region struct {
	X, Y, W, H int
	Weight     int
}

// MeteringRegions splits the chart boundary into four equal-width
// metering rectangles, ordered as the patches appear on the chart: blue,
// light, dark, yellow. The boundary must already be in sensor
// coordinates.
func MeteringRegions(chart images.Box) [NumRegions]Region {
	var regions [NumRegions]Region
	w := chart.W / NumRegions
	for i := range regions {
		regions[i] = Region{
			X:      chart.X + i*w,
			Y:      chart.Y,
			W:      w,
			H:      chart.H,
			Weight: MeterWeight,
		}
	}
	return regions
}

// SensorPoint converts an image coordinate to the sensor active array
// coordinate system. The output buffer crops whichever axis the active
// array has in excess, so the scale factor comes from the uncropped axis
// and the cropped axis gets half the leftover as an offset.
func SensorPoint(aaWidth, aaHeight int, x, y float64, imgWidth, imgHeight int) (float64, float64) {
	aaAspect := float64(aaWidth) / float64(aaHeight)
	imgAspect := float64(imgWidth) / float64(imgHeight)

	if aaAspect >= imgAspect {
		factor := float64(aaHeight) / float64(imgHeight)
		buffer := (float64(aaWidth) - float64(imgWidth)*factor) / 2
		return x*factor + buffer, y * factor
	}
	factor := float64(aaWidth) / float64(imgWidth)
	buffer := (float64(aaHeight) - float64(imgHeight)*factor) / 2
	return x * factor, y*factor + buffer
}

// RegionChangeError means moving the metering region changed the output
// less than required.
type RegionChangeError struct {
	Check         string
	ChangePercent float64
	Threshold     float64
}

func (e *RegionChangeError) Error() string {
	return fmt.Sprintf("%s change %.4f%% is less than the threshold %.1f%%",
		e.Check, e.ChangePercent, e.Threshold)
}

// CheckAE verifies auto-exposure followed the metering region: the frame
// metered on the dark patch must be at least AEChangeThresh percent
// brighter than the frame metered on the light patch. The comparison is
// directional, a darker frame fails.
func CheckAE(light, dark gocv.Mat) error {
	lightY := lumaMean(light)
	darkY := lumaMean(dark)
	logging.Debug("ae region check", "light_y", lightY, "dark_y", darkY)

	change := (darkY - lightY) / lightY * 100
	if change < AEChangeThresh {
		return &RegionChangeError{Check: "luma", ChangePercent: change, Threshold: AEChangeThresh}
	}
	return nil
}

// CheckAWB verifies white balance followed the metering region: the frame
// metered on the blue patch must show an R/B ratio at least
// AWBChangeThresh percent above the frame metered on the yellow patch.
func CheckAWB(blue, yellow gocv.Mat) error {
	blueRB := redBlueRatio(blue)
	yellowRB := redBlueRatio(yellow)
	logging.Debug("awb region check", "blue_rb", blueRB, "yellow_rb", yellowRB)

	change := (blueRB - yellowRB) / yellowRB * 100
	if change < AWBChangeThresh {
		return &RegionChangeError{Check: "R/B ratio", ChangePercent: change, Threshold: AWBChangeThresh}
	}
	return nil
}

func lumaMean(img gocv.Mat) float64 {
	luma := images.LumaY(img)
	defer luma.Close()
	return images.ChannelMean(luma, 0)
}

func redBlueRatio(img gocv.Mat) float64 {
	r, _, b := images.RGBMeans(img)
	if b == 0 {
		return 0
	}
	return r / b
}
