// Package session carries the capture metadata the analysis checks
// consume. The device harness that produces captures lives outside this
// repository; checks receive decoded frames plus these typed records.
package session

// Intrinsics is the 5-element lens intrinsic calibration reported per
// frame: focal lengths fx and fy, principal point cx and cy, and skew.
type Intrinsics struct {
	Fx, Fy float64
	Cx, Cy float64
	Skew   float64
}

// PrincipalPoint returns the calibrated optical center in pixels.
func (i Intrinsics) PrincipalPoint() (float64, float64) {
	return i.Cx, i.Cy
}

// CaptureResult describes one still capture's metadata.
type CaptureResult struct {
	// Width and Height are the output buffer dimensions in pixels.
	Width  int
	Height int

	// ZoomRatio is the zoom applied for this capture, 1.0 when none.
	ZoomRatio float64

	// SensorTimestampNs is the start-of-exposure timestamp.
	SensorTimestampNs int64

	// FrameDurationNs is the sensor frame duration for this capture.
	FrameDurationNs int64

	// PhysicalID identifies which physical camera produced the capture
	// on a logical multi-camera, empty otherwise.
	PhysicalID string

	// Intrinsics holds the per-frame lens intrinsic calibration when the
	// device reports one.
	Intrinsics *Intrinsics
}

// AspectRatio returns width over height.
func (c CaptureResult) AspectRatio() float64 {
	if c.Height == 0 {
		return 0
	}
	return float64(c.Width) / float64(c.Height)
}

// IntrinsicSample is one timestamped intrinsics reading from a sample
// stream running alongside a preview.
type IntrinsicSample struct {
	TimestampNs int64
	Intrinsics  Intrinsics
}

// Recording describes a finished preview or video recording whose frames
// have already been extracted to disk.
type Recording struct {
	// Path is the recorded media file.
	Path string
	// FramesDir holds the extracted per-frame images.
	FramesDir string
	// Width and Height are the recorded resolution.
	Width  int
	Height int
	// FrameRate is frames per second of the recording.
	FrameRate float64
	// ZoomRatios lists the zoom ratio reported for each frame, aligned
	// with the extracted frame order. Nil when zoom never changed.
	ZoomRatios []float64
}

// AspectRatio returns width over height of the recording.
func (r Recording) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}
