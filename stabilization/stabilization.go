// Package stabilization verifies video stabilization: while a motion rig
// shakes the device through a scripted rotation pattern, a preview is
// recorded, and the camera rotation recovered from the frames must stay
// well below the rotation the gyroscope measured.
package stabilization

import (
	"fmt"
	"math"

	"github.com/camlab/go-its/logging"
	"github.com/camlab/go-its/session"
)

const (
	// StabilizationFactor is the fraction of gyro movement the stabilized
	// camera stream may show.
	StabilizationFactor = 0.7
	// WideAspectFactor relaxes the factor for formats wider than 16:9,
	// which crop less aggressively.
	WideAspectFactor = 1.1
	// MinGyroRotationDeg is the least movement that makes a run valid.
	// Below this the rig did not shake the device enough to judge.
	MinGyroRotationDeg = 5.0

	aspectRatio169 = 16.0 / 9.0
)

// Config carries the verification thresholds.
type Config struct {
	StabilizationFactor float64
	WideAspectFactor    float64
	MinGyroRotationDeg  float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() *Config {
	return &Config{
		StabilizationFactor: StabilizationFactor,
		WideAspectFactor:    WideAspectFactor,
		MinGyroRotationDeg:  MinGyroRotationDeg,
	}
}

// InsufficientMotionError means the rig moved the device less than the
// minimum gyro rotation, so the run proves nothing. Rerun the rig.
type InsufficientMotionError struct {
	MaxGyroDeg float64
	MinDeg     float64
}

func (e *InsufficientMotionError) Error() string {
	return fmt.Sprintf("device not moved enough: max gyro rotation %.3f deg, need %.3f deg",
		e.MaxGyroDeg, e.MinDeg)
}

// NotStabilizedError means the recorded stream shows too much of the
// physical rotation.
type NotStabilizedError struct {
	MaxCameraDeg float64
	MaxGyroDeg   float64
	Factor       float64
}

func (e *NotStabilizedError) Error() string {
	return fmt.Sprintf(
		"preview not stabilized enough: camera %.3f deg vs gyro %.3f deg, ratio %.3f, limit %.2f",
		e.MaxCameraDeg, e.MaxGyroDeg, e.MaxCameraDeg/e.MaxGyroDeg, e.Factor)
}

// MaxRotationAngle returns the largest absolute rotation in the series.
func MaxRotationAngle(anglesDeg []float64) float64 {
	maxAngle := 0.0
	for _, a := range anglesDeg {
		maxAngle = math.Max(maxAngle, math.Abs(a))
	}
	return maxAngle
}

// Result reports the measured extremes of a verification run.
type Result struct {
	MaxCameraDeg float64
	MaxGyroDeg   float64
}

// Verify compares per-frame camera rotations recovered from the recording
// against the gyroscope rotations measured during it. Both series are in
// degrees. The recording's aspect ratio selects the allowed factor.
func Verify(rec session.Recording, cameraDeg, gyroDeg []float64, cfg *Config) (Result, error) {
	res := Result{
		MaxCameraDeg: MaxRotationAngle(cameraDeg),
		MaxGyroDeg:   MaxRotationAngle(gyroDeg),
	}
	logging.Debug("stabilization extremes",
		"camera_deg", res.MaxCameraDeg,
		"gyro_deg", res.MaxGyroDeg,
		"aspect", rec.AspectRatio())

	if res.MaxGyroDeg < cfg.MinGyroRotationDeg {
		return res, &InsufficientMotionError{
			MaxGyroDeg: res.MaxGyroDeg,
			MinDeg:     cfg.MinGyroRotationDeg,
		}
	}

	factor := cfg.StabilizationFactor
	if rec.AspectRatio() > aspectRatio169 {
		factor *= cfg.WideAspectFactor
	}

	if res.MaxCameraDeg >= res.MaxGyroDeg*factor {
		return res, &NotStabilizedError{
			MaxCameraDeg: res.MaxCameraDeg,
			MaxGyroDeg:   res.MaxGyroDeg,
			Factor:       factor,
		}
	}
	return res, nil
}
