// Package intrinsics verifies per-frame lens intrinsic reporting: while
// the motion rig shakes the device, optical stabilization shifts the
// lens, and the reported principal point must move accordingly. Sample
// streams must also carry advancing timestamps.
package intrinsics

import (
	"fmt"
	"math"

	"github.com/camlab/go-its/logging"
	"github.com/camlab/go-its/session"
)

const (
	// PrincipalPointThreshPx is the minimum principal point deflection
	// expected while the device is in motion.
	PrincipalPointThreshPx = 1.0
	// MinGyroRotationDeg is the least device movement for a valid run.
	MinGyroRotationDeg = 5.0
)

// InsufficientMotionError means the rig did not move the device enough
// to exercise optical stabilization.
type InsufficientMotionError struct {
	MaxGyroDeg float64
}

func (e *InsufficientMotionError) Error() string {
	return fmt.Sprintf("device not moved enough: max gyro rotation %.3f deg, need %.3f deg",
		e.MaxGyroDeg, MinGyroRotationDeg)
}

// StaticPrincipalPointError means the principal point never deflected
// beyond the threshold despite the device moving.
type StaticPrincipalPointError struct {
	MaxDeflectionPx float64
	MaxGyroDeg      float64
}

func (e *StaticPrincipalPointError) Error() string {
	return fmt.Sprintf(
		"principal point moved only %.3f px under %.3f deg of motion, need more than %.3f px",
		e.MaxDeflectionPx, e.MaxGyroDeg, PrincipalPointThreshPx)
}

// MaxDeflection returns the largest distance in pixels between the first
// frame's principal point and any later frame's.
func MaxDeflection(frames []session.Intrinsics) float64 {
	if len(frames) == 0 {
		return 0
	}
	x0, y0 := frames[0].PrincipalPoint()
	maxDist := 0.0
	for _, in := range frames[1:] {
		x, y := in.PrincipalPoint()
		maxDist = math.Max(maxDist, math.Hypot(x-x0, y-y0))
	}
	return maxDist
}

// VerifyMovement checks that the principal point tracked the physical
// motion: the device must have moved at least MinGyroRotationDeg, and
// the principal point must have deflected more than the pixel threshold.
func VerifyMovement(frames []session.Intrinsics, maxGyroDeg float64) error {
	if maxGyroDeg < MinGyroRotationDeg {
		return &InsufficientMotionError{MaxGyroDeg: maxGyroDeg}
	}

	deflection := MaxDeflection(frames)
	logging.Debug("principal point deflection",
		"max_px", deflection, "max_gyro_deg", maxGyroDeg)
	if deflection <= PrincipalPointThreshPx {
		return &StaticPrincipalPointError{
			MaxDeflectionPx: deflection,
			MaxGyroDeg:      maxGyroDeg,
		}
	}
	return nil
}

// SampleStreamError reports a defect in the intrinsics sample streams.
type SampleStreamError struct {
	Detail string
}

func (e *SampleStreamError) Error() string {
	return "intrinsic samples: " + e.Detail
}

// VerifySampleStreams validates the per-capture intrinsics sample lists.
// At least one stream must show principal point variation, and every
// stream's timestamps must strictly advance.
func VerifySampleStreams(streams [][]session.IntrinsicSample) error {
	if len(streams) == 0 {
		return &SampleStreamError{Detail: "no samples reported"}
	}

	variationSeen := false
	for si, samples := range streams {
		if len(samples) == 0 {
			return &SampleStreamError{Detail: fmt.Sprintf("stream %d is empty", si)}
		}

		x0, y0 := samples[0].Intrinsics.PrincipalPoint()
		prevTS := samples[0].TimestampNs
		for _, s := range samples[1:] {
			x, y := s.Intrinsics.PrincipalPoint()
			if math.Hypot(x-x0, y-y0) != 0 {
				variationSeen = true
			}
			if s.TimestampNs <= prevTS {
				return &SampleStreamError{Detail: fmt.Sprintf(
					"stream %d timestamp %d does not advance past %d",
					si, s.TimestampNs, prevTS)}
			}
			prevTS = s.TimestampNs
		}
	}

	if !variationSeen {
		return &SampleStreamError{Detail: "no principal point variation in any stream"}
	}
	return nil
}
