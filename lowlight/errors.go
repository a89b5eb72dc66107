package lowlight

import "fmt"

// DetectionCountError reports that square detection found the wrong number
// of chart squares. It is an environmental failure: the caller should
// recapture rather than treat the device as failing the criteria.
type DetectionCountError struct {
	Actual   int
	Expected int
}

func (e *DetectionCountError) Error() string {
	return fmt.Sprintf(
		"detected %d chart squares, expected %d; check the capture framing and recapture",
		e.Actual, e.Expected)
}

// OrientationReason says why orientation correction could not resolve.
type OrientationReason int

const (
	// OrientationAmbiguous means the darkest and brightest corner squares
	// coincide, which implies detection breakdown.
	OrientationAmbiguous OrientationReason = iota
	// OrientationUnmapped means the darkest/brightest corner pair has no
	// entry in the rotation table.
	OrientationUnmapped
)

// OrientationError reports that the chart orientation could not be
// determined from the corner squares.
type OrientationError struct {
	Reason    OrientationReason
	Darkest   Corner
	Brightest Corner
}

func (e *OrientationError) Error() string {
	switch e.Reason {
	case OrientationAmbiguous:
		return fmt.Sprintf(
			"darkest and brightest corner squares coincide at %s; cannot determine chart orientation",
			e.Darkest)
	default:
		return fmt.Sprintf(
			"no orientation maps darkest corner %s with brightest corner %s",
			e.Darkest, e.Brightest)
	}
}

// Metric identifies which verdict metric a ThresholdError refers to.
type Metric string

const (
	// MetricMeanLuminance is the mean luminance of the darkest 6 squares.
	MetricMeanLuminance Metric = "mean luminance"
	// MetricMeanDelta is the mean successive luminance delta over those squares.
	MetricMeanDelta Metric = "mean successive delta"
)

// ThresholdError reports that the device genuinely failed a low light
// criterion. Unlike the other error kinds it is an assertion failure, not
// a capture problem.
type ThresholdError struct {
	Metric    Metric
	Actual    float64
	Threshold float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("%s %.2f below required minimum %.2f",
		e.Metric, e.Actual, e.Threshold)
}
