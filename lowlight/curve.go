package lowlight

// traversalOrder maps the column-major indices of the 16 interior squares
// onto the brightness path printed on the chart. The grid is arranged as
// a Hilbert-style curve rather than row or column order, so the expected
// darkest-to-brightest walk is this fixed permutation. The 4 diagnostic
// squares in the outer columns (indices 0, 1, 18, 19 in column order)
// are excluded; the grid corners used for orientation are part of the
// walk.
var traversalOrder = [16]int{
	17, 13, 12, 16,
	15, 14, 10, 11,
	7, 6, 2, 3,
	4, 8, 9, 5,
}

// verdictPrefix is how many leading squares of the traversal participate
// in the verdict metrics.
const verdictPrefix = 6

// Reorder maps the column-sorted regions into traversal order, darkest
// expected square first.
func Reorder(sorted []Region) []Region {
	out := make([]Region, 0, len(traversalOrder))
	for _, idx := range traversalOrder {
		out = append(out, sorted[idx])
	}
	return out
}

// MeanLuminance returns the mean luminance of the first 6 squares in
// traversal order, the darkest steps the boost must lift.
func MeanLuminance(ordered []Region) float64 {
	sum := 0
	for _, r := range ordered[:verdictPrefix] {
		sum += r.Luminance
	}
	return float64(sum) / float64(verdictPrefix)
}

// MeanSuccessiveDelta returns the mean of the 5 successive luminance
// differences across the first 6 squares in traversal order. The steps
// must stay distinguishable, not just bright.
func MeanSuccessiveDelta(ordered []Region) float64 {
	sum := 0
	for i := 1; i < verdictPrefix; i++ {
		sum += ordered[i].Luminance - ordered[i-1].Luminance
	}
	return float64(sum) / float64(verdictPrefix-1)
}

// Evaluate applies the verdict thresholds to the traversal-ordered
// regions. Both comparisons are non-strict: a metric exactly at its
// threshold passes.
func Evaluate(ordered []Region, cfg *Config) error {
	if avg := MeanLuminance(ordered); avg < cfg.LuminanceThreshold {
		return &ThresholdError{
			Metric:    MetricMeanLuminance,
			Actual:    avg,
			Threshold: cfg.LuminanceThreshold,
		}
	}
	if deltaAvg := MeanSuccessiveDelta(ordered); deltaAvg < cfg.DeltaThreshold {
		return &ThresholdError{
			Metric:    MetricMeanDelta,
			Actual:    deltaAvg,
			Threshold: cfg.DeltaThreshold,
		}
	}
	return nil
}
