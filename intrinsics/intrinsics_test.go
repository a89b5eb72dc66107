package intrinsics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camlab/go-its/session"
)

func lens(cx, cy float64) session.Intrinsics {
	return session.Intrinsics{Fx: 1000, Fy: 1000, Cx: cx, Cy: cy}
}

func TestMaxDeflection(t *testing.T) {
	require.Zero(t, MaxDeflection(nil))
	require.Zero(t, MaxDeflection([]session.Intrinsics{lens(960, 540)}))

	frames := []session.Intrinsics{
		lens(960, 540),
		lens(963, 544), // 5 px away
		lens(961, 540), // 1 px away
	}
	require.InDelta(t, 5.0, MaxDeflection(frames), 1e-9)
}

func TestVerifyMovement(t *testing.T) {
	moving := []session.Intrinsics{lens(960, 540), lens(963, 544)}
	require.NoError(t, VerifyMovement(moving, 12))

	var motionErr *InsufficientMotionError
	require.ErrorAs(t, VerifyMovement(moving, 2), &motionErr)

	static := []session.Intrinsics{lens(960, 540), lens(960.5, 540)}
	var staticErr *StaticPrincipalPointError
	require.ErrorAs(t, VerifyMovement(static, 12), &staticErr)
	require.InDelta(t, 0.5, staticErr.MaxDeflectionPx, 1e-9)
}

func samples(ts []int64, cx []float64) []session.IntrinsicSample {
	out := make([]session.IntrinsicSample, len(ts))
	for i := range ts {
		out[i] = session.IntrinsicSample{
			TimestampNs: ts[i],
			Intrinsics:  lens(cx[i], 540),
		}
	}
	return out
}

func TestVerifySampleStreams(t *testing.T) {
	good := [][]session.IntrinsicSample{
		samples([]int64{100, 200, 300}, []float64{960, 961, 962}),
	}
	require.NoError(t, VerifySampleStreams(good))
}

func TestVerifySampleStreamsRequiresVariation(t *testing.T) {
	flat := [][]session.IntrinsicSample{
		samples([]int64{100, 200}, []float64{960, 960}),
	}
	var streamErr *SampleStreamError
	require.ErrorAs(t, VerifySampleStreams(flat), &streamErr)
}

func TestVerifySampleStreamsRequiresAdvancingTimestamps(t *testing.T) {
	stuck := [][]session.IntrinsicSample{
		samples([]int64{100, 100}, []float64{960, 961}),
	}
	var streamErr *SampleStreamError
	require.ErrorAs(t, VerifySampleStreams(stuck), &streamErr)

	require.Error(t, VerifySampleStreams(nil))
	require.Error(t, VerifySampleStreams([][]session.IntrinsicSample{{}}))
}
