package lowlight

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/camlab/go-its/images"
	"github.com/camlab/go-its/logging"
)

// Analyze runs the full chart analysis over one captured frame.
//
// The frame is treated as read-only; every stage works on views or owned
// copies. Stage artifacts (original, cropped, rotated, annotated result)
// and two luminance plots are written under cfg.ArtifactDir using
// fileStem as the name prefix. Artifacts are diagnostics only and never
// influence the verdict.
//
// A nil return means the capture passed. Failures are typed:
// DetectionCountError for a bad square count, OrientationError when the
// chart orientation cannot be resolved, ThresholdError when the device
// fails a luminance criterion. Analyze never retries; recapturing is the
// caller's call.
func Analyze(fileStem string, img gocv.Mat, cfg *Config) error {
	aw, err := images.NewArtifactWriter(cfg.ArtifactDir, fileStem)
	if err != nil {
		return err
	}
	if err := aw.WriteStage("original", img); err != nil {
		logging.Warn("artifact write failed", "stage", "original", "error", err)
	}

	cropped, found := Crop(img, cfg)
	work := cropped.Clone()
	defer work.Close()
	if found {
		cropped.Close()
	}
	if err := aw.WriteStage("cropped", work); err != nil {
		logging.Warn("artifact write failed", "stage", "cropped", "error", err)
	}

	boxes := FindBoxes(work, cfg)
	if len(boxes) != cfg.ExpectedBoxCount {
		return &DetectionCountError{Actual: len(boxes), Expected: cfg.ExpectedBoxCount}
	}

	sorted := SortByColumns(SampleLuminance(work, boxes, cfg))
	orientation, err := DetectOrientation(sorted)
	if err != nil {
		return err
	}

	rotated := orientation.Apply(work)
	defer rotated.Close()
	if err := aw.WriteStage("rotated", rotated); err != nil {
		logging.Warn("artifact write failed", "stage", "rotated", "error", err)
	}

	// The transform invalidated every box coordinate, so detect and
	// sample again on the reoriented frame.
	if orientation != Canonical {
		boxes = FindBoxes(rotated, cfg)
		if len(boxes) != cfg.ExpectedBoxCount {
			return &DetectionCountError{Actual: len(boxes), Expected: cfg.ExpectedBoxCount}
		}
	}
	regions := SampleLuminance(rotated, boxes, cfg)
	sorted = SortByColumns(regions)

	annotated := rotated.Clone()
	defer annotated.Close()
	for _, r := range regions {
		inner := r.Box.Shrink(cfg.BoxPaddingRatio)
		images.DrawLabeledBox(&annotated, inner, images.FormatLuminance(r.Luminance))
	}
	if err := aw.WriteStage("result", annotated); err != nil {
		logging.Warn("artifact write failed", "stage", "result", "error", err)
	}
	if err := aw.WritePreview("result", annotated); err != nil {
		logging.Warn("artifact write failed", "stage", "result preview", "error", err)
	}

	ordered := Reorder(sorted)
	writeCurves(aw, ordered)

	avg := MeanLuminance(ordered)
	deltaAvg := MeanSuccessiveDelta(ordered)
	logging.Debug("low light chart metrics",
		"stem", fileStem,
		"mean_luminance", avg,
		"mean_successive_delta", deltaAvg)

	return Evaluate(ordered, cfg)
}

func writeCurves(aw *images.ArtifactWriter, ordered []Region) {
	values := make([]float64, len(ordered))
	labels := make([]string, len(ordered))
	for i, r := range ordered {
		values[i] = float64(r.Luminance)
		labels[i] = fmt.Sprintf("Box %d", i+1)
	}
	if err := aw.WriteCurve("luminance_plot", images.Curve{
		Title:  "Luminance for each Box",
		YLabel: "Luminance (pixel intensity)",
		Labels: labels,
		Values: values,
	}); err != nil {
		logging.Warn("artifact write failed", "stage", "luminance plot", "error", err)
	}

	deltas := make([]float64, 0, len(ordered)-1)
	deltaLabels := make([]string, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		deltas = append(deltas, float64(ordered[i].Luminance-ordered[i-1].Luminance))
		deltaLabels = append(deltaLabels, fmt.Sprintf("%d to %d", i, i+1))
	}
	if err := aw.WriteCurve("luminance_delta_plot", images.Curve{
		Title:  "Difference in Luminance Between Successive Boxes",
		YLabel: "Luminance Difference",
		Labels: deltaLabels,
		Values: deltas,
	}); err != nil {
		logging.Warn("artifact write failed", "stage", "delta plot", "error", err)
	}
}
