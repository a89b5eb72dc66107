package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// previewWidth is the width of downsampled preview artifacts. Full-size
// stage images are kept as-is; previews exist so a run's artifacts can be
// skimmed without loading multi-megapixel frames.
const previewWidth = 480

// ArtifactWriter writes per-stage diagnostic images for one analysis run.
// Every file is named <stem>_<stage>.<ext> inside Dir. Artifacts are
// debugging aids only; a failed write is reported but the caller should
// not turn it into a verdict.
type ArtifactWriter struct {
	Dir  string
	Stem string
}

// NewArtifactWriter creates the artifact directory if needed.
func NewArtifactWriter(dir, stem string) (*ArtifactWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating artifact directory")
	}
	return &ArtifactWriter{Dir: dir, Stem: stem}, nil
}

// Path returns the full path for a stage artifact with the given extension.
func (w *ArtifactWriter) Path(stage, ext string) string {
	return filepath.Join(w.Dir, fmt.Sprintf("%s_%s.%s", w.Stem, stage, ext))
}

// WriteStage saves the frame as a JPEG named after the pipeline stage,
// e.g. stage "cropped" produces <stem>_cropped.jpg.
func (w *ArtifactWriter) WriteStage(stage string, img gocv.Mat) error {
	path := w.Path(stage, "jpg")
	if ok := gocv.IMWrite(path, img); !ok {
		return errors.Errorf("writing %s failed", path)
	}
	return nil
}

// WriteCurve renders the curve to <stem>_<stage>.png.
func (w *ArtifactWriter) WriteCurve(stage string, c Curve) error {
	return PlotCurve(c, w.Path(stage, "png"))
}

// WritePreview saves a downsampled WebP copy of the frame. WebP keeps the
// per-run artifact footprint small when a suite records many frames.
func (w *ArtifactWriter) WritePreview(stage string, img gocv.Mat) error {
	native, err := img.ToImage()
	if err != nil {
		return errors.Wrap(err, "converting frame for preview")
	}

	width := img.Cols()
	height := img.Rows()
	if width > previewWidth {
		height = height * previewWidth / width
		width = previewWidth
	}
	small := resize.Resize(uint(width), uint(height), native, resize.Lanczos3)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, small, &webp.Options{Quality: 80}); err != nil {
		return errors.Wrap(err, "encoding preview")
	}
	return os.WriteFile(w.Path(stage, "webp"), buf.Bytes(), 0o644)
}

// EncodeJPEG encodes a Go-native image as JPEG bytes at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.Wrap(err, "encoding jpeg")
	}
	return buf.Bytes(), nil
}
