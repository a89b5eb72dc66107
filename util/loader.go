// Package util holds small file-handling helpers shared by the checks.
package util

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FrameFile is one extracted frame of a recording on disk.
type FrameFile struct {
	// Path is the path to the frame image.
	Path string
	// Data is the raw encoded bytes of the frame.
	Data []byte
	// Index is the frame number parsed from the file name.
	Index int
}

// frameNumber matches the trailing digits of a frame file stem,
// e.g. "preview_frame_0042.png" or "frame-7.jpg".
var frameNumber = regexp.MustCompile(`(\d+)$`)

// LoadFrameFiles reads every extracted frame image in a directory and
// returns them ordered by frame number. File names must end in a frame
// index before the extension.
func LoadFrameFiles(dir string) ([]FrameFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "reading frame directory")
	}

	var frames []FrameFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		switch ext {
		case ".jpg", ".jpeg", ".png", ".bmp":
		default:
			continue
		}

		stem := entry.Name()[:len(entry.Name())-len(ext)]
		m := frameNumber.FindString(stem)
		if m == "" {
			return nil, errors.Errorf("frame file %q has no frame number", entry.Name())
		}
		index, err := strconv.Atoi(m)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing frame number of %q", entry.Name())
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading frame %q", entry.Name())
		}
		frames = append(frames, FrameFile{Path: path, Data: data, Index: index})
	}

	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Index < frames[j].Index
	})
	return frames, nil
}

// Decode decodes the frame into a BGR Mat. The caller owns the Mat.
func (f FrameFile) Decode() (gocv.Mat, error) {
	mat, err := gocv.IMDecode(f.Data, gocv.IMReadColor)
	if err != nil {
		return gocv.NewMat(), errors.Wrapf(err, "decoding frame %d", f.Index)
	}
	if mat.Empty() {
		return gocv.NewMat(), errors.Errorf("frame %d decoded empty", f.Index)
	}
	return mat, nil
}

// RemoveFrameFiles deletes extracted frame images from a directory after a
// passing run, keeping any paths listed in keep. Missing directories are
// not an error.
func RemoveFrameFiles(dir string, keep ...string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "reading frame directory")
	}

	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".jpg", ".jpeg", ".png", ".bmp":
		default:
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, ok := keepSet[path]; ok {
			continue
		}
		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, "removing frame %q", entry.Name())
		}
	}
	return nil
}
