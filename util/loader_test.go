package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func writeFrame(t *testing.T, dir, name string) {
	t.Helper()
	m := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	defer m.Close()
	require.True(t, gocv.IMWrite(filepath.Join(dir, name), m))
}

func TestLoadFrameFilesOrdersByIndex(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "preview_frame_10.png")
	writeFrame(t, dir, "preview_frame_2.png")
	writeFrame(t, dir, "preview_frame_1.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	frames, err := LoadFrameFiles(dir)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	require.Equal(t, []int{1, 2, 10},
		[]int{frames[0].Index, frames[1].Index, frames[2].Index})
	require.NotEmpty(t, frames[0].Data)
}

func TestLoadFrameFilesRejectsUnnumbered(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "cover.png")

	_, err := LoadFrameFiles(dir)
	require.Error(t, err)
}

func TestFrameFileDecode(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "frame-0.jpg")

	frames, err := LoadFrameFiles(dir)
	require.NoError(t, err)
	require.Len(t, frames, 1)

	mat, err := frames[0].Decode()
	require.NoError(t, err)
	defer mat.Close()
	require.Equal(t, 8, mat.Rows())
	require.Equal(t, 8, mat.Cols())
}

func TestRemoveFrameFiles(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "frame_1.png")
	writeFrame(t, dir, "frame_2.png")
	writeFrame(t, dir, "frame_3.png")
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	kept := filepath.Join(dir, "frame_2.png")
	require.NoError(t, RemoveFrameFiles(dir, kept))

	require.FileExists(t, kept)
	require.FileExists(t, notes)
	require.NoFileExists(t, filepath.Join(dir, "frame_1.png"))
	require.NoFileExists(t, filepath.Join(dir, "frame_3.png"))
}

func TestRemoveFrameFilesMissingDir(t *testing.T) {
	require.NoError(t, RemoveFrameFiles(filepath.Join(t.TempDir(), "gone")))
}
