package images

import (
	"crypto/md5"
	"fmt"

	"gocv.io/x/gocv"
)

// Checksum generates a deterministic digest of a Mat's pixel data.
// The analysis pipelines promise not to mutate their input frames, and
// the tests hold them to it by comparing checksums before and after.
func Checksum(mat gocv.Mat) string {
	if mat.Empty() {
		return "empty"
	}

	data, _ := mat.DataPtrUint8()
	hash := md5.New()
	hash.Write(data)
	return fmt.Sprintf("%x", hash.Sum(nil))
}
