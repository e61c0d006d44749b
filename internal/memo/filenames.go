package memo

import (
	"fmt"
	"path/filepath"
)

// FileNames returns the canonical key/add/maj memo file paths for a given
// log2 probability threshold inside scratchDir, matching the naming
// convention key-file-<p>.bin / add-file-<p>.bin / maj-file-<p>.bin where
// <p> is the threshold printed with Go's default %f formatting (six
// decimal places), mirroring the reference tool's sprintf("%f.bin", ...).
func FileNames(scratchDir string, threshold float64) (key, add, maj string) {
	suffix := fmt.Sprintf("%f.bin", threshold)
	key = filepath.Join(scratchDir, "key-file-"+suffix)
	add = filepath.Join(scratchDir, "add-file-"+suffix)
	maj = filepath.Join(scratchDir, "maj-file-"+suffix)
	return
}
