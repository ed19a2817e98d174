//go:build linux

package latincount

import "golang.org/x/sys/unix"

// prefaultRegion asks the kernel to fault in pages of a read-only mapping
// ahead of the sequential validation scan. Best-effort: errors are ignored.
func prefaultRegion(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_WILLNEED)
}
