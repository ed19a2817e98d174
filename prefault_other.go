//go:build !linux

package latincount

// prefaultRegion is a no-op on non-Linux platforms.
func prefaultRegion(data []byte) {
	// No-op: no efficient prefaulting available on this platform
}
