//go:build !amd64 && !arm64

package scanner

// 64-bit loads are split or slow on the remaining targets.
func hasWideLoads() bool {
	return false
}
