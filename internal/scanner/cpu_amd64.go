//go:build amd64

package scanner

import (
	"golang.org/x/sys/cpu"
)

// The wide kernel finds the first interesting lane with a trailing-zero
// count, which is a single TZCNT with BMI1.
func hasWideLoads() bool {
	return cpu.X86.HasBMI1
}
