package scanner

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Accelerator classifies runs of bytes for the minifier and the boundary
// scanner. Every implementation must return exactly what the scalar one
// returns for the same input; only the inner loop differs.
type Accelerator interface {
	// Name identifies the kernel in logs and flags.
	Name() string
	// StringRun returns the length of the longest prefix of b that holds
	// neither '"' nor '\\'.
	StringRun(b []byte) int
	// SpaceRun returns the length of the longest prefix of b made of JSON
	// whitespace.
	SpaceRun(b []byte) int
}

var (
	// Scalar inspects one byte per iteration.
	Scalar Accelerator = scalarAccel{}
	// Wide inspects eight bytes per iteration using SWAR word tricks.
	Wide Accelerator = wideAccel{}
)

// HasWide reports whether the wide kernel is expected to beat the scalar
// one on this CPU.
func HasWide() bool {
	return hasWideLoads()
}

// Detect picks the fastest accelerator available on this CPU.
func Detect() Accelerator {
	if hasWideLoads() {
		return Wide
	}
	return Scalar
}

// ByName resolves "auto", "scalar" or "wide". The empty name means auto.
func ByName(name string) (Accelerator, error) {
	switch name {
	case "", "auto":
		return Detect(), nil
	case "scalar":
		return Scalar, nil
	case "wide", "swar":
		return Wide, nil
	}
	return nil, fmt.Errorf("unknown accelerator %q", name)
}

type scalarAccel struct{}

func (scalarAccel) Name() string { return "scalar" }

func (scalarAccel) StringRun(b []byte) int {
	for i, c := range b {
		if c == '"' || c == '\\' {
			return i
		}
	}
	return len(b)
}

func (scalarAccel) SpaceRun(b []byte) int {
	for i, c := range b {
		if ByteClass[c] != ClassSpace {
			return i
		}
	}
	return len(b)
}

const (
	lsb  uint64 = 0x0101010101010101
	msb  uint64 = 0x8080808080808080
	low7 uint64 = 0x7f7f7f7f7f7f7f7f

	quotes      = lsb * '"'
	backslashes = lsb * '\\'
	spaces      = lsb * ' '
	tabs        = lsb * '\t'
	newlines    = lsb * '\n'
	returns     = lsb * '\r'
)

// zeroLanes sets the high bit of every byte lane of x that is zero. Unlike
// the classic (x-lsb)&^x&msb trick it has no false positives, so any set
// bit can be trusted, not only the lowest.
func zeroLanes(x uint64) uint64 {
	y := (x & low7) + low7
	return ^(y | x | low7)
}

type wideAccel struct{}

func (wideAccel) Name() string { return "wide" }

func (wideAccel) StringRun(b []byte) int {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		x := binary.LittleEndian.Uint64(b[i:])
		if m := zeroLanes(x^quotes) | zeroLanes(x^backslashes); m != 0 {
			return i + bits.TrailingZeros64(m)>>3
		}
	}
	for ; i < len(b); i++ {
		if b[i] == '"' || b[i] == '\\' {
			return i
		}
	}
	return len(b)
}

func (wideAccel) SpaceRun(b []byte) int {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		x := binary.LittleEndian.Uint64(b[i:])
		ws := zeroLanes(x^spaces) | zeroLanes(x^tabs) | zeroLanes(x^newlines) | zeroLanes(x^returns)
		if ws != msb {
			return i + bits.TrailingZeros64(^ws&msb)>>3
		}
	}
	for ; i < len(b); i++ {
		if ByteClass[b[i]] != ClassSpace {
			return i
		}
	}
	return len(b)
}
