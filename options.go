package jsonmin

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/biggeezerdevelopment/jsonmin/internal/scanner"
)

// Mode selects a preset trading memory for throughput.
type Mode int

const (
	// ECO streams through a fixed 64 KiB buffer on one goroutine.
	ECO Mode = iota
	// SPORT splits large inputs across all cores. The default.
	SPORT
	// TURBO uses bigger chunks, a lower parallel threshold, deeper split
	// points and the wide accelerator.
	TURBO
)

func (m Mode) String() string {
	switch m {
	case ECO:
		return "eco"
	case SPORT:
		return "sport"
	case TURBO:
		return "turbo"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eco":
		return ECO, nil
	case "", "sport":
		return SPORT, nil
	case "turbo":
		return TURBO, nil
	}
	return SPORT, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// TopLevelOnly as Options.SplitDepth restricts cuts to depth zero.
const TopLevelOnly = -1

// Options tune a Minifier. Zero fields take the preset of Mode.
type Options struct {
	Mode Mode
	// Workers is the number of goroutines of the parallel path.
	Workers int
	// ChunkSize is the target chunk length; chunks run past it up to the
	// next safe split point.
	ChunkSize int
	// MinChunkSize is the smallest trailing chunk worth scheduling alone.
	MinChunkSize int
	// SplitDepth is the deepest nesting level at which a chunk may be cut.
	// TopLevelOnly only splits top-level sequences; 1 also splits the
	// members of a root array or object.
	SplitDepth int
	// ParallelThreshold is the input size below which the serial path is
	// used.
	ParallelThreshold int
	// QueueCapacity is the per-worker deque size.
	QueueCapacity int
	// Accelerator is "auto", "scalar" or "wide".
	Accelerator string
	// StreamBufferSize bounds memory in ECO mode and for Writer.
	StreamBufferSize int
}

const (
	defaultStreamBuffer = 64 << 10
	defaultThreshold    = 1 << 20
	defaultQueue        = 1024
)

// OptionsForMode returns the preset of a mode.
func OptionsForMode(m Mode) Options {
	switch m {
	case ECO:
		return Options{
			Mode:              ECO,
			Workers:           1,
			ChunkSize:         scanner.DefaultTargetSize,
			MinChunkSize:      scanner.DefaultMinSize,
			ParallelThreshold: defaultThreshold,
			QueueCapacity:     defaultQueue,
			Accelerator:       "auto",
			StreamBufferSize:  defaultStreamBuffer,
		}
	case TURBO:
		return Options{
			Mode:              TURBO,
			Workers:           runtime.NumCPU(),
			ChunkSize:         1 << 20,
			MinChunkSize:      64 << 10,
			SplitDepth:        2,
			ParallelThreshold: 256 << 10,
			QueueCapacity:     defaultQueue,
			Accelerator:       "wide",
			StreamBufferSize:  4 * defaultStreamBuffer,
		}
	default:
		return Options{
			Mode:              SPORT,
			Workers:           runtime.NumCPU(),
			ChunkSize:         scanner.DefaultTargetSize,
			MinChunkSize:      scanner.DefaultMinSize,
			SplitDepth:        1,
			ParallelThreshold: defaultThreshold,
			QueueCapacity:     defaultQueue,
			Accelerator:       "auto",
			StreamBufferSize:  defaultStreamBuffer,
		}
	}
}

// withDefaults fills zero fields from the preset of o.Mode.
func (o Options) withDefaults() Options {
	d := OptionsForMode(o.Mode)
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = d.ChunkSize
	}
	if o.MinChunkSize <= 0 {
		o.MinChunkSize = d.MinChunkSize
	}
	if o.MinChunkSize > o.ChunkSize {
		o.MinChunkSize = o.ChunkSize
	}
	switch {
	case o.SplitDepth == 0:
		o.SplitDepth = d.SplitDepth
	case o.SplitDepth < 0:
		o.SplitDepth = 0
	}
	if o.ParallelThreshold <= 0 {
		o.ParallelThreshold = d.ParallelThreshold
	}
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = d.QueueCapacity
	}
	if o.Accelerator == "" {
		o.Accelerator = d.Accelerator
	}
	if o.StreamBufferSize <= 0 {
		o.StreamBufferSize = d.StreamBufferSize
	}
	return o
}
