package jsonmin

import (
	"context"
	"runtime"
	"time"

	"github.com/biggeezerdevelopment/jsonmin/internal/logging"
	"github.com/biggeezerdevelopment/jsonmin/internal/minify"
	"github.com/biggeezerdevelopment/jsonmin/internal/scanner"
	"github.com/biggeezerdevelopment/jsonmin/internal/worksteal"
)

// Report describes one minification.
type Report struct {
	Mode        Mode
	InputBytes  int
	OutputBytes int
	Accelerator string
	Parallel    bool
	Workers     int
	Chunks      int
	Scheduler   SchedulerStats
	Elapsed     time.Duration
}

// SchedulerStats are the work-stealing counters of a parallel run.
type SchedulerStats struct {
	Completed      uint64
	Failed         uint64
	StealAttempts  uint64
	StealSuccesses uint64
	GlobalPushes   uint64
	GlobalPops     uint64
	IdleYields     uint64
}

// Throughput is input bytes per second.
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.InputBytes) / r.Elapsed.Seconds()
}

// minifyParallel partitions input, minifies every chunk into its own
// window of one output arena and compacts the windows in chunk order.
func (m *Minifier) minifyParallel(ctx context.Context, input []byte, rep *Report) ([]byte, error) {
	log := logging.L()
	workers := m.opts.Workers

	if workers <= 1 || len(input) < m.opts.ParallelThreshold {
		return minify.Append(make([]byte, 0, len(input)), input, m.acc)
	}

	sc := scanner.Scanner{
		TargetSize: m.opts.ChunkSize,
		MinSize:    m.opts.MinChunkSize,
		SplitDepth: m.opts.SplitDepth,
		Accel:      m.acc,
	}
	chunks, err := sc.Partition(input)
	if err != nil {
		// The serial pass reports the same error at the same offset.
		log.Debug().Err(err).Int("bytes", len(input)).Msg("partition failed, minifying as one chunk")
		return minify.Append(make([]byte, 0, len(input)), input, m.acc)
	}
	if len(chunks) == 1 {
		return minify.Append(make([]byte, 0, len(input)), input, m.acc)
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	arena := make([]byte, len(input))
	items := make([]worksteal.Item, len(chunks))
	queue := make([]*worksteal.Item, len(chunks))
	for i, c := range chunks {
		items[i].Reset(uint32(i), input[c.Start:c.End], arena[c.Start:c.End:c.End])
		queue[i] = &items[i]
	}

	sched := worksteal.New(worksteal.Config{
		Workers:       workers,
		QueueCapacity: m.opts.QueueCapacity,
		Logger:        log,
	})
	if err := sched.Seed(queue); err != nil {
		return nil, err
	}

	last := uint32(len(chunks) - 1)
	acc := m.acc
	process := func(_ int, it *worksteal.Item) error {
		c := chunks[it.ID]
		st := minify.NewState(c.Depth, int64(c.Start))
		n, err := st.Run(it.Output, it.Input, acc)
		if err != nil {
			return err
		}
		it.Output = it.Output[:n]
		if it.ID == last {
			return st.Finish()
		}
		// The next chunk was seeded from the scanner's view of this point.
		if next := chunks[it.ID+1]; st.InString || int(st.Depth) != next.Depth {
			return &scanner.SyntaxError{Kind: scanner.ErrUnexpectedEndOfInput, Offset: int64(c.End)}
		}
		return nil
	}

	log.Debug().
		Int("bytes", len(input)).
		Int("chunks", len(chunks)).
		Int("workers", workers).
		Str("accel", acc.Name()).
		Msg("minifying in parallel")

	if err := sched.Start(process); err != nil {
		return nil, err
	}
	failed, err := waitAll(ctx, queue)
	sched.Shutdown()

	rep.Parallel = true
	rep.Workers = workers
	rep.Chunks = len(chunks)
	rep.Scheduler = SchedulerStats(sched.Stats())

	if err != nil {
		return nil, err
	}
	if failed != nil {
		log.Debug().Err(failed.Err).Uint32("chunk", failed.ID).Msg("chunk failed")
		return nil, failed.Err
	}

	n := 0
	for _, it := range queue {
		n += copy(arena[n:], it.Output)
	}
	return arena[:n], nil
}

// waitAll polls the items in id order until all are finished. It returns
// early with the first failed item in id order, or with ctx's error.
func waitAll(ctx context.Context, items []*worksteal.Item) (*worksteal.Item, error) {
	done := ctx.Done()
	for i := 0; i < len(items); {
		switch items[i].State() {
		case worksteal.Done:
			i++
			continue
		case worksteal.Failed:
			return items[i], nil
		}
		if done != nil {
			select {
			case <-done:
				return nil, ctx.Err()
			default:
			}
		}
		runtime.Gosched()
	}
	return nil, nil
}
