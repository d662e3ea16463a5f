// Package worksteal runs work items on a fixed set of goroutines, each with
// its own lock-free deque. Idle workers steal from the others; a mutex
// guarded global queue only absorbs what the deques cannot hold.
package worksteal

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrRunning   = errors.New("worksteal: scheduler already started")
	ErrStopped   = errors.New("worksteal: scheduler is shut down")
	ErrNoProcess = errors.New("worksteal: nil process function")
)

const (
	spinYields = 16
	minSleep   = 10 * time.Microsecond
	maxSleep   = time.Millisecond
)

// ProcessFunc handles one item on worker w. A non-nil error marks the
// item Failed.
type ProcessFunc func(w int, it *Item) error

// Config sizes a Scheduler. Zero values take the defaults.
type Config struct {
	// Workers defaults to runtime.NumCPU().
	Workers int
	// QueueCapacity is the per-worker deque size, rounded up to a power
	// of two.
	QueueCapacity int
	// StealRounds bounds a steal sweep to StealRounds*Workers attempts.
	// Defaults to 2.
	StealRounds int
	Logger      *zerolog.Logger
}

type workerState uint8

const (
	seekLocal workerState = iota
	seekSteal
	idle
)

// Scheduler runs items on a fixed set of workers that steal from each
// other's deques.
type Scheduler struct {
	workers       int
	stealAttempts int
	queues        []*Deque

	// hot has bit w set while deque w is believed non-empty. Workers past
	// the 64th are always treated as hot.
	hot atomic.Uint64

	globalMu  sync.Mutex
	global    []*Item
	globalLen atomic.Int64

	started  atomic.Bool
	shutdown atomic.Bool
	wg       sync.WaitGroup
	process  ProcessFunc

	stats Stats
	log   zerolog.Logger
}

// New builds a Scheduler with one deque per worker. Workers start with Start.
func New(cfg Config) *Scheduler {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	rounds := cfg.StealRounds
	if rounds <= 0 {
		rounds = 2
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	s := &Scheduler{
		workers:       workers,
		stealAttempts: rounds * workers,
		queues:        make([]*Deque, workers),
		log:           log.With().Str("component", "worksteal").Logger(),
	}
	for i := range s.queues {
		s.queues[i] = NewDeque(cfg.QueueCapacity)
	}
	return s
}

// Workers returns the number of workers.
func (s *Scheduler) Workers() int {
	return s.workers
}

// Stats returns a copy of the counters.
func (s *Scheduler) Stats() Snapshot {
	return s.stats.Snapshot()
}

// Seed distributes items before Start. Item i goes to the deque of worker
// ID % workers; whatever does not fit goes to the global queue. Seed runs
// on the caller's goroutine, which is why it is refused once workers own
// their deques.
func (s *Scheduler) Seed(items []*Item) error {
	if s.started.Load() {
		return ErrRunning
	}
	for _, it := range items {
		w := int(it.ID % uint32(s.workers))
		if s.queues[w].Push(it) {
			s.markHot(w)
			continue
		}
		s.pushGlobal(it)
	}
	return nil
}

// Inject queues an item on the global queue. Safe at any time before
// Shutdown.
func (s *Scheduler) Inject(it *Item) error {
	if s.shutdown.Load() {
		return ErrStopped
	}
	s.pushGlobal(it)
	return nil
}

// Start launches the workers.
func (s *Scheduler) Start(fn ProcessFunc) error {
	if fn == nil {
		return ErrNoProcess
	}
	if s.shutdown.Load() {
		return ErrStopped
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrRunning
	}
	s.process = fn

	s.log.Debug().
		Int("workers", s.workers).
		Int("queue_capacity", s.queues[0].Cap()).
		Int64("global", s.globalLen.Load()).
		Msg("starting workers")

	s.wg.Add(s.workers)
	for w := 0; w < s.workers; w++ {
		go s.run(w)
	}
	return nil
}

// Shutdown stops the workers and waits for them. Items being processed
// finish; queued ones are left untouched.
func (s *Scheduler) Shutdown() {
	if s.shutdown.Swap(true) {
		return
	}
	s.wg.Wait()
	s.log.Debug().Object("stats", s.stats.Snapshot()).Msg("workers stopped")
}

func (s *Scheduler) run(w int) {
	defer s.wg.Done()

	local := s.queues[w]
	state := seekLocal
	spins := 0

	for !s.shutdown.Load() {
		switch state {
		case seekLocal:
			if it := local.Pop(); it != nil {
				s.execute(w, it)
				spins = 0
				continue
			}
			s.clearHot(w)
			state = seekSteal

		case seekSteal:
			it := s.steal(w)
			if it == nil {
				it = s.popGlobal()
			}
			if it == nil {
				state = idle
				continue
			}
			s.execute(w, it)
			spins = 0
			state = seekLocal

		case idle:
			s.stats.idleYields.Add(1)
			backoff(spins)
			spins++
			state = seekLocal
		}
	}
}

// steal sweeps the other deques round-robin, hot ones first.
func (s *Scheduler) steal(w int) *Item {
	n := s.workers
	if n == 1 {
		return nil
	}
	attempts := s.stealAttempts

	hot := s.hot.Load()
	for i := 1; i < n && attempts > 0; i++ {
		v := (w + i) % n
		if v < 64 && hot&(1<<v) == 0 {
			continue
		}
		attempts--
		if it := s.trySteal(v); it != nil {
			return it
		}
	}

	for i := 0; attempts > 0; i++ {
		v := (w + 1 + i%(n-1)) % n
		attempts--
		if it := s.trySteal(v); it != nil {
			return it
		}
	}
	return nil
}

func (s *Scheduler) trySteal(v int) *Item {
	s.stats.stealAttempts.Add(1)
	q := s.queues[v]
	if it := q.Steal(); it != nil {
		s.stats.stealSuccesses.Add(1)
		return it
	}
	if q.Len() == 0 {
		s.clearHot(v)
	}
	return nil
}

func (s *Scheduler) execute(w int, it *Item) {
	it.runs.Add(1)
	it.state.Store(uint32(Running))

	err := s.safeProcess(w, it)
	if err != nil {
		s.stats.failed.Add(1)
	} else {
		s.stats.completed.Add(1)
	}
	it.finish(err)
}

func (s *Scheduler) safeProcess(w int, it *Item) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worksteal: worker %d panicked on item %d: %v", w, it.ID, r)
		}
	}()
	return s.process(w, it)
}

func (s *Scheduler) pushGlobal(it *Item) {
	s.globalMu.Lock()
	s.global = append(s.global, it)
	s.globalLen.Add(1)
	s.globalMu.Unlock()
	s.stats.globalPushes.Add(1)
}

func (s *Scheduler) popGlobal() *Item {
	if s.globalLen.Load() == 0 {
		return nil
	}
	s.globalMu.Lock()
	defer s.globalMu.Unlock()
	if len(s.global) == 0 {
		return nil
	}
	it := s.global[0]
	s.global[0] = nil
	s.global = s.global[1:]
	s.globalLen.Add(-1)
	s.stats.globalPops.Add(1)
	return it
}

func (s *Scheduler) markHot(w int) {
	if w >= 64 {
		return
	}
	bit := uint64(1) << w
	for {
		old := s.hot.Load()
		if old&bit != 0 || s.hot.CompareAndSwap(old, old|bit) {
			return
		}
	}
}

func (s *Scheduler) clearHot(w int) {
	if w >= 64 {
		return
	}
	bit := uint64(1) << w
	for {
		old := s.hot.Load()
		if old&bit == 0 || s.hot.CompareAndSwap(old, old&^bit) {
			return
		}
	}
}

func backoff(spins int) {
	if spins < spinYields {
		runtime.Gosched()
		return
	}
	d := minSleep << min(spins-spinYields, 7)
	if d > maxSleep {
		d = maxSleep
	}
	time.Sleep(d)
}
