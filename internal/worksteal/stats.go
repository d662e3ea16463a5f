package worksteal

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Stats are diagnostic counters. Nothing in the scheduler reads them to
// make a decision.
type Stats struct {
	completed      atomic.Uint64
	failed         atomic.Uint64
	stealAttempts  atomic.Uint64
	stealSuccesses atomic.Uint64
	globalPushes   atomic.Uint64
	globalPops     atomic.Uint64
	idleYields     atomic.Uint64
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Completed      uint64
	Failed         uint64
	StealAttempts  uint64
	StealSuccesses uint64
	GlobalPushes   uint64
	GlobalPops     uint64
	IdleYields     uint64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Completed:      s.completed.Load(),
		Failed:         s.failed.Load(),
		StealAttempts:  s.stealAttempts.Load(),
		StealSuccesses: s.stealSuccesses.Load(),
		GlobalPushes:   s.globalPushes.Load(),
		GlobalPops:     s.globalPops.Load(),
		IdleYields:     s.idleYields.Load(),
	}
}

// StealRatio is the fraction of steal attempts that returned an item.
func (s Snapshot) StealRatio() float64 {
	if s.StealAttempts == 0 {
		return 0
	}
	return float64(s.StealSuccesses) / float64(s.StealAttempts)
}

// MarshalZerologObject lets a snapshot be logged with Object().
func (s Snapshot) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("completed", s.Completed).
		Uint64("failed", s.Failed).
		Uint64("steal_attempts", s.StealAttempts).
		Uint64("steal_successes", s.StealSuccesses).
		Uint64("global_pushes", s.GlobalPushes).
		Uint64("global_pops", s.GlobalPops).
		Uint64("idle_yields", s.IdleYields)
}
