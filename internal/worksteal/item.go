package worksteal

import "sync/atomic"

// ItemState is the lifecycle of an Item.
type ItemState uint32

const (
	Pending ItemState = iota
	Running
	Done
	Failed
)

func (s ItemState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Item is one chunk of work. ID orders the output and is dense from 0.
//
// Output and Err belong to the goroutine that took the item off a queue;
// anyone else may read them only after State reports Done or Failed.
type Item struct {
	ID     uint32
	Input  []byte
	Output []byte
	Err    error

	state atomic.Uint32
	runs  atomic.Int32
}

// State returns the current lifecycle state.
func (it *Item) State() ItemState {
	return ItemState(it.state.Load())
}

// Finished reports whether the item reached Done or Failed.
func (it *Item) Finished() bool {
	s := it.State()
	return s == Done || s == Failed
}

// Runs counts how many times a worker processed the item. It must end at 1.
func (it *Item) Runs() int {
	return int(it.runs.Load())
}

// Reset prepares the item for reuse with new input.
func (it *Item) Reset(id uint32, input, output []byte) {
	it.ID = id
	it.Input = input
	it.Output = output
	it.Err = nil
	it.state.Store(uint32(Pending))
	it.runs.Store(0)
}

func (it *Item) finish(err error) {
	if err != nil {
		it.Err = err
		it.state.Store(uint32(Failed))
		return
	}
	it.state.Store(uint32(Done))
}
