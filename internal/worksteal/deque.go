package worksteal

import (
	"math/bits"
	"sync/atomic"
)

const DefaultCapacity = 1024

// Deque is a bounded Chase-Lev work-stealing deque.
//
// The owner pushes and pops at the tail; any goroutine may steal from the
// head. tail is only written by the owner. head only moves forward and only
// through a compare-and-swap, which is the single point where ownership of
// an item changes hands.
type Deque struct {
	head atomic.Int64
	_    [56]byte // keep head and tail on separate cache lines
	tail atomic.Int64
	_    [56]byte

	mask  int64
	slots []atomic.Pointer[Item]
}

// NewDeque returns a deque holding up to capacity items, rounded up to a
// power of two.
func NewDeque(capacity int) *Deque {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	size := 1 << bits.Len(uint(capacity-1))
	return &Deque{
		mask:  int64(size - 1),
		slots: make([]atomic.Pointer[Item], size),
	}
}

// Cap returns the fixed capacity.
func (q *Deque) Cap() int {
	return len(q.slots)
}

// Len is a racy estimate, exact only when no one else touches the deque.
func (q *Deque) Len() int {
	n := q.tail.Load() - q.head.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// Push appends it at the tail. Owner only. It returns false when the deque
// is full.
func (q *Deque) Push(it *Item) bool {
	t := q.tail.Load()
	h := q.head.Load()
	if t-h >= int64(len(q.slots)) {
		return false
	}
	q.slots[t&q.mask].Store(it)
	q.tail.Store(t + 1)
	return true
}

// Pop removes the item at the tail. Owner only.
func (q *Deque) Pop() *Item {
	t := q.tail.Load() - 1
	q.tail.Store(t)
	h := q.head.Load()

	if h > t {
		// Empty, undo the reservation.
		q.tail.Store(t + 1)
		return nil
	}

	it := q.slots[t&q.mask].Load()
	if h < t {
		// At least one item stays behind, thieves cannot reach slot t.
		return it
	}

	// Last item: race the thieves for it on head.
	won := q.head.CompareAndSwap(h, h+1)
	q.tail.Store(t + 1)
	if !won {
		return nil
	}
	return it
}

// Steal removes the item at the head. Safe from any goroutine. A nil
// result means the deque looked empty or another thief won the race.
func (q *Deque) Steal() *Item {
	h := q.head.Load()
	t := q.tail.Load()
	if h >= t {
		return nil
	}
	it := q.slots[h&q.mask].Load()
	if !q.head.CompareAndSwap(h, h+1) {
		return nil
	}
	return it
}
