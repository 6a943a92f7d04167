package book

import (
	"matchcore/domain"
	"matchcore/internal/arena"
)

// PriceLevel is the FIFO queue of every live order resting at one price,
// backed by a contiguous, power-of-two ring buffer rather than a linked
// list — the same masked-index technique as the inbound/outbound queues in
// internal/ringbuffer, chosen here for the same reason the original C++
// reference picked std::deque over std::list: sequential front-to-back scans
// during matching stay cache-friendly instead of chasing pointers.
type PriceLevel struct {
	handles        []arena.Handle
	mask           int
	head, count    int
	totalRemaining uint32
}

const levelInitCap = 8

func newPriceLevel() *PriceLevel {
	return &PriceLevel{
		handles: make([]arena.Handle, levelInitCap),
		mask:    levelInitCap - 1,
	}
}

// Append adds h to the back of the level and folds its remaining quantity
// into the cached aggregate. O(1) amortized.
func (l *PriceLevel) Append(pool *arena.Pool[domain.Order], h arena.Handle) {
	if l.count == len(l.handles) {
		l.grow()
	}
	idx := (l.head + l.count) & l.mask
	l.handles[idx] = h
	l.count++
	l.totalRemaining += pool.Get(h).Remaining()
}

// PeekFront returns the earliest-arrived live handle at this price.
func (l *PriceLevel) PeekFront() (arena.Handle, bool) {
	if l.count == 0 {
		return 0, false
	}
	return l.handles[l.head], true
}

// PopFront removes the front handle, decreasing the cached aggregate by its
// remaining quantity (read before removal, per spec). O(1).
func (l *PriceLevel) PopFront(pool *arena.Pool[domain.Order]) {
	if l.count == 0 {
		return
	}
	front := l.handles[l.head]
	l.totalRemaining -= pool.Get(front).Remaining()
	l.head = (l.head + 1) & l.mask
	l.count--
}

// Remove erases a specific handle from the middle of the level (cancel
// path). O(k) in level size — cancels are rare relative to fills, so a
// linear scan is the right tradeoff over maintaining extra per-order
// bookkeeping.
func (l *PriceLevel) Remove(pool *arena.Pool[domain.Order], target arena.Handle) bool {
	for i := 0; i < l.count; i++ {
		idx := (l.head + i) & l.mask
		if l.handles[idx] != target {
			continue
		}
		l.totalRemaining -= pool.Get(target).Remaining()
		// Shift everything after i back by one slot, preserving FIFO order.
		for j := i; j < l.count-1; j++ {
			from := (l.head + j + 1) & l.mask
			to := (l.head + j) & l.mask
			l.handles[to] = l.handles[from]
		}
		l.count--
		return true
	}
	return false
}

// ReduceTotal subtracts q from the cached aggregate without removing the
// front handle — bookkeeping for a partial fill that leaves the front order
// resting.
func (l *PriceLevel) ReduceTotal(q uint32) {
	l.totalRemaining -= q
}

// IsEmpty reports whether the level has no live orders.
func (l *PriceLevel) IsEmpty() bool { return l.count == 0 }

// OrderCount returns the number of live orders at this level.
func (l *PriceLevel) OrderCount() int { return l.count }

// TotalRemaining returns the cached sum of remaining quantities.
func (l *PriceLevel) TotalRemaining() uint32 { return l.totalRemaining }

func (l *PriceLevel) grow() {
	next := make([]arena.Handle, len(l.handles)*2)
	for i := 0; i < l.count; i++ {
		next[i] = l.handles[(l.head+i)&l.mask]
	}
	l.handles = next
	l.mask = len(next) - 1
	l.head = 0
}
