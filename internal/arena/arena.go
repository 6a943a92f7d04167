// Package arena implements a pre-sized slab pool of fixed-size records with
// O(1) acquire/release, the idiomatic-Go translation of an intrusive
// free-list arena (the spec's C1): Go cannot alias free-list links over a
// generic T's payload bytes the way a raw-pointer arena would, so the free
// list here is a plain stack of stable integer handles instead, per the
// "stable integer indices" design note for languages without pointer
// aliasing.
package arena

// Handle is a stable reference into a Pool's storage. The zero Handle is
// never issued by Acquire, so a zero-valued Handle field reliably means
// "no order here".
type Handle uint32

// blockSize is the number of slots allocated per growth step.
const blockSize = 4096

// Pool hands out and reclaims fixed-size records of type T. It is the sole
// owner of record storage; callers hold only Handles, never pointers that
// outlive a Release. Pool must not be copied — copying would duplicate (and
// desynchronize) the free list and invalidate every outstanding handle.
type Pool[T any] struct {
	blocks [][]T
	free   []Handle
	live   int
}

// New creates an empty pool. Storage grows lazily on first Acquire.
func New[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Acquire returns a handle to an uninitialized slot. The caller must
// overwrite every field of the record before relying on any of them; Acquire
// does not zero the slot (it may hold a previous record's bytes).
func (p *Pool[T]) Acquire() Handle {
	if len(p.free) == 0 {
		p.grow()
	}
	n := len(p.free) - 1
	h := p.free[n]
	p.free = p.free[:n]
	p.live++
	return h
}

// Release returns a slot to the free list. The caller guarantees no live
// references to it remain; releasing a handle twice, or one never acquired,
// corrupts the free list (undefined behavior, per spec.md §7).
func (p *Pool[T]) Release(h Handle) {
	p.free = append(p.free, h)
	p.live--
}

// Get dereferences a handle to its backing record. The pointer is valid only
// until the next Release of the same handle.
func (p *Pool[T]) Get(h Handle) *T {
	idx := int(h) - 1
	block, slot := idx/blockSize, idx%blockSize
	return &p.blocks[block][slot]
}

// Live returns the number of currently-acquired (unreleased) records.
func (p *Pool[T]) Live() int {
	return p.live
}

// grow allocates one additional block and chains all its slots onto the
// free list. This is the cold path — acquire/release never reach it once
// the pool has warmed up to its steady-state working set.
func (p *Pool[T]) grow() {
	base := len(p.blocks) * blockSize
	block := make([]T, blockSize)
	p.blocks = append(p.blocks, block)

	p.free = slicegrow(p.free, blockSize)
	for i := blockSize - 1; i >= 0; i-- {
		p.free = append(p.free, Handle(base+i+1))
	}
}

func slicegrow(s []Handle, extra int) []Handle {
	if cap(s)-len(s) >= extra {
		return s
	}
	grown := make([]Handle, len(s), len(s)+extra)
	copy(grown, s)
	return grown
}
