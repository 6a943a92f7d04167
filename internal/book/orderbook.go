// Package book implements the dual-indexed order book (C3): two price-sorted
// sides for matching, plus an id→handle index for O(1) cancellation.
package book

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"matchcore/domain"
	"matchcore/internal/arena"
)

type lookupEntry struct {
	side  domain.Side
	price int64
}

// OrderBook holds the two sides of a single instrument's book. It borrows
// handles from an arena.Pool[domain.Order] it does not own — the pool
// outlives the book and the engine remains the only thing that may call
// Release on a handle.
type OrderBook struct {
	pool *arena.Pool[domain.Order]

	bids *rbt.Tree[int64, *PriceLevel] // descending: best bid first
	asks *rbt.Tree[int64, *PriceLevel] // ascending: best ask first

	lookup map[uint64]lookupEntry

	// Cached best price/level per side, updated incrementally so BestBid/
	// BestAsk stay O(1) instead of re-descending the tree on every call —
	// the same bestBucket/bestPrice caching idiom the teacher's sharded
	// price tree uses.
	bestBidPrice int64
	bestBidLevel *PriceLevel
	haveBestBid  bool

	bestAskPrice int64
	bestAskLevel *PriceLevel
	haveBestAsk  bool
}

func descending(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func ascending(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// New creates an empty order book over the given arena.
func New(pool *arena.Pool[domain.Order]) *OrderBook {
	return &OrderBook{
		pool:   pool,
		bids:   rbt.NewWith[int64, *PriceLevel](descending),
		asks:   rbt.NewWith[int64, *PriceLevel](ascending),
		lookup: make(map[uint64]lookupEntry),
	}
}

func (b *OrderBook) sideTree(side domain.Side) *rbt.Tree[int64, *PriceLevel] {
	if side == domain.Buy {
		return b.bids
	}
	return b.asks
}

// Insert places h into the side/price chosen by its order record, appending
// to the level (creating it if absent) and registering it in the lookup
// index. O(log L + 1).
func (b *OrderBook) Insert(h arena.Handle) {
	o := b.pool.Get(h)
	tree := b.sideTree(o.Side)

	level, found := tree.Get(o.Price)
	if !found {
		level = newPriceLevel()
		tree.Put(o.Price, level)
	}
	level.Append(b.pool, h)
	b.lookup[o.ID] = lookupEntry{side: o.Side, price: o.Price}

	b.updateBestOnInsert(o.Side, o.Price, level)
}

// Cancel removes an order by id: from the lookup index, from its level
// (erasing the level if now empty), returning the handle to the caller for
// release. Returns false if the id is absent. O(log L + k).
func (b *OrderBook) Cancel(id uint64) (arena.Handle, bool) {
	entry, ok := b.lookup[id]
	if !ok {
		return 0, false
	}
	delete(b.lookup, id)

	tree := b.sideTree(entry.side)
	level, found := tree.Get(entry.price)
	if !found {
		return 0, false
	}

	h, ok := b.findHandle(level, id)
	if !ok {
		return 0, false
	}
	level.Remove(b.pool, h)

	if level.IsEmpty() {
		tree.Remove(entry.price)
		b.invalidateBestIfDrained(entry.side, entry.price)
	}

	return h, true
}

// RemoveFromIndex removes only the lookup entry. It must only be called by
// the matching engine after it has already popped the handle from its level
// itself — calling the full Cancel path mid-drain would erase a level the
// matching loop is still iterating. This split is the load-bearing
// iteration-vs-mutation discipline spec.md §4.3 requires.
func (b *OrderBook) RemoveFromIndex(id uint64) {
	delete(b.lookup, id)
}

// EraseIfEmpty removes the price entry for side if its level has drained to
// empty. Called by the matching engine only after its inner per-level loop
// has released every reference into that level.
func (b *OrderBook) EraseIfEmpty(side domain.Side, price int64) {
	tree := b.sideTree(side)
	level, found := tree.Get(price)
	if !found || !level.IsEmpty() {
		return
	}
	tree.Remove(price)
	b.invalidateBestIfDrained(side, price)
}

// BestBid returns the highest bid price and its level, if any bids rest.
func (b *OrderBook) BestBid() (price int64, level *PriceLevel, ok bool) {
	if !b.haveBestBid {
		return 0, nil, false
	}
	return b.bestBidPrice, b.bestBidLevel, true
}

// BestAsk returns the lowest ask price and its level, if any asks rest.
func (b *OrderBook) BestAsk() (price int64, level *PriceLevel, ok bool) {
	if !b.haveBestAsk {
		return 0, nil, false
	}
	return b.bestAskPrice, b.bestAskLevel, true
}

// HasOrder reports whether id currently resides in the lookup index.
func (b *OrderBook) HasOrder(id uint64) bool {
	_, ok := b.lookup[id]
	return ok
}

// BidLevelCount returns the number of distinct bid price levels.
func (b *OrderBook) BidLevelCount() int { return b.bids.Size() }

// AskLevelCount returns the number of distinct ask price levels.
func (b *OrderBook) AskLevelCount() int { return b.asks.Size() }

// DepthEntry is one row of a market-depth snapshot.
type DepthEntry struct {
	Price    int64
	Quantity uint32
	Orders   int
}

// Depth returns up to levels rows per side, best price first, for the PRINT
// command.
func (b *OrderBook) Depth(levels int) (bids, asks []DepthEntry) {
	bids = collectDepth(b.bids, levels)
	asks = collectDepth(b.asks, levels)
	return bids, asks
}

func collectDepth(tree *rbt.Tree[int64, *PriceLevel], levels int) []DepthEntry {
	if levels <= 0 {
		return nil
	}
	it := tree.Iterator()
	out := make([]DepthEntry, 0, levels)
	for it.Next() && len(out) < levels {
		out = append(out, DepthEntry{
			Price:    it.Key(),
			Quantity: it.Value().TotalRemaining(),
			Orders:   it.Value().OrderCount(),
		})
	}
	return out
}

func (b *OrderBook) findHandle(level *PriceLevel, id uint64) (arena.Handle, bool) {
	for i := 0; i < level.count; i++ {
		idx := (level.head + i) & level.mask
		h := level.handles[idx]
		if b.pool.Get(h).ID == id {
			return h, true
		}
	}
	return 0, false
}

func (b *OrderBook) updateBestOnInsert(side domain.Side, price int64, level *PriceLevel) {
	if side == domain.Buy {
		if !b.haveBestBid || price > b.bestBidPrice {
			b.bestBidPrice, b.bestBidLevel, b.haveBestBid = price, level, true
		}
		return
	}
	if !b.haveBestAsk || price < b.bestAskPrice {
		b.bestAskPrice, b.bestAskLevel, b.haveBestAsk = price, level, true
	}
}

// invalidateBestIfDrained recomputes the cached best price for side from the
// tree when the price that just emptied out was the cached best.
func (b *OrderBook) invalidateBestIfDrained(side domain.Side, price int64) {
	if side == domain.Buy {
		if !b.haveBestBid || b.bestBidPrice != price {
			return
		}
		b.recomputeBestBid()
		return
	}
	if !b.haveBestAsk || b.bestAskPrice != price {
		return
	}
	b.recomputeBestAsk()
}

func (b *OrderBook) recomputeBestBid() {
	if b.bids.Empty() {
		b.haveBestBid = false
		b.bestBidLevel = nil
		return
	}
	node := b.bids.Left()
	b.bestBidPrice, b.bestBidLevel, b.haveBestBid = node.Key, node.Value, true
}

func (b *OrderBook) recomputeBestAsk() {
	if b.asks.Empty() {
		b.haveBestAsk = false
		b.bestAskLevel = nil
		return
	}
	node := b.asks.Left()
	b.bestAskPrice, b.bestAskLevel, b.haveBestAsk = node.Key, node.Value, true
}
