// Package engine implements the matching engine (C4): the single-writer,
// synchronous core that accepts orders, matches them against the resting
// book under price-time priority, and reports the trades and order-id
// assignment produced. The engine holds no internal goroutines or channels —
// any concurrency needed to serialize concurrent callers into this core
// belongs at the server boundary (internal/server), not here.
package engine

import (
	"matchcore/domain"
	"matchcore/internal/arena"
	"matchcore/internal/book"
)

// Engine is a single-instrument matching engine.
type Engine struct {
	pool *arena.Pool[domain.Order]
	book *book.OrderBook

	nextID        uint64
	nextTimestamp uint64

	ordersProcessed uint64
	tradesExecuted  uint64
}

// New creates an empty engine for one instrument.
func New() *Engine {
	pool := arena.New[domain.Order]()
	return &Engine{
		pool: pool,
		book: book.New(pool),
	}
}

func (e *Engine) tick() uint64 {
	e.nextTimestamp++
	return e.nextTimestamp
}

// ProcessOrder submits a new order to the engine. It returns the id assigned
// to the incoming order and every trade produced while matching it. A Limit
// order that is not fully filled rests on the book at its remaining
// quantity; a Market order's unfilled remainder is discarded, never rested,
// per spec.md §4.4.2.
func (e *Engine) ProcessOrder(side domain.Side, typ domain.Type, price int64, qty uint32) (id uint64, trades []domain.Trade) {
	e.nextID++
	id = e.nextID
	e.ordersProcessed++

	incoming := &domain.Order{
		ID:          id,
		Timestamp:   e.tick(),
		Price:       price,
		OriginalQty: qty,
		Side:        side,
		Type:        typ,
	}

	trades = e.match(incoming)

	if typ == domain.Limit && !incoming.IsFilled() {
		h := e.pool.Acquire()
		*e.pool.Get(h) = *incoming
		e.book.Insert(h)
	}

	return id, trades
}

// CancelOrder removes a resting order from the book. It returns false if no
// live order with that id rests on the book (already filled, already
// cancelled, or never existed).
func (e *Engine) CancelOrder(id uint64) bool {
	h, ok := e.book.Cancel(id)
	if !ok {
		return false
	}
	e.pool.Release(h)
	return true
}

// BestBid returns the best resting buy price, if any.
func (e *Engine) BestBid() (price int64, ok bool) {
	p, _, ok := e.book.BestBid()
	return p, ok
}

// BestAsk returns the best resting sell price, if any.
func (e *Engine) BestAsk() (price int64, ok bool) {
	p, _, ok := e.book.BestAsk()
	return p, ok
}

// Depth returns a market-depth snapshot of up to levels rows per side.
func (e *Engine) Depth(levels int) (bids, asks []book.DepthEntry) {
	return e.book.Depth(levels)
}

// OrdersProcessed returns the running count of ProcessOrder calls.
func (e *Engine) OrdersProcessed() uint64 { return e.ordersProcessed }

// TradesExecuted returns the running count of trades produced.
func (e *Engine) TradesExecuted() uint64 { return e.tradesExecuted }

// crosses reports whether incoming, resting at restingPrice on the opposite
// side, is marketable against it.
func crosses(incoming *domain.Order, restingPrice int64) bool {
	if incoming.Type == domain.Market {
		return true
	}
	if incoming.Side == domain.Buy {
		return incoming.Price >= restingPrice
	}
	return incoming.Price <= restingPrice
}

// match sweeps the opposite side level by level, in price-then-time
// priority, executing against resting orders until incoming is filled or no
// more marketable liquidity remains. Each execution happens at the resting
// order's price (price improvement for the incoming side), per spec.md
// §4.4.1.
//
// The split between PriceLevel.PopFront/RemoveFromIndex (used here, mid-
// sweep) and OrderBook.Cancel (full removal, used only by CancelOrder) is
// deliberate: erasing a level's tree entry while this loop still holds a
// reference to it would invalidate the iteration.
func (e *Engine) match(incoming *domain.Order) []domain.Trade {
	var trades []domain.Trade

	for !incoming.IsFilled() {
		oppositeSide := domain.Sell
		if incoming.Side == domain.Sell {
			oppositeSide = domain.Buy
		}

		var (
			bestPrice int64
			level     *book.PriceLevel
			ok        bool
		)
		if oppositeSide == domain.Sell {
			bestPrice, level, ok = e.book.BestAsk()
		} else {
			bestPrice, level, ok = e.book.BestBid()
		}
		if !ok || !crosses(incoming, bestPrice) {
			break
		}

		for !incoming.IsFilled() && !level.IsEmpty() {
			h, _ := level.PeekFront()
			resting := e.pool.Get(h)

			fillQty := incoming.Remaining()
			if resting.Remaining() < fillQty {
				fillQty = resting.Remaining()
			}

			incoming.FilledQty += fillQty
			resting.FilledQty += fillQty
			level.ReduceTotal(fillQty)

			trade := e.buildTrade(incoming, resting, bestPrice, fillQty)
			trades = append(trades, trade)
			e.tradesExecuted++

			if resting.IsFilled() {
				level.PopFront(e.pool)
				e.book.RemoveFromIndex(resting.ID)
				e.pool.Release(h)
			}
		}

		e.book.EraseIfEmpty(oppositeSide, bestPrice)
	}

	return trades
}

func (e *Engine) buildTrade(incoming, resting *domain.Order, price int64, qty uint32) domain.Trade {
	buyerID, sellerID := incoming.ID, resting.ID
	if incoming.Side == domain.Sell {
		buyerID, sellerID = resting.ID, incoming.ID
	}
	return domain.Trade{
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Price:     price,
		Quantity:  qty,
		Timestamp: e.tick(),
	}
}
