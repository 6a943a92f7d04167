package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchcore/domain"
)

func TestRestingLimitOrderWithNoCross(t *testing.T) {
	e := New()

	id, trades := e.ProcessOrder(domain.Buy, domain.Limit, 10000, 10)
	assert.Empty(t, trades)
	assert.Equal(t, uint64(1), id)

	price, ok := e.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(10000), price)
}

func TestSimpleCross(t *testing.T) {
	e := New()

	_, trades := e.ProcessOrder(domain.Sell, domain.Limit, 10000, 10)
	assert.Empty(t, trades)

	_, trades = e.ProcessOrder(domain.Buy, domain.Limit, 10000, 10)
	require.Len(t, trades, 1)
	assert.Equal(t, uint32(10), trades[0].Quantity)
	assert.Equal(t, int64(10000), trades[0].Price)

	_, ok := e.BestAsk()
	assert.False(t, ok, "fully filled resting order must leave the book")
	_, ok = e.BestBid()
	assert.False(t, ok, "fully filled incoming order must not rest")
}

func TestPriceImprovementExecutesAtRestingPrice(t *testing.T) {
	e := New()

	e.ProcessOrder(domain.Sell, domain.Limit, 9900, 5)
	_, trades := e.ProcessOrder(domain.Buy, domain.Limit, 10100, 5)

	require.Len(t, trades, 1)
	assert.Equal(t, int64(9900), trades[0].Price, "execution must happen at the resting order's price, not the aggressor's")
}

func TestMultiLevelSweep(t *testing.T) {
	e := New()

	e.ProcessOrder(domain.Sell, domain.Limit, 10000, 5)
	e.ProcessOrder(domain.Sell, domain.Limit, 10100, 5)
	e.ProcessOrder(domain.Sell, domain.Limit, 10200, 5)

	_, trades := e.ProcessOrder(domain.Buy, domain.Limit, 10200, 15)
	require.Len(t, trades, 3)
	assert.Equal(t, int64(10000), trades[0].Price)
	assert.Equal(t, int64(10100), trades[1].Price)
	assert.Equal(t, int64(10200), trades[2].Price)

	_, ok := e.BestAsk()
	assert.False(t, ok)
}

func TestFIFOWithinLevelOnMatch(t *testing.T) {
	e := New()

	firstID, _ := e.ProcessOrder(domain.Sell, domain.Limit, 10000, 5)
	secondID, _ := e.ProcessOrder(domain.Sell, domain.Limit, 10000, 5)

	_, trades := e.ProcessOrder(domain.Buy, domain.Limit, 10000, 5)
	require.Len(t, trades, 1)
	assert.Equal(t, firstID, trades[0].SellerID, "earlier-arrived order at the same price must fill first")

	_, trades = e.ProcessOrder(domain.Buy, domain.Limit, 10000, 5)
	require.Len(t, trades, 1)
	assert.Equal(t, secondID, trades[0].SellerID)
}

func TestMarketOrderPartialFillDiscardsRemainder(t *testing.T) {
	e := New()

	e.ProcessOrder(domain.Sell, domain.Limit, 10000, 3)
	_, trades := e.ProcessOrder(domain.Buy, domain.Market, 0, 10)

	require.Len(t, trades, 1)
	assert.Equal(t, uint32(3), trades[0].Quantity)

	bids, _ := e.Depth(10)
	assert.Empty(t, bids, "an unfilled market-order remainder must not rest on the book")
}

func TestMarketOrderWithNoLiquidityFillsNothing(t *testing.T) {
	e := New()

	id, trades := e.ProcessOrder(domain.Buy, domain.Market, 0, 10)
	assert.Empty(t, trades)
	assert.Equal(t, uint64(1), id)

	bids, asks := e.Depth(10)
	assert.Empty(t, bids)
	assert.Empty(t, asks)
}

func TestCancelThenRejectedSecondCancel(t *testing.T) {
	e := New()

	id, _ := e.ProcessOrder(domain.Buy, domain.Limit, 10000, 5)

	assert.True(t, e.CancelOrder(id))
	assert.False(t, e.CancelOrder(id), "cancelling an already-cancelled order must fail")
}

func TestCancelOfFilledOrderFails(t *testing.T) {
	e := New()

	id, _ := e.ProcessOrder(domain.Sell, domain.Limit, 10000, 5)
	_, trades := e.ProcessOrder(domain.Buy, domain.Limit, 10000, 5)
	require.Len(t, trades, 1)

	assert.False(t, e.CancelOrder(id), "a fully filled order has already left the book")
}

func TestPartialFillLeavesRemainderResting(t *testing.T) {
	e := New()

	e.ProcessOrder(domain.Sell, domain.Limit, 10000, 10)
	_, trades := e.ProcessOrder(domain.Buy, domain.Limit, 10000, 4)

	require.Len(t, trades, 1)
	assert.Equal(t, uint32(4), trades[0].Quantity)

	price, ok := e.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(10000), price)

	_, asks := e.Depth(1)
	require.Len(t, asks, 1)
	assert.Equal(t, uint32(6), asks[0].Quantity)
}

func TestTimestampsStrictlyIncreaseAcrossOrdersAndTrades(t *testing.T) {
	e := New()

	e.ProcessOrder(domain.Sell, domain.Limit, 10000, 5)             // arrival timestamp 1
	_, trades := e.ProcessOrder(domain.Buy, domain.Limit, 10000, 5) // arrival timestamp 2

	require.Len(t, trades, 1)
	assert.Greater(t, trades[0].Timestamp, uint64(2), "a trade must be stamped after both participants' arrivals")

	e.ProcessOrder(domain.Sell, domain.Limit, 10000, 5)
	_, later := e.ProcessOrder(domain.Buy, domain.Limit, 10000, 5)

	require.Len(t, later, 1)
	assert.Greater(t, later[0].Timestamp, trades[0].Timestamp, "later orders and trades must draw later timestamps")
}

func TestOrdersAndTradesCountersAccumulate(t *testing.T) {
	e := New()

	e.ProcessOrder(domain.Sell, domain.Limit, 10000, 5)
	e.ProcessOrder(domain.Buy, domain.Limit, 10000, 5)

	assert.Equal(t, uint64(2), e.OrdersProcessed())
	assert.Equal(t, uint64(1), e.TradesExecuted())
}
