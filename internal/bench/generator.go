// Package bench provides the seeded synthetic order generator and latency
// harness used by cmd/benchmark, grounded on the original reference's
// OrderGenerator and benchmark driver.
package bench

import (
	"math/rand/v2"

	"matchcore/domain"
)

// GeneratedOrder is one synthetic instruction: either a new order or a
// cancel of a previously generated order id.
type GeneratedOrder struct {
	IsCancel bool
	CancelID uint64

	Side     domain.Side
	Type     domain.Type
	Price    int64
	Quantity uint32
}

// Generator produces a deterministic stream of synthetic orders from a
// seeded PRNG, so a benchmark run is reproducible across machines.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded deterministically from seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Generate produces count synthetic orders. cancelPct and marketPct are
// percentages in [0, 100]; limit prices are drawn uniformly from
// [centerPrice-spreadTicks, centerPrice+spreadTicks], and the center does not
// move during the run.
func (g *Generator) Generate(count int, cancelPct, marketPct int, centerPrice int64, spreadTicks int) []GeneratedOrder {
	orders := make([]GeneratedOrder, 0, count)
	var maxID uint64

	for i := 0; i < count; i++ {
		if maxID > 0 && g.rng.IntN(100) < cancelPct {
			orders = append(orders, GeneratedOrder{
				IsCancel: true,
				CancelID: uint64(g.rng.IntN(int(maxID))) + 1,
			})
			continue
		}

		side := domain.Buy
		if g.rng.IntN(2) == 1 {
			side = domain.Sell
		}
		qty := uint32(g.rng.IntN(1000) + 1)

		order := GeneratedOrder{Side: side, Quantity: qty}
		if g.rng.IntN(100) < marketPct {
			order.Type = domain.Market
		} else {
			order.Type = domain.Limit
			offset := g.rng.IntN(2*spreadTicks+1) - spreadTicks
			order.Price = centerPrice + int64(offset)
		}

		orders = append(orders, order)
		maxID++
	}

	return orders
}
