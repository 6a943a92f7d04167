package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateIsDeterministicForSameSeed(t *testing.T) {
	a := NewGenerator(42).Generate(200, 5, 10, 10000, 100)
	b := NewGenerator(42).Generate(200, 5, 10, 10000, 100)
	assert.Equal(t, a, b)
}

func TestGenerateRespectsCount(t *testing.T) {
	orders := NewGenerator(1).Generate(500, 5, 10, 10000, 100)
	assert.Len(t, orders, 500)
}

func TestGenerateNeverCancelsBeforeAnyOrderExists(t *testing.T) {
	orders := NewGenerator(7).Generate(1, 100, 0, 10000, 100)
	assert.False(t, orders[0].IsCancel, "the very first generated instruction has nothing yet to cancel")
}

func TestGenerateZeroMarketPctProducesOnlyLimitOrders(t *testing.T) {
	orders := NewGenerator(3).Generate(500, 0, 0, 10000, 50)
	for _, o := range orders {
		assert.False(t, o.IsCancel)
		assert.Zero(t, int(o.Type), "Type zero value must be Limit")
	}
}
