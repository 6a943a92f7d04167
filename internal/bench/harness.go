package bench

import (
	"sort"
	"time"

	"matchcore/internal/engine"
)

// Result summarizes one benchmark run's throughput and latency profile.
type Result struct {
	OrderCount  int
	TotalTrades uint64
	Throughput  float64 // orders/sec
	MeanNanos   float64
	P50Nanos    float64
	P95Nanos    float64
	P99Nanos    float64
	P999Nanos   float64
}

// Run drives orders through a fresh engine, timing each instruction
// individually, and returns the resulting throughput/latency summary.
func Run(orders []GeneratedOrder) Result {
	eng := engine.New()

	latencies := make([]float64, len(orders))
	start := time.Now()

	for i, o := range orders {
		t0 := time.Now()
		if o.IsCancel {
			eng.CancelOrder(o.CancelID)
		} else {
			eng.ProcessOrder(o.Side, o.Type, o.Price, o.Quantity)
		}
		latencies[i] = float64(time.Since(t0).Nanoseconds())
	}

	elapsed := time.Since(start).Seconds()

	sort.Float64s(latencies)
	n := len(latencies)

	var sum float64
	for _, l := range latencies {
		sum += l
	}

	result := Result{
		OrderCount:  n,
		TotalTrades: eng.TradesExecuted(),
	}
	if elapsed > 0 {
		result.Throughput = float64(n) / elapsed
	}
	if n == 0 {
		return result
	}

	result.MeanNanos = sum / float64(n)
	result.P50Nanos = percentile(latencies, 50)
	result.P95Nanos = percentile(latencies, 95)
	result.P99Nanos = percentile(latencies, 99)
	result.P999Nanos = percentile999(latencies)

	return result
}

func percentile(sorted []float64, p int) float64 {
	n := len(sorted)
	idx := n * p / 100
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

func percentile999(sorted []float64) float64 {
	n := len(sorted)
	idx := n * 999 / 1000
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
