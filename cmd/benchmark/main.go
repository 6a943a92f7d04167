// Command benchmark drives a matching engine with synthetic seeded order
// flow and reports throughput and latency percentiles, mirroring the three
// workload shapes the original reference's bench driver exercised.
package main

import (
	"flag"
	"fmt"

	"matchcore/internal/bench"
)

func main() {
	orderCount := flag.Int("orders", 1_000_000, "number of synthetic orders to generate per workload")
	seed := flag.Uint64("seed", 42, "PRNG seed for reproducible order generation")
	flag.Parse()

	fmt.Printf("Generating %d random orders...\n", *orderCount)

	runWorkload("Mixed Workload (5% cancel, 10% market)", *orderCount, *seed, 5, 10)
	runWorkload("Pure Limit Orders", *orderCount, *seed, 0, 0)
	runWorkload("High Cancel Rate (30%)", *orderCount, *seed, 30, 5)
}

func runWorkload(label string, orderCount int, seed uint64, cancelPct, marketPct int) {
	gen := bench.NewGenerator(seed)
	orders := gen.Generate(orderCount, cancelPct, marketPct, 10000, 100)
	result := bench.Run(orders)
	printResult(label, result, orderCount)
}

func printResult(label string, r bench.Result, orderCount int) {
	fmt.Printf("\n=== %s ===\n", label)
	fmt.Printf("Orders:     %d\n", orderCount)
	fmt.Printf("Trades:     %d\n", r.TotalTrades)
	fmt.Printf("Throughput: %.0f orders/sec\n", r.Throughput)
	fmt.Println("Latency (ns):")
	fmt.Printf("  mean:  %.1f\n", r.MeanNanos)
	fmt.Printf("  p50:   %.1f\n", r.P50Nanos)
	fmt.Printf("  p95:   %.1f\n", r.P95Nanos)
	fmt.Printf("  p99:   %.1f\n", r.P99Nanos)
	fmt.Printf("  p99.9: %.1f\n", r.P999Nanos)
}
