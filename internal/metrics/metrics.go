// Package metrics declares the engine's Prometheus metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchcore_orders_processed_total",
		Help: "Total number of orders accepted by the engine.",
	})

	TradesExecuted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchcore_trades_executed_total",
		Help: "Total number of trades executed by the engine.",
	})

	TradeVolume = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchcore_trade_volume_total",
		Help: "Total quantity exchanged across all trades.",
	})

	OrderLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchcore_order_latency_seconds",
		Help:    "Wall-clock time to process a single order, from receipt to response.",
		Buckets: prometheus.ExponentialBuckets(0.000001, 2, 20),
	})

	CancelRejects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matchcore_cancel_rejects_total",
		Help: "Total number of CANCEL requests that referred to an unknown or already-settled order.",
	})
)

// Init registers every metric with the default Prometheus registry.
func Init() {
	prometheus.MustRegister(OrdersProcessed)
	prometheus.MustRegister(TradesExecuted)
	prometheus.MustRegister(TradeVolume)
	prometheus.MustRegister(OrderLatency)
	prometheus.MustRegister(CancelRejects)
}
