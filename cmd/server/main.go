// Command server runs the binary-protocol TCP front-end around a single
// matching engine instance, exposing Prometheus metrics on a separate HTTP
// listener. The listening port is an optional positional argument (default
// 9000).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matchcore/internal/engine"
	"matchcore/internal/logging"
	"matchcore/internal/metrics"
	"matchcore/internal/server"
)

const defaultPort = "9000"

func main() {
	metricsAddr := flag.String("metrics-addr", ":9091", "HTTP address for Prometheus metrics")
	dev := flag.Bool("dev", false, "use a human-readable development logger")
	flag.Parse()

	port := defaultPort
	if flag.NArg() > 0 {
		port = flag.Arg(0)
	}
	addr := ":" + port

	if err := logging.Init(*dev); err != nil {
		panic(err)
	}
	defer logging.Logger.Sync()

	metrics.Init()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			logging.Error("metrics server exited", zap.Error(err))
		}
	}()

	eng := engine.New()
	srv := server.New(eng)

	logging.Info("starting matchcore server", zap.String("addr", addr))
	if err := srv.Run(context.Background(), addr); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}
