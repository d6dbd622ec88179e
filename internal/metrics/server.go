package metrics

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peerchain/peerchain/internal/metrics/collectors"
)

// CreateMetricsServer starts a Prometheus endpoint serving the node's
// collectors on addr. The returned server is already listening; the caller
// shuts it down.
func CreateMetricsServer(state collectors.ChainState, peers collectors.PeerCounter, recorder *Recorder, addr string) (*http.Server, error) {
	reg := prometheus.NewRegistry()

	for _, c := range []prometheus.Collector{
		collectors.NewChainHeightCollector(state),
		collectors.NewPendingTransactionsCollector(state),
		collectors.NewPeerCountCollector(peers),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	if recorder != nil {
		if err := recorder.Register(reg); err != nil {
			return nil, err
		}
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: ln.Addr().String(), Handler: mux}

	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	return server, nil
}
