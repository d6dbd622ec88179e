package collectors

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChainState is the slice of the ledger the collectors read.
type ChainState interface {
	Height() int
	PendingCount() int
}

type ChainHeightCollector struct {
	state       ChainState
	chainHeight *prometheus.Desc
}

func NewChainHeightCollector(state ChainState) *ChainHeightCollector {
	return &ChainHeightCollector{
		state: state,
		chainHeight: prometheus.NewDesc(
			prometheus.BuildFQName("peerchain", "chain", "height"),
			"Number of committed blocks in the local chain",
			nil,
			nil,
		),
	}
}

func (c *ChainHeightCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.chainHeight
}

func (c *ChainHeightCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.chainHeight, prometheus.GaugeValue, float64(c.state.Height()))
}
