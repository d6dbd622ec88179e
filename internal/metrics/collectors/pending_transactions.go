package collectors

import (
	"github.com/prometheus/client_golang/prometheus"
)

type PendingTransactionsCollector struct {
	state     ChainState
	pendingTx *prometheus.Desc
}

func NewPendingTransactionsCollector(state ChainState) *PendingTransactionsCollector {
	return &PendingTransactionsCollector{
		state: state,
		pendingTx: prometheus.NewDesc(
			prometheus.BuildFQName("peerchain", "transactions", "pending"),
			"Transactions accepted but not yet sealed into a mined block",
			nil,
			nil,
		),
	}
}

func (c *PendingTransactionsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pendingTx
}

func (c *PendingTransactionsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.pendingTx, prometheus.GaugeValue, float64(c.state.PendingCount()))
}
