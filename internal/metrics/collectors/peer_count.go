package collectors

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PeerCounter reports how many peers are registered.
type PeerCounter interface {
	Len() int
}

type PeerCountCollector struct {
	peers     PeerCounter
	peerCount *prometheus.Desc
}

func NewPeerCountCollector(peers PeerCounter) *PeerCountCollector {
	return &PeerCountCollector{
		peers: peers,
		peerCount: prometheus.NewDesc(
			prometheus.BuildFQName("peerchain", "peers", "registered"),
			"Registered peer nodes",
			nil,
			nil,
		),
	}
}

func (c *PeerCountCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.peerCount
}

func (c *PeerCountCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.peerCount, prometheus.GaugeValue, float64(c.peers.Len()))
}
