package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts node events that pull-based collectors cannot observe.
// A nil Recorder is valid and records nothing, so callers never need to
// branch on whether metrics are enabled.
type Recorder struct {
	blocksMined   prometheus.Counter
	chainReplaced prometheus.Counter
	chainRetained prometheus.Counter
}

func NewRecorder() *Recorder {
	return &Recorder{
		blocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "peerchain",
			Subsystem: "mining",
			Name:      "blocks_total",
			Help:      "Blocks mined and committed by this node",
		}),
		chainReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "peerchain",
			Subsystem: "consensus",
			Name:      "chain_replaced_total",
			Help:      "Consensus rounds that adopted a peer's chain",
		}),
		chainRetained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "peerchain",
			Subsystem: "consensus",
			Name:      "chain_retained_total",
			Help:      "Consensus rounds that kept the local chain",
		}),
	}
}

func (r *Recorder) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{r.blocksMined, r.chainReplaced, r.chainRetained} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) BlockMined() {
	if r == nil {
		return
	}
	r.blocksMined.Inc()
}

func (r *Recorder) ConsensusRound(replaced bool) {
	if r == nil {
		return
	}
	if replaced {
		r.chainReplaced.Inc()
		return
	}
	r.chainRetained.Inc()
}
