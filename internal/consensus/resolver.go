// Package consensus implements the longest-valid-chain conflict resolution
// rule between ledger replicas.
package consensus

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/peerchain/peerchain/internal/client"
	"github.com/peerchain/peerchain/internal/ledger"
	"github.com/peerchain/peerchain/internal/peers"
)

// Fetcher retrieves a peer's chain snapshot. Satisfied by
// client.ChainClient; tests substitute their own transport.
type Fetcher interface {
	FetchChain(ctx context.Context, peer string) (*client.ChainResponse, error)
}

// Resolver compares the local chain against every registered peer and adopts
// the longest foreign chain that passes full validation.
type Resolver struct {
	ledger         *ledger.Ledger
	registry       *peers.Registry
	fetcher        Fetcher
	maxConcurrency uint
}

func NewResolver(l *ledger.Ledger, r *peers.Registry, f Fetcher, maxConcurrency uint) *Resolver {
	if maxConcurrency == 0 {
		maxConcurrency = 1
	}
	return &Resolver{
		ledger:         l,
		registry:       r,
		fetcher:        f,
		maxConcurrency: maxConcurrency,
	}
}

type peerChain struct {
	peer string
	resp *client.ChainResponse
}

// Resolve runs one consensus round. Peers are fetched concurrently and
// without holding the ledger lock; an unreachable or misbehaving peer is
// skipped and the scan continues. A candidate wins only when its reported
// length strictly exceeds both the local height and every earlier candidate,
// and the chain itself validates from its genesis block. The local chain is
// swapped at most once, by a compare-and-swap after the whole scan, so the
// winner must still beat whatever was committed locally in the meantime.
// Returns whether it was replaced.
func (r *Resolver) Resolve(ctx context.Context) (bool, error) {
	neighbors := r.registry.List()
	if len(neighbors) == 0 {
		return false, nil
	}

	localHeight := r.ledger.Height()
	slog.Debug("Starting consensus round", "peers", len(neighbors), "localHeight", localHeight)

	results := make(chan peerChain, len(neighbors))
	eg, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, r.maxConcurrency)

	for _, peer := range neighbors {
		if err := gctx.Err(); err != nil {
			break
		}
		sem <- struct{}{}

		eg.Go(func() error {
			defer func() { <-sem }()

			resp, err := r.fetcher.FetchChain(gctx, peer)
			if err != nil {
				slog.Warn("Skipping peer", "peer", peer, "error", err)
				return nil
			}
			results <- peerChain{peer: peer, resp: resp}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return false, err
	}
	close(results)

	// Merge serially: strict > only, so among equal-longest peers the first
	// one observed keeps the candidacy.
	maxLength := localHeight
	var winner *peerChain
	for pc := range results {
		if pc.resp.Length <= maxLength {
			continue
		}
		if !IsValidChain(pc.resp.Chain) {
			slog.Warn("Discarding invalid candidate chain", "peer", pc.peer, "length", pc.resp.Length)
			continue
		}
		maxLength = pc.resp.Length
		winner = &pc
	}

	if winner == nil {
		slog.Debug("Local chain is authoritative", "height", localHeight)
		return false, nil
	}

	// Final compare-and-swap: the ledger re-checks the length under its own
	// lock, so a candidate the local chain outgrew during the scan is
	// discarded instead of clobbering freshly mined blocks.
	if !r.ledger.ReplaceChain(winner.resp.Chain) {
		slog.Info("Local chain outgrew candidate during scan", "peer", winner.peer, "length", winner.resp.Length)
		return false, nil
	}
	slog.Info("Replaced local chain", "peer", winner.peer, "height", winner.resp.Length)
	return true, nil
}
