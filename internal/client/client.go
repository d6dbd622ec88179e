// Package client fetches chain snapshots from peer nodes over HTTP.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/peerchain/peerchain/internal/ledger"
)

// ChainResponse is the on-wire shape every node serves at /chain. Length is
// the peer's self-reported chain length; consensus compares it directly and
// trusts it only as far as the chain itself validates.
type ChainResponse struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}

// ChainClient retrieves peer chains with a bounded per-request timeout so a
// hung peer cannot stall a consensus scan.
type ChainClient struct {
	rc *resty.Client
}

func NewChainClient(timeout time.Duration) *ChainClient {
	return &ChainClient{rc: resty.New().SetTimeout(timeout)}
}

// FetchChain GETs the chain of the peer at the given network location.
// Connection failures, timeouts and non-2xx statuses are all reported as
// errors; the caller decides whether to skip the peer.
func (c *ChainClient) FetchChain(ctx context.Context, peer string) (*ChainResponse, error) {
	var out ChainResponse

	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("http://%s/chain", peer))
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to fetch chain from %s", peer)
	}
	if resp.IsError() {
		return nil, errors.Errorf("peer %s returned status %d", peer, resp.StatusCode())
	}

	return &out, nil
}
