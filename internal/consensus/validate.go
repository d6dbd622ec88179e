package consensus

import (
	"log/slog"

	"github.com/peerchain/peerchain/internal/ledger"
	"github.com/peerchain/peerchain/internal/pow"
)

// IsValidChain walks a candidate chain from its genesis block forward,
// re-deriving trust link by link. Block i must carry the hash of block i-1
// and a proof satisfying the difficulty target. The genesis block anchors
// the walk and is never itself checked for proof validity. Validation stops
// at the first failure.
func IsValidChain(chain []ledger.Block) bool {
	if len(chain) == 0 {
		return false
	}

	previous := chain[0]
	for _, block := range chain[1:] {
		if block.PreviousHash != ledger.HashBlock(previous) {
			slog.Debug("Chain validation failed: previous hash mismatch", "index", block.Index)
			return false
		}
		if !pow.ValidProof(block) {
			slog.Debug("Chain validation failed: invalid proof", "index", block.Index)
			return false
		}
		previous = block
	}

	return true
}
