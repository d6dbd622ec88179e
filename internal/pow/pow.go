// Package pow implements the proof-of-work puzzle gating block acceptance:
// a block is solved when its hash carries a fixed number of leading zero
// hex digits.
package pow

import (
	"context"
	"strings"

	"github.com/peerchain/peerchain/internal/ledger"
)

// Difficulty is the required count of leading zero hex digits. It is a fixed
// configuration constant; no adjustment algorithm exists.
const Difficulty = 4

// cancelCheckInterval is how many proof increments happen between context
// checks during a solve.
const cancelCheckInterval = 4096

var difficultyPrefix = strings.Repeat("0", Difficulty)

// ValidProof reports whether the block's hash satisfies the difficulty
// target. The match is on the prefix, so hashes with more than Difficulty
// leading zeros also pass.
func ValidProof(b ledger.Block) bool {
	return strings.HasPrefix(ledger.HashBlock(b), difficultyPrefix)
}

// Solve searches for a proof by incrementing the nonce from its current
// value, and returns a copy of the block holding the first one that
// satisfies ValidProof. The input is never mutated. The search is unbounded
// (expected 16^Difficulty hashes) but checks ctx between batches of
// increments, so an in-flight solve can be abandoned.
func Solve(ctx context.Context, b ledger.Block) (ledger.Block, error) {
	draft := b
	for !ValidProof(draft) {
		if draft.Proof%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return ledger.Block{}, err
			}
		}
		draft.Proof++
	}
	return draft, nil
}
