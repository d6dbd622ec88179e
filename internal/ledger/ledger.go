package ledger

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Genesis seed values. The first block has no real predecessor; its
// previous_hash is a sentinel and its proof was never mined.
const (
	genesisProof        = 100
	genesisPreviousHash = "1"
)

// ErrStaleDraft is returned by Append when the chain tip moved between
// drafting a block and committing it, typically because a conflict
// resolution swapped the chain while the proof was being solved.
var ErrStaleDraft = errors.New("draft no longer extends the chain tip")

// Ledger owns the committed chain and the pool of transactions awaiting
// inclusion in the next mined block. All access goes through its methods;
// every accessor returns deep copies, transaction lists included, so no
// caller ever aliases internal state.
type Ledger struct {
	mu      sync.RWMutex
	chain   []Block
	pending []Transaction
}

// New returns a ledger seeded with its genesis block.
func New() *Ledger {
	l := &Ledger{}
	l.chain = append(l.chain, Block{
		Index:        1,
		Timestamp:    now(),
		Transactions: []Transaction{},
		Proof:        genesisProof,
		PreviousHash: genesisPreviousHash,
	})
	return l
}

func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

func cloneBlock(b Block) Block {
	txs := make([]Transaction, len(b.Transactions))
	copy(txs, b.Transactions)
	b.Transactions = txs
	return b
}

func cloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = cloneBlock(b)
	}
	return out
}

// NewTransaction queues a transaction for the next mined block and returns
// the index of the block that will eventually contain it. Field values are
// recorded as given, without validation.
func (l *Ledger) NewTransaction(sender, recipient string, amount float64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, Transaction{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	})
	return l.chain[len(l.chain)-1].Index + 1
}

// Draft builds the block that would come next, snapshotting the current
// pending pool, without committing anything. The caller solves the draft's
// proof off-lock and then submits it through Append.
func (l *Ledger) Draft(proof int) Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	txs := make([]Transaction, len(l.pending))
	copy(txs, l.pending)

	tip := l.chain[len(l.chain)-1]
	return Block{
		Index:        tip.Index + 1,
		Timestamp:    now(),
		Transactions: txs,
		Proof:        proof,
		PreviousHash: HashBlock(tip),
	}
}

// Append commits a solved draft. It fails with ErrStaleDraft when the block
// no longer extends the current tip, which happens if another block was
// committed or the chain was replaced while the proof was being solved.
// On success the transactions captured by the draft leave the pending pool;
// transactions that arrived during mining stay queued.
func (l *Ledger) Append(b Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tip := l.chain[len(l.chain)-1]
	if b.Index != tip.Index+1 || b.PreviousHash != HashBlock(tip) {
		return errors.WithMessagef(ErrStaleDraft, "block %d", b.Index)
	}

	l.chain = append(l.chain, cloneBlock(b))
	l.pending = l.pending[len(b.Transactions):]
	return nil
}

// NewBlock constructs the next block from the full pending pool, commits it
// and clears the pool. An empty previousHash means "link to the current
// tip". Unlike the Draft/Append pair this commits whatever proof it is
// given, so it is only suitable when the proof is already known.
func (l *Ledger) NewBlock(proof int, previousHash string) Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	if previousHash == "" {
		previousHash = HashBlock(l.chain[len(l.chain)-1])
	}

	b := Block{
		Index:        len(l.chain) + 1,
		Timestamp:    now(),
		Transactions: l.pending,
		Proof:        proof,
		PreviousHash: previousHash,
	}
	if b.Transactions == nil {
		b.Transactions = []Transaction{}
	}

	l.chain = append(l.chain, b)
	l.pending = nil
	return cloneBlock(b)
}

// LastBlock returns a copy of the chain tip.
func (l *Ledger) LastBlock() Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneBlock(l.chain[len(l.chain)-1])
}

// Chain returns a copy of the committed chain.
func (l *Ledger) Chain() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneBlocks(l.chain)
}

// Height returns the number of committed blocks.
func (l *Ledger) Height() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.chain)
}

// PendingCount returns the number of transactions awaiting inclusion.
func (l *Ledger) PendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pending)
}

// ReplaceChain swaps in a foreign chain selected by conflict resolution,
// but only if it is still strictly longer than the committed chain at swap
// time. The length check happens inside the lock: blocks committed while a
// consensus scan was out fetching peers are never discarded in favor of a
// candidate they have since overtaken. Returns whether the swap happened.
// The pending pool is left untouched. Validating the chain is the
// caller's job.
func (l *Ledger) ReplaceChain(chain []Block) bool {
	replacement := cloneBlocks(chain)

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(replacement) <= len(l.chain) {
		return false
	}
	l.chain = replacement
	return true
}

// RemovePending takes one transaction matching tx back out of the pending
// pool. Used to withdraw a mining reward when the mined block could not be
// committed. Returns whether a match was found.
func (l *Ledger) RemovePending(tx Transaction) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, pending := range l.pending {
		if pending == tx {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return true
		}
	}
	return false
}
