package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerchain/peerchain/internal/ledger"
)

func TestGenesis(t *testing.T) {
	led := ledger.New()

	require.Equal(t, 1, led.Height())
	genesis := led.LastBlock()
	assert.Equal(t, 1, genesis.Index)
	assert.Equal(t, "1", genesis.PreviousHash)
	assert.Equal(t, 100, genesis.Proof)
	assert.Empty(t, genesis.Transactions)
}

func TestTransactionFlow(t *testing.T) {
	led := ledger.New()

	index := led.NewTransaction("alice", "bob", 10)
	assert.Equal(t, 2, index, "transaction should be promised to the next block")
	assert.Equal(t, 1, led.PendingCount())

	block := led.NewBlock(42, "")
	require.Equal(t, 2, block.Index)
	require.Len(t, block.Transactions, 1)
	assert.Equal(t, ledger.Transaction{Sender: "alice", Recipient: "bob", Amount: 10}, block.Transactions[0])
	assert.Equal(t, 0, led.PendingCount(), "pool must be cleared by the commit")

	index = led.NewTransaction("carol", "dave", -3.5)
	assert.Equal(t, led.LastBlock().Index+1, index)
}

func TestNewBlockLinksToTip(t *testing.T) {
	led := ledger.New()
	tipHash := ledger.HashBlock(led.LastBlock())

	block := led.NewBlock(7, "")
	assert.Equal(t, tipHash, block.PreviousHash)
	assert.Equal(t, 2, led.Height())
}

func TestDraftDoesNotCommit(t *testing.T) {
	led := ledger.New()
	led.NewTransaction("alice", "bob", 1)

	draft := led.Draft(0)
	assert.Equal(t, 2, draft.Index)
	assert.Equal(t, ledger.HashBlock(led.LastBlock()), draft.PreviousHash)
	require.Len(t, draft.Transactions, 1)

	assert.Equal(t, 1, led.Height(), "drafting must not grow the chain")
	assert.Equal(t, 1, led.PendingCount(), "drafting must not drain the pool")
}

func TestAppendCommitsDraft(t *testing.T) {
	led := ledger.New()
	led.NewTransaction("alice", "bob", 1)

	draft := led.Draft(0)
	draft.Proof = 12345

	require.NoError(t, led.Append(draft))
	assert.Equal(t, 2, led.Height())
	assert.Equal(t, 0, led.PendingCount())
	assert.Equal(t, 12345, led.LastBlock().Proof)
}

func TestAppendKeepsTransactionsQueuedDuringMining(t *testing.T) {
	led := ledger.New()
	led.NewTransaction("alice", "bob", 1)

	draft := led.Draft(0)
	// Arrives while the draft is being solved.
	led.NewTransaction("carol", "dave", 2)

	require.NoError(t, led.Append(draft))
	require.Equal(t, 1, led.PendingCount(), "transactions not captured by the draft stay pending")

	next := led.Draft(0)
	require.Len(t, next.Transactions, 1)
	assert.Equal(t, "carol", next.Transactions[0].Sender)
}

func TestAppendRejectsStaleDraft(t *testing.T) {
	led := ledger.New()
	draft := led.Draft(0)

	// Another block lands before the draft is committed.
	led.NewBlock(9, "")

	err := led.Append(draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrStaleDraft)
	assert.Equal(t, 2, led.Height())
}

func TestReplaceChain(t *testing.T) {
	led := ledger.New()
	led.NewTransaction("alice", "bob", 1)

	other := ledger.New()
	other.NewBlock(5, "")
	other.NewBlock(6, "")
	foreign := other.Chain()

	assert.True(t, led.ReplaceChain(foreign))
	assert.Equal(t, foreign, led.Chain())
	assert.Equal(t, 1, led.PendingCount(), "pool is untouched by a chain swap")
}

func TestReplaceChainRefusesShorterOrEqual(t *testing.T) {
	led := ledger.New()
	led.NewBlock(5, "")
	led.NewBlock(6, "")
	before := led.Chain()

	shorter := ledger.New()
	shorter.NewBlock(7, "")

	assert.False(t, led.ReplaceChain(shorter.Chain()), "shorter chain must not be adopted")
	assert.False(t, led.ReplaceChain(before), "equal-length chain must not be adopted")
	assert.Equal(t, before, led.Chain())
}

func TestRemovePending(t *testing.T) {
	led := ledger.New()
	led.NewTransaction("alice", "bob", 10)
	led.NewTransaction("0", "miner", 1)

	assert.True(t, led.RemovePending(ledger.Transaction{Sender: "0", Recipient: "miner", Amount: 1}))
	require.Equal(t, 1, led.PendingCount())

	block := led.NewBlock(42, "")
	require.Len(t, block.Transactions, 1)
	assert.Equal(t, "alice", block.Transactions[0].Sender)

	assert.False(t, led.RemovePending(ledger.Transaction{Sender: "nobody", Recipient: "noone", Amount: 0}))
}

func TestChainReturnsCopy(t *testing.T) {
	led := ledger.New()

	chain := led.Chain()
	chain[0].Proof = 999

	assert.Equal(t, 100, led.LastBlock().Proof)
}

func TestAccessorsCopyTransactions(t *testing.T) {
	led := ledger.New()
	led.NewTransaction("alice", "bob", 10)
	led.NewBlock(42, "")

	chain := led.Chain()
	chain[1].Transactions[0].Amount = 1000000
	assert.Equal(t, 10.0, led.LastBlock().Transactions[0].Amount)

	tip := led.LastBlock()
	tip.Transactions[0].Recipient = "mallory"
	assert.Equal(t, "bob", led.LastBlock().Transactions[0].Recipient)
}
