package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashableBlock fixes the serialization used for hashing. Fields are declared
// in sorted key order so that every process, whatever order it populated the
// block in, hashes the exact same bytes.
type hashableBlock struct {
	Index        int           `json:"index"`
	PreviousHash string        `json:"previous_hash"`
	Proof        int           `json:"proof"`
	Timestamp    float64       `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
}

// HashBlock returns the SHA-256 digest of the block's canonical encoding as
// lowercase hex. All consensus decisions depend on this being deterministic
// across nodes, so a block that cannot be serialized is treated as corrupt
// and unrecoverable.
func HashBlock(b Block) string {
	canonical := hashableBlock{
		Index:        b.Index,
		PreviousHash: b.PreviousHash,
		Proof:        b.Proof,
		Timestamp:    b.Timestamp,
		Transactions: b.Transactions,
	}
	if canonical.Transactions == nil {
		canonical.Transactions = []Transaction{}
	}

	raw, err := json.Marshal(canonical)
	if err != nil {
		panic(fmt.Sprintf("ledger: block %d is not serializable: %v", b.Index, err))
	}

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
