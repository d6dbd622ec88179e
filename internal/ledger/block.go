package ledger

// Transaction is a single transfer recorded in a block. Amounts are stored
// as-is; the ledger imposes no sign or range constraints.
type Transaction struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
}

// Block is one sealed batch of transactions. PreviousHash links it to its
// predecessor; Proof is the nonce found by the proof-of-work search. Only
// Proof changes after construction, and only while a draft is being solved.
type Block struct {
	Index        int           `json:"index"`
	Timestamp    float64       `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	Proof        int           `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}
