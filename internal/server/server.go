// Package server exposes ledger operations over HTTP. The on-wire shapes
// and status codes are shared by every node, because each node's consensus
// client reads its peers through this same surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/peerchain/peerchain/internal/consensus"
	"github.com/peerchain/peerchain/internal/ledger"
	"github.com/peerchain/peerchain/internal/metrics"
	"github.com/peerchain/peerchain/internal/peers"
	"github.com/peerchain/peerchain/internal/pow"
)

// miningRewardSender marks freshly minted coins.
const miningRewardSender = "0"

// Server wires the node's HTTP handlers to one ledger instance.
type Server struct {
	ledger   *ledger.Ledger
	registry *peers.Registry
	resolver *consensus.Resolver
	nodeID   string
	recorder *metrics.Recorder
}

func New(l *ledger.Ledger, r *peers.Registry, res *consensus.Resolver, nodeID string, rec *metrics.Recorder) *Server {
	return &Server{
		ledger:   l,
		registry: r,
		resolver: res,
		nodeID:   nodeID,
		recorder: rec,
	}
}

// Handler returns the node's HTTP route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /mine", s.handleMine)
	mux.HandleFunc("POST /transactions/new", s.handleNewTransaction)
	mux.HandleFunc("GET /chain", s.handleChain)
	mux.HandleFunc("POST /nodes/register", s.handleRegisterNodes)
	mux.HandleFunc("GET /nodes/resolve", s.handleResolve)
	return mux
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	solved, err := s.mine(r.Context())
	if err != nil {
		if errors.Is(err, ledger.ErrStaleDraft) {
			http.Error(w, "chain moved during mining, block discarded", http.StatusConflict)
			return
		}
		http.Error(w, "mining cancelled", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "New block mined",
		"index":         solved.Index,
		"transactions":  solved.Transactions,
		"proof":         solved.Proof,
		"previous_hash": solved.PreviousHash,
	})
}

// mine claims the reward, solves a detached draft off-lock so the committed
// chain never holds a block with an unsolved proof, and appends the result
// under the ledger lock. When the solve is cancelled or the chain moved
// while solving, the reward is withdrawn from the pool again so a later
// attempt does not pay it twice.
func (s *Server) mine(ctx context.Context) (ledger.Block, error) {
	reward := ledger.Transaction{Sender: miningRewardSender, Recipient: s.nodeID, Amount: 1}
	s.ledger.NewTransaction(reward.Sender, reward.Recipient, reward.Amount)

	draft := s.ledger.Draft(0)
	solved, err := pow.Solve(ctx, draft)
	if err == nil {
		err = s.ledger.Append(solved)
	}
	if err != nil {
		slog.Warn("Abandoning mining attempt", "index", draft.Index, "error", err)
		s.ledger.RemovePending(reward)
		return ledger.Block{}, err
	}

	s.recorder.BlockMined()
	return solved, nil
}

func (s *Server) handleNewTransaction(w http.ResponseWriter, r *http.Request) {
	var tx struct {
		Sender    *string  `json:"sender"`
		Recipient *string  `json:"recipient"`
		Amount    *float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "Missing body", http.StatusBadRequest)
		return
	}
	if tx.Sender == nil || tx.Recipient == nil || tx.Amount == nil {
		http.Error(w, "Missing values", http.StatusBadRequest)
		return
	}

	index := s.ledger.NewTransaction(*tx.Sender, *tx.Recipient, *tx.Amount)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("Transaction will be added to block %d", index),
	})
}

func (s *Server) handleChain(w http.ResponseWriter, _ *http.Request) {
	chain := s.ledger.Chain()
	writeJSON(w, http.StatusOK, map[string]any{
		"chain":  chain,
		"length": len(chain),
	})
}

func (s *Server) handleRegisterNodes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Nodes []string `json:"nodes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Nodes == nil {
		http.Error(w, "Error: Please supply a valid list of nodes", http.StatusBadRequest)
		return
	}

	for _, node := range body.Nodes {
		if err := s.registry.Register(node); err != nil {
			http.Error(w, fmt.Sprintf("Error: invalid node address %q", node), http.StatusBadRequest)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "New nodes have been added",
		"total_nodes": s.registry.List(),
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	replaced, err := s.resolver.Resolve(r.Context())
	if err != nil {
		http.Error(w, "consensus round aborted", http.StatusServiceUnavailable)
		return
	}
	s.recorder.ConsensusRound(replaced)

	if replaced {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   "Our chain was replaced",
			"new_chain": s.ledger.Chain(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Our chain is authoritative",
		"chain":   s.ledger.Chain(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
