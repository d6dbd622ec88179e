// Package peers tracks the set of known ledger replicas by network location.
package peers

import (
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrMalformedAddress is returned when no network location can be extracted
// from an address given to Register.
var ErrMalformedAddress = errors.New("no network location in peer address")

// Registry is a deduplicated set of peer network locations (host[:port]).
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]struct{})}
}

// Register parses address as a URL and stores only its network location.
// Both full URLs ("http://10.0.0.5:5001/whatever") and bare "host:port"
// strings are accepted. Addresses from which no host can be extracted are
// rejected rather than stored.
func (r *Registry) Register(address string) error {
	netloc, err := extractNetloc(address)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[netloc] = struct{}{}
	return nil
}

func extractNetloc(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", errors.WithMessage(ErrMalformedAddress, "empty address")
	}

	u, err := url.Parse(address)
	if err == nil && u.Host != "" && u.Hostname() != "" {
		return u.Host, nil
	}

	// A bare "host:port" parses without a host because the leading component
	// looks like a scheme. Retry as a schemeless URL, but only when the
	// address did not already claim an authority.
	if !strings.Contains(address, "//") {
		u, err = url.Parse("//" + address)
		if err == nil && u.Host != "" && u.Hostname() != "" {
			return u.Host, nil
		}
	}

	return "", errors.WithMessagef(ErrMalformedAddress, "%q", address)
}

// List returns the registered peers in no particular order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]string, 0, len(r.nodes))
	for node := range r.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

// Len returns the number of registered peers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}
