package peers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerchain/peerchain/internal/peers"
)

func TestRegisterStoresNetworkLocation(t *testing.T) {
	r := peers.NewRegistry()

	require.NoError(t, r.Register("http://192.168.7.117:5001"))
	assert.Equal(t, []string{"192.168.7.117:5001"}, r.List())
}

func TestRegisterStripsSchemeAndPath(t *testing.T) {
	r := peers.NewRegistry()

	require.NoError(t, r.Register("https://node.example.com:5002/chain?x=1"))
	assert.Equal(t, []string{"node.example.com:5002"}, r.List())
}

func TestRegisterAcceptsBareHostPort(t *testing.T) {
	r := peers.NewRegistry()

	require.NoError(t, r.Register("localhost:5003"))
	assert.Equal(t, []string{"localhost:5003"}, r.List())
}

func TestRegisterDeduplicates(t *testing.T) {
	r := peers.NewRegistry()

	require.NoError(t, r.Register("http://10.0.0.5:5001"))
	require.NoError(t, r.Register("10.0.0.5:5001"))
	require.NoError(t, r.Register("http://10.0.0.5:5001/some/path"))

	assert.Equal(t, 1, r.Len())
}

func TestRegisterRejectsMalformedAddresses(t *testing.T) {
	r := peers.NewRegistry()

	for _, address := range []string{"", "   ", "http://", "//"} {
		err := r.Register(address)
		require.Error(t, err, "address %q", address)
		assert.ErrorIs(t, err, peers.ErrMalformedAddress)
	}
	assert.Equal(t, 0, r.Len(), "rejected addresses must not be stored")
}
