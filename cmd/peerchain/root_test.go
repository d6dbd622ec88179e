package peerchain_test

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/peerchain/peerchain/cmd/peerchain"
)

func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	_, err = root.ExecuteC()
	return buf.String(), err
}

func TestRootCmd(t *testing.T) {
	// Show help
	output, err := executeCommand(peerchain.RootCmd)
	assert.NoError(t, err)
	assert.Contains(t, output, "peerchain maintains an append-only transaction ledger")

	// Test invalid logLevel
	_, err = executeCommand(peerchain.RootCmd, "version", "--logLevel", "invalid")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "invalid log level: invalid. Valid log levels are: debug|error|info|warn")
}

func TestServeCmdRejectsInvalidConfig(t *testing.T) {
	_, err := executeCommand(peerchain.RootCmd, "serve", "--logLevel", "info", "--listen", "", "--peer-timeout", "5s")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "invalid serve configuration")
}

func TestMineCmdRejectsZeroCount(t *testing.T) {
	_, err := executeCommand(peerchain.RootCmd, "mine", "--logLevel", "info", "--count", "0")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "count must be at least 1")
}
