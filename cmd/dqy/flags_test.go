package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsscience/dqy/internal/wire"
)

func TestPortFlagFlowsIntoOrchestratorOptions(t *testing.T) {
	fs, f := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--port", "5353"}))

	opts := orchestratorOptionsFromFlags(f, "example.com", []wire.Type{wire.TypeA}, "@1.1.1.1")
	assert.Equal(t, 5353, opts.Port)
}

func TestPortFlagDefaultsToZeroWhenUnset(t *testing.T) {
	fs, f := newFlagSet()
	require.NoError(t, fs.Parse(nil))

	opts := orchestratorOptionsFromFlags(f, "example.com", []wire.Type{wire.TypeA}, "@1.1.1.1")
	assert.Equal(t, 0, opts.Port)
}
