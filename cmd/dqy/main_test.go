package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsscience/dqy/internal/display"
	"github.com/dnsscience/dqy/internal/wire"
)

func TestClassifyArgsBucketsDomainQTypeResolver(t *testing.T) {
	domain, qtypes, resolver, err := classifyArgs([]string{"A", "www.example.com", "@1.1.1.1"})
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", domain)
	assert.Equal(t, []wire.Type{wire.TypeA}, qtypes)
	assert.Equal(t, "@1.1.1.1", resolver)
}

func TestClassifyArgsAcceptsAnyOrder(t *testing.T) {
	domain, qtypes, resolver, err := classifyArgs([]string{"@1.1.1.1", "www.example.com", "MX"})
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", domain)
	assert.Equal(t, []wire.Type{wire.TypeMX}, qtypes)
	assert.Equal(t, "@1.1.1.1", resolver)
}

func TestClassifyArgsMultipleQTypes(t *testing.T) {
	_, qtypes, _, err := classifyArgs([]string{"A", "AAAA", "MX", "example.com"})
	require.NoError(t, err)
	assert.Equal(t, []wire.Type{wire.TypeA, wire.TypeAAAA, wire.TypeMX}, qtypes)
}

func TestClassifyArgsRejectsSecondDomain(t *testing.T) {
	_, _, _, err := classifyArgs([]string{"example.com", "example.net"})
	assert.Error(t, err)
}

func TestTotalBudgetScalesWithQTypeCount(t *testing.T) {
	assert.Equal(t, 4*1000, int(totalBudget(1000, 1)))
	assert.Equal(t, 12*1000, int(totalBudget(1000, 3)))
	assert.Equal(t, 4*1000, int(totalBudget(1000, 0))) // n<1 clamps to 1
}

func TestDumpWireFilesWritesFirstExchangeOnly(t *testing.T) {
	dir := t.TempDir()
	wq := filepath.Join(dir, "q.bin")
	wr := filepath.Join(dir, "r.bin")

	run := &display.Run{Exchanges: []display.Exchange{
		{RawQuery: []byte{1, 2, 3}, RawResponse: []byte{4, 5, 6}},
		{RawQuery: []byte{9, 9, 9}, RawResponse: []byte{9, 9, 9}},
	}}

	require.NoError(t, dumpWireFiles(run, wq, wr))

	gotQ, err := os.ReadFile(wq)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, gotQ)

	gotR, err := os.ReadFile(wr)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5, 6}, gotR)
}

func TestDumpWireFilesErrorsOnEmptyRun(t *testing.T) {
	err := dumpWireFiles(&display.Run{}, "/tmp/unused-q.bin", "")
	assert.Error(t, err)
}
