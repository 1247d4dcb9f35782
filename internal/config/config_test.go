package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	contents := "resolver: 1.1.1.1\ntransport: dot\ntimeout_ms: 2000\nbufsize: 4096\ndnssec: true\nfamily: \"6\"\nrate: 15\n"
	require.NoError(t, writeFile(path, contents))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1", f.Resolver)
	assert.Equal(t, "dot", f.Transport)
	assert.Equal(t, 2000, f.TimeoutMS)
	assert.Equal(t, 4096, f.BufSize)
	require.NotNil(t, f.DNSSEC)
	assert.True(t, *f.DNSSEC)
	assert.Equal(t, "6", f.Family)
	assert.Equal(t, 15.0, f.RateLimit)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	assert.Error(t, err)
}

func TestLoadDefaultReturnsNilWhenAbsent(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	f, err := LoadDefault("")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestLoadDefaultPrefersExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, writeFile(path, "resolver: 9.9.9.9\n"))

	f, err := LoadDefault(path)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "9.9.9.9", f.Resolver)
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
