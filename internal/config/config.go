// Package config loads the optional YAML defaults file. Precedence is
// fixed: CLI flags override config-file values, which override built-in
// defaults; this package only ever supplies the middle tier.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the YAML configuration structure. Every field is optional; a zero
// value means "not set by the config file" and the built-in default or a
// CLI flag takes over.
type File struct {
	Resolver  string  `yaml:"resolver"`
	Transport string  `yaml:"transport"` // "udp", "tcp", "dot", "doh", "doq"
	TimeoutMS int     `yaml:"timeout_ms"`
	BufSize   int     `yaml:"bufsize"`
	DNSSEC    *bool   `yaml:"dnssec"`
	Family    string  `yaml:"family"` // "", "4", or "6"
	RateLimit float64 `yaml:"rate"`
}

// Load reads and parses path.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &f, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/dqy/config.yml, falling back to
// $HOME/.config/dqy/config.yml when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "dqy", "config.yml")
}

// LoadDefault loads the config file at path if explicit, else at
// DefaultPath() if that file exists. It returns (nil, nil) when no config
// file applies — this is not an error, most runs have none.
func LoadDefault(path string) (*File, error) {
	if path != "" {
		return Load(path)
	}
	candidate := DefaultPath()
	if candidate == "" {
		return nil, nil
	}
	if _, err := os.Stat(candidate); err != nil {
		return nil, nil
	}
	return Load(candidate)
}
