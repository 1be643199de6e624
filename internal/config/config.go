// Package config loads the optional TOML file holding this compiler's
// CLI defaults, so invocations don't have to repeat the same flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the handful of CLI defaults this compiler accepts.
type Config struct {
	Debug     bool   `toml:"debug"`
	Compile   bool   `toml:"compile"`
	Run       bool   `toml:"run"`
	Assembler string `toml:"assembler"` // the gcc-or-equivalent command used to assemble+link
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Debug:     false,
		Compile:   false,
		Run:       false,
		Assembler: "gcc",
	}
}

// Path returns the default config file location, ~/.config/cubit/config.toml,
// creating its directory if needed. If the home directory cannot be resolved
// or that directory cannot be created, it falls back to the relative path
// config.toml.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	dir := filepath.Join(home, ".config", "cubit")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the default config file, returning Default() unchanged if it
// does not exist.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, returning Default() unchanged if
// it does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to the default config file location.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes c to path as TOML, creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user-supplied config path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
