// Package config loads assembler defaults from a TOML file in the
// platform config directory. A missing file yields the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the assembler's persistent defaults
type Config struct {
	Output struct {
		Extension string `toml:"extension"` // default output suffix
	} `toml:"output"`

	Assembler struct {
		Verbose       bool `toml:"verbose"`
		MaxIterations int  `toml:"max_iterations"`
	} `toml:"assembler"`

	Browser struct {
		Enabled      bool `toml:"enabled"` // open the TUI after assembly
		BytesPerLine int  `toml:"bytes_per_line"`
	} `toml:"browser"`
}

// Default returns a configuration with default values
func Default() *Config {
	cfg := &Config{}
	cfg.Output.Extension = ".rom"
	cfg.Assembler.Verbose = false
	cfg.Assembler.MaxIterations = 10
	cfg.Browser.Enabled = false
	cfg.Browser.BytesPerLine = 16
	return cfg
}

// Path returns the platform-specific config file path
func Path() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "tlcs900asm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "tlcs900asm")

	default:
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads the default config file, tolerating its absence
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from the given file; a missing file
// returns the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// SaveTo writes the configuration to the given file
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
