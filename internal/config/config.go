package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the engine.
// Precedence: environment variables > config file > defaults.
type Config struct {
	Repo  RepoConfig  `toml:"repo"`
	Cache CacheConfig `toml:"cache"`
	Log   LogConfig   `toml:"log"`
}

// RepoConfig describes the ontology repository being validated.
type RepoConfig struct {
	Root          string `toml:"root"`           // repository root directory
	Base          string `toml:"base"`           // base revision for the change detector
	OverridesFile string `toml:"overrides_file"` // name of the overrides file, at root
	SchemaBaseURL string `toml:"schema_base_url"` // shown by "info"; artifacts always carry artifact.SchemaURL
}

// CacheConfig controls the assembler's optional summary sink.
type CacheConfig struct {
	SummarySink string `toml:"summary_sink"` // append-only summary file path, optional
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Load creates a Config by reading from a TOML config file and
// environment variables. Precedence: environment variables > config
// file > defaults.
//
// Config file search order (first found wins):
//  1. Path passed via configPath parameter (from --config flag)
//  2. ONTOGUARD_CONFIG environment variable
//  3. ./ontoguard.toml (current directory)
//  4. ~/.config/ontoguard/ontoguard.toml (XDG-style)
//
// All fields are optional in the config file. Environment variables
// always override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Repo: RepoConfig{
			Root:          ".",
			Base:          "HEAD",
			OverridesFile: "VERSION_OVERRIDES.json",
			SchemaBaseURL: "https://labki.org/schemas/ontology-artifact/v1",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile finds and parses the TOML config file. If no file is found,
// this is a no-op (config file is optional).
func (c *Config) loadFile(configPath string) error {
	path := resolveConfigPath(configPath)
	if path == "" {
		return nil // no config file found; rely on defaults + env
	}

	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	return nil
}

// resolveConfigPath determines which config file to use. Returns empty
// string if no config file is found (config file is optional).
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit // caller wants this file; let DecodeFile report if missing
	}

	if p := os.Getenv("ONTOGUARD_CONFIG"); p != "" {
		return p
	}

	if _, err := os.Stat("ontoguard.toml"); err == nil {
		return "ontoguard.toml"
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := home + "/.config/ontoguard/ontoguard.toml"
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnv overlays environment variables on top of existing config
// values. An env var only takes effect if it is non-empty.
func (c *Config) applyEnv() {
	envOverride("ONTOGUARD_REPO_ROOT", &c.Repo.Root)
	envOverride("ONTOGUARD_BASE", &c.Repo.Base)
	envOverride("ONTOGUARD_OVERRIDES_FILE", &c.Repo.OverridesFile)
	envOverride("ONTOGUARD_SCHEMA_BASE_URL", &c.Repo.SchemaBaseURL)
	envOverride("ONTOGUARD_SUMMARY_SINK", &c.Cache.SummarySink)
	envOverride("ONTOGUARD_LOG_LEVEL", &c.Log.Level)
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Repo.Root == "" {
		return fmt.Errorf("repo.root is required")
	}
	if c.Repo.Base == "" {
		return fmt.Errorf("repo.base is required")
	}
	if c.Repo.OverridesFile == "" {
		return fmt.Errorf("repo.overrides_file is required")
	}
	return nil
}

// envOverride sets *dst to the value of the named env var, if it is non-empty.
func envOverride(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
