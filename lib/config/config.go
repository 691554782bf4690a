// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the slate CLI.
//
// Configuration starts from defaults, is optionally overlaid with a
// single YAML file named by the SLATE_CONFIG environment variable or
// the --config flag, and is finally overridden by individual
// environment variables. There is no automatic discovery of config
// files; the resolution order is deterministic and auditable.
//
// Environment overrides:
//
//	SLATE_DIR                 workspace directory
//	SLATE_TICKET_BIN          delegated ticket engine binary
//	SLATE_LOCK_WAIT_SECONDS   lock acquisition wait timeout
//	SLATE_LOCK_STALE_SECONDS  lock staleness threshold
//	SLATE_LOCK_POLL_SECONDS   lock poll interval
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slatehq/slate/lib/dirlock"
)

// Environment variable names.
const (
	EnvConfig       = "SLATE_CONFIG"
	EnvDir          = "SLATE_DIR"
	EnvTicketBinary = "SLATE_TICKET_BIN"
	EnvWaitSeconds  = "SLATE_LOCK_WAIT_SECONDS"
	EnvStaleSeconds = "SLATE_LOCK_STALE_SECONDS"
	EnvPollSeconds  = "SLATE_LOCK_POLL_SECONDS"
)

// Workspace file names, relative to Dir.
const (
	claimsFile  = "claims.tsv"
	pulseFile   = "pulse.log"
	lockDir     = ".slate-lock"
	ticketsFile = "tickets.tsv"
	renderFile  = "board.md"
)

// Config is the full configuration for a slate invocation.
type Config struct {
	// Dir is the workspace directory holding the stores, the lock,
	// and the rendered snapshot.
	Dir string `yaml:"dir"`

	// TicketBinary is the delegated ticket engine executable.
	TicketBinary string `yaml:"ticket_binary"`

	// Lock configures acquisition timing.
	Lock LockConfig `yaml:"lock"`
}

// LockConfig mirrors dirlock.Config in whole seconds, the unit the
// environment overrides use.
type LockConfig struct {
	WaitSeconds  int `yaml:"wait_seconds"`
	StaleSeconds int `yaml:"stale_seconds"`
	PollSeconds  int `yaml:"poll_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dir:          ".",
		TicketBinary: "slate-tickets",
		Lock: LockConfig{
			WaitSeconds:  int(dirlock.DefaultWaitTimeout / time.Second),
			StaleSeconds: int(dirlock.DefaultStaleAfter / time.Second),
			PollSeconds:  int(dirlock.DefaultPollInterval / time.Second),
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML
// file at path (or $SLATE_CONFIG if path is empty), then environment
// overrides. A named file that cannot be read is an error; an empty
// path with no SLATE_CONFIG set skips the file layer entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvironment(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvironment() error {
	if dir := os.Getenv(EnvDir); dir != "" {
		c.Dir = dir
	}
	if binary := os.Getenv(EnvTicketBinary); binary != "" {
		c.TicketBinary = binary
	}
	for _, override := range []struct {
		name   string
		target *int
	}{
		{EnvWaitSeconds, &c.Lock.WaitSeconds},
		{EnvStaleSeconds, &c.Lock.StaleSeconds},
		{EnvPollSeconds, &c.Lock.PollSeconds},
	} {
		value := os.Getenv(override.name)
		if value == "" {
			continue
		}
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("%s: %q is not a positive whole number of seconds", override.name, value)
		}
		*override.target = seconds
	}
	return nil
}

// LockTimings converts the configured whole-second values into a
// dirlock.Config.
func (c Config) LockTimings() dirlock.Config {
	return dirlock.Config{
		WaitTimeout:  time.Duration(c.Lock.WaitSeconds) * time.Second,
		StaleAfter:   time.Duration(c.Lock.StaleSeconds) * time.Second,
		PollInterval: time.Duration(c.Lock.PollSeconds) * time.Second,
	}
}

// ClaimsPath is the claims store file.
func (c Config) ClaimsPath() string { return filepath.Join(c.Dir, claimsFile) }

// PulsePath is the pulse log file.
func (c Config) PulsePath() string { return filepath.Join(c.Dir, pulseFile) }

// LockPath is the lock directory.
func (c Config) LockPath() string { return filepath.Join(c.Dir, lockDir) }

// TicketsPath is the delegated engine's ticket store file.
func (c Config) TicketsPath() string { return filepath.Join(c.Dir, ticketsFile) }

// RenderPath is the snapshot file passed to the engine's render
// command.
func (c Config) RenderPath() string { return filepath.Join(c.Dir, renderFile) }
