// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvConfig, EnvDir, EnvTicketBinary, EnvWaitSeconds, EnvStaleSeconds, EnvPollSeconds} {
		t.Setenv(name, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnvironment(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dir != "." || cfg.TicketBinary != "slate-tickets" {
		t.Fatalf("defaults = %+v", cfg)
	}
	timings := cfg.LockTimings()
	if timings.WaitTimeout != 120*time.Second || timings.StaleAfter != 900*time.Second || timings.PollInterval != time.Second {
		t.Fatalf("default timings = %+v", timings)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnvironment(t)
	path := filepath.Join(t.TempDir(), "slate.yaml")
	content := "dir: /work/agents\nticket_binary: tick\nlock:\n  wait_seconds: 30\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dir != "/work/agents" || cfg.TicketBinary != "tick" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Lock.WaitSeconds != 30 {
		t.Fatalf("wait_seconds = %d, want 30", cfg.Lock.WaitSeconds)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Lock.StaleSeconds != 900 {
		t.Fatalf("stale_seconds = %d, want default 900", cfg.Lock.StaleSeconds)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnvironment(t)
	path := filepath.Join(t.TempDir(), "slate.yaml")
	if err := os.WriteFile(path, []byte("lock:\n  wait_seconds: 30\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv(EnvWaitSeconds, "5")
	t.Setenv(EnvDir, "/elsewhere")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lock.WaitSeconds != 5 {
		t.Fatalf("wait_seconds = %d, want env override 5", cfg.Lock.WaitSeconds)
	}
	if cfg.Dir != "/elsewhere" {
		t.Fatalf("dir = %q, want /elsewhere", cfg.Dir)
	}
}

func TestConfigFileFromEnvironment(t *testing.T) {
	clearEnvironment(t)
	path := filepath.Join(t.TempDir(), "slate.yaml")
	if err := os.WriteFile(path, []byte("ticket_binary: tick\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TicketBinary != "tick" {
		t.Fatalf("ticket_binary = %q, want tick", cfg.TicketBinary)
	}
}

func TestMissingNamedConfigFileErrors(t *testing.T) {
	clearEnvironment(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load with missing named file did not error")
	}
}

func TestMalformedEnvironmentSecondsErrors(t *testing.T) {
	clearEnvironment(t)
	for _, value := range []string{"abc", "-1", "0", "1.5"} {
		t.Setenv(EnvStaleSeconds, value)
		if _, err := Load(""); err == nil {
			t.Fatalf("Load with %s=%q did not error", EnvStaleSeconds, value)
		}
	}
}

func TestWorkspacePaths(t *testing.T) {
	cfg := Default()
	cfg.Dir = "/work"
	if cfg.ClaimsPath() != "/work/claims.tsv" {
		t.Fatalf("ClaimsPath = %q", cfg.ClaimsPath())
	}
	if cfg.PulsePath() != "/work/pulse.log" {
		t.Fatalf("PulsePath = %q", cfg.PulsePath())
	}
	if cfg.LockPath() != "/work/.slate-lock" {
		t.Fatalf("LockPath = %q", cfg.LockPath())
	}
	if cfg.TicketsPath() != "/work/tickets.tsv" {
		t.Fatalf("TicketsPath = %q", cfg.TicketsPath())
	}
	if cfg.RenderPath() != "/work/board.md" {
		t.Fatalf("RenderPath = %q", cfg.RenderPath())
	}
}
