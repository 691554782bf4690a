// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package dirlock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/slatehq/slate/lib/clock"
)

// Defaults for Config fields left zero.
const (
	DefaultWaitTimeout  = 120 * time.Second
	DefaultStaleAfter   = 900 * time.Second
	DefaultPollInterval = time.Second
)

// Config controls acquisition timing.
type Config struct {
	// WaitTimeout bounds how long Acquire blocks before failing with
	// a TimeoutError.
	WaitTimeout time.Duration

	// StaleAfter is the age past which a held lock is considered
	// abandoned regardless of owner liveness.
	StaleAfter time.Duration

	// PollInterval is the sleep between acquisition attempts while
	// the lock is held by someone else.
	PollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = DefaultStaleAfter
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// Status is the result of Inspect.
type Status struct {
	// Held reports whether the lock directory exists.
	Held bool

	// Info is the owner metadata. Zero when the lock is free or the
	// metadata file could not be read.
	Info Info

	// Age is how long the lock has been held.
	Age time.Duration

	// Stale reports whether the lock is reclaimable: owner provably
	// dead, or Age past the staleness threshold.
	Stale bool
}

// Manager operates the lock directory at a fixed path. Manager itself
// holds no lock state between calls; the directory's existence is the
// lock state.
type Manager struct {
	path   string
	config Config
	clock  clock.Clock
	alive  AliveFunc
	logger *slog.Logger

	host string
	pid  int
}

// errHeld is the internal signal that the lock directory already
// exists. Never escapes Acquire.
var errHeld = errors.New("lock held")

// NewManager returns a Manager for the lock directory at path. A nil
// alive falls back to ProcessAlive.
func NewManager(path string, config Config, clk clock.Clock, alive AliveFunc, logger *slog.Logger) *Manager {
	if alive == nil {
		alive = ProcessAlive
	}
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &Manager{
		path:   path,
		config: config.withDefaults(),
		clock:  clk,
		alive:  alive,
		logger: logger,
		host:   host,
		pid:    os.Getpid(),
	}
}

// Acquire blocks until the lock is obtained, the wait timeout elapses,
// or ctx is canceled. On success it returns the token that must be
// presented to Release. Stale locks encountered while waiting are
// removed and the attempt retried immediately.
func (m *Manager) Acquire(ctx context.Context, agent string) (string, error) {
	deadline := m.clock.Now().Add(m.config.WaitTimeout)

	for {
		token, err := m.tryAcquire(agent)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, errHeld) {
			return "", err
		}

		status, err := m.Inspect()
		if err != nil {
			return "", err
		}
		if status.Held && status.Stale {
			m.logger.Warn("reclaiming stale lock",
				"owner", status.Info.Agent,
				"host", status.Info.Host,
				"pid", status.Info.PID,
				"age", status.Age)
			if err := os.RemoveAll(m.path); err != nil {
				return "", fmt.Errorf("removing stale lock: %w", err)
			}
			continue
		}

		if !m.clock.Now().Before(deadline) {
			timeout := &TimeoutError{Agent: agent, Waited: m.config.WaitTimeout}
			if status.Held {
				holder := status.Info
				timeout.Holder = &holder
			}
			return "", timeout
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-m.clock.After(m.config.PollInterval):
		}
	}
}

// tryAcquire performs one atomic creation attempt. The Mkdir is the
// mutual-exclusion primitive: of two racing processes exactly one
// sees success.
func (m *Manager) tryAcquire(agent string) (string, error) {
	if err := os.Mkdir(m.path, 0o755); err != nil {
		if os.IsExist(err) {
			return "", errHeld
		}
		return "", fmt.Errorf("creating lock directory: %w", err)
	}

	token := uuid.NewString()
	info := Info{
		Agent:   agent,
		PID:     m.pid,
		Host:    m.host,
		Token:   token,
		Started: m.clock.Now().UTC(),
	}
	if err := writeInfo(filepath.Join(m.path, metaFile), info); err != nil {
		os.RemoveAll(m.path)
		return "", fmt.Errorf("writing lock metadata: %w", err)
	}
	return token, nil
}

// Release removes the lock if the on-disk token matches the one
// returned by Acquire. A free lock or a token mismatch is a no-op: the
// lock was reclaimed after a stale timeout and now belongs to someone
// else, and removing it would clobber the legitimate holder.
func (m *Manager) Release(token string) error {
	info, err := readInfo(filepath.Join(m.path, metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Token != token {
		m.logger.Debug("lock token mismatch; release skipped",
			"holder", info.Agent)
		return nil
	}
	if err := os.RemoveAll(m.path); err != nil {
		return fmt.Errorf("removing lock directory: %w", err)
	}
	return nil
}

// Inspect reports the current lock state without modifying it.
func (m *Manager) Inspect() (Status, error) {
	info, err := readInfo(filepath.Join(m.path, metaFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return Status{}, err
		}
		// No metadata. Either the lock is free, or a holder is
		// between Mkdir and the metadata write; age from the
		// directory mtime still applies.
		stat, err := os.Stat(m.path)
		if err != nil {
			if os.IsNotExist(err) {
				return Status{}, nil
			}
			return Status{}, fmt.Errorf("inspecting lock: %w", err)
		}
		age := m.clock.Now().Sub(stat.ModTime())
		return Status{Held: true, Age: age, Stale: age >= m.config.StaleAfter}, nil
	}

	age := m.clock.Now().Sub(info.Started)
	stale := age >= m.config.StaleAfter || !m.alive(info.Host, info.PID)
	return Status{Held: true, Info: info, Age: age, Stale: stale}, nil
}

// ForceUnlock removes the lock only if it is stale. It returns the
// removed owner's metadata for audit logging. A free lock returns
// ErrNotHeld; an active lock returns ErrLockActive and is left alone.
func (m *Manager) ForceUnlock() (Info, error) {
	status, err := m.Inspect()
	if err != nil {
		return Info{}, err
	}
	if !status.Held {
		return Info{}, ErrNotHeld
	}
	if !status.Stale {
		return status.Info, ErrLockActive
	}
	if err := os.RemoveAll(m.path); err != nil {
		return Info{}, fmt.Errorf("removing lock directory: %w", err)
	}
	return status.Info, nil
}
