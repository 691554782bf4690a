// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/slatehq/slate/lib/claims"
	"github.com/slatehq/slate/lib/clock"
	"github.com/slatehq/slate/lib/collab"
	"github.com/slatehq/slate/lib/config"
	"github.com/slatehq/slate/lib/dirlock"
	"github.com/slatehq/slate/lib/engine"
	"github.com/slatehq/slate/lib/pulse"
	"github.com/slatehq/slate/lib/ticketfile"
)

// workspaceOptions are the flags shared by every command that touches
// the workspace.
type workspaceOptions struct {
	configPath string
	dir        string
	verbose    bool
}

func (o *workspaceOptions) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.configPath, "config", "",
		"path to a YAML config file (default $"+config.EnvConfig+")")
	flagSet.StringVar(&o.dir, "dir", "",
		"workspace directory (default $"+config.EnvDir+" or the current directory)")
	flagSet.BoolVarP(&o.verbose, "verbose", "v", false,
		"enable debug logging")
}

func (o *workspaceOptions) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// load resolves the effective configuration: file and environment via
// config.Load, then the --dir flag on top.
func (o *workspaceOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if o.dir != "" {
		cfg.Dir = o.dir
	}
	return cfg, nil
}

// coordinator wires the full dependency graph for one command
// invocation: real clock, directory lock, flat-file stores, and the
// external ticket engine. The resolved configuration is returned
// alongside so commands can report workspace paths.
func (o *workspaceOptions) coordinator() (*collab.Coordinator, config.Config, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, config.Config{}, err
	}
	logger := o.logger()
	realClock := clock.Real()
	return collab.New(collab.Deps{
		Lock:       dirlock.NewManager(cfg.LockPath(), cfg.LockTimings(), realClock, nil, logger),
		Claims:     claims.NewStore(cfg.ClaimsPath(), realClock),
		Pulse:      pulse.NewLog(cfg.PulsePath(), realClock),
		Tickets:    ticketfile.NewView(cfg.TicketsPath()),
		Engine:     engine.NewExec(cfg.TicketBinary, cfg.Dir),
		RenderPath: cfg.RenderPath(),
		Logger:     logger,
	}), cfg, nil
}

// commandContext returns a context cancelled on SIGINT or SIGTERM, so
// a command blocked waiting for the lock can be interrupted cleanly.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
