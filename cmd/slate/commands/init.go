// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/slatehq/slate/cmd/slate/cli"
)

func initCommand() *cli.Command {
	var options workspaceOptions

	return &cli.Command{
		Name:    "init",
		Summary: "Initialize a slate workspace",
		Description: `Creates the ticket store (via the engine), the claims ledger, and the
first rendered snapshot. Running init in an already-initialized
workspace is a no-op: existing tickets and claims are preserved.`,
		Usage: "slate init [flags]",
		Examples: []cli.Example{
			{Description: "Initialize the current directory", Command: "slate init"},
			{Description: "Initialize a specific workspace", Command: "slate init --dir /srv/team"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("init", pflag.ContinueOnError)
			options.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("init takes no arguments (got %d)", len(args))
			}
			coordinator, cfg, err := options.coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()

			if err := coordinator.Init(ctx); err != nil {
				return err
			}
			fmt.Printf("initialized workspace in %s\n", cfg.Dir)
			return nil
		},
	}
}
