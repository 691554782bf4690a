// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the slate command tree. Each command
// constructs a coordinator over the workspace named by its flags and
// invokes exactly one coordinator operation.
package commands

import (
	"github.com/slatehq/slate/cmd/slate/cli"
)

// Root returns the top-level slate command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "slate",
		Summary: "Coordinate multiple agents over a shared flat-file ticket workspace",
		Description: `Slate wraps an external ticket engine with the coordination layer a
team of concurrent agents needs: a mutual-exclusion lock over the
workspace, a claims ledger recording who is working on what, and a
pulse log of coordination events.

All state lives in plain files in the workspace directory, so the
workspace stays inspectable with ordinary shell tools.`,
		Subcommands: []*cli.Command{
			initCommand(),
			claimCommand(),
			unclaimCommand(),
			claimsCommand(),
			runCommand(),
			lockInfoCommand(),
			unlockStaleCommand(),
		},
	}
}
