// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/slatehq/slate/cmd/slate/cli"
)

func runCommand() *cli.Command {
	var options workspaceOptions

	return &cli.Command{
		Name:    "run",
		Summary: "Run a ticket engine command under the workspace lock",
		Description: `Delegates a command to the ticket engine while holding the workspace
lock, so concurrent agents cannot interleave mutations. Commands that
target a task (move, criterion-add, criterion-check, evidence, done)
require the agent to hold the claim on that task. Completing a task
with done releases its claim automatically. After any mutating
command the snapshot is re-rendered.

Use -- to separate engine flags from slate flags.`,
		Usage: "slate run <agent> [--] <engine-command> [engine-args...]",
		Examples: []cli.Example{
			{Description: "Create a ticket", Command: `slate run nova new "Fix the parser"`},
			{Description: "Move a claimed task", Command: "slate run nova move T-0001 in-progress"},
			{Description: "Complete a claimed task", Command: "slate run nova -- done T-0001"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			options.register(flagSet)
			// Engine args after the agent belong to the engine, even
			// when they look like flags.
			flagSet.SetInterspersed(false)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("usage: slate run <agent> [--] <engine-command> [engine-args...]")
			}
			agent := args[0]
			engineArgs := args[1:]
			if engineArgs[0] == "--" {
				engineArgs = engineArgs[1:]
			}
			if len(engineArgs) == 0 {
				return fmt.Errorf("no engine command given")
			}

			coordinator, _, err := options.coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()

			return coordinator.Run(ctx, agent, engineArgs)
		},
	}
}
