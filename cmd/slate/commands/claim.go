// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/slatehq/slate/cmd/slate/cli"
)

func claimCommand() *cli.Command {
	var options workspaceOptions

	return &cli.Command{
		Name:    "claim",
		Summary: "Reserve a task for an agent",
		Description: `Records that agent is working on the task. Claiming a task the agent
already holds succeeds without change; claiming a task held by another
agent fails. Additional words after the task id are stored as a note.`,
		Usage: "slate claim <agent> <task-id> [note...]",
		Examples: []cli.Example{
			{Description: "Claim a task", Command: "slate claim nova T-0001"},
			{Description: "Claim with a note", Command: "slate claim nova T-0001 refactoring the parser"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("claim", pflag.ContinueOnError)
			options.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("usage: slate claim <agent> <task-id> [note...]")
			}
			agent, task := args[0], args[1]
			note := strings.Join(args[2:], " ")

			coordinator, _, err := options.coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()

			already, err := coordinator.Claim(ctx, agent, task, note)
			if err != nil {
				return err
			}
			if already {
				fmt.Printf("%s already claimed by %s\n", task, agent)
			} else {
				fmt.Printf("claimed %s for %s\n", task, agent)
			}
			return nil
		},
	}
}

func unclaimCommand() *cli.Command {
	var options workspaceOptions

	return &cli.Command{
		Name:    "unclaim",
		Summary: "Release an agent's claim on a task",
		Description: `Removes the agent's claim. Only the claiming agent may release a
claim; releasing a task that is unclaimed or held by another agent
fails.`,
		Usage: "slate unclaim <agent> <task-id>",
		Examples: []cli.Example{
			{Description: "Release a task", Command: "slate unclaim nova T-0001"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("unclaim", pflag.ContinueOnError)
			options.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: slate unclaim <agent> <task-id>")
			}
			agent, task := args[0], args[1]

			coordinator, _, err := options.coordinator()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()

			if err := coordinator.Unclaim(ctx, agent, task); err != nil {
				return err
			}
			fmt.Printf("released %s\n", task)
			return nil
		},
	}
}
