// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/slatehq/slate/cmd/slate/cli"
	"github.com/slatehq/slate/lib/dirlock"
)

// lockRecord is the JSON shape of `slate lock-info --json`.
type lockRecord struct {
	Held       bool   `json:"held"`
	Agent      string `json:"agent,omitempty"`
	PID        int    `json:"pid,omitempty"`
	Host       string `json:"host,omitempty"`
	Started    string `json:"started,omitempty"`
	AgeSeconds int    `json:"age_seconds,omitempty"`
	Stale      bool   `json:"stale,omitempty"`
}

func lockInfoCommand() *cli.Command {
	var options workspaceOptions
	var jsonOutput bool

	return &cli.Command{
		Name:    "lock-info",
		Summary: "Show who holds the workspace lock",
		Description: `Reports the lock state without modifying it: the holding agent, its
process id and host, how long it has held the lock, and whether the
lock is stale (owner dead or held past the staleness threshold).`,
		Usage: "slate lock-info [flags]",
		Examples: []cli.Example{
			{Description: "Inspect the lock", Command: "slate lock-info"},
			{Description: "Inspect as JSON", Command: "slate lock-info --json"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("lock-info", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON instead of text")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("lock-info takes no arguments (got %d)", len(args))
			}
			coordinator, _, err := options.coordinator()
			if err != nil {
				return err
			}
			status, err := coordinator.LockInfo()
			if err != nil {
				return err
			}
			if jsonOutput {
				return printLockJSON(status)
			}
			printLockText(status)
			return nil
		},
	}
}

func printLockJSON(status dirlock.Status) error {
	record := lockRecord{Held: status.Held}
	if status.Held {
		record.Agent = status.Info.Agent
		record.PID = status.Info.PID
		record.Host = status.Info.Host
		if !status.Info.Started.IsZero() {
			record.Started = status.Info.Started.UTC().Format(time.RFC3339)
		}
		record.AgeSeconds = int(status.Age.Seconds())
		record.Stale = status.Stale
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(record)
}

func printLockText(status dirlock.Status) {
	if !status.Held {
		fmt.Println("lock: free")
		return
	}
	state := "active"
	if status.Stale {
		state = "stale"
	}
	fmt.Printf("lock: held by %s on %s (pid %d), age %s, %s\n",
		status.Info.Agent, status.Info.Host, status.Info.PID,
		status.Age.Round(time.Second), state)
}

func unlockStaleCommand() *cli.Command {
	var options workspaceOptions

	return &cli.Command{
		Name:    "unlock-stale",
		Summary: "Remove a stale workspace lock",
		Description: `Force-removes the lock if its holder is provably dead or it has been
held past the staleness threshold. An actively held lock is left
alone and the command fails. The break is recorded in the pulse log.`,
		Usage: "slate unlock-stale [flags]",
		Examples: []cli.Example{
			{Description: "Clear a lock left by a crashed agent", Command: "slate unlock-stale"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("unlock-stale", pflag.ContinueOnError)
			options.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("unlock-stale takes no arguments (got %d)", len(args))
			}
			coordinator, _, err := options.coordinator()
			if err != nil {
				return err
			}
			info, err := coordinator.UnlockStale()
			if errors.Is(err, dirlock.ErrNotHeld) {
				fmt.Println("lock is not held; nothing to do")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("removed stale lock held by %s on %s (pid %d)\n",
				info.Agent, info.Host, info.PID)
			return nil
		},
	}
}
