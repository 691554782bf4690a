// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/slatehq/slate/cmd/slate/cli"
	"github.com/slatehq/slate/lib/claims"
)

// claimRecord is the JSON shape of one claim in `slate claims --json`.
type claimRecord struct {
	Task      string `json:"task"`
	Agent     string `json:"agent"`
	ClaimedAt string `json:"claimed_at"`
	Note      string `json:"note,omitempty"`
}

func claimsCommand() *cli.Command {
	var options workspaceOptions
	var jsonOutput bool

	return &cli.Command{
		Name:    "claims",
		Summary: "List current claims",
		Description: `Prints every active claim in claim order. This is a read-only view:
it does not take the workspace lock, so it never blocks behind a
long-running operation.`,
		Usage: "slate claims [flags]",
		Examples: []cli.Example{
			{Description: "List claims as a table", Command: "slate claims"},
			{Description: "List claims as JSON", Command: "slate claims --json"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("claims", pflag.ContinueOnError)
			options.register(flagSet)
			flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON instead of a table")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("claims takes no arguments (got %d)", len(args))
			}
			coordinator, _, err := options.coordinator()
			if err != nil {
				return err
			}
			list, err := coordinator.Claims()
			if err != nil {
				return err
			}
			if jsonOutput {
				return printClaimsJSON(list)
			}
			printClaimsTable(list)
			return nil
		},
	}
}

func printClaimsJSON(list []claims.Claim) error {
	records := make([]claimRecord, 0, len(list))
	for _, claim := range list {
		records = append(records, claimRecord{
			Task:      claim.Task,
			Agent:     claim.Agent,
			ClaimedAt: claim.ClaimedAt.UTC().Format(time.RFC3339),
			Note:      claim.Note,
		})
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func printClaimsTable(list []claims.Claim) {
	if len(list) == 0 {
		fmt.Println("no active claims")
		return
	}
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "TASK\tAGENT\tCLAIMED\tNOTE")
	for _, claim := range list {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			claim.Task, claim.Agent,
			claim.ClaimedAt.UTC().Format(time.RFC3339), claim.Note)
	}
	writer.Flush()
}
