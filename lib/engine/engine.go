// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine invokes the delegated ticket engine binary. The
// engine owns the ticket lifecycle (create, move, render, criteria,
// evidence); the coordinator treats it as an opaque collaborator and
// only needs to run its commands and classify them.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Engine command names the coordinator treats specially.
const (
	CommandInit   = "init"
	CommandDone   = "done"
	CommandRender = "render"
)

// TaskArgument returns the task id an engine command targets, or ""
// for commands that carry no task id. Only move, criterion-add,
// criterion-check, evidence, and done target a task.
func TaskArgument(args []string) string {
	if len(args) < 2 {
		return ""
	}
	switch args[0] {
	case "move", "criterion-add", "criterion-check", "evidence", CommandDone:
		return args[1]
	}
	return ""
}

// Mutates reports whether the named engine command changes the ticket
// store (and therefore requires a snapshot re-render afterwards).
func Mutates(name string) bool {
	switch name {
	case CommandInit, "new", "move", "criterion-add", "criterion-check", "evidence", CommandDone, CommandRender:
		return true
	}
	return false
}

// Exec runs the engine binary in a working directory. All commands
// inherit the caller's stdout so engine output (new ticket ids,
// renders) reaches the user; stderr is captured and folded into the
// returned error on failure.
type Exec struct {
	binary string
	dir    string
	stdout io.Writer
}

// NewExec returns an Exec for the given engine binary, run with dir as
// its working directory.
func NewExec(binary, dir string) *Exec {
	return &Exec{binary: binary, dir: dir, stdout: os.Stdout}
}

// Run executes one engine command. A non-zero exit becomes an error
// carrying the engine's stderr.
func (e *Exec) Run(ctx context.Context, args ...string) error {
	var stderr bytes.Buffer
	command := exec.CommandContext(ctx, e.binary, args...)
	command.Dir = e.dir
	command.Stdout = e.stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s %s: %w (stderr: %s)",
				e.binary, strings.Join(args, " "), err, detail)
		}
		return fmt.Errorf("%s %s: %w", e.binary, strings.Join(args, " "), err)
	}
	return nil
}
