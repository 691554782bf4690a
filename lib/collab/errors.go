// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when an operation requires the ticket
// and claims stores and either is missing.
var ErrNotInitialized = errors.New(`workspace not initialized (run "slate init" first)`)

// TaskNotFoundError reports a reference to a task id the ticket store
// does not contain.
type TaskNotFoundError struct {
	Task string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.Task)
}

// TaskDoneError reports a claim attempt on a task in the terminal
// state.
type TaskDoneError struct {
	Task string
}

func (e *TaskDoneError) Error() string {
	return fmt.Sprintf("task %s is already done and cannot be claimed", e.Task)
}

// ClaimConflictError reports a claim attempt on a task already claimed
// by another agent.
type ClaimConflictError struct {
	Task  string
	Agent string
	Owner string
}

func (e *ClaimConflictError) Error() string {
	return fmt.Sprintf("task %s is already claimed by %s", e.Task, e.Owner)
}

// ClaimNotOwnedError reports an unclaim or delegated mutation that
// requires a claim the acting agent does not hold.
type ClaimNotOwnedError struct {
	Task  string
	Agent string

	// Owner is the agent currently holding the claim, or "" if the
	// task is unclaimed.
	Owner string
}

func (e *ClaimNotOwnedError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("task %s is not claimed by %s (no claim exists; run claim first)", e.Task, e.Agent)
	}
	return fmt.Sprintf("task %s is claimed by %s, not %s", e.Task, e.Owner, e.Agent)
}

// DelegatedError reports a ticket engine command that exited non-zero.
// The engine's diagnostic is carried in the wrapped error.
type DelegatedError struct {
	Command string
	Err     error
}

func (e *DelegatedError) Error() string {
	return fmt.Sprintf("delegated %s command failed: %v", e.Command, e.Err)
}

func (e *DelegatedError) Unwrap() error { return e.Err }
