// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package dirlock

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotHeld is returned by ForceUnlock when the lock is free.
var ErrNotHeld = errors.New("lock is not held")

// ErrLockActive is returned by ForceUnlock when the lock is held by a
// live, in-age owner and must not be removed.
var ErrLockActive = errors.New("lock is held and not stale")

// TimeoutError reports that acquisition waited the full wait timeout
// without the lock becoming free. It carries the current holder's
// metadata for diagnostics.
type TimeoutError struct {
	// Agent is the agent that was trying to acquire.
	Agent string

	// Waited is the configured wait timeout that elapsed.
	Waited time.Duration

	// Holder describes the current owner, or nil if the owner could
	// not be read.
	Holder *Info
}

func (e *TimeoutError) Error() string {
	if e.Holder == nil {
		return fmt.Sprintf("agent %s timed out after %v waiting for the workspace lock", e.Agent, e.Waited)
	}
	return fmt.Sprintf("agent %s timed out after %v waiting for the workspace lock held by %s on %s (pid %d) since %s",
		e.Agent, e.Waited, e.Holder.Agent, e.Holder.Host, e.Holder.PID,
		e.Holder.Started.UTC().Format(time.RFC3339))
}
