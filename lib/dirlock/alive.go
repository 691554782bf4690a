// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package dirlock

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// AliveFunc reports whether a lock owner's process can be confirmed
// alive. Returning false marks the lock stale and reclaimable.
type AliveFunc func(host string, pid int) bool

// ProcessAlive is the production AliveFunc. Liveness is only checkable
// for owners on this host: a signal-0 probe tells us whether the pid
// exists. Owners on other hosts are assumed alive — the age threshold
// is the only staleness signal that crosses host boundaries.
func ProcessAlive(host string, pid int) bool {
	local, err := os.Hostname()
	if err != nil || host == "" || host != local {
		return true
	}
	if pid <= 0 {
		return true
	}
	probeErr := unix.Kill(pid, 0)
	// EPERM means the process exists but belongs to another user.
	return probeErr == nil || errors.Is(probeErr, unix.EPERM)
}
