// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

// Package dirlock implements the workspace mutual-exclusion lock.
//
// The lock is a directory: os.Mkdir fails if the directory already
// exists, and that atomic create-if-absent is the only concurrency
// primitive the protocol needs. The winner writes a metadata file
// inside the directory recording the owning agent, process id, host,
// a random token, and the start time.
//
// Acquisition polls with a bounded wait. A lock whose recorded owner
// process is provably dead (same host, signal-0 probe fails) or whose
// age exceeds the staleness threshold is reclaimed in place: the
// waiter removes the directory and retries immediately, so a crashed
// agent never wedges the workspace.
//
// The token returned by Acquire is required by Release. If the on-disk
// token no longer matches — the lock timed out, was reclaimed, and a
// new holder created it — Release is a no-op rather than clobbering
// the new holder's lock.
package dirlock
