// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

// Package collab orchestrates multi-agent coordination over a shared
// workspace. Every mutating operation follows the same shape: acquire
// the workspace lock for the acting agent, validate preconditions
// against the claims store and the ticket store, perform the action
// (claim bookkeeping or delegation to the ticket engine), record a
// pulse entry, re-render the snapshot, and release the lock on every
// exit path.
//
// The coordinator owns no storage of its own. The lock manager, claims
// store, pulse log, ticket view, and engine are injected as
// interfaces so tests can substitute in-memory doubles and production
// wires in the filesystem-backed implementations from lib/dirlock,
// lib/claims, lib/pulse, lib/ticketfile, and lib/engine.
package collab
