// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now,
// time.After, or time.Sleep directly. In production, Real() provides the
// standard library behavior. In tests, Fake() provides a deterministic
// clock that advances only when Advance is called.
//
// The lock acquisition poll loop is the main consumer: it sleeps between
// attempts and compares against a wait deadline, and its tests must not
// spend real wall-clock time. A test starts the acquiring goroutine,
// calls WaitForSleepers to confirm the loop has parked, then Advances
// the clock past the deadline to observe the timeout deterministically.
package clock
