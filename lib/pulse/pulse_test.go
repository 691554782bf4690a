// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package pulse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/slatehq/slate/lib/clock"
)

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestLog(t *testing.T) (*Log, *clock.FakeClock) {
	t.Helper()
	fake := clock.Fake(testEpoch)
	return NewLog(filepath.Join(t.TempDir(), "pulse.log"), fake), fake
}

func TestAppendAndEntries(t *testing.T) {
	log, fake := newTestLog(t)

	if err := log.Append("T-0001", EventClaim, "agent=nova"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	fake.Advance(time.Minute)
	if err := log.Append("T-0001", EventUnclaim, "auto-release on done"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Event != EventClaim || entries[0].Task != "T-0001" {
		t.Fatalf("first entry = %+v", entries[0])
	}
	if !entries[0].Time.Equal(testEpoch) {
		t.Fatalf("first entry time = %v, want %v", entries[0].Time, testEpoch)
	}
	if entries[1].Event != EventUnclaim || entries[1].Details != "auto-release on done" {
		t.Fatalf("second entry = %+v", entries[1])
	}
	if !entries[1].Time.After(entries[0].Time) {
		t.Fatal("entries out of append order")
	}
}

func TestEntriesMissingFileIsEmpty(t *testing.T) {
	log, _ := newTestLog(t)
	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries on missing file: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestAppendSanitizesDelimiters(t *testing.T) {
	log, _ := newTestLog(t)
	if err := log.Append("T-0001", EventClaim, "pipes | and\nnewlines"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("sanitization broke line structure: %d entries", len(entries))
	}
	if strings.ContainsAny(entries[0].Details, "|\n") {
		t.Fatalf("details not sanitized: %q", entries[0].Details)
	}
}

func TestSystemEventsUseSentinelTask(t *testing.T) {
	log, _ := newTestLog(t)
	if err := log.Append(SystemTask, EventInit, "workspace initialized"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if entries[0].Task != SystemTask {
		t.Fatalf("task = %q, want %q", entries[0].Task, SystemTask)
	}
}

func TestAppendIsAppendOnly(t *testing.T) {
	log, _ := newTestLog(t)
	if err := log.Append("T-0001", EventClaim, "first"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	before, err := os.ReadFile(log.path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := log.Append("T-0002", EventClaim, "second"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	after, err := os.ReadFile(log.path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(after), string(before)) {
		t.Fatal("existing entries were rewritten")
	}
}
