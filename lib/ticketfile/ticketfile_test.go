// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package ticketfile

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleStore = "id\tstate\ttitle\tdeps\tcreated\tupdated\n" +
	"T-0001\topen\tWire the frobnicator\t\t2026-01-01T00:00:00Z\t2026-01-01T00:00:00Z\n" +
	"T-0002\tin-progress\tShave the yak\tT-0001\t2026-01-01T00:00:00Z\t2026-01-02T00:00:00Z\n" +
	"T-0003\tdone\tShip it\tT-0001,T-0002\t2026-01-01T00:00:00Z\t2026-01-03T00:00:00Z\n"

func writeSampleStore(t *testing.T) *View {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.tsv")
	if err := os.WriteFile(path, []byte(sampleStore), 0o644); err != nil {
		t.Fatalf("writing sample store: %v", err)
	}
	return NewView(path)
}

func TestLookup(t *testing.T) {
	view := writeSampleStore(t)

	ticket, ok, err := view.Lookup("T-0002")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("T-0002 not found")
	}
	if ticket.State != "in-progress" || ticket.Title != "Shave the yak" {
		t.Fatalf("ticket = %+v", ticket)
	}
	if len(ticket.Deps) != 1 || ticket.Deps[0] != "T-0001" {
		t.Fatalf("deps = %v, want [T-0001]", ticket.Deps)
	}
}

func TestLookupMissing(t *testing.T) {
	view := writeSampleStore(t)
	_, ok, err := view.Lookup("T-9999")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Fatal("found a ticket that does not exist")
	}
}

func TestTerminal(t *testing.T) {
	view := writeSampleStore(t)

	done, _, err := view.Lookup("T-0003")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !done.Terminal() {
		t.Fatalf("done ticket not terminal: %+v", done)
	}

	open, _, err := view.Lookup("T-0001")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if open.Terminal() {
		t.Fatalf("open ticket reported terminal: %+v", open)
	}
}

func TestExists(t *testing.T) {
	view := writeSampleStore(t)
	if !view.Exists() {
		t.Fatal("Exists = false for a present store")
	}
	missing := NewView(filepath.Join(t.TempDir(), "tickets.tsv"))
	if missing.Exists() {
		t.Fatal("Exists = true for a missing store")
	}
}

func TestLookupMissingFileErrors(t *testing.T) {
	missing := NewView(filepath.Join(t.TempDir(), "tickets.tsv"))
	if _, _, err := missing.Lookup("T-0001"); err == nil {
		t.Fatal("Lookup on missing store did not error")
	}
}
