// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

// Package pulse records coordination events in an append-only log.
//
// Each event is one pipe-delimited line:
//
//	2026-01-02T15:04:05Z|T-0001|CLAIM|agent=nova
//
// Entries are never mutated or deleted; the log is the audit trail for
// everything the coordinator does. System-level events that target no
// particular task use [SystemTask] as the task field.
//
// The log itself performs no locking. The coordinator appends only
// while holding the workspace lock, which gives entries a total order
// by append sequence.
package pulse

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/slatehq/slate/lib/clock"
)

// SystemTask is the task field for events that target no particular
// task, such as workspace initialization and stale-lock removal.
const SystemTask = "-"

// Event kinds recorded by the coordinator.
const (
	EventInit      = "COLLAB_INIT"
	EventClaim     = "CLAIM"
	EventUnclaim   = "UNCLAIM"
	EventLockBreak = "LOCK_BREAK"
)

// Entry is one recorded event.
type Entry struct {
	Time    time.Time
	Task    string
	Event   string
	Details string
}

// Log appends events to a flat file. Create one with NewLog; the
// backing file is created lazily on first Append.
type Log struct {
	path  string
	clock clock.Clock
}

// NewLog returns a Log backed by the file at path.
func NewLog(path string, clk clock.Clock) *Log {
	return &Log{path: path, clock: clk}
}

// Append records one event. The task, event, and details fields are
// sanitized so pipes and newlines cannot break the line structure.
func (l *Log) Append(task, event, details string) error {
	line := fmt.Sprintf("%s|%s|%s|%s\n",
		l.clock.Now().UTC().Format(time.RFC3339),
		sanitize(task), sanitize(event), sanitize(details))

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening pulse log: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("appending pulse entry: %w", err)
	}
	return nil
}

// Entries reads the full log in append order. A missing file is an
// empty log, not an error. Malformed lines are skipped.
func (l *Log) Entries() ([]Entry, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening pulse log: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), "|", 4)
		if len(fields) != 4 {
			continue
		}
		timestamp, err := time.Parse(time.RFC3339, fields[0])
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Time:    timestamp,
			Task:    fields[1],
			Event:   fields[2],
			Details: fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pulse log: %w", err)
	}
	return entries, nil
}

// sanitize replaces the record delimiters with spaces so free text
// cannot corrupt line structure.
func sanitize(field string) string {
	replacer := strings.NewReplacer("|", " ", "\n", " ", "\r", " ")
	return strings.TrimSpace(replacer.Replace(field))
}
