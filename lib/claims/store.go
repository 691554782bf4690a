// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

// Package claims persists the task → agent claim mapping.
//
// Claims live in a tab-delimited file with a header row:
//
//	id	agent	claimed_at	note
//
// At most one claim exists per task. The store performs no locking of
// its own: the coordinator mutates it only while holding the workspace
// lock. Every mutation rewrites the file via write-temp-then-rename so
// lock-free readers never observe a torn file.
package claims

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/slatehq/slate/lib/clock"
)

const header = "id\tagent\tclaimed_at\tnote"

// Claim is one task reservation.
type Claim struct {
	Task      string
	Agent     string
	ClaimedAt time.Time
	Note      string
}

// Store reads and writes the claims file. Create one with NewStore and
// call Init once per workspace before the first mutation.
type Store struct {
	path  string
	clock clock.Clock
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string, clk clock.Clock) *Store {
	return &Store{path: path, clock: clk}
}

// Init creates an empty claims file with the header row. Calling Init
// on an existing store is a no-op.
func (s *Store) Init() error {
	if s.Exists() {
		return nil
	}
	return s.write(nil)
}

// Exists reports whether the claims file has been created.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Owner returns the agent holding the claim on task, or "" if the task
// is unclaimed.
func (s *Store) Owner(task string) (string, error) {
	records, err := s.read()
	if err != nil {
		return "", err
	}
	for _, claim := range records {
		if claim.Task == task {
			return claim.Agent, nil
		}
	}
	return "", nil
}

// Add records a claim on task by agent. The caller is responsible for
// checking Owner first; adding over an existing claim replaces it.
func (s *Store) Add(task, agent, note string) error {
	records, err := s.read()
	if err != nil {
		return err
	}
	filtered := records[:0]
	for _, claim := range records {
		if claim.Task != task {
			filtered = append(filtered, claim)
		}
	}
	filtered = append(filtered, Claim{
		Task:      sanitize(task),
		Agent:     sanitize(agent),
		ClaimedAt: s.clock.Now().UTC(),
		Note:      sanitize(note),
	})
	return s.write(filtered)
}

// Remove deletes the claim on task. Removing an unclaimed task is a
// no-op.
func (s *Store) Remove(task string) error {
	records, err := s.read()
	if err != nil {
		return err
	}
	filtered := records[:0]
	for _, claim := range records {
		if claim.Task != task {
			filtered = append(filtered, claim)
		}
	}
	return s.write(filtered)
}

// List returns all active claims in insertion order.
func (s *Store) List() ([]Claim, error) {
	return s.read()
}

func (s *Store) read() ([]Claim, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening claims store: %w", err)
	}
	defer file.Close()

	var records []Claim
	scanner := bufio.NewScanner(file)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue // header row
		}
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("claims store %s: malformed row %q", s.path, line)
		}
		claimedAt, err := time.Parse(time.RFC3339, fields[2])
		if err != nil {
			return nil, fmt.Errorf("claims store %s: bad timestamp in row %q: %w", s.path, line, err)
		}
		records = append(records, Claim{
			Task:      fields[0],
			Agent:     fields[1],
			ClaimedAt: claimedAt,
			Note:      fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading claims store: %w", err)
	}
	return records, nil
}

// write rewrites the whole store atomically: temp file in the same
// directory, then rename over the destination.
func (s *Store) write(records []Claim) error {
	var builder strings.Builder
	builder.WriteString(header + "\n")
	for _, claim := range records {
		fmt.Fprintf(&builder, "%s\t%s\t%s\t%s\n",
			claim.Task, claim.Agent,
			claim.ClaimedAt.UTC().Format(time.RFC3339), claim.Note)
	}

	directory := filepath.Dir(s.path)
	temp, err := os.CreateTemp(directory, ".claims-*")
	if err != nil {
		return fmt.Errorf("creating temp claims file: %w", err)
	}
	tempPath := temp.Name()
	if _, err := temp.WriteString(builder.String()); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("writing claims store: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing temp claims file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replacing claims store: %w", err)
	}
	return nil
}

// sanitize strips the field and record delimiters from free-text input
// so a note cannot corrupt row structure.
func sanitize(field string) string {
	replacer := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	return strings.TrimSpace(replacer.Replace(field))
}
