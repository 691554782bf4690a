// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketfile provides a read-only view of the delegated ticket
// engine's store. The coordinator needs exactly two facts about a
// ticket: whether it exists, and whether it has reached the terminal
// "done" state. All mutation goes through the engine binary; this
// package never writes.
//
// The store is a tab-delimited file with a header row:
//
//	id	state	title	deps	created	updated
//
// Deps is a comma-separated list of ticket ids.
package ticketfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// StateDone is the terminal ticket state. A done ticket cannot be
// claimed.
const StateDone = "done"

// Ticket is one row of the ticket store.
type Ticket struct {
	ID      string
	State   string
	Title   string
	Deps    []string
	Created string
	Updated string
}

// Terminal reports whether the ticket has reached its final state.
func (t Ticket) Terminal() bool { return t.State == StateDone }

// View reads the ticket store file on demand. Each lookup re-reads the
// file: the engine may have rewritten it since the last call, and the
// file is small.
type View struct {
	path string
}

// NewView returns a View over the store file at path.
func NewView(path string) *View {
	return &View{path: path}
}

// Exists reports whether the store file has been created (that is,
// whether the engine's init has run).
func (v *View) Exists() bool {
	_, err := os.Stat(v.path)
	return err == nil
}

// Lookup returns the ticket with the given id, and whether it exists.
func (v *View) Lookup(id string) (Ticket, bool, error) {
	tickets, err := v.load()
	if err != nil {
		return Ticket{}, false, err
	}
	for _, ticket := range tickets {
		if ticket.ID == id {
			return ticket, true, nil
		}
	}
	return Ticket{}, false, nil
}

func (v *View) load() ([]Ticket, error) {
	file, err := os.Open(v.path)
	if err != nil {
		return nil, fmt.Errorf("opening ticket store: %w", err)
	}
	defer file.Close()

	var tickets []Ticket
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
		fields := strings.SplitN(line, "\t", 6)
		if len(fields) < 2 {
			continue
		}
		ticket := Ticket{ID: fields[0], State: fields[1]}
		if len(fields) > 2 {
			ticket.Title = fields[2]
		}
		if len(fields) > 3 && fields[3] != "" {
			ticket.Deps = strings.Split(fields[3], ",")
		}
		if len(fields) > 4 {
			ticket.Created = fields[4]
		}
		if len(fields) > 5 {
			ticket.Updated = fields[5]
		}
		tickets = append(tickets, ticket)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ticket store: %w", err)
	}
	return tickets, nil
}
