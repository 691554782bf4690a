// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package dirlock

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// metaFile is the name of the metadata file inside the lock directory.
const metaFile = "meta"

// Info is the owner metadata recorded inside the lock directory.
type Info struct {
	// Agent is the name of the agent that acquired the lock.
	Agent string

	// PID is the acquiring process id, used for same-host liveness
	// probing.
	PID int

	// Host is the hostname of the acquiring process.
	Host string

	// Token is a random value unique to one acquisition. It
	// distinguishes "the lock I created" from "a lock someone else
	// re-created after mine was reclaimed".
	Token string

	// Started is when the lock was acquired.
	Started time.Time
}

// writeInfo writes the metadata file as key=value lines. The file
// lives inside the lock directory, which the writer owns exclusively,
// so no rename dance is needed.
func writeInfo(path string, info Info) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "agent=%s\n", info.Agent)
	fmt.Fprintf(&builder, "pid=%d\n", info.PID)
	fmt.Fprintf(&builder, "host=%s\n", info.Host)
	fmt.Fprintf(&builder, "token=%s\n", info.Token)
	fmt.Fprintf(&builder, "started=%s\n", info.Started.UTC().Format(time.RFC3339))
	return os.WriteFile(path, []byte(builder.String()), 0o644)
}

// readInfo parses the metadata file. Unknown keys and malformed lines
// are ignored so a partially written or hand-edited file still yields
// whatever fields it carries.
func readInfo(path string) (Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer file.Close()

	var info Info
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		switch key {
		case "agent":
			info.Agent = value
		case "pid":
			if pid, err := strconv.Atoi(value); err == nil {
				info.PID = pid
			}
		case "host":
			info.Host = value
		case "token":
			info.Token = value
		case "started":
			if started, err := time.Parse(time.RFC3339, value); err == nil {
				info.Started = started
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Info{}, fmt.Errorf("reading lock metadata: %w", err)
	}
	return info, nil
}
