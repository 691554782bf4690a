// Copyright 2026 The Slate Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slatehq/slate/lib/claims"
	"github.com/slatehq/slate/lib/dirlock"
	"github.com/slatehq/slate/lib/engine"
	"github.com/slatehq/slate/lib/pulse"
	"github.com/slatehq/slate/lib/ticketfile"
)

// SystemAgent is the agent name used for operations issued by the
// coordinator itself rather than a named agent.
const SystemAgent = "SYSTEM"

// LockManager serializes workspace writers. Production implementation:
// *dirlock.Manager.
type LockManager interface {
	Acquire(ctx context.Context, agent string) (token string, err error)
	Release(token string) error
	Inspect() (dirlock.Status, error)
	ForceUnlock() (dirlock.Info, error)
}

// ClaimsStore persists the task → agent mapping. Production
// implementation: *claims.Store. Mutations happen only under the lock.
type ClaimsStore interface {
	Init() error
	Exists() bool
	Owner(task string) (string, error)
	Add(task, agent, note string) error
	Remove(task string) error
	List() ([]claims.Claim, error)
}

// PulseLog records coordination events. Production implementation:
// *pulse.Log.
type PulseLog interface {
	Append(task, event, details string) error
}

// TicketView is the read-only window into the delegated engine's
// store. Production implementation: *ticketfile.View.
type TicketView interface {
	Exists() bool
	Lookup(id string) (ticketfile.Ticket, bool, error)
}

// Engine runs delegated ticket engine commands. Production
// implementation: *engine.Exec.
type Engine interface {
	Run(ctx context.Context, args ...string) error
}

// Deps are the injected collaborators for a Coordinator. All fields
// are required except Logger, which defaults to slog.Default().
type Deps struct {
	Lock       LockManager
	Claims     ClaimsStore
	Pulse      PulseLog
	Tickets    TicketView
	Engine     Engine
	RenderPath string
	Logger     *slog.Logger
}

// Coordinator implements the coordination command surface. Each method
// corresponds to one CLI command.
type Coordinator struct {
	lock       LockManager
	claims     ClaimsStore
	pulse      PulseLog
	tickets    TicketView
	engine     Engine
	renderPath string
	logger     *slog.Logger
}

// New returns a Coordinator wired to the given collaborators.
func New(deps Deps) *Coordinator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		lock:       deps.Lock,
		claims:     deps.Claims,
		pulse:      deps.Pulse,
		tickets:    deps.Tickets,
		engine:     deps.Engine,
		renderPath: deps.RenderPath,
		logger:     logger,
	}
}

// withLock runs fn while holding the workspace lock as agent. The lock
// is released on every exit path; a release failure is logged rather
// than masking fn's error.
func (c *Coordinator) withLock(ctx context.Context, agent string, fn func(ctx context.Context) error) error {
	token, err := c.lock.Acquire(ctx, agent)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.lock.Release(token); err != nil {
			c.logger.Error("releasing workspace lock", "agent", agent, "error", err)
		}
	}()
	return fn(ctx)
}

// requireInitialized verifies both stores exist.
func (c *Coordinator) requireInitialized() error {
	if !c.tickets.Exists() || !c.claims.Exists() {
		return ErrNotInitialized
	}
	return nil
}

// render asks the engine to rewrite the snapshot. A render failure
// after a successful mutation is surfaced as the command's failure but
// does not invalidate the mutation: the stores already hold the new
// state and the next successful render catches up.
func (c *Coordinator) render(ctx context.Context) error {
	if err := c.engine.Run(ctx, engine.CommandRender, c.renderPath); err != nil {
		return &DelegatedError{Command: engine.CommandRender, Err: err}
	}
	return nil
}

// Init sets up the workspace: delegates ticket-store initialization to
// the engine, creates the claims store, and renders the first
// snapshot. Init is idempotent.
func (c *Coordinator) Init(ctx context.Context) error {
	return c.withLock(ctx, SystemAgent, func(ctx context.Context) error {
		if err := c.engine.Run(ctx, engine.CommandInit); err != nil {
			return &DelegatedError{Command: engine.CommandInit, Err: err}
		}
		if err := c.claims.Init(); err != nil {
			return err
		}
		if err := c.pulse.Append(pulse.SystemTask, pulse.EventInit, "workspace initialized"); err != nil {
			return err
		}
		return c.render(ctx)
	})
}

// Claim reserves task for agent. Claiming a task the agent already
// holds reports idempotent success via the already return. Claiming a
// task held by someone else fails with ClaimConflictError.
func (c *Coordinator) Claim(ctx context.Context, agent, task, note string) (already bool, err error) {
	err = c.withLock(ctx, agent, func(ctx context.Context) error {
		if err := c.requireInitialized(); err != nil {
			return err
		}
		ticket, ok, err := c.tickets.Lookup(task)
		if err != nil {
			return err
		}
		if !ok {
			return &TaskNotFoundError{Task: task}
		}
		if ticket.Terminal() {
			return &TaskDoneError{Task: task}
		}

		owner, err := c.claims.Owner(task)
		if err != nil {
			return err
		}
		switch owner {
		case "":
			// Unclaimed; fall through and take it.
		case agent:
			already = true
			return nil
		default:
			return &ClaimConflictError{Task: task, Agent: agent, Owner: owner}
		}

		if err := c.claims.Add(task, agent, note); err != nil {
			return err
		}
		details := "agent=" + agent
		if note != "" {
			details += " note=" + note
		}
		if err := c.pulse.Append(task, pulse.EventClaim, details); err != nil {
			return err
		}
		return c.render(ctx)
	})
	return already, err
}

// Unclaim releases agent's claim on task. Fails with
// ClaimNotOwnedError if the task is unclaimed or claimed by someone
// else.
func (c *Coordinator) Unclaim(ctx context.Context, agent, task string) error {
	return c.withLock(ctx, agent, func(ctx context.Context) error {
		if err := c.requireInitialized(); err != nil {
			return err
		}
		owner, err := c.claims.Owner(task)
		if err != nil {
			return err
		}
		if owner != agent {
			return &ClaimNotOwnedError{Task: task, Agent: agent, Owner: owner}
		}
		if err := c.claims.Remove(task); err != nil {
			return err
		}
		if err := c.pulse.Append(task, pulse.EventUnclaim, "agent="+agent); err != nil {
			return err
		}
		return c.render(ctx)
	})
}

// Run delegates an engine command on behalf of agent. Commands that
// target a task require agent to hold that task's claim, checked
// before the engine is invoked. A successful done auto-releases the
// claim. Mutating commands trigger a snapshot re-render.
func (c *Coordinator) Run(ctx context.Context, agent string, args []string) error {
	if len(args) == 0 {
		return errors.New("missing delegated engine command")
	}
	return c.withLock(ctx, agent, func(ctx context.Context) error {
		name := args[0]
		if name != engine.CommandInit {
			if err := c.requireInitialized(); err != nil {
				return err
			}
		}

		task := engine.TaskArgument(args)
		if task != "" {
			owner, err := c.claims.Owner(task)
			if err != nil {
				return err
			}
			if owner != agent {
				return &ClaimNotOwnedError{Task: task, Agent: agent, Owner: owner}
			}
		}

		if err := c.engine.Run(ctx, args...); err != nil {
			return &DelegatedError{Command: name, Err: err}
		}

		if name == engine.CommandDone && task != "" {
			if err := c.claims.Remove(task); err != nil {
				return err
			}
			if err := c.pulse.Append(task, pulse.EventUnclaim, "auto-release on done"); err != nil {
				return err
			}
			c.logger.Info("claim auto-released", "task", task, "agent", agent)
		}

		if engine.Mutates(name) && name != engine.CommandRender {
			return c.render(ctx)
		}
		return nil
	})
}

// Claims lists all active claims. Read-only: no lock is taken, so a
// concurrent writer may be mid-operation, but the store's atomic
// rewrite guarantees each read sees a complete file.
func (c *Coordinator) Claims() ([]claims.Claim, error) {
	if err := c.requireInitialized(); err != nil {
		return nil, err
	}
	return c.claims.List()
}

// LockInfo reports the current lock state without modifying it.
func (c *Coordinator) LockInfo() (dirlock.Status, error) {
	return c.lock.Inspect()
}

// UnlockStale force-removes the lock if it is stale, recording the
// break in the pulse log. An active lock is left alone and the call
// fails.
func (c *Coordinator) UnlockStale() (dirlock.Info, error) {
	info, err := c.lock.ForceUnlock()
	if err != nil {
		return dirlock.Info{}, err
	}
	details := fmt.Sprintf("removed stale lock held by %s on %s (pid %d)", info.Agent, info.Host, info.PID)
	if err := c.pulse.Append(pulse.SystemTask, pulse.EventLockBreak, details); err != nil {
		return info, err
	}
	return info, nil
}
