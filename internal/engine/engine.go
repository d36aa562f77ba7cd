// Package engine drives the acquisition loop: scan tomorrow's sessions,
// pick the best preferred slot, attempt an act-then-verify booking, and
// retry within a wall-clock and cycle budget.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/gym-sniper/internal/domain/session"
	"github.com/example/gym-sniper/internal/metrics"
	"github.com/example/gym-sniper/internal/notify"
	"github.com/example/gym-sniper/internal/retry"
)

// State of the acquisition state machine.
type State int

const (
	StateInit State = iota
	StateAuthenticating
	StateScanning
	StateSelecting
	StateBooking
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAuthenticating:
		return "authenticating"
	case StateScanning:
		return "scanning"
	case StateSelecting:
		return "selecting"
	case StateBooking:
		return "booking"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Budget bounds one run.
type Budget struct {
	// MaxWallTime aborts the run at the next cycle boundary once exceeded.
	MaxWallTime time.Duration
	// MaxRetryCycles is the number of full preference-list passes.
	MaxRetryCycles int
	// RetryDelay is the pause between cycles, before the page resync.
	RetryDelay time.Duration
}

// Engine owns the browser session for the run's duration and is the single
// thread of control; scanning, selecting and booking are strictly sequential.
type Engine struct {
	Auth     Authenticator
	Scanner  Scanner
	Executor Executor
	Notifier notify.Notifier
	// Reserved short-circuits the run when a slot is already booked. Optional.
	Reserved ReservationChecker

	// Preferences ranks session ids, highest priority first.
	Preferences []int
	Budget      Budget

	Log     *slog.Logger
	Metrics *metrics.Metrics

	state State

	// injected by tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Run executes one acquisition. It always returns a terminal Outcome; no
// collaborator error propagates out.
func (e *Engine) Run(ctx context.Context) session.Outcome {
	if e.now == nil {
		e.now = time.Now
	}
	if e.sleep == nil {
		e.sleep = retry.Sleep
	}
	if e.Notifier == nil {
		e.Notifier = notify.Nop{}
	}
	if e.Log == nil {
		e.Log = slog.Default()
	}
	e.state = StateInit

	start := e.now()

	e.transition(ctx, StateAuthenticating, "Auto booking started, logging in.")
	auth, err := e.Auth.Login(ctx)
	if err != nil || !auth.OK {
		reason := auth.Reason
		if err != nil {
			reason = err.Error()
		}
		return e.finish(ctx, session.Outcome{Kind: session.OutcomeAuthFailed},
			fmt.Sprintf("Login failed: %s. Check the code and name.", reason))
	}

	if e.Reserved != nil {
		if id, ok, err := e.Reserved.ReservedSession(ctx); err == nil && ok {
			return e.finish(ctx, session.Outcome{Kind: session.OutcomeBooked, SessionID: id},
				fmt.Sprintf("Session %d is already reserved for tomorrow, nothing to do.", id))
		}
	}

	for cycle := 1; cycle <= e.Budget.MaxRetryCycles; cycle++ {
		// Budget check only at the cycle boundary so an in-flight attempt
		// always finishes and verifies.
		if e.now().Sub(start) > e.Budget.MaxWallTime {
			return e.finish(ctx, session.Outcome{Kind: session.OutcomeAbortedTimeout},
				fmt.Sprintf("Gave up: wall-clock budget of %s exceeded.", e.Budget.MaxWallTime))
		}

		e.transition(ctx, StateScanning,
			fmt.Sprintf("Cycle %d/%d: scanning tomorrow's sessions.", cycle, e.Budget.MaxRetryCycles))
		slots, err := e.Scanner.Scan(ctx)
		if err != nil {
			e.Log.Error("scanner gave up", "error", err)
			return e.finish(ctx, session.Outcome{Kind: session.OutcomeNoSlotsEverAppeared},
				"No usable session listing ever appeared, aborting.")
		}

		if outcome, booked := e.attemptCycle(ctx, slots); booked {
			return outcome
		}
		e.Metrics.ObserveCycle()

		if cycle == e.Budget.MaxRetryCycles {
			break
		}
		if err := e.sleep(ctx, e.Budget.RetryDelay); err != nil {
			return e.finish(ctx, session.Outcome{Kind: session.OutcomeAbortedTimeout},
				"Run cancelled while waiting to retry.")
		}
		if err := e.Scanner.Resync(ctx); err != nil {
			// Next Scan retries internally, so a failed resync is not fatal.
			e.Log.Warn("page resync failed", "error", err)
		}
	}

	return e.finish(ctx, session.Outcome{Kind: session.OutcomeExhaustedRetries},
		fmt.Sprintf("No preferred session could be booked in %d cycles.", e.Budget.MaxRetryCycles))
}

// attemptCycle walks the preference list over one snapshot. A rejected or
// vanished slot is dropped and the next candidate tried immediately; only a
// confirmed booking ends the run.
func (e *Engine) attemptCycle(ctx context.Context, slots []session.Slot) (session.Outcome, bool) {
	remaining := slots
	for {
		e.transition(ctx, StateSelecting, "Selecting the best available session.")
		slot, ok := session.ChoosePreferred(e.Preferences, remaining)
		if !ok {
			return session.Outcome{}, false
		}

		e.transition(ctx, StateBooking, fmt.Sprintf("Attempting to book session %d.", slot.ID))
		result, err := e.Executor.Attempt(ctx, slot.ID)
		if err != nil {
			// Inspector faults are contention from this loop's point of
			// view; the slot is merely unusable right now.
			e.Log.Warn("booking attempt errored", "session", slot.ID, "error", err)
			result = AttemptRejected
		}
		e.Metrics.ObserveBookingAttempt(result.String())

		if result == AttemptConfirmed {
			return e.finish(ctx, session.Outcome{Kind: session.OutcomeBooked, SessionID: slot.ID},
				fmt.Sprintf("Booked gym session %d for tomorrow.", slot.ID)), true
		}

		e.Log.Info("attempt did not confirm", "session", slot.ID, "result", result.String())
		remaining = dropSlot(remaining, slot.ID)
	}
}

// transition moves the state machine and emits exactly one notification.
func (e *Engine) transition(ctx context.Context, to State, msg string) {
	e.Log.Info("state transition", "from", e.state.String(), "to", to.String())
	e.state = to
	e.Notifier.Notify(ctx, msg)
}

func (e *Engine) finish(ctx context.Context, outcome session.Outcome, msg string) session.Outcome {
	e.Metrics.ObserveOutcome(outcome.Kind.String())
	e.transition(ctx, StateDone, msg)
	e.Log.Info("run finished", "outcome", outcome.String())
	return outcome
}

func dropSlot(slots []session.Slot, id int) []session.Slot {
	out := make([]session.Slot, 0, len(slots))
	for _, s := range slots {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
