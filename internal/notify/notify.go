// Package notify delivers progress messages to the operator. Delivery is
// best-effort by contract: a notifier never returns an error to its caller
// and never blocks the engine beyond its own request timeout.
package notify

import "context"

// Notifier accepts a short operator-facing text message.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// Nop discards every message.
type Nop struct{}

func (Nop) Notify(context.Context, string) {}

// Func adapts a plain function, used by tests to record messages.
type Func func(ctx context.Context, msg string)

func (f Func) Notify(ctx context.Context, msg string) { f(ctx, msg) }
