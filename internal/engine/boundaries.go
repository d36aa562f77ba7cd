package engine

import (
	"context"
	"errors"

	"github.com/example/gym-sniper/internal/domain/session"
)

// ErrNoUsableSnapshot is returned by a Scanner that exhausted its own retry
// budget without one clean, non-empty slot listing. Distinct from a listing
// where every slot is full, which is a legitimate snapshot.
var ErrNoUsableSnapshot = errors.New("no usable slot snapshot")

// AuthResult reports the login outcome. Membership is the account status
// text read from the dashboard, when present; Reason explains a failure.
type AuthResult struct {
	OK         bool
	Membership string
	Reason     string
}

// Authenticator establishes the logged-in browser session. A returned error
// is treated the same as OK=false: terminal, credentials are not retryable.
type Authenticator interface {
	Login(ctx context.Context) (AuthResult, error)
}

// Scanner produces one snapshot of tomorrow's session slots, retrying page
// errors internally. Resync refreshes the page and re-applies the day
// selection between engine cycles.
type Scanner interface {
	Scan(ctx context.Context) ([]session.Slot, error)
	Resync(ctx context.Context) error
}

// AttemptResult classifies one booking attempt.
type AttemptResult int

const (
	// AttemptConfirmed means post-click verification saw a reserved marker.
	AttemptConfirmed AttemptResult = iota
	// AttemptRejected means the control was unusable or the click did not
	// verifiably take effect.
	AttemptRejected
	// AttemptVanished means the slot was gone by the time it was located.
	AttemptVanished
)

func (r AttemptResult) String() string {
	switch r {
	case AttemptConfirmed:
		return "confirmed"
	case AttemptRejected:
		return "rejected"
	case AttemptVanished:
		return "vanished"
	default:
		return "unknown"
	}
}

// Executor performs one act-then-verify booking attempt for a session id.
type Executor interface {
	Attempt(ctx context.Context, sessionID int) (AttemptResult, error)
}

// ReservationChecker reports an existing reservation for the target day, so
// a rerun does not book twice. Optional collaborator.
type ReservationChecker interface {
	ReservedSession(ctx context.Context) (sessionID int, reserved bool, err error)
}
