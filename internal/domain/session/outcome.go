package session

import "fmt"

// OutcomeKind is the terminal result category of one acquisition run.
type OutcomeKind int

const (
	OutcomeBooked OutcomeKind = iota
	OutcomeNoSlotsEverAppeared
	OutcomeExhaustedRetries
	OutcomeAuthFailed
	OutcomeAbortedTimeout
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeBooked:
		return "booked"
	case OutcomeNoSlotsEverAppeared:
		return "no-slots-ever-appeared"
	case OutcomeExhaustedRetries:
		return "exhausted-retries"
	case OutcomeAuthFailed:
		return "auth-failed"
	case OutcomeAbortedTimeout:
		return "aborted-timeout"
	default:
		return "unknown"
	}
}

// Outcome is produced exactly once per run. SessionID is set only for booked runs.
type Outcome struct {
	Kind      OutcomeKind
	SessionID int
}

func (o Outcome) String() string {
	if o.Kind == OutcomeBooked {
		return fmt.Sprintf("booked session %d", o.SessionID)
	}
	return o.Kind.String()
}
