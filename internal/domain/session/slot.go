package session

import (
	"fmt"
	"regexp"
	"strings"
)

// Status is the bookability of a single session slot, derived fresh on every scan.
type Status int

const (
	StatusUnknown Status = iota
	StatusAvailable
	StatusFull
	StatusReservedByUser
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusFull:
		return "full"
	case StatusReservedByUser:
		return "reserved-by-user"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Quota is the filled/capacity pair parsed from the slot's quota text, e.g. "Kuota: 21/30".
// Reporting only; eligibility is decided from Status plus IsFull.
type Quota struct {
	Filled   int
	Capacity int
}

func (q Quota) IsFull() bool { return q.Capacity > 0 && q.Filled >= q.Capacity }

func (q Quota) String() string { return fmt.Sprintf("%d/%d", q.Filled, q.Capacity) }

// Slot is one bookable session for a given day. Slots are immutable snapshot
// values; a new scan produces new slots, nothing is tracked across scans.
type Slot struct {
	ID     int
	Status Status
	Quota  *Quota
}

// RawState carries the UI signals a slot's status is derived from.
type RawState struct {
	// Class attribute of the slot card, space separated.
	Classes string
	// Text of the slot's booking control.
	ButtonText string
	// Whether the booking control carries the disabled attribute.
	ButtonDisabled bool
	// Quota text, e.g. "Kuota: 21/30". May be empty.
	QuotaText string
}

var quotaRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// ParseQuota extracts the filled/capacity pair from a quota text token.
func ParseQuota(text string) (Quota, bool) {
	m := quotaRe.FindStringSubmatch(text)
	if m == nil {
		return Quota{}, false
	}
	var q Quota
	fmt.Sscanf(m[1], "%d", &q.Filled)
	fmt.Sscanf(m[2], "%d", &q.Capacity)
	return q, true
}

// Classify derives a slot Status from raw UI state. Precedence: the
// reserved-by-user marker wins outright (a booked slot's control is also
// disabled), then the disabled attribute, then class membership, then text
// substrings, then the quota ratio. Unknown when no signal resolves.
func Classify(raw RawState) Status {
	if hasClass(raw.Classes, "reserved-by-user") || hasClass(raw.Classes, "unavailable-booked") {
		return StatusReservedByUser
	}
	if raw.ButtonDisabled {
		return StatusUnavailable
	}
	if hasClass(raw.Classes, "full") {
		return StatusFull
	}
	if hasClass(raw.Classes, "available") {
		return StatusAvailable
	}
	btn := strings.ToLower(raw.ButtonText)
	if strings.Contains(btn, "penuh") || strings.Contains(btn, "full") {
		return StatusFull
	}
	if q, ok := ParseQuota(raw.QuotaText); ok {
		if q.IsFull() {
			return StatusFull
		}
		return StatusAvailable
	}
	return StatusUnknown
}

func hasClass(classes, want string) bool {
	for _, c := range strings.Fields(classes) {
		if c == want {
			return true
		}
	}
	return false
}
