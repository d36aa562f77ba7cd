package performancelab

import (
	"context"
	"fmt"

	"github.com/example/gym-sniper/internal/domain/session"
	"github.com/example/gym-sniper/internal/notify"
)

// Snapshot activates the given day tab and reads all of its session cards.
func (s *Scanner) Snapshot(ctx context.Context, day Day) ([]session.Slot, error) {
	if err := s.ensureDashboard(ctx); err != nil {
		return nil, err
	}
	if err := s.SelectDay(ctx, day); err != nil {
		return nil, err
	}
	return s.readDay(ctx)
}

// ReportAvailability sends one line per session for each requested day, the
// standalone availability check that doesn't attempt any booking.
func (s *Scanner) ReportAvailability(ctx context.Context, n notify.Notifier, days ...Day) error {
	for _, day := range days {
		n.Notify(ctx, fmt.Sprintf("Checking session availability for %s...", day))
		slots, err := s.Snapshot(ctx, day)
		if err != nil {
			n.Notify(ctx, fmt.Sprintf("Could not read the %s listing.", day))
			return err
		}
		for _, slot := range slots {
			line := fmt.Sprintf("%s - session %d: %s", day, slot.ID, slot.Status)
			if slot.Quota != nil {
				line += fmt.Sprintf(" (%s)", slot.Quota)
			}
			s.Log.Info("session availability", "day", string(day), "session", slot.ID, "status", slot.Status.String())
			n.Notify(ctx, line)
		}
	}
	return nil
}
