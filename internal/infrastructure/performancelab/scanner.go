package performancelab

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/example/gym-sniper/internal/browser"
	"github.com/example/gym-sniper/internal/domain/session"
	"github.com/example/gym-sniper/internal/engine"
	"github.com/example/gym-sniper/internal/metrics"
	"github.com/example/gym-sniper/internal/retry"
)

// Scanner reads tomorrow's session listing off the dashboard, retrying
// server-error pages and empty listings within its own bounded loop.
// Implements engine.Scanner and engine.ReservationChecker. Page reads and
// refreshes only; scanning never mutates anything on the target.
type Scanner struct {
	Inspector    browser.Inspector
	DashboardURL string
	Log          *slog.Logger
	Metrics      *metrics.Metrics
	Capture      *browser.Capturer

	// Attempts and Delay bound the internal retry loop.
	Attempts    int
	Delay       time.Duration
	WaitTimeout time.Duration
}

var (
	_ engine.Scanner            = (*Scanner)(nil)
	_ engine.ReservationChecker = (*Scanner)(nil)
)

func (s *Scanner) attempts() int {
	if s.Attempts < 1 {
		return 5
	}
	return s.Attempts
}

func (s *Scanner) timeout() time.Duration {
	if s.WaitTimeout <= 0 {
		return 10 * time.Second
	}
	return s.WaitTimeout
}

// Scan returns the first snapshot with at least one slot and no error-page
// signature. The wrapped engine.ErrNoUsableSnapshot signals exhaustion; the
// caller must not read it as "zero slots available".
func (s *Scanner) Scan(ctx context.Context) ([]session.Slot, error) {
	var snapshot []session.Slot

	err := retry.Do(ctx, retry.Config{
		Attempts: s.attempts(),
		Delay:    s.Delay,
		Refresh:  s.Resync,
	}, func(ctx context.Context) (bool, error) {
		s.Metrics.ObserveScanAttempt()

		if err := s.ensureDashboard(ctx); err != nil {
			return false, err
		}
		if err := s.errorPageSignature(ctx); err != nil {
			s.Capture.SavePoint(ctx, "scan_error_page")
			return false, err
		}

		slots, err := s.readDay(ctx)
		if err != nil {
			return false, err
		}
		if len(slots) == 0 {
			return false, fmt.Errorf("session listing is empty")
		}
		snapshot = slots
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrNoUsableSnapshot, err)
	}

	s.Log.Info("scan complete", "slots", len(snapshot))
	return snapshot, nil
}

// Resync refreshes the page and re-applies the tomorrow selection, restoring
// the day view after the site reset it or another tab was left active.
func (s *Scanner) Resync(ctx context.Context) error {
	if err := s.Inspector.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return s.SelectDay(ctx, DayTomorrow)
}

// Day identifies one of the two tabs on the dashboard.
type Day string

const (
	DayToday    Day = "today"
	DayTomorrow Day = "tomorrow"
)

// SelectDay activates the day tab and waits for its slot cards.
func (s *Scanner) SelectDay(ctx context.Context, day Day) error {
	sel := selTomorrowTab
	if day == DayToday {
		sel = selTodayTab
	}
	if err := s.Inspector.Click(ctx, sel); err != nil {
		return fmt.Errorf("select %s tab: %w", day, err)
	}
	if err := s.Inspector.WaitVisible(ctx, selSlotCard, s.timeout()); err != nil {
		return fmt.Errorf("slots for %s never appeared: %w", day, err)
	}
	return nil
}

// ReservedSession reports a slot already carrying the reserved-by-user
// marker in the current day view.
func (s *Scanner) ReservedSession(ctx context.Context) (int, bool, error) {
	if err := s.ensureDashboard(ctx); err != nil {
		return 0, false, err
	}
	el, ok, err := s.Inspector.FindOne(ctx, selReservedCard)
	if err != nil || !ok {
		return 0, false, err
	}
	id, _ := strconv.Atoi(el.Attr("data-session-id"))
	return id, true, nil
}

// readDay reads every session card in the active day view.
func (s *Scanner) readDay(ctx context.Context) ([]session.Slot, error) {
	var out []session.Slot
	for id := MinSessionID; id <= MaxSessionID; id++ {
		slot, ok, err := readSlot(ctx, s.Inspector, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

// ensureDashboard navigates to the dashboard when the session drifted off it
// and re-applies the tomorrow selection. The tab click is idempotent.
func (s *Scanner) ensureDashboard(ctx context.Context) error {
	loc, err := s.Inspector.CurrentLocation(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(loc, dashboardPath) {
		if err := s.Inspector.Navigate(ctx, s.DashboardURL); err != nil {
			return fmt.Errorf("open dashboard: %w", err)
		}
	}
	return s.SelectDay(ctx, DayTomorrow)
}

// errorPageSignature reports a non-nil error when the current page looks
// like a server error rather than the dashboard.
func (s *Scanner) errorPageSignature(ctx context.Context) error {
	title, err := s.Inspector.Title(ctx)
	if err != nil {
		return err
	}
	lower := strings.ToLower(title)
	for _, marker := range []string{"500", "502", "503", "error"} {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("error page detected: title %q", title)
		}
	}
	return nil
}

// readSlot assembles one slot from its card, control and quota text.
func readSlot(ctx context.Context, insp browser.Inspector, id int) (session.Slot, bool, error) {
	card, ok, err := insp.FindOne(ctx, slotSelector(id))
	if err != nil || !ok {
		return session.Slot{}, false, err
	}

	raw := session.RawState{Classes: card.Classes}
	if btn, ok, err := insp.FindOne(ctx, slotButtonSelector(id)); err == nil && ok {
		raw.ButtonText = btn.Text
		raw.ButtonDisabled = btn.Disabled
	}
	if quota, ok, err := insp.FindOne(ctx, slotQuotaSelector(id)); err == nil && ok {
		raw.QuotaText = quota.Text
	}

	slot := session.Slot{ID: id, Status: session.Classify(raw)}
	if q, ok := session.ParseQuota(raw.QuotaText); ok {
		slot.Quota = &q
	}
	return slot, true, nil
}
