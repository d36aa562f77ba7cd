package performancelab

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/example/gym-sniper/internal/browser"
	"github.com/example/gym-sniper/internal/domain/session"
	"github.com/example/gym-sniper/internal/engine"
	"github.com/example/gym-sniper/internal/retry"
)

// Booker performs one act-then-verify booking attempt. The click alone is
// never trusted: the site can silently no-op it when the slot filled between
// selection and click, so confirmation requires re-reading the page state.
// Implements engine.Executor.
type Booker struct {
	Inspector browser.Inspector
	Log       *slog.Logger
	Capture   *browser.Capturer

	// SettleDelay is the pause between the click and the verification read.
	SettleDelay time.Duration
	// Verify decides whether the booking took effect. Defaults to
	// DefaultVerifier; the exact success signal varies with the site, so it
	// stays pluggable.
	Verify Verifier
}

var _ engine.Executor = (*Booker)(nil)

func (b *Booker) settle() time.Duration {
	if b.SettleDelay <= 0 {
		return 2 * time.Second
	}
	return b.SettleDelay
}

func (b *Booker) Attempt(ctx context.Context, sessionID int) (engine.AttemptResult, error) {
	insp := b.Inspector

	slot, ok, err := readSlot(ctx, insp, sessionID)
	if err != nil {
		return engine.AttemptRejected, err
	}
	if !ok {
		// Gone since selection: another member took it or the view reset.
		b.Log.Info("slot vanished before click", "session", sessionID)
		return engine.AttemptVanished, nil
	}

	// A disabled or full control means the click would be wasted or
	// ambiguous, so don't issue it.
	if slot.Status != session.StatusAvailable {
		b.Log.Info("slot not bookable, skipping click", "session", sessionID, "status", slot.Status.String())
		return engine.AttemptRejected, nil
	}

	insp.AcceptNextDialog(ctx)
	if err := insp.Click(ctx, slotButtonSelector(sessionID)); err != nil {
		return engine.AttemptRejected, err
	}

	if err := retry.Sleep(ctx, b.settle()); err != nil {
		return engine.AttemptRejected, err
	}
	b.Capture.SavePoint(ctx, "after_booking_click")

	verify := b.Verify
	if verify == nil {
		verify = DefaultVerifier()
	}
	confirmed, err := verify.Confirmed(ctx, insp, sessionID)
	if err != nil {
		return engine.AttemptRejected, err
	}
	if !confirmed {
		b.Log.Warn("click went through but no reserved marker appeared", "session", sessionID)
		return engine.AttemptRejected, nil
	}
	return engine.AttemptConfirmed, nil
}

// Verifier decides whether a just-clicked booking is actually confirmed.
type Verifier interface {
	Confirmed(ctx context.Context, insp browser.Inspector, sessionID int) (bool, error)
}

// MarkerVerifier checks, in order: the slot card's own classes, a success
// banner, and a page-text substring. Any hit confirms.
type MarkerVerifier struct {
	// SlotClasses confirm when present on the slot card.
	SlotClasses []string
	// BannerSelector confirms when it matches any element.
	BannerSelector string
	// PageSubstring confirms when found in the page HTML, case-insensitive.
	PageSubstring string
}

// DefaultVerifier covers the markers observed on the live site so far.
func DefaultVerifier() MarkerVerifier {
	return MarkerVerifier{
		SlotClasses:    []string{"reserved-by-user", "unavailable-booked"},
		BannerSelector: selSuccessMsg,
		PageSubstring:  "reserved",
	}
}

func (v MarkerVerifier) Confirmed(ctx context.Context, insp browser.Inspector, sessionID int) (bool, error) {
	if card, ok, err := insp.FindOne(ctx, slotSelector(sessionID)); err == nil && ok {
		for _, class := range v.SlotClasses {
			if hasClass(card.Classes, class) {
				return true, nil
			}
		}
	}
	if v.BannerSelector != "" {
		if _, ok, err := insp.FindOne(ctx, v.BannerSelector); err == nil && ok {
			return true, nil
		}
	}
	if v.PageSubstring != "" {
		html, err := insp.HTML(ctx)
		if err != nil {
			return false, err
		}
		if strings.Contains(strings.ToLower(html), strings.ToLower(v.PageSubstring)) {
			return true, nil
		}
	}
	return false, nil
}

func hasClass(classes, want string) bool {
	for _, c := range strings.Fields(classes) {
		if c == want {
			return true
		}
	}
	return false
}
