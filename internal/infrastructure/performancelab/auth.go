package performancelab

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/gym-sniper/internal/browser"
	"github.com/example/gym-sniper/internal/engine"
	"github.com/example/gym-sniper/internal/notify"
)

// Credentials are the two opaque fields the login form takes.
type Credentials struct {
	Code string
	Name string
}

// Authenticator logs into the site and verifies the dashboard loaded with a
// live membership. Implements engine.Authenticator.
type Authenticator struct {
	Inspector browser.Inspector
	BaseURL   string
	Creds     Credentials
	Notifier  notify.Notifier
	Capture   *browser.Capturer
	Log       *slog.Logger

	// WaitTimeout bounds each page-state wait.
	WaitTimeout time.Duration
}

var _ engine.Authenticator = (*Authenticator)(nil)

func (a *Authenticator) timeout() time.Duration {
	if a.WaitTimeout <= 0 {
		return 10 * time.Second
	}
	return a.WaitTimeout
}

func (a *Authenticator) Login(ctx context.Context) (engine.AuthResult, error) {
	log := a.Log
	insp := a.Inspector

	log.Info("opening login page", "url", a.BaseURL)
	if err := insp.Navigate(ctx, a.BaseURL); err != nil {
		return engine.AuthResult{Reason: "login page unreachable"}, err
	}
	if err := insp.WaitVisible(ctx, selLoginCode, a.timeout()); err != nil {
		a.Capture.SavePoint(ctx, "01_login_page_failed")
		return engine.AuthResult{Reason: "login form never appeared"}, err
	}
	a.Capture.SavePoint(ctx, "01_login_page_loaded")

	log.Info("submitting login form")
	if err := insp.Fill(ctx, selLoginCode, a.Creds.Code); err != nil {
		return engine.AuthResult{Reason: "could not fill code field"}, err
	}
	if err := insp.Fill(ctx, selLoginName, a.Creds.Name); err != nil {
		return engine.AuthResult{Reason: "could not fill name field"}, err
	}
	a.Capture.SavePoint(ctx, "02_login_form_filled")
	if err := insp.Click(ctx, selLoginSubmit); err != nil {
		return engine.AuthResult{Reason: "could not submit login form"}, err
	}

	if err := a.waitForDashboard(ctx); err != nil {
		a.Capture.SavePoint(ctx, "03_login_failed")
		return engine.AuthResult{Reason: "dashboard redirect never happened"}, nil
	}
	a.Capture.SavePoint(ctx, "03_after_login")

	res := engine.AuthResult{OK: true}
	if el, ok, err := insp.FindOne(ctx, selMembershipStatus); err == nil && ok {
		res.Membership = el.Text
		log.Info("membership status", "status", el.Text)
		if a.Notifier != nil {
			a.Notifier.Notify(ctx, fmt.Sprintf("Membership status: %s", el.Text))
		}
	}

	// An expired membership cannot book, so it counts as a failed login.
	if warn, ok, err := insp.FindOne(ctx, selMembershipWarning); err == nil && ok && warn.Visible {
		log.Warn("membership expired", "warning", warn.Text)
		return engine.AuthResult{Membership: res.Membership, Reason: "membership expired"}, nil
	}

	log.Info("login verified")
	return res, nil
}

// waitForDashboard polls the location until it lands on the dashboard page.
func (a *Authenticator) waitForDashboard(ctx context.Context) error {
	deadline := time.Now().Add(a.timeout())
	for {
		loc, err := a.Inspector.CurrentLocation(ctx)
		if err == nil && strings.Contains(loc, dashboardPath) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("still on %q after %s", loc, a.timeout())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}
