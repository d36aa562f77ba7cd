package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/example/gym-sniper/internal/browser"
	"github.com/example/gym-sniper/internal/config"
	"github.com/example/gym-sniper/internal/infrastructure/performancelab"
	"github.com/example/gym-sniper/internal/metrics"
	"github.com/example/gym-sniper/internal/notify"
)

// stack wires the browser session and the site adapters for one command.
type stack struct {
	cfg      config.Config
	log      *slog.Logger
	chrome   *browser.Chrome
	capture  *browser.Capturer
	notifier *notify.Discord
	metrics  *metrics.Metrics
	auth     *performancelab.Authenticator
	scanner  *performancelab.Scanner
	booker   *performancelab.Booker
}

func buildStack(ctx context.Context) (*stack, func(), error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	chrome, err := browser.NewChrome(ctx, browser.Options{
		Headless:     cfg.Headless,
		ChromeBinary: cfg.ChromeBinary,
	})
	if err != nil {
		return nil, nil, err
	}

	capture := browser.NewCapturer(chrome, cfg.DebugDir, log)
	notifier := notify.NewDiscord(cfg.DiscordWebhook, log)
	m := metrics.New()

	s := &stack{
		cfg:      cfg,
		log:      log,
		chrome:   chrome,
		capture:  capture,
		notifier: notifier,
		metrics:  m,
		auth: &performancelab.Authenticator{
			Inspector:   chrome,
			BaseURL:     cfg.BaseURL,
			Creds:       performancelab.Credentials{Code: cfg.GymCode, Name: cfg.GymName},
			Notifier:    notifier,
			Capture:     capture,
			Log:         log,
			WaitTimeout: cfg.WaitTimeout,
		},
		scanner: &performancelab.Scanner{
			Inspector:    chrome,
			DashboardURL: cfg.DashboardURL,
			Log:          log,
			Metrics:      m,
			Capture:      capture,
			Attempts:     cfg.ScanAttempts,
			Delay:        cfg.ScanDelay,
			WaitTimeout:  cfg.WaitTimeout,
		},
		booker: &performancelab.Booker{
			Inspector:   chrome,
			Log:         log,
			Capture:     capture,
			SettleDelay: cfg.SettleDelay,
		},
	}
	return s, chrome.Close, nil
}
