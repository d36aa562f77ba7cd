package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/example/gym-sniper/internal/domain/session"
	"github.com/example/gym-sniper/internal/engine"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newBookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book",
		Short: "Log in and book the best available session for tomorrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			s, closeStack, err := buildStack(ctx)
			if err != nil {
				return err
			}
			defer closeStack()

			if s.cfg.MetricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
				go func() {
					if err := http.ListenAndServe(s.cfg.MetricsAddr, mux); err != nil {
						s.log.Error("metrics listener stopped", "error", err)
					}
				}()
			}

			e := &engine.Engine{
				Auth:        s.auth,
				Scanner:     s.scanner,
				Executor:    s.booker,
				Notifier:    s.notifier,
				Reserved:    s.scanner,
				Preferences: s.cfg.Preferences,
				Budget: engine.Budget{
					MaxWallTime:    s.cfg.MaxWallTime,
					MaxRetryCycles: s.cfg.MaxRetryCycles,
					RetryDelay:     s.cfg.RetryDelay,
				},
				Log:     s.log,
				Metrics: s.metrics,
			}

			outcome := e.Run(ctx)
			if code := exitCode(outcome); code != 0 {
				return exitCodeError{code: code, msg: fmt.Sprintf("run ended: %s", outcome)}
			}
			fmt.Println(outcome)
			return nil
		},
	}
}

// exitCode maps each terminal outcome to a distinct code so wrapping tooling
// can tell an auth failure from exhaustion from a timeout.
func exitCode(o session.Outcome) int {
	switch o.Kind {
	case session.OutcomeBooked:
		return 0
	case session.OutcomeAuthFailed:
		return 2
	case session.OutcomeNoSlotsEverAppeared:
		return 3
	case session.OutcomeExhaustedRetries:
		return 4
	case session.OutcomeAbortedTimeout:
		return 5
	default:
		return 1
	}
}
