package cmd

import (
	"context"
	"fmt"

	"github.com/example/gym-sniper/internal/infrastructure/performancelab"
	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "Report availability of every session for today and tomorrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			s, closeStack, err := buildStack(ctx)
			if err != nil {
				return err
			}
			defer closeStack()

			res, err := s.auth.Login(ctx)
			if err != nil {
				return err
			}
			if !res.OK {
				return fmt.Errorf("login failed: %s", res.Reason)
			}

			return s.scanner.ReportAvailability(ctx, s.notifier,
				performancelab.DayToday, performancelab.DayTomorrow)
		},
	}
}
