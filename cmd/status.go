package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether a session is already reserved for tomorrow",
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

			id, reserved, err := s.scanner.ReservedSession(ctx)
			if err != nil {
				return err
			}
			if reserved {
				msg := fmt.Sprintf("Session %d is reserved for tomorrow.", id)
				s.notifier.Notify(ctx, msg)
				fmt.Println(msg)
				return nil
			}
			msg := "No session reserved for tomorrow."
			s.notifier.Notify(ctx, msg)
			fmt.Println(msg)
			return nil
		},
	}
}
