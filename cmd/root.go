package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gymsnipe",
		Short: "Books the best available next-day gym session before the slots fill",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newBookCmd())
	root.AddCommand(newSessionsCmd())
	root.AddCommand(newStatusCmd())

	return root
}

// exitCodeError carries a distinct process exit code per terminal outcome.
type exitCodeError struct {
	code int
	msg  string
}

func (e exitCodeError) Error() string { return e.msg }

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var ec exitCodeError
		if errors.As(err, &ec) {
			fmt.Fprintln(os.Stderr, ec.msg)
			os.Exit(ec.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
