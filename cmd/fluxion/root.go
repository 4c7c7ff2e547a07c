package main

import (
	"time"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	timeout time.Duration
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "fluxion",
		Short:         "Fluxion executes declarative pipeline graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "cancel the run after this duration (0 disables)")

	cmd.AddCommand(newRunCmd(flags, app))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newWatchCmd(flags, app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
