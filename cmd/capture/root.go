package main

import (
	"os"

	"github.com/AloisH/capture-cli/internal/capture"
	"github.com/AloisH/capture-cli/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	verbose bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "capture",
		Short:         "Capture and retrieve output of long-running processes by name",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor || os.Getenv("NO_COLOR") != "" {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newStartCmd(g),
		newLogsCmd(),
		newListCmd(),
		newStopCmd(),
	)
	return cmd
}

func (g *globalOptions) logger(cmd *cobra.Command) config.Logger {
	return config.NewLogger(cmd.ErrOrStderr(), g.verbose || config.DebugEnabled())
}

// openStore returns the store under $HOME/.capture.
func openStore() (*capture.Store, error) {
	return capture.DefaultStore()
}
