package main

import (
	"github.com/AloisH/capture-cli/internal/capture"
	"github.com/spf13/cobra"
)

func newStartCmd(g *globalOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "start --name NAME -- COMMAND [ARGS...]",
		Short: "Start a named capture",
		Long: "Run COMMAND, echoing its output while saving stdout and stderr under\n" +
			"~/.capture/NAME. capture exits with the command's exit status.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			runner := capture.NewRunner(store, cmd.OutOrStdout(), cmd.ErrOrStderr(), g.logger(cmd))
			code, err := runner.Start(cmd.Context(), name, args)
			if err != nil {
				return err
			}
			if code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the capture")
	_ = cmd.MarkFlagRequired("name")
	// everything after the command name belongs to the command
	cmd.Flags().SetInterspersed(false)

	return cmd
}
