package main

import (
	"fmt"

	"github.com/AloisH/capture-cli/internal/capture"
	"github.com/spf13/cobra"
)

func newStopCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "stop [NAME]",
		Short: "Stop a capture and delete its logs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return capture.ErrNoTarget
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if all {
				count, err := store.StopAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "stopped %d capture(s)\n", count)
				return nil
			}

			if err := store.Stop(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "stopped '%s'\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "stop all captures")
	return cmd
}
