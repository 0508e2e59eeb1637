package main

import (
	"github.com/AloisH/capture-cli/internal/capture"
	"github.com/spf13/cobra"
)

func newLogsCmd() *cobra.Command {
	var (
		lines, head int
		opts        capture.LogOptions
	)

	cmd := &cobra.Command{
		Use:   "logs NAME",
		Short: "Retrieve captured output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("lines") {
				opts.Lines = &lines
			}
			if cmd.Flags().Changed("head") {
				opts.Head = &head
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			return store.Logs(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.IntVarP(&lines, "lines", "l", 0, "last N lines")
	f.IntVar(&head, "head", 0, "first N lines")
	f.StringVarP(&opts.Grep, "grep", "g", "", "only lines containing this text")
	f.BoolVarP(&opts.Follow, "follow", "f", false, "follow output in real time")
	f.BoolVar(&opts.Stderr, "stderr", false, "show stderr instead of stdout")

	return cmd
}
