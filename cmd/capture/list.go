package main

import (
	"github.com/AloisH/capture-cli/internal/capture"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List captures",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			capture.PrintList(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}
