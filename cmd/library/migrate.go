package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the books, transactions and fines tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.settings()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			rt, err := openRuntime(ctx, s)
			if err != nil {
				return err
			}

			defer func() { _ = rt.Close(ctx) }()

			if err := rt.migrate(ctx); err != nil {
				return err
			}

			cmd.Printf("schema ready (driver %s)\n", s.DBDriver)

			return nil
		},
	}
}
