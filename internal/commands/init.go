package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database, apply migrations and seed defaults",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			fee, err := a.config.MonthlyFee(ctx)
			if err != nil {
				return err
			}
			concepts, err := a.concepts.List(ctx, false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database ready: %s\n", a.dbPath)
			fmt.Fprintf(out, "Monthly fee:    %s\n", fee.StringFixed(2))
			fmt.Fprintf(out, "Concepts:       %d\n", len(concepts))
			return nil
		}),
	}
}
