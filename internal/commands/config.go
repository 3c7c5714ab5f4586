package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change runtime settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every setting",
			Args:  cobra.NoArgs,
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
				entries, err := a.config.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tVALUE\tMODIFIED")
				for _, e := range entries {
					value := e.Value
					if e.Key == models.KeyAccessPin {
						value = "****"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, value, e.ModifiedAt.Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			}),
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				value, ok, err := a.config.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("setting %q: %w", args[0], storage.ErrNotFound)
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change an existing setting",
			Args:  cobra.ExactArgs(2),
			RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				if err := a.config.Set(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
				return nil
			}),
		},
	)
	return cmd
}
