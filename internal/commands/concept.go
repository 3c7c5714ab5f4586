package commands

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/comite-agua/ledger/internal/models"
)

func newConceptCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "concept",
		Short: "Manage the catalog of additional charges",
	}
	cmd.AddCommand(newConceptListCommand(a), newConceptAddCommand(a), newConceptUpdateCommand(a))
	return cmd
}

func newConceptListCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List concepts",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			concepts, err := a.concepts.List(ctx, !all)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tACTIVE")
			for _, c := range concepts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", c.ID, c.Name, c.UnitPrice.StringFixed(2), c.Active)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, "include inactive concepts")
	return cmd
}

func newConceptAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME PRICE",
		Short: "Add a concept",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[1], err)
			}
			concept, err := a.concepts.Create(ctx, args[0], price)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Concept %d created: %s (%s)\n",
				concept.ID, concept.Name, concept.UnitPrice.StringFixed(2))
			return nil
		}),
	}
}

func newConceptUpdateCommand(a *app) *cobra.Command {
	var (
		name   string
		price  string
		active bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a concept's name, price or active flag",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid concept id %q", args[0])
			}

			var patch models.ConceptPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = models.Some(name)
			}
			if flags.Changed("price") {
				p, err := decimal.NewFromString(price)
				if err != nil {
					return fmt.Errorf("invalid price %q: %w", price, err)
				}
				patch.UnitPrice = models.Some(p)
			}
			if flags.Changed("active") {
				patch.Active = models.Some(active)
			}

			if err := a.concepts.Update(ctx, id, patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Concept %d updated\n", id)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&price, "price", "", "new unit price")
	cmd.Flags().BoolVar(&active, "active", true, "active flag")
	return cmd
}
