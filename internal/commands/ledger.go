package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

// userFlags selects a member by ID or by member number.
type userFlags struct {
	id     int64
	number int64
}

func (f *userFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.id, "user", 0, "user ID")
	cmd.Flags().Int64Var(&f.number, "number", 0, "member number")
	cmd.MarkFlagsOneRequired("user", "number")
	cmd.MarkFlagsMutuallyExclusive("user", "number")
}

func (f *userFlags) resolve(ctx context.Context, a *app) (int64, error) {
	if f.id > 0 {
		return f.id, nil
	}
	user, err := a.users.GetByNumber(ctx, f.number)
	if err != nil {
		return 0, fmt.Errorf("member number %d: %w", f.number, err)
	}
	return user.ID, nil
}

// parseConcept reads NAME=PRICE. A bare NAME takes the catalog price.
func parseConcept(raw string, catalog []models.Concept) (models.ConceptCharge, error) {
	name, price, hasPrice := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if hasPrice {
		p, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil {
			return models.ConceptCharge{}, fmt.Errorf("%w: invalid price in %q", storage.ErrValidation, raw)
		}
		return models.ConceptCharge{Name: name, Price: p}, nil
	}

	for _, c := range catalog {
		if strings.EqualFold(c.Name, name) {
			return models.ConceptCharge{Name: c.Name, Price: c.UnitPrice}, nil
		}
	}
	return models.ConceptCharge{}, fmt.Errorf("concept %q: %w", name, storage.ErrNotFound)
}

func newPayCommand(a *app) *cobra.Command {
	var (
		user     userFlags
		months   []int
		year     int
		concepts []string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Register a payment",
		Example: `  aguactl pay --user 3 --months 1,2,3 --year 2024
  aguactl pay --number 12 --concept "Multa por Inasistencia" --concept "Reconexión=120"`,
		Args: cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			userID, err := user.resolve(ctx, a)
			if err != nil {
				return err
			}
			if year == 0 {
				year = a.now().Year()
			}

			req := models.PaymentRequest{UserID: userID, Months: months, Year: year, Notes: notes}
			if len(concepts) > 0 {
				catalog, err := a.concepts.List(ctx, true)
				if err != nil {
					return err
				}
				for _, raw := range concepts {
					charge, err := parseConcept(raw, catalog)
					if err != nil {
						return err
					}
					req.ExtraConcepts = append(req.ExtraConcepts, charge)
				}
			}

			id, err := a.ledger.RegisterPayment(ctx, req)
			if err != nil {
				return err
			}
			receipt, err := a.ledger.GetReceiptData(ctx, id)
			if err != nil {
				return err
			}
			printReceipt(cmd.OutOrStdout(), receipt)
			return nil
		}),
	}
	user.register(cmd)
	cmd.Flags().IntSliceVar(&months, "months", nil, "months to pay, e.g. 1,2,3")
	cmd.Flags().IntVar(&year, "year", 0, "year of the months (default: current year)")
	cmd.Flags().StringArrayVar(&concepts, "concept", nil, `extra charge "NAME" or "NAME=PRICE" (repeatable)`)
	cmd.Flags().StringVar(&notes, "notes", "", "free-text remark")
	return cmd
}

func newHistoryCommand(a *app) *cobra.Command {
	var user userFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a member's payments, newest first",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			userID, err := user.resolve(ctx, a)
			if err != nil {
				return err
			}
			payments, err := a.ledger.GetHistory(ctx, userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(payments) > 0 {
				fmt.Fprintf(out, "Member: %d %s\n", payments[0].UserNumber, payments[0].UserName)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PAYMENT\tDATE\tTOTAL\tDETAIL")
			for _, p := range payments {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
					p.ID, p.PaidAt.Format("2006-01-02 15:04"), p.Total.StringFixed(2), summarize(p.Items))
			}
			return tw.Flush()
		}),
	}
	user.register(cmd)
	return cmd
}

func newMonthsCommand(a *app) *cobra.Command {
	var (
		user userFlags
		year int
	)

	cmd := &cobra.Command{
		Use:   "months",
		Short: "Print the months of a year a member has paid",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			userID, err := user.resolve(ctx, a)
			if err != nil {
				return err
			}
			if year == 0 {
				year = a.now().Year()
			}
			months, err := a.ledger.GetPaidMonths(ctx, userID, year)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", year, joinInts(months))
			return nil
		}),
	}
	user.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "year (default: current year)")
	return cmd
}

func newReceiptCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt PAYMENT_ID",
		Short: "Print the receipt of a payment",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid payment id %q", args[0])
			}
			receipt, err := a.ledger.GetReceiptData(ctx, id)
			if err != nil {
				return err
			}
			printReceipt(cmd.OutOrStdout(), receipt)
			return nil
		}),
	}
}

func newStatusCommand(a *app) *cobra.Command {
	var (
		user userFlags
		year int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show paid and pending months and the amount due",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			userID, err := user.resolve(ctx, a)
			if err != nil {
				return err
			}
			now := a.now()
			if year == 0 {
				year = now.Year()
			}
			status, err := a.ledger.GetAccountStatus(ctx, userID, year, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Year:        %d\n", status.Year)
			fmt.Fprintf(out, "Paid:        %s\n", joinInts(status.PaidMonths))
			fmt.Fprintf(out, "Pending:     %s\n", joinInts(status.PendingMonths))
			fmt.Fprintf(out, "Monthly fee: %s\n", status.MonthlyFee.StringFixed(2))
			fmt.Fprintf(out, "Amount due:  %s\n", status.AmountDue.StringFixed(2))
			return nil
		}),
	}
	user.register(cmd)
	cmd.Flags().IntVar(&year, "year", 0, "year (default: current year)")
	return cmd
}

func printReceipt(w io.Writer, r *models.Receipt) {
	fmt.Fprintf(w, "Receipt #%d\n", r.Payment.ID)
	fmt.Fprintf(w, "Date:    %s\n", r.Payment.PaidAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Member:  %d %s\n", r.User.Number, r.User.Name)
	if r.User.Address != "" {
		fmt.Fprintf(w, "Address: %s\n", r.User.Address)
	}
	if r.Payment.Notes != "" {
		fmt.Fprintf(w, "Notes:   %s\n", r.Payment.Notes)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONCEPT\tPERIOD\tQTY\tAMOUNT")
	for _, item := range r.Payment.Items {
		period := strconv.Itoa(item.Year)
		if item.Month != nil {
			period = fmt.Sprintf("%02d/%d", *item.Month, item.Year)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", item.Concept, period, item.Quantity, item.Amount().StringFixed(2))
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", r.Payment.Total.StringFixed(2))
	tw.Flush()
}

func summarize(items []models.LineItem) string {
	var months []int
	var concepts []string
	for _, item := range items {
		if item.Month != nil {
			months = append(months, *item.Month)
		} else {
			concepts = append(concepts, item.Concept)
		}
	}

	var parts []string
	if len(months) > 0 {
		parts = append(parts, models.MonthlyDueConcept+" "+joinInts(months))
	}
	parts = append(parts, concepts...)
	return strings.Join(parts, "; ")
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
