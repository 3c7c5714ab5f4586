package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/comite-agua/ledger/internal/models"
)

func newUserCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage committee members",
	}
	cmd.AddCommand(newUserAddCommand(a), newUserShowCommand(a), newUserStatusCommand(a))
	return cmd
}

func newUserAddCommand(a *app) *cobra.Command {
	var user models.User

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a member",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			if err := a.users.Create(ctx, &user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d created with number %d\n", user.ID, user.Number)
			return nil
		}),
	}
	cmd.Flags().StringVar(&user.Name, "name", "", "full name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().Int64Var(&user.Number, "number", 0, "member number (default: next free)")
	cmd.Flags().StringVar(&user.Address, "address", "", "address")
	cmd.Flags().StringVar(&user.Phone, "phone", "", "phone")
	cmd.Flags().StringVar(&user.Email, "email", "", "email")
	return cmd
}

func newUserShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a member",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			user, err := a.users.Get(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:         %d\n", user.ID)
			fmt.Fprintf(out, "Number:     %d\n", user.Number)
			fmt.Fprintf(out, "Name:       %s\n", user.Name)
			fmt.Fprintf(out, "Address:    %s\n", user.Address)
			fmt.Fprintf(out, "Phone:      %s\n", user.Phone)
			fmt.Fprintf(out, "Email:      %s\n", user.Email)
			fmt.Fprintf(out, "Status:     %s\n", user.Status)
			fmt.Fprintf(out, "Registered: %s\n", user.RegisteredAt.Format("2006-01-02"))
			return nil
		}),
	}
}

func newUserStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID Activo|Cancelado",
		Short: "Activate or cancel a member",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			if err := a.users.SetStatus(ctx, id, models.UserStatus(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d is now %s\n", id, args[1])
			return nil
		}),
	}
}
