// Package commands implements the aguactl administration CLI. Every command
// opens the ledger database directly.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/comite-agua/ledger/internal/service"
	"github.com/comite-agua/ledger/internal/storage/sqlite"
	"github.com/comite-agua/ledger/pkg/logging"
)

const defaultDBPath = "./data/agua_potable.db"

// app holds the services of one command invocation.
type app struct {
	dbPath   string
	logLevel string
	now      func() time.Time

	store    *sqlite.SQLiteStore
	config   *service.ConfigService
	concepts *service.ConceptService
	users    *service.UserService
	ledger   *service.LedgerService
}

func (a *app) open(cmd *cobra.Command) error {
	logger := logging.New(cmd.ErrOrStderr(), logging.ParseLevel(a.logLevel))

	store, err := sqlite.New(a.dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", a.dbPath, err)
	}

	a.store = store
	a.config = service.NewConfigService(store, logger)
	a.concepts = service.NewConceptService(store, logger)
	a.users = service.NewUserService(store, logger)
	a.ledger = service.NewLedgerService(store, a.config, logger, service.WithClock(a.now))
	return nil
}

// run opens the database for the duration of fn.
func (a *app) run(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd); err != nil {
			return err
		}
		defer a.store.Close()
		return fn(cmd.Context(), cmd, args)
	}
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{now: time.Now}

	dbDefault := os.Getenv("DB_PATH")
	if dbDefault == "" {
		dbDefault = defaultDBPath
	}

	rootCmd := &cobra.Command{
		Use:   "aguactl",
		Short: "Water committee payment ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", dbDefault, "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newConfigCommand(a),
		newConceptCommand(a),
		newUserCommand(a),
		newPayCommand(a),
		newHistoryCommand(a),
		newMonthsCommand(a),
		newReceiptCommand(a),
		newStatusCommand(a),
	)

	return rootCmd
}
