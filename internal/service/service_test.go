package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage/sqlite"
)

type testEnv struct {
	store    *sqlite.SQLiteStore
	config   *ConfigService
	concepts *ConceptService
	users    *UserService
	ledger   *LedgerService
	user     *models.User
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestEnv opens a fresh seeded database with one registered member.
func setupTestEnv(t *testing.T, opts ...LedgerOption) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := testLogger()
	env := &testEnv{
		store:    store,
		config:   NewConfigService(store, logger),
		concepts: NewConceptService(store, logger),
		users:    NewUserService(store, logger),
	}
	env.ledger = NewLedgerService(store, env.config, logger, opts...)

	env.user = &models.User{Name: "Juan Pérez", Address: "Av. Juárez 10"}
	require.NoError(t, env.users.Create(context.Background(), env.user))
	return env
}
