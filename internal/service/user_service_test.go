package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

func TestUserService_Create(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	assert.Equal(t, int64(1), env.user.Number)
	assert.Equal(t, models.UserActive, env.user.Status)

	second := &models.User{Name: "Ana"}
	require.NoError(t, env.users.Create(ctx, second))
	assert.Equal(t, int64(2), second.Number)

	explicit := &models.User{Name: "Luis", Number: 40}
	require.NoError(t, env.users.Create(ctx, explicit))

	dup := &models.User{Name: "Otro Luis", Number: 40}
	assert.ErrorIs(t, env.users.Create(ctx, dup), storage.ErrConflict)

	assert.ErrorIs(t, env.users.Create(ctx, &models.User{Name: " "}), storage.ErrValidation)
	assert.ErrorIs(t, env.users.Create(ctx, &models.User{Name: "X", Status: "Suspendido"}), storage.ErrValidation)
	assert.ErrorIs(t, env.users.Create(ctx, &models.User{Name: "X", Number: -1}), storage.ErrValidation)

	got, err := env.users.GetByNumber(ctx, 40)
	require.NoError(t, err)
	assert.Equal(t, explicit.ID, got.ID)
}

func TestUserService_SetStatus(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.users.SetStatus(ctx, env.user.ID, models.UserCancelled))
	got, err := env.users.Get(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserCancelled, got.Status)

	assert.ErrorIs(t, env.users.SetStatus(ctx, env.user.ID, "Borrado"), storage.ErrValidation)
	assert.ErrorIs(t, env.users.SetStatus(ctx, 999, models.UserActive), storage.ErrNotFound)
}
