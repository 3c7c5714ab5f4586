package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

func TestConceptService_CreateTwice(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	before, err := env.concepts.List(ctx, false)
	require.NoError(t, err)

	created, err := env.concepts.Create(ctx, "Multa", decimal.RequireFromString("50.0"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = env.concepts.Create(ctx, "Multa", decimal.RequireFromString("50.0"))
	assert.ErrorIs(t, err, storage.ErrConflict)

	after, err := env.concepts.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
}

func TestConceptService_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.concepts.Create(ctx, "   ", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, storage.ErrValidation)

	_, err = env.concepts.Create(ctx, "Multa", decimal.NewFromInt(-10))
	assert.ErrorIs(t, err, storage.ErrValidation)

	c, err := env.concepts.Create(ctx, "  Limpieza de Tanque ", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "Limpieza de Tanque", c.Name)
}

func TestConceptService_Update(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	c, err := env.concepts.Create(ctx, "Multa", decimal.NewFromInt(50))
	require.NoError(t, err)

	t.Run("empty patch", func(t *testing.T) {
		err := env.concepts.Update(ctx, c.ID, models.ConceptPatch{})
		assert.ErrorIs(t, err, storage.ErrValidation)
	})

	t.Run("blank name", func(t *testing.T) {
		err := env.concepts.Update(ctx, c.ID, models.ConceptPatch{Name: models.Some(" ")})
		assert.ErrorIs(t, err, storage.ErrValidation)
	})

	t.Run("negative price", func(t *testing.T) {
		err := env.concepts.Update(ctx, c.ID, models.ConceptPatch{UnitPrice: models.Some(decimal.NewFromInt(-1))})
		assert.ErrorIs(t, err, storage.ErrValidation)
	})

	t.Run("deactivate leaves other fields", func(t *testing.T) {
		require.NoError(t, env.concepts.Update(ctx, c.ID, models.ConceptPatch{Active: models.Some(false)}))

		got, err := env.concepts.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)
		assert.Equal(t, "Multa", got.Name)
		assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(50)))
	})

	t.Run("rename and reprice", func(t *testing.T) {
		require.NoError(t, env.concepts.Update(ctx, c.ID, models.ConceptPatch{
			Name:      models.Some("Multa General"),
			UnitPrice: models.Some(decimal.NewFromInt(60)),
		}))

		got, err := env.concepts.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Multa General", got.Name)
		assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(60)))
	})

	t.Run("unknown concept", func(t *testing.T) {
		err := env.concepts.Update(ctx, 4242, models.ConceptPatch{Active: models.Some(true)})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestConceptService_ListActiveOnlyIsSortedByName(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	concepts, err := env.concepts.List(ctx, true)
	require.NoError(t, err)
	require.NotEmpty(t, concepts)
	for i := 1; i < len(concepts); i++ {
		assert.LessOrEqual(t, concepts[i-1].Name, concepts[i].Name)
		assert.True(t, concepts[i].Active)
	}
}
