package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comite-agua/ledger/internal/calculator"
	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

func TestRegisterPayment_MonthsAndConcept(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	id, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{
		UserID:        env.user.ID,
		Months:        []int{1, 2, 3},
		Year:          2024,
		ExtraConcepts: []models.ConceptCharge{{Name: "Multa", Price: decimal.RequireFromString("50.0")}},
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	receipt, err := env.ledger.GetReceiptData(ctx, id)
	require.NoError(t, err)
	assert.True(t, receipt.Payment.Total.Equal(decimal.NewFromInt(200)), receipt.Payment.Total.String())

	items := receipt.Payment.Items
	require.Len(t, items, 4)
	assert.Equal(t, "Multa", items[0].Concept)
	assert.Nil(t, items[0].Month)
	for i := 1; i < 4; i++ {
		assert.Equal(t, models.MonthlyDueConcept, items[i].Concept)
		require.NotNil(t, items[i].Month)
		assert.Equal(t, i, *items[i].Month)
		assert.True(t, items[i].UnitPrice.Equal(decimal.NewFromInt(50)))
	}

	months, err := env.ledger.GetPaidMonths(ctx, env.user.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, months)
}

func TestRegisterPayment_TotalMatchesItems(t *testing.T) {
	tests := []struct {
		name     string
		months   []int
		concepts []models.ConceptCharge
		want     string
	}{
		{name: "months only", months: []int{4, 5}, want: "100"},
		{name: "concepts only", concepts: []models.ConceptCharge{
			{Name: "Toma Nueva", Price: decimal.RequireFromString("500")},
			{Name: "Multa por Desperdicio", Price: decimal.RequireFromString("75.25")},
		}, want: "575.25"},
		{name: "both", months: []int{6}, concepts: []models.ConceptCharge{
			{Name: "Reconexión", Price: decimal.RequireFromString("150")},
		}, want: "200"},
		{name: "zero priced concept", concepts: []models.ConceptCharge{
			{Name: "Condonación", Price: decimal.Zero},
		}, want: "0"},
	}

	env := setupTestEnv(t)
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{
				UserID:        env.user.ID,
				Months:        tt.months,
				Year:          2024,
				ExtraConcepts: tt.concepts,
			})
			require.NoError(t, err)

			receipt, err := env.ledger.GetReceiptData(ctx, id)
			require.NoError(t, err)
			assert.True(t, receipt.Payment.Total.Equal(decimal.RequireFromString(tt.want)),
				"total = %s, want %s", receipt.Payment.Total, tt.want)
			assert.True(t, receipt.Payment.Total.Equal(calculator.Total(receipt.Payment.Items)))
			assert.Len(t, receipt.Payment.Items, len(tt.months)+len(tt.concepts))
		})
	}

	history, err := env.ledger.GetHistory(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, history, len(tests))
	for _, p := range history {
		assert.True(t, p.Total.Equal(calculator.Total(p.Items)), "payment %d", p.ID)
	}
}

func TestRegisterPayment_FeeChangeDoesNotRewriteHistory(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	id, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{
		UserID: env.user.ID, Months: []int{1, 2}, Year: 2024,
	})
	require.NoError(t, err)

	require.NoError(t, env.config.SetMonthlyFee(ctx, decimal.NewFromInt(80)))

	receipt, err := env.ledger.GetReceiptData(ctx, id)
	require.NoError(t, err)
	assert.True(t, receipt.Payment.Total.Equal(decimal.NewFromInt(100)))
	for _, item := range receipt.Payment.Items {
		assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(50)))
	}

	// The new fee applies to the very next registration.
	next, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{
		UserID: env.user.ID, Months: []int{3}, Year: 2024,
	})
	require.NoError(t, err)
	receipt, err = env.ledger.GetReceiptData(ctx, next)
	require.NoError(t, err)
	assert.True(t, receipt.Payment.Total.Equal(decimal.NewFromInt(80)))
}

func TestGetReceiptData_RoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	registeredAt := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
	env.ledger.now = func() time.Time { return registeredAt }

	id, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{
		UserID:        env.user.ID,
		Months:        []int{3, 1},
		Year:          2024,
		ExtraConcepts: []models.ConceptCharge{{Name: "Cooperación Anual", Price: decimal.NewFromInt(100)}},
		Notes:         "  pagó en efectivo ",
	})
	require.NoError(t, err)

	receipt, err := env.ledger.GetReceiptData(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, models.UserSnapshot{
		Number:  env.user.Number,
		Name:    "Juan Pérez",
		Address: "Av. Juárez 10",
	}, receipt.User)
	assert.Equal(t, id, receipt.Payment.ID)
	assert.Equal(t, env.user.ID, receipt.Payment.UserID)
	assert.True(t, receipt.Payment.PaidAt.Equal(registeredAt))
	assert.Equal(t, "pagó en efectivo", receipt.Payment.Notes)
	assert.True(t, receipt.Payment.Total.Equal(decimal.NewFromInt(200)))

	items := receipt.Payment.Items
	require.Len(t, items, 3)
	assert.Equal(t, "Cooperación Anual", items[0].Concept)
	assert.Nil(t, items[0].Month)
	assert.Equal(t, 1, *items[1].Month)
	assert.Equal(t, 3, *items[2].Month)

	again, err := env.ledger.GetReceiptData(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, receipt.User, again.User)
	assert.Equal(t, len(receipt.Payment.Items), len(again.Payment.Items))
}

func TestGetReceiptData_NotFound(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.ledger.GetReceiptData(context.Background(), 12345)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRegisterPayment_Rejections(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{
		UserID: env.user.ID, Months: []int{1}, Year: 2024,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     models.PaymentRequest
		wantErr error
	}{
		{
			name:    "empty payment",
			req:     models.PaymentRequest{UserID: env.user.ID, Year: 2024},
			wantErr: storage.ErrValidation,
		},
		{
			name:    "month zero",
			req:     models.PaymentRequest{UserID: env.user.ID, Months: []int{0}, Year: 2024},
			wantErr: storage.ErrValidation,
		},
		{
			name:    "month thirteen",
			req:     models.PaymentRequest{UserID: env.user.ID, Months: []int{13}, Year: 2024},
			wantErr: storage.ErrValidation,
		},
		{
			name:    "month repeated in request",
			req:     models.PaymentRequest{UserID: env.user.ID, Months: []int{2, 2}, Year: 2024},
			wantErr: storage.ErrValidation,
		},
		{
			name:    "year out of range",
			req:     models.PaymentRequest{UserID: env.user.ID, Months: []int{2}, Year: 1999},
			wantErr: storage.ErrValidation,
		},
		{
			name: "blank concept name",
			req: models.PaymentRequest{UserID: env.user.ID, Year: 2024,
				ExtraConcepts: []models.ConceptCharge{{Name: "  ", Price: decimal.NewFromInt(1)}}},
			wantErr: storage.ErrValidation,
		},
		{
			name: "negative concept price",
			req: models.PaymentRequest{UserID: env.user.ID, Year: 2024,
				ExtraConcepts: []models.ConceptCharge{{Name: "Multa", Price: decimal.NewFromInt(-1)}}},
			wantErr: storage.ErrValidation,
		},
		{
			name:    "missing user",
			req:     models.PaymentRequest{Months: []int{2}, Year: 2024},
			wantErr: storage.ErrValidation,
		},
		{
			name:    "unknown user",
			req:     models.PaymentRequest{UserID: 999, Months: []int{2}, Year: 2024},
			wantErr: storage.ErrValidation,
		},
		{
			name:    "month already paid",
			req:     models.PaymentRequest{UserID: env.user.ID, Months: []int{1, 2}, Year: 2024},
			wantErr: storage.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := env.ledger.RegisterPayment(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, id)
		})
	}

	// None of the rejected requests left a trace.
	history, err := env.ledger.GetHistory(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	months, err := env.ledger.GetPaidMonths(ctx, env.user.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, months)
}

func TestRegisterPayment_SameMonthOtherYear(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{UserID: env.user.ID, Months: []int{1}, Year: 2023})
	require.NoError(t, err)
	_, err = env.ledger.RegisterPayment(ctx, models.PaymentRequest{UserID: env.user.ID, Months: []int{1}, Year: 2024})
	require.NoError(t, err)

	other := &models.User{Name: "Ana"}
	require.NoError(t, env.users.Create(ctx, other))
	_, err = env.ledger.RegisterPayment(ctx, models.PaymentRequest{UserID: other.ID, Months: []int{1}, Year: 2024})
	require.NoError(t, err)
}

func TestGetHistory_NewestFirst(t *testing.T) {
	clock := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	env := setupTestEnv(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	var ids []int64
	for m := 1; m <= 3; m++ {
		clock = clock.Add(24 * time.Hour)
		id, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{UserID: env.user.ID, Months: []int{m}, Year: 2024})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	history, err := env.ledger.GetHistory(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, ids[2], history[0].ID)
	assert.Equal(t, ids[1], history[1].ID)
	assert.Equal(t, ids[0], history[2].ID)
	for _, p := range history {
		assert.Equal(t, env.user.Number, p.UserNumber)
		assert.Equal(t, "Juan Pérez", p.UserName)
	}

	empty, err := env.ledger.GetHistory(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetAccountStatus(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{UserID: env.user.ID, Months: []int{1, 2, 3}, Year: 2024})
	require.NoError(t, err)

	asOf := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	status, err := env.ledger.GetAccountStatus(ctx, env.user.ID, 2024, asOf)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, status.PaidMonths)
	assert.Equal(t, []int{4, 5, 6}, status.PendingMonths)
	assert.True(t, status.MonthlyFee.Equal(decimal.NewFromInt(50)))
	assert.True(t, status.AmountDue.Equal(decimal.NewFromInt(150)))

	future, err := env.ledger.GetAccountStatus(ctx, env.user.ID, 2025, asOf)
	require.NoError(t, err)
	assert.Empty(t, future.PendingMonths)
	assert.True(t, future.AmountDue.IsZero())
}

type fakeReceiptCache struct {
	receipts map[int64]*models.Receipt
	gets     int
	puts     int
	failGets bool
}

func (c *fakeReceiptCache) GetReceipt(_ context.Context, id int64) (*models.Receipt, bool, error) {
	c.gets++
	if c.failGets {
		return nil, false, errors.New("cache down")
	}
	r, ok := c.receipts[id]
	return r, ok, nil
}

func (c *fakeReceiptCache) PutReceipt(_ context.Context, r *models.Receipt) error {
	c.puts++
	c.receipts[r.Payment.ID] = r
	return nil
}

func TestGetReceiptData_ReadThroughCache(t *testing.T) {
	cache := &fakeReceiptCache{receipts: map[int64]*models.Receipt{}}
	env := setupTestEnv(t, WithReceiptCache(cache))
	ctx := context.Background()

	id, err := env.ledger.RegisterPayment(ctx, models.PaymentRequest{UserID: env.user.ID, Months: []int{7}, Year: 2024})
	require.NoError(t, err)

	first, err := env.ledger.GetReceiptData(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts)

	second, err := env.ledger.GetReceiptData(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts)
	assert.Same(t, first, second)

	// A failing cache falls back to the store.
	cache.failGets = true
	third, err := env.ledger.GetReceiptData(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, third.Payment.ID)

	// Unknown payments are never cached.
	cache.failGets = false
	_, err = env.ledger.GetReceiptData(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NotContains(t, cache.receipts, int64(999))
}
