package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comite-agua/ledger/internal/config"
	"github.com/comite-agua/ledger/internal/models"
)

func setupTestCache(t *testing.T) (*ReceiptCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := New(context.Background(), config.Redis{Address: mr.Addr(), ReceiptTTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestReceiptRoundTrip(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	month := 1
	receipt := &models.Receipt{
		Payment: models.Payment{
			ID:     7,
			UserID: 3,
			PaidAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
			Total:  decimal.RequireFromString("100.50"),
			Items: []models.LineItem{
				{ID: 1, PaymentID: 7, Concept: models.MonthlyDueConcept, Month: &month, Year: 2024,
					UnitPrice: decimal.RequireFromString("50"), Quantity: 1},
				{ID: 2, PaymentID: 7, Concept: "Multa", Year: 2024,
					UnitPrice: decimal.RequireFromString("50.50"), Quantity: 1},
			},
		},
		User: models.UserSnapshot{Number: 12, Name: "Juan Pérez", Address: "Calle 1"},
	}

	require.NoError(t, c.PutReceipt(ctx, receipt))
	assert.True(t, mr.Exists("ledger:receipt:7"))
	assert.Equal(t, time.Hour, mr.TTL("ledger:receipt:7"))

	got, ok, err := c.GetReceipt(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, got.Payment.Total.Equal(receipt.Payment.Total))
	assert.Equal(t, receipt.User, got.User)
	require.Len(t, got.Payment.Items, 2)
	require.NotNil(t, got.Payment.Items[0].Month)
	assert.Equal(t, 1, *got.Payment.Items[0].Month)
	assert.Nil(t, got.Payment.Items[1].Month)
	assert.True(t, got.Payment.Items[1].UnitPrice.Equal(decimal.RequireFromString("50.50")))
	assert.True(t, got.Payment.PaidAt.Equal(receipt.Payment.PaidAt))
}

func TestReceiptMiss(t *testing.T) {
	c, _ := setupTestCache(t)

	got, ok, err := c.GetReceipt(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestNewFailsWithoutServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = New(ctx, config.Redis{Address: addr})
	assert.Error(t, err)
}
