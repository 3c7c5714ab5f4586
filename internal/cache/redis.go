// Package cache provides a Redis-backed cache for receipts.
// Receipts are immutable once written, so entries never need invalidation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comite-agua/ledger/internal/config"
	"github.com/comite-agua/ledger/internal/models"
)

const receiptKeyPrefix = "ledger:receipt:"

// ReceiptCache stores receipts as JSON under ledger:receipt:<payment id>.
type ReceiptCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.Redis) (*ReceiptCache, error) {
	const op = "cache.New"
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ReceiptCache{client: client, ttl: cfg.ReceiptTTL}, nil
}

func receiptKey(paymentID int64) string {
	return receiptKeyPrefix + strconv.FormatInt(paymentID, 10)
}

// GetReceipt returns the cached receipt, or ok == false on a miss.
func (c *ReceiptCache) GetReceipt(ctx context.Context, paymentID int64) (*models.Receipt, bool, error) {
	const op = "cache.GetReceipt"
	val, err := c.client.Get(ctx, receiptKey(paymentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var receipt models.Receipt
	if err := json.Unmarshal(val, &receipt); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &receipt, true, nil
}

// PutReceipt stores a receipt.
func (c *ReceiptCache) PutReceipt(ctx context.Context, receipt *models.Receipt) error {
	const op = "cache.PutReceipt"
	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.client.Set(ctx, receiptKey(receipt.Payment.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close closes the Redis connection pool.
func (c *ReceiptCache) Close() error {
	return c.client.Close()
}
