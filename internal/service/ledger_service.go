package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/comite-agua/ledger/internal/calculator"
	"github.com/comite-agua/ledger/internal/metrics"
	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

// Accepted range for a payment's year.
const (
	MinYear = 2000
	MaxYear = 2100
)

// ReceiptCache holds receipts, which never change once written.
type ReceiptCache interface {
	GetReceipt(ctx context.Context, paymentID int64) (*models.Receipt, bool, error)
	PutReceipt(ctx context.Context, receipt *models.Receipt) error
}

// LedgerService registers payments and answers billing queries.
type LedgerService struct {
	store  storage.LedgerStore
	config *ConfigService
	cache  ReceiptCache
	logger *slog.Logger
	now    func() time.Time
}

// LedgerOption configures a LedgerService.
type LedgerOption func(*LedgerService)

// WithReceiptCache serves GetReceiptData through cache.
func WithReceiptCache(cache ReceiptCache) LedgerOption {
	return func(s *LedgerService) {
		s.cache = cache
	}
}

// WithClock overrides the registration clock.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store storage.LedgerStore, config *ConfigService, logger *slog.Logger, opts ...LedgerOption) *LedgerService {
	s := &LedgerService{
		store:  store,
		config: config,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPaidMonths returns the distinct months (ascending) with a monthly due
// for the user and year.
func (s *LedgerService) GetPaidMonths(ctx context.Context, userID int64, year int) ([]int, error) {
	return s.store.PaidMonths(ctx, userID, year)
}

// RegisterPayment records a payment for req and returns its ID.
//
// The monthly fee is read fresh, snapshotted into every monthly-due item,
// and the header plus all items are written in one transaction. On any error
// nothing is stored.
func (s *LedgerService) RegisterPayment(ctx context.Context, req models.PaymentRequest) (int64, error) {
	if err := validatePaymentRequest(req); err != nil {
		metrics.ObservePaymentFailure("validation")
		s.logger.Warn("RegisterPayment rejected", "user_id", req.UserID, "error", err)
		return 0, err
	}

	fee, err := s.config.MonthlyFee(ctx)
	if err != nil {
		metrics.ObservePaymentFailure("config")
		return 0, fmt.Errorf("%w: failed to read monthly fee: %w", storage.ErrTransactionFailed, err)
	}

	items, total := calculator.BuildPayment(req.Months, req.Year, fee, req.ExtraConcepts)
	payment := &models.Payment{
		UserID: req.UserID,
		PaidAt: s.now(),
		Total:  total,
		Notes:  strings.TrimSpace(req.Notes),
		Items:  items,
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		metrics.ObservePaymentFailure(failureReason(err))
		s.logger.Error("RegisterPayment failed",
			"user_id", req.UserID,
			"year", req.Year,
			"months", req.Months,
			"error", err,
		)
		return 0, err
	}

	metrics.ObservePayment(total, len(req.Months), len(req.ExtraConcepts))
	s.logger.Info("Payment registered",
		"payment_id", payment.ID,
		"user_id", req.UserID,
		"year", req.Year,
		"months", req.Months,
		"concepts", len(req.ExtraConcepts),
		"fee", fee.String(),
		"total", total.String(),
	)
	return payment.ID, nil
}

// GetHistory returns the user's payments newest first, each with its items
// ordered by month then concept, and the member's number and name.
func (s *LedgerService) GetHistory(ctx context.Context, userID int64) ([]models.Payment, error) {
	return s.store.ListPayments(ctx, userID)
}

// GetReceiptData returns the payment, member snapshot and ordered items of
// one payment. An unknown ID returns ErrNotFound.
func (s *LedgerService) GetReceiptData(ctx context.Context, paymentID int64) (*models.Receipt, error) {
	if s.cache != nil {
		receipt, ok, err := s.cache.GetReceipt(ctx, paymentID)
		if err != nil {
			s.logger.Warn("Receipt cache read failed", "payment_id", paymentID, "error", err)
		} else if ok {
			return receipt, nil
		}
	}

	receipt, err := s.store.GetReceipt(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.PutReceipt(ctx, receipt); err != nil {
			s.logger.Warn("Receipt cache write failed", "payment_id", paymentID, "error", err)
		}
	}
	return receipt, nil
}

// GetAccountStatus reports paid and pending months of year as of asOf, and
// what the pending months cost at the current fee.
func (s *LedgerService) GetAccountStatus(ctx context.Context, userID int64, year int, asOf time.Time) (*models.AccountStatus, error) {
	paid, err := s.store.PaidMonths(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	fee, err := s.config.MonthlyFee(ctx)
	if err != nil {
		return nil, err
	}

	pending, due := calculator.OutstandingDues(paid, year, asOf, fee)
	return &models.AccountStatus{
		UserID:        userID,
		Year:          year,
		PaidMonths:    paid,
		PendingMonths: pending,
		MonthlyFee:    fee,
		AmountDue:     due,
	}, nil
}

// validatePaymentRequest rejects requests before anything is written.
// A payment with neither months nor concepts is invalid.
func validatePaymentRequest(req models.PaymentRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id is required", storage.ErrValidation)
	}
	if req.Year < MinYear || req.Year > MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", storage.ErrValidation, req.Year, MinYear, MaxYear)
	}
	if len(req.Months) == 0 && len(req.ExtraConcepts) == 0 {
		return fmt.Errorf("%w: payment has no months and no concepts", storage.ErrValidation)
	}

	seen := make(map[int]bool, len(req.Months))
	for _, m := range req.Months {
		if m < 1 || m > 12 {
			return fmt.Errorf("%w: month %d outside 1-12", storage.ErrValidation, m)
		}
		if seen[m] {
			return fmt.Errorf("%w: month %d listed twice", storage.ErrValidation, m)
		}
		seen[m] = true
	}

	for _, c := range req.ExtraConcepts {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: concept name is required", storage.ErrValidation)
		}
		if c.Price.IsNegative() {
			return fmt.Errorf("%w: concept %q has a negative price", storage.ErrValidation, c.Name)
		}
	}
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, storage.ErrConflict):
		return "conflict"
	case errors.Is(err, storage.ErrValidation):
		return "validation"
	default:
		return "transaction"
	}
}
