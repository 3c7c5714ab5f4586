package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

// PIN length bounds enforced by SetPin.
const (
	PinMinLength = 4
	PinMaxLength = 8
)

// FallbackMonthlyFee is charged when cuota_mensual is missing or unreadable,
// so billing keeps working if configuration seeding failed.
var FallbackMonthlyFee = decimal.NewFromInt(50)

// ConfigService is the configuration store: key/value runtime settings.
type ConfigService struct {
	store  storage.ConfigStore
	logger *slog.Logger
	now    func() time.Time
}

// NewConfigService creates a new ConfigService with the given storage backend.
func NewConfigService(store storage.ConfigStore, logger *slog.Logger) *ConfigService {
	return &ConfigService{store: store, logger: logger, now: time.Now}
}

// Get returns the value stored under key. A missing key reports ok == false
// and no error; the caller picks the fallback.
func (s *ConfigService) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := s.store.GetConfig(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// List returns every setting ordered by key.
func (s *ConfigService) List(ctx context.Context) ([]models.ConfigEntry, error) {
	return s.store.ListConfig(ctx)
}

// Set updates an existing setting. Unknown keys return ErrNotFound; Set never inserts.
// Values for the fee and PIN keys are validated before any write.
func (s *ConfigService) Set(ctx context.Context, key, value string) error {
	if err := validateSetting(key, value); err != nil {
		return err
	}
	if err := s.store.SetConfig(ctx, key, value, s.now()); err != nil {
		s.logger.Warn("Setting update failed", "key", key, "error", err)
		return err
	}
	s.logger.Info("Setting updated", "key", key)
	return nil
}

// VerifyPin compares candidate with the stored access PIN.
//
// This is a plain string equality check: no hashing, no attempt limiting.
func (s *ConfigService) VerifyPin(ctx context.Context, candidate string) (bool, error) {
	pin, ok, err := s.Get(ctx, models.KeyAccessPin)
	if err != nil {
		return false, err
	}
	return ok && pin == candidate, nil
}

// SetPin validates and stores a new access PIN.
func (s *ConfigService) SetPin(ctx context.Context, pin string) error {
	return s.Set(ctx, models.KeyAccessPin, pin)
}

func validateSetting(key, value string) error {
	switch key {
	case models.KeyAccessPin:
		return ValidatePin(value)
	case models.KeyMonthlyFee:
		fee, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("%w: monthly fee %q is not a number", storage.ErrValidation, value)
		}
		if !fee.IsPositive() {
			return fmt.Errorf("%w: monthly fee must be positive", storage.ErrValidation)
		}
	}
	return nil
}

// ValidatePin checks the PIN is all digits and within the length bounds.
func ValidatePin(pin string) error {
	if len(pin) < PinMinLength || len(pin) > PinMaxLength {
		return fmt.Errorf("%w: PIN must have between %d and %d digits",
			storage.ErrValidation, PinMinLength, PinMaxLength)
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: PIN must contain digits only", storage.ErrValidation)
		}
	}
	return nil
}

// MonthlyFee reads the current monthly fee. It is never cached: a change
// applies to the very next registration.
func (s *ConfigService) MonthlyFee(ctx context.Context) (decimal.Decimal, error) {
	value, ok, err := s.Get(ctx, models.KeyMonthlyFee)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !ok {
		s.logger.Warn("Monthly fee not configured, using fallback", "fallback", FallbackMonthlyFee.String())
		return FallbackMonthlyFee, nil
	}
	fee, err := decimal.NewFromString(value)
	if err != nil || !fee.IsPositive() {
		s.logger.Warn("Monthly fee unreadable, using fallback",
			"value", value, "fallback", FallbackMonthlyFee.String())
		return FallbackMonthlyFee, nil
	}
	return fee, nil
}

// SetMonthlyFee validates and stores a new monthly fee.
func (s *ConfigService) SetMonthlyFee(ctx context.Context, fee decimal.Decimal) error {
	return s.Set(ctx, models.KeyMonthlyFee, fee.String())
}
