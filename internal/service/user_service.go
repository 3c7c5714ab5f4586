package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

// UserService is the minimal user directory the ledger needs: it supplies
// the user IDs that payments reference.
type UserService struct {
	store  storage.UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.UserStore, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// Create registers a member. A zero Number takes the next free member number.
func (s *UserService) Create(ctx context.Context, user *models.User) error {
	user.Name = strings.TrimSpace(user.Name)
	if user.Name == "" {
		return fmt.Errorf("%w: user name is required", storage.ErrValidation)
	}
	if user.Status != "" && !user.Status.Valid() {
		return fmt.Errorf("%w: invalid user status %q", storage.ErrValidation, user.Status)
	}
	if user.Number < 0 {
		return fmt.Errorf("%w: user number must be positive", storage.ErrValidation)
	}
	if user.Number == 0 {
		next, err := s.store.NextUserNumber(ctx)
		if err != nil {
			return err
		}
		user.Number = next
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		s.logger.Warn("CreateUser failed", "number", user.Number, "error", err)
		return err
	}
	s.logger.Info("User created", "user_id", user.ID, "number", user.Number)
	return nil
}

// Get returns a member by ID or ErrNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetByNumber returns a member by member number or ErrNotFound.
func (s *UserService) GetByNumber(ctx context.Context, number int64) (*models.User, error) {
	return s.store.GetUserByNumber(ctx, number)
}

// SetStatus activates or cancels a member.
func (s *UserService) SetStatus(ctx context.Context, id int64, status models.UserStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid user status %q", storage.ErrValidation, status)
	}
	return s.store.SetUserStatus(ctx, id, status)
}
