package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/comite-agua/ledger/internal/auth"
)

// AuthService exchanges the access PIN for a session token.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Login verifies the PIN and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, pin string) (string, error) {
	if pin == "" {
		return "", auth.ErrInvalidCredentials
	}

	if err := s.authenticator.Authenticate(ctx, pin); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Login failed", "error", err)
		} else {
			s.logger.Error("Login failed", "error", err)
		}
		return "", err
	}

	token, sessionID, err := s.jwtManager.Generate()
	if err != nil {
		s.logger.Error("Failed to generate token", "error", err)
		return "", err
	}

	s.logger.Info("Operator logged in", "session_id", sessionID)
	return token, nil
}
