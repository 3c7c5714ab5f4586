package auth

import (
	"context"
	"errors"
)

var ErrInvalidCredentials = errors.New("invalid PIN")

// PinVerifier checks a candidate access PIN.
type PinVerifier interface {
	VerifyPin(ctx context.Context, candidate string) (bool, error)
}

// Authenticator defines the interface for authentication implementations.
// Today the only credential is the committee's shared access PIN.
type Authenticator interface {
	// Authenticate returns nil if credential is accepted and
	// ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, credential string) error
}

// PinAuthenticator accepts the committee's access PIN.
type PinAuthenticator struct {
	verifier PinVerifier
}

// NewPinAuthenticator creates a PIN-based authenticator.
func NewPinAuthenticator(verifier PinVerifier) *PinAuthenticator {
	return &PinAuthenticator{verifier: verifier}
}

// Authenticate verifies the PIN.
func (a *PinAuthenticator) Authenticate(ctx context.Context, credential string) error {
	ok, err := a.verifier.VerifyPin(ctx, credential)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}
