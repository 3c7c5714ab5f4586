// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/comite-agua/ledger/internal/models"
)

// ConfigStore persists runtime settings.
type ConfigStore interface {
	// GetConfig returns the entry for key, or ErrNotFound.
	GetConfig(ctx context.Context, key string) (*models.ConfigEntry, error)

	// ListConfig returns all entries ordered by key.
	ListConfig(ctx context.Context) ([]models.ConfigEntry, error)

	// SetConfig updates an existing entry. It never inserts; a missing key
	// returns ErrNotFound.
	SetConfig(ctx context.Context, key, value string, modifiedAt time.Time) error
}

// ConceptStore persists the catalog of additional charges.
type ConceptStore interface {
	// ListConcepts returns concepts ordered by name.
	ListConcepts(ctx context.Context, activeOnly bool) ([]models.Concept, error)

	// GetConcept returns the concept with the given ID, or ErrNotFound.
	GetConcept(ctx context.Context, id int64) (*models.Concept, error)

	// CreateConcept inserts a concept and populates its ID and CreatedAt.
	// A duplicate name returns ErrConflict.
	CreateConcept(ctx context.Context, concept *models.Concept) error

	// UpdateConcept applies the set fields of patch.
	UpdateConcept(ctx context.Context, id int64, patch models.ConceptPatch) error
}

// UserStore is the slice of the user directory the ledger depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByNumber(ctx context.Context, number int64) (*models.User, error)
	NextUserNumber(ctx context.Context) (int64, error)
	SetUserStatus(ctx context.Context, id int64, status models.UserStatus) error
}

// LedgerStore persists payments. There is deliberately no update or delete.
type LedgerStore interface {
	// CreatePayment writes the header and every line item in one transaction
	// and populates the assigned IDs. Either all rows are stored or none.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// PaidMonths returns the distinct months with a monthly due for the user
	// and year, ascending.
	PaidMonths(ctx context.Context, userID int64, year int) ([]int, error)

	// ListPayments returns a user's payments, newest first, with line items.
	ListPayments(ctx context.Context, userID int64) ([]models.Payment, error)

	// GetReceipt returns a payment joined with its member snapshot, or ErrNotFound.
	GetReceipt(ctx context.Context, paymentID int64) (*models.Receipt, error)
}

// Store groups every storage capability behind one explicitly opened handle.
type Store interface {
	ConfigStore
	ConceptStore
	UserStore
	LedgerStore

	// Close releases any resources held by the store.
	Close() error
}
