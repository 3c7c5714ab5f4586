package models

import "time"

// UserStatus is the membership state of a committee member.
type UserStatus string

const (
	UserActive    UserStatus = "Activo"
	UserCancelled UserStatus = "Cancelado"
)

// Valid reports whether s is one of the persisted status values.
func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserCancelled
}

// User represents a committee member.
//
// The ledger only relies on ID (foreign key of every payment) and on the
// Number/Name/Address snapshot printed on receipts. Everything else belongs
// to the user directory.
type User struct {
	// ID is the storage-assigned identifier.
	ID int64 `json:"id"`

	// Number is the member number printed on receipts. Unique and immutable.
	Number int64 `json:"number"`

	// Name is the member's full name.
	Name string `json:"name"`

	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`

	// Status defaults to UserActive.
	Status UserStatus `json:"status"`

	// RegisteredAt is when the member was added to the directory.
	RegisteredAt time.Time `json:"registered_at"`
}
