package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Concept is an additional charge offered by the committee (fines,
// new-connection fees, etc.). Concepts are deactivated, never deleted.
type Concept struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// Optional holds a value that may or may not have been supplied.
// The zero value is absent.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// ConceptPatch describes a partial update of a Concept.
// Only fields with Set == true are written.
type ConceptPatch struct {
	Name      Optional[string]
	UnitPrice Optional[decimal.Decimal]
	Active    Optional[bool]
}

// Empty reports whether the patch carries no fields at all.
func (p ConceptPatch) Empty() bool {
	return !p.Name.Set && !p.UnitPrice.Set && !p.Active.Set
}
