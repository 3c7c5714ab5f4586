package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyDueConcept is the concept label of every monthly-due line item.
const MonthlyDueConcept = "Mensualidad"

// Payment is an immutable ledger record: a header plus its line items.
//
// Total always equals the sum of UnitPrice × Quantity over Items. It is
// computed once, at registration, and never recomputed.
type Payment struct {
	// ID is assigned by the store on creation.
	ID int64 `json:"id"`

	// UserID references the paying member.
	UserID int64 `json:"user_id"`

	// UserNumber and UserName are joined from the member directory on read.
	UserNumber int64  `json:"user_number,omitempty"`
	UserName   string `json:"user_name,omitempty"`

	// PaidAt is the registration timestamp.
	PaidAt time.Time `json:"paid_at"`

	Total decimal.Decimal `json:"total"`

	// Notes is an optional free-text remark.
	Notes string `json:"notes,omitempty"`

	// Items are ordered by (month, concept); concept charges have no month and come first.
	Items []LineItem `json:"items"`
}

// LineItem is one row of a payment's detail.
type LineItem struct {
	ID        int64 `json:"id"`
	PaymentID int64 `json:"payment_id"`

	// Concept is MonthlyDueConcept for monthly dues, the charge name otherwise.
	Concept string `json:"concept"`

	// Month is 1-12 for a monthly due and nil for an ad-hoc concept charge.
	Month *int `json:"month"`

	Year int `json:"year"`

	// UnitPrice is the price snapshot taken at registration time.
	UnitPrice decimal.Decimal `json:"unit_price"`

	Quantity int `json:"quantity"`
}

// IsMonthlyDue reports whether the item pays a specific month.
func (li LineItem) IsMonthlyDue() bool {
	return li.Month != nil
}

// Amount returns UnitPrice × Quantity.
func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ConceptCharge is an extra charge supplied by the caller of RegisterPayment.
type ConceptCharge struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

// PaymentRequest is the caller's intent: which months of which year a member
// pays, plus any extra charges.
type PaymentRequest struct {
	UserID        int64           `json:"user_id" validate:"required,gt=0"`
	Months        []int           `json:"months" validate:"dive,min=1,max=12"`
	Year          int             `json:"year" validate:"required,min=2000,max=2100"`
	ExtraConcepts []ConceptCharge `json:"extra_concepts" validate:"dive"`
	Notes         string          `json:"notes"`
}

// UserSnapshot holds the member fields printed on a receipt.
type UserSnapshot struct {
	Number  int64  `json:"number"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Receipt is everything a receipt renderer needs for one payment.
type Receipt struct {
	Payment Payment      `json:"payment"`
	User    UserSnapshot `json:"user"`
}

// AccountStatus summarizes a member's dues for one year.
type AccountStatus struct {
	UserID        int64           `json:"user_id"`
	Year          int             `json:"year"`
	PaidMonths    []int           `json:"paid_months"`
	PendingMonths []int           `json:"pending_months"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	AmountDue     decimal.Decimal `json:"amount_due"`
}
