// Package models defines the core domain models for the committee ledger.
//
// # Models
//
//   - User: a committee member; owned by the user directory, referenced by the ledger by ID
//   - ConfigEntry: a key/value runtime setting (monthly fee, access PIN)
//   - Concept: a named, priced, activatable additional charge
//   - Payment: an immutable payment header with its line items
//   - LineItem: one detail row of a payment, either a monthly due or a concept charge
//
// # Design Principles
//
// 1. **Append-only ledger**: payments and line items have no update path once created
// 2. **Price snapshots**: a line item carries the unit price in force when it was registered
// 3. **Fixed-point money**: all amounts are decimal.Decimal, never float64
// 4. **Avoid circular references**: relationships use IDs instead of pointers
package models
