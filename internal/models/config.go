package models

import "time"

// Configuration keys read by the ledger.
const (
	KeyMonthlyFee = "cuota_mensual"
	KeyAccessPin  = "pin_acceso"
)

// ConfigEntry is one runtime setting stored in the database.
type ConfigEntry struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	ModifiedAt  time.Time `json:"modified_at"`
}
