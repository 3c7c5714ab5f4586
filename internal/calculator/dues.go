package calculator

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingMonths returns the months of year that are due by asOf and not in paid.
//
// A past year has all twelve months due, the current year has every month up
// to and including asOf's month, and a future year has none.
func PendingMonths(paid []int, year int, asOf time.Time) []int {
	var last int
	switch {
	case year < asOf.Year():
		last = 12
	case year == asOf.Year():
		last = int(asOf.Month())
	default:
		last = 0
	}

	paidSet := make(map[int]bool, len(paid))
	for _, m := range paid {
		paidSet[m] = true
	}

	pending := []int{}
	for m := 1; m <= last; m++ {
		if !paidSet[m] {
			pending = append(pending, m)
		}
	}
	return pending
}

// OutstandingDues prices the pending months of year at the given fee.
func OutstandingDues(paid []int, year int, asOf time.Time, fee decimal.Decimal) ([]int, decimal.Decimal) {
	pending := PendingMonths(paid, year, asOf)
	return pending, fee.Mul(decimal.NewFromInt(int64(len(pending))))
}
