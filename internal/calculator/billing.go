package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/comite-agua/ledger/internal/models"
)

// BuildPayment computes the line items and total for a payment.
//
// Every month becomes a monthly-due item priced at fee; every extra concept
// becomes an item with no month priced at its own price. Prices are copied
// into the items, so later changes to the fee or catalog never reach them.
//
//	total = len(months) × fee + Σ extra.Price
func BuildPayment(months []int, year int, fee decimal.Decimal, extras []models.ConceptCharge) ([]models.LineItem, decimal.Decimal) {
	items := make([]models.LineItem, 0, len(months)+len(extras))

	for _, month := range months {
		m := month
		items = append(items, models.LineItem{
			Concept:   models.MonthlyDueConcept,
			Month:     &m,
			Year:      year,
			UnitPrice: fee,
			Quantity:  1,
		})
	}

	for _, extra := range extras {
		items = append(items, models.LineItem{
			Concept:   extra.Name,
			Year:      year,
			UnitPrice: extra.Price,
			Quantity:  1,
		})
	}

	return items, Total(items)
}

// Total sums UnitPrice × Quantity over items.
func Total(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount())
	}
	return total
}
