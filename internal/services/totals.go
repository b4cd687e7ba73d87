package services

import (
	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/words"
)

// WordFormatter spells a grand total for display.
type WordFormatter func(total float64) string

// TotalsCalculator derives a quotation's totals from its items and tax rate.
type TotalsCalculator struct {
	words WordFormatter
}

// NewTotalsCalculator returns a calculator using wf, or the Indian rupee
// formatter when wf is nil.
func NewTotalsCalculator(wf WordFormatter) *TotalsCalculator {
	if wf == nil {
		wf = words.AmountInWords
	}
	return &TotalsCalculator{words: wf}
}

// Recompute sums item amounts in sequence order and applies taxRate (percent).
// The result depends only on (items, taxRate).
func (c *TotalsCalculator) Recompute(items []models.Item, taxRate float64) models.Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Amount
	}
	tax := subtotal * taxRate / 100
	grand := subtotal + tax
	return models.Totals{
		Subtotal:      subtotal,
		TaxAmount:     tax,
		GrandTotal:    grand,
		AmountInWords: c.words(grand),
	}
}

// Apply recomputes q's totals in place.
func (c *TotalsCalculator) Apply(q *models.Quotation) {
	q.Totals = c.Recompute(q.Items, q.TaxRate)
}
