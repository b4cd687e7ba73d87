package services

import (
	"testing"

	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/words"
)

func TestRecomputeTaxAndGrandTotal(t *testing.T) {
	c := NewTotalsCalculator(nil)
	items := []models.Item{{Amount: 600}, {Amount: 400}}
	got := c.Recompute(items, 18)
	if got.Subtotal != 1000 || got.TaxAmount != 180 || got.GrandTotal != 1180 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.AmountInWords != "Rupees One Thousand One Hundred Eighty Only" {
		t.Fatalf("words = %q", got.AmountInWords)
	}
}

func TestRecomputeEmpty(t *testing.T) {
	c := NewTotalsCalculator(nil)
	for _, rate := range []float64{0, 5, 18, 28} {
		got := c.Recompute(nil, rate)
		want := models.Totals{AmountInWords: words.ZeroPhrase}
		if got != want {
			t.Fatalf("rate %v: got %+v want %+v", rate, got, want)
		}
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	c := NewTotalsCalculator(nil)
	items := []models.Item{{Amount: 0.1}, {Amount: 0.2}, {Amount: 123.456}}
	a := c.Recompute(items, 12.5)
	b := c.Recompute(items, 12.5)
	if a != b {
		t.Fatalf("not idempotent: %+v vs %+v", a, b)
	}
}

func TestRecomputePassesGrandTotalToFormatter(t *testing.T) {
	var seen float64
	c := NewTotalsCalculator(func(total float64) string {
		seen = total
		return "custom"
	})
	got := c.Recompute([]models.Item{{Amount: 100}}, 10)
	if seen != 110 || got.AmountInWords != "custom" {
		t.Fatalf("formatter saw %v, stored %q", seen, got.AmountInWords)
	}
}
