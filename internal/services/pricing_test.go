package services

import (
	"math"
	"testing"

	"github.com/diewo77/go-quotations/internal/models"
)

func TestDeriveDependentItemsMarkup(t *testing.T) {
	p := NewPriceAdjuster(DefaultPriceMatcher())
	src := []models.Item{row("a", "price", "100", "qty", "2")}
	src[0].Amount = 200

	got := p.DeriveDependentItems(src, 10)
	if v, _ := got[0].Fields.Get("price"); v != "110.00" {
		t.Fatalf("price = %q, want 110.00", v)
	}
	if got[0].Amount != 220 {
		t.Fatalf("amount = %v, want 220", got[0].Amount)
	}
	if v, _ := src[0].Fields.Get("price"); v != "100" || src[0].Amount != 200 {
		t.Fatalf("source rows mutated: %+v", src[0])
	}
}

func TestDeriveDependentItemsRounding(t *testing.T) {
	p := NewPriceAdjuster(DefaultPriceMatcher())
	src := []models.Item{row("a", "rate", "33.33", "quantity", "3")}
	got := p.DeriveDependentItems(src, 7.5)
	// 33.33 * 1.075 = 35.82975
	if v, _ := got[0].Fields.Get("rate"); v != "35.83" {
		t.Fatalf("rate = %q, want 35.83", v)
	}
	if got[0].Amount != 107.49 {
		t.Fatalf("amount = %v, want 107.49", got[0].Amount)
	}
}

func TestDeriveDependentItemsFractionalQty(t *testing.T) {
	p := NewPriceAdjuster(DefaultPriceMatcher())
	src := []models.Item{
		row("a", "price", "100", "qty", "0.333"),
		row("b", "price", "10.01", "qty", "0.125"),
	}
	got := p.DeriveDependentItems(src, 10)
	if got[0].Amount != 36.63 {
		t.Fatalf("amount = %v, want 36.63", got[0].Amount)
	}
	// 0.125 * 11.01 is kept exact, not rounded to 1.38
	if got[1].Amount != 1.37625 {
		t.Fatalf("amount = %v, want 1.37625", got[1].Amount)
	}
}

func TestDeriveDependentItemsWithoutQtyKeepsAmount(t *testing.T) {
	p := NewPriceAdjuster(DefaultPriceMatcher())
	src := []models.Item{row("a", "price", "50", "qty", "")}
	src[0].Amount = 75
	got := p.DeriveDependentItems(src, 20)
	if v, _ := got[0].Fields.Get("price"); v != "60.00" {
		t.Fatalf("price = %q", v)
	}
	if got[0].Amount != 75 {
		t.Fatalf("amount = %v, want unchanged 75", got[0].Amount)
	}
}

func TestDeriveDependentItemsNonNumericPrice(t *testing.T) {
	p := NewPriceAdjuster(DefaultPriceMatcher())
	src := []models.Item{row("a", "price", "on request", "qty", "2")}
	src[0].Amount = 5
	got := p.DeriveDependentItems(src, 50)
	if v, _ := got[0].Fields.Get("price"); v != "on request" {
		t.Fatalf("price = %q", v)
	}
	if got[0].Amount != 5 {
		t.Fatalf("amount = %v", got[0].Amount)
	}
}

func TestDeriveDependentItemsZeroIsIdentity(t *testing.T) {
	p := NewPriceAdjuster(DefaultPriceMatcher())
	src := []models.Item{
		row("a", "price", "99.999", "qty", "3"),
		row("b", "unit_price", "12", "qty", "1.5"),
		row("c", "note", "x"),
	}
	src[0].Amount = 123.45 // deliberately inconsistent with qty*price
	src[1].Amount = 18
	got := p.DeriveDependentItems(src, 0)
	for i := range src {
		if math.Abs(got[i].Amount-src[i].Amount) > 1e-9 {
			t.Errorf("row %d amount %v != %v", i, got[i].Amount, src[i].Amount)
		}
		for _, fd := range src[i].Fields {
			if v, _ := got[i].Fields.Get(fd.Key); v != fd.Value {
				t.Errorf("row %d field %s = %q, want %q", i, fd.Key, v, fd.Value)
			}
		}
	}
}

func TestDeriveDependentItemsFullDiscount(t *testing.T) {
	p := NewPriceAdjuster(DefaultPriceMatcher())
	src := []models.Item{row("a", "price", "80", "qty", "4")}
	got := p.DeriveDependentItems(src, -100)
	if v, _ := got[0].Fields.Get("price"); v != "0.00" {
		t.Fatalf("price = %q", v)
	}
	if got[0].Amount != 0 {
		t.Fatalf("amount = %v", got[0].Amount)
	}
}

func TestPriceMatcher(t *testing.T) {
	m := DefaultPriceMatcher()
	for _, k := range []string{"price", "Price", "unit_price", "RATE", "rate_inr"} {
		if !m.IsPrice(k) {
			t.Errorf("%q should be price-like", k)
		}
	}
	for _, k := range []string{"qty", "Quantity", "qty_pcs"} {
		if !m.IsQty(k) {
			t.Errorf("%q should be qty-like", k)
		}
	}
	if m.IsPrice("description") || m.IsQty("amount") {
		t.Errorf("false positive")
	}

	strict := PriceMatcher{PriceKeys: []string{"price"}, QtyKeys: []string{"qty"}}
	if strict.IsPrice("unit_price") {
		t.Errorf("strict matcher must not match substrings")
	}
	if !strict.IsPrice("PRICE") {
		t.Errorf("strict matcher is still case-insensitive")
	}
}
