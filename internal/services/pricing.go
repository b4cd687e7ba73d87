package services

import (
	"strings"

	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/numeric"
	"github.com/shopspring/decimal"
)

// PriceMatcher decides which dynamic columns hold a unit price and a
// quantity. Names are compared case-insensitively; with Substring set a
// key matches when it contains any synonym ("unit_price" matches "price").
type PriceMatcher struct {
	PriceKeys []string
	QtyKeys   []string
	Substring bool
}

// DefaultPriceMatcher mirrors the historical column naming conventions.
func DefaultPriceMatcher() PriceMatcher {
	return PriceMatcher{
		PriceKeys: []string{"price", "rate"},
		QtyKeys:   []string{"qty", "quantity"},
		Substring: true,
	}
}

// IsPrice reports whether key names a price-like column.
func (m PriceMatcher) IsPrice(key string) bool { return m.match(key, m.PriceKeys) }

// IsQty reports whether key names a quantity-like column.
func (m PriceMatcher) IsQty(key string) bool { return m.match(key, m.QtyKeys) }

func (m PriceMatcher) match(key string, synonyms []string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return false
	}
	for _, s := range synonyms {
		s = strings.ToLower(s)
		if k == s || (m.Substring && strings.Contains(k, s)) {
			return true
		}
	}
	return false
}

// PriceAdjuster derives a dependent company's rows from the source rows by
// marking up unit prices.
type PriceAdjuster struct {
	Matcher PriceMatcher
}

// NewPriceAdjuster returns an adjuster using m.
func NewPriceAdjuster(m PriceMatcher) *PriceAdjuster {
	return &PriceAdjuster{Matcher: m}
}

// DeriveDependentItems copies every source row. When a price-like field
// parses as a number it is multiplied by (1 + percent/100) and stored with
// two decimals; when a qty-like field parses too, amount becomes
// qty * adjusted price. Otherwise amount is copied unchanged.
// A zero percent returns plain copies.
func (p *PriceAdjuster) DeriveDependentItems(source []models.Item, percent float64) []models.Item {
	out := models.CloneItems(source)
	if out == nil {
		out = []models.Item{}
	}
	if percent == 0 {
		return out
	}
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100)))
	for i := range out {
		out[i] = p.adjust(out[i], factor)
	}
	return out
}

func (p *PriceAdjuster) adjust(it models.Item, factor decimal.Decimal) models.Item {
	priceKey, price, ok := p.first(it.Fields, p.Matcher.IsPrice)
	if !ok {
		return it
	}
	adjusted := decimal.NewFromFloat(price).Mul(factor).Round(2)
	it.Fields = it.Fields.Set(priceKey, adjusted.StringFixed(2))

	if _, qty, ok := p.first(it.Fields, p.Matcher.IsQty); ok {
		it.Amount = decimal.NewFromFloat(qty).Mul(adjusted).InexactFloat64()
	}
	return it
}

// first returns the first field accepted by match whose value is numeric.
func (p *PriceAdjuster) first(fields models.Fields, match func(string) bool) (string, float64, bool) {
	for _, fd := range fields {
		if !match(fd.Key) {
			continue
		}
		if f, ok := numeric.Parse(fd.Value); ok {
			return fd.Key, f, true
		}
	}
	return "", 0, false
}
