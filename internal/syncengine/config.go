package syncengine

import (
	"github.com/diewo77/go-quotations/internal/config"
	"github.com/diewo77/go-quotations/internal/services"
)

// Options returns the engine options described by cfg.
func Options(cfg config.QuotationConfig) []Option {
	return []Option{
		WithAdjustmentBounds(cfg.MinAdjustment, cfg.MaxAdjustment),
		WithPriceMatcher(services.PriceMatcher{
			PriceKeys: cfg.PriceKeys,
			QtyKeys:   cfg.QtyKeys,
			Substring: cfg.SubstringMatch,
		}),
	}
}

// SetupFrom builds a session setup from the configured companies.
func SetupFrom(cfg config.QuotationConfig, number, date string) Setup {
	s := Setup{
		Source:  cfg.Source,
		TaxRate: cfg.TaxRate,
		Number:  number,
		Date:    date,
	}
	for _, d := range cfg.Dependents {
		s.Dependents = append(s.Dependents, Participant{Company: d.Company, AdjustmentPercent: d.AdjustmentPercent})
	}
	return s
}
