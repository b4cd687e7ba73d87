package syncengine

import (
	"fmt"

	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/override"
	"github.com/diewo77/go-quotations/internal/services"
)

// Dependent is a quotation that follows the source unless overridden.
type Dependent struct {
	Quotation         models.Quotation `json:"quotation"`
	AdjustmentPercent float64          `json:"adjustment_percent"`
}

// State is the whole entity graph of one bulk-quotation session. Engine.Apply
// treats it as a value: the input is never modified and a new State is
// returned.
type State struct {
	Source     models.Quotation  `json:"source"`
	Dependents []Dependent       `json:"dependents"`
	Overrides  *override.Tracker `json:"overrides"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := State{
		Source:     s.Source.Clone(),
		Dependents: make([]Dependent, len(s.Dependents)),
	}
	for i, d := range s.Dependents {
		c.Dependents[i] = Dependent{Quotation: d.Quotation.Clone(), AdjustmentPercent: d.AdjustmentPercent}
	}
	if s.Overrides != nil {
		c.Overrides = s.Overrides.Clone()
	} else {
		c.Overrides = override.NewTracker(c.DependentIDs()...)
	}
	return c
}

// DependentIDs lists dependents in configuration order.
func (s State) DependentIDs() []models.EntityID {
	ids := make([]models.EntityID, len(s.Dependents))
	for i, d := range s.Dependents {
		ids[i] = d.Quotation.ID
	}
	return ids
}

// Entity returns the quotation with the given id, source or dependent.
func (s State) Entity(id models.EntityID) (models.Quotation, bool) {
	if s.Source.ID == id {
		return s.Source, true
	}
	if i := s.dependentIndex(id); i >= 0 {
		return s.Dependents[i].Quotation, true
	}
	return models.Quotation{}, false
}

// Quotations returns the source followed by every dependent.
func (s State) Quotations() []models.Quotation {
	out := make([]models.Quotation, 0, 1+len(s.Dependents))
	out = append(out, s.Source)
	for _, d := range s.Dependents {
		out = append(out, d.Quotation)
	}
	return out
}

func (s State) dependentIndex(id models.EntityID) int {
	for i, d := range s.Dependents {
		if d.Quotation.ID == id {
			return i
		}
	}
	return -1
}

// Participant configures one dependent company.
type Participant struct {
	Company           models.Company
	AdjustmentPercent float64
}

// Setup configures a new session. The set of dependents is fixed for the
// lifetime of the session.
type Setup struct {
	Source     models.Company
	Dependents []Participant
	TaxRate    float64
	Number     string
	Date       string
	Columns    []models.Column
	Customer   map[string]string
}

// NewState builds the initial entity graph with every dependent synced to
// the source and all totals computed.
func (e *Engine) NewState(s Setup) (State, error) {
	if s.Source.ID == "" {
		return State{}, fmt.Errorf("source company id is required")
	}
	seen := map[models.EntityID]bool{s.Source.ID: true}
	for _, p := range s.Dependents {
		if p.Company.ID == "" {
			return State{}, fmt.Errorf("dependent company id is required")
		}
		if seen[p.Company.ID] {
			return State{}, fmt.Errorf("duplicate company id %q", p.Company.ID)
		}
		if p.AdjustmentPercent < e.minAdjustment || p.AdjustmentPercent > e.maxAdjustment {
			return State{}, fmt.Errorf("adjustment for %q out of range: %v", p.Company.ID, p.AdjustmentPercent)
		}
		seen[p.Company.ID] = true
	}
	columns := s.Columns
	if len(columns) == 0 {
		columns = models.DefaultColumns()
	}
	if v := services.ValidateSchema(columns); !v.Empty() {
		return State{}, fmt.Errorf("invalid item columns: %v", v)
	}

	newQuotation := func(c models.Company) models.Quotation {
		q := models.Quotation{
			ID:       c.ID,
			Company:  c,
			Number:   c.NumberPrefix + s.Number,
			Date:     s.Date,
			Customer: map[string]string{},
			TaxRate:  s.TaxRate,
			Columns:  append([]models.Column(nil), columns...),
			Items:    []models.Item{},
		}
		for k, v := range s.Customer {
			q.Customer[k] = v
		}
		e.totals.Apply(&q)
		return q
	}

	st := State{Source: newQuotation(s.Source)}
	for _, p := range s.Dependents {
		st.Dependents = append(st.Dependents, Dependent{
			Quotation:         newQuotation(p.Company),
			AdjustmentPercent: p.AdjustmentPercent,
		})
	}
	st.Overrides = override.NewTracker(st.DependentIDs()...)
	return st, nil
}
