// Package syncengine keeps one source quotation and its dependent company
// quotations consistent. Edits arrive as events; Engine.Apply computes the
// complete next state, including every cascaded derivation and totals
// recomputation, in one synchronous pass.
package syncengine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/services"
	"github.com/diewo77/go-quotations/validation"
)

// ErrUnknownEntity is returned when an event names a company that is not
// part of the session. It signals a caller bug, not a user error.
var ErrUnknownEntity = errors.New("unknown entity")

// Default bounds of a dependent's adjustment percent.
const (
	DefaultMinAdjustment = -100
	DefaultMaxAdjustment = 1000
)

func unknownEntity(id models.EntityID) error {
	return fmt.Errorf("%w: %q", ErrUnknownEntity, id)
}

// Engine applies events to a State. It holds configuration only and is safe
// for concurrent use; the State values it returns are owned by the caller.
type Engine struct {
	totals        *services.TotalsCalculator
	prices        *services.PriceAdjuster
	minAdjustment float64
	maxAdjustment float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithWordFormatter replaces the amount-in-words collaborator.
func WithWordFormatter(wf services.WordFormatter) Option {
	return func(e *Engine) { e.totals = services.NewTotalsCalculator(wf) }
}

// WithPriceMatcher replaces the price/qty column heuristic.
func WithPriceMatcher(m services.PriceMatcher) Option {
	return func(e *Engine) { e.prices = services.NewPriceAdjuster(m) }
}

// WithAdjustmentBounds sets the accepted adjustment percent range.
func WithAdjustmentBounds(minPct, maxPct float64) Option {
	return func(e *Engine) {
		e.minAdjustment, e.maxAdjustment = minPct, maxPct
	}
}

// New returns an engine with the Indian rupee word formatter, the default
// price matcher and default adjustment bounds unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		totals:        services.NewTotalsCalculator(nil),
		prices:        services.NewPriceAdjuster(services.DefaultPriceMatcher()),
		minAdjustment: DefaultMinAdjustment,
		maxAdjustment: DefaultMaxAdjustment,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one Apply call.
type Result struct {
	// State is the next state, or the unchanged input when the event was
	// rejected.
	State State
	// Updated lists the quotations the event changed, source first.
	Updated []models.EntityID
	// Violations is non-empty when the event was rejected as invalid input.
	Violations validation.Violations
}

// Accepted reports whether the event was applied.
func (r Result) Accepted() bool { return r.Violations.Empty() }

// Apply applies ev to st and returns the next state. st itself is never
// modified. Invalid input (duplicate column, out of range percent or rate)
// is reported through Result.Violations with the state unchanged; an event
// naming an unknown company returns an error wrapping ErrUnknownEntity.
func (e *Engine) Apply(st State, ev Event) (Result, error) {
	next := st.Clone()
	a := &apply{engine: e, st: &next}

	var err error
	switch ev := ev.(type) {
	case EditSourceField:
		a.editSourceField(ev.Name, ev.Value)
	case EditDependentField:
		err = a.editDependentField(ev.Dependent, ev.Name, ev.Value)
	case EditSourceItems:
		a.editSourceItems(ev.Items)
	case EditDependentItems:
		err = a.editDependentItems(ev.Dependent, ev.Items)
	case ChangeAdjustmentPercent:
		err = a.changeAdjustment(ev.Dependent, ev.Percent)
	case ChangeSourceColumns:
		a.changeSourceColumns(ev.Columns)
	case AddSourceColumn:
		a.addSourceColumn(ev.Column)
	case RemoveSourceColumn:
		a.removeSourceColumn(ev.ID)
	case ResetOverrides:
		err = a.resetOverrides(ev.Dependent)
	case ChangeTaxRate:
		err = a.changeTaxRate(ev.Entity, ev.Rate)
	case nil:
		err = fmt.Errorf("%w: nil event", ErrInvalidEvent)
	default:
		err = fmt.Errorf("%w: unsupported event %T", ErrInvalidEvent, ev)
	}
	if err != nil {
		return Result{State: st}, err
	}
	if !a.violations.Empty() {
		return Result{State: st, Violations: a.violations}, nil
	}
	return Result{State: next, Updated: a.updatedIDs()}, nil
}

// apply carries one event through the working copy of the state.
type apply struct {
	engine     *Engine
	st         *State
	updated    map[models.EntityID]bool
	violations validation.Violations
}

func (a *apply) touch(id models.EntityID) {
	if a.updated == nil {
		a.updated = map[models.EntityID]bool{}
	}
	a.updated[id] = true
}

func (a *apply) reject(field, code string) {
	if a.violations == nil {
		a.violations = validation.Violations{}
	}
	a.violations[field] = code
}

func (a *apply) rejectAll(v validation.Violations) {
	for field, code := range v {
		a.reject(field, code)
	}
}

func (a *apply) updatedIDs() []models.EntityID {
	var ids []models.EntityID
	if a.updated[a.st.Source.ID] {
		ids = append(ids, a.st.Source.ID)
	}
	for _, id := range a.st.DependentIDs() {
		if a.updated[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (a *apply) dependent(id models.EntityID) (*Dependent, error) {
	i := a.st.dependentIndex(id)
	if i < 0 {
		return nil, unknownEntity(id)
	}
	return &a.st.Dependents[i], nil
}

func (a *apply) recompute(q *models.Quotation) {
	a.engine.totals.Apply(q)
	a.touch(q.ID)
}

func (a *apply) editSourceField(name, value string) {
	if strings.TrimSpace(name) == "" {
		a.reject("name", "required")
		return
	}
	a.st.Source.Customer[name] = value
	a.touch(a.st.Source.ID)
	for i := range a.st.Dependents {
		d := &a.st.Dependents[i]
		if a.st.Overrides.IsFieldOverridden(d.Quotation.ID, name) {
			continue
		}
		d.Quotation.Customer[name] = value
		a.touch(d.Quotation.ID)
	}
}

func (a *apply) editDependentField(id models.EntityID, name, value string) error {
	d, err := a.dependent(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		a.reject("name", "required")
		return nil
	}
	d.Quotation.Customer[name] = value
	a.st.Overrides.MarkFieldOverridden(id, name)
	a.touch(id)
	return nil
}

func (a *apply) editSourceItems(items []models.Item) {
	src := &a.st.Source
	src.Items = services.SyncColumns(src.Columns, withIDs(items))
	a.recompute(src)
	for i := range a.st.Dependents {
		a.propagateItems(&a.st.Dependents[i])
	}
}

// propagateItems re-derives a dependent's schema and rows from the source
// unless its items are overridden.
func (a *apply) propagateItems(d *Dependent) {
	if a.st.Overrides.IsItemsOverridden(d.Quotation.ID) {
		return
	}
	src := a.st.Source
	d.Quotation.Columns = append([]models.Column(nil), src.Columns...)
	rows := services.SyncColumns(src.Columns, src.Items)
	d.Quotation.Items = a.engine.prices.DeriveDependentItems(rows, d.AdjustmentPercent)
	a.recompute(&d.Quotation)
}

func (a *apply) editDependentItems(id models.EntityID, items []models.Item) error {
	d, err := a.dependent(id)
	if err != nil {
		return err
	}
	d.Quotation.Items = services.SyncColumns(d.Quotation.Columns, withIDs(items))
	a.st.Overrides.MarkItemsOverridden(id)
	a.recompute(&d.Quotation)
	return nil
}

func (a *apply) changeAdjustment(id models.EntityID, pct float64) error {
	d, err := a.dependent(id)
	if err != nil {
		return err
	}
	v := validation.Violations{}
	validation.RangeFloat("percent", pct, a.engine.minAdjustment, a.engine.maxAdjustment, v)
	if !v.Empty() {
		a.rejectAll(v)
		return nil
	}
	d.AdjustmentPercent = pct
	a.touch(id)
	a.propagateItems(d)
	return nil
}

func (a *apply) changeSourceColumns(columns []models.Column) {
	if v := services.ValidateSchema(columns); !v.Empty() {
		a.rejectAll(v)
		return
	}
	columns = append([]models.Column(nil), columns...)
	src := &a.st.Source
	src.Columns = columns
	src.Items = services.SyncColumns(columns, src.Items)
	a.recompute(src)
	for i := range a.st.Dependents {
		d := &a.st.Dependents[i]
		if a.st.Overrides.IsItemsOverridden(d.Quotation.ID) {
			continue
		}
		d.Quotation.Columns = append([]models.Column(nil), columns...)
		d.Quotation.Items = services.SyncColumns(columns, d.Quotation.Items)
		a.recompute(&d.Quotation)
	}
}

func (a *apply) addSourceColumn(col models.Column) {
	if col.ID == "" {
		col.ID = services.ColumnID(col.DisplayName)
	}
	if col.DisplayName == "" {
		col.DisplayName = col.ID
	}
	current := a.st.Source.Columns
	if v := services.ValidateNewColumn(current, col); !v.Empty() {
		a.rejectAll(v)
		return
	}
	pos := len(current)
	if i := slices.IndexFunc(current, func(c models.Column) bool { return c.ID == models.KeyAmount }); i >= 0 {
		pos = i
	}
	a.changeSourceColumns(slices.Insert(slices.Clone(current), pos, col))
}

func (a *apply) removeSourceColumn(id string) {
	if models.IsProtectedKey(id) {
		a.reject("column", "column_protected")
		return
	}
	current := a.st.Source.Columns
	i := slices.IndexFunc(current, func(c models.Column) bool { return c.ID == id })
	if i < 0 {
		a.reject("column", "not_found")
		return
	}
	a.changeSourceColumns(slices.Delete(slices.Clone(current), i, i+1))
}

func (a *apply) resetOverrides(id models.EntityID) error {
	targets := a.st.DependentIDs()
	if id != "" {
		if _, err := a.dependent(id); err != nil {
			return err
		}
		targets = []models.EntityID{id}
	}
	for _, dep := range targets {
		a.st.Overrides.Reset(dep)
		d, _ := a.dependent(dep)
		for name, value := range a.st.Source.Customer {
			d.Quotation.Customer[name] = value
		}
		a.touch(dep)
		a.propagateItems(d)
	}
	return nil
}

func (a *apply) changeTaxRate(id models.EntityID, rate float64) error {
	var q *models.Quotation
	if id == a.st.Source.ID {
		q = &a.st.Source
	} else {
		d, err := a.dependent(id)
		if err != nil {
			return err
		}
		q = &d.Quotation
	}
	v := validation.Violations{}
	validation.NonNegativeFloat("rate", rate, v)
	if !v.Empty() {
		a.rejectAll(v)
		return nil
	}
	q.TaxRate = rate
	a.recompute(q)
	return nil
}

// withIDs copies items, giving rows without an id a fresh one.
func withIDs(items []models.Item) []models.Item {
	out := models.CloneItems(items)
	if out == nil {
		return []models.Item{}
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = models.NewItemID()
		}
	}
	return out
}
