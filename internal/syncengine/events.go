package syncengine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/diewo77/go-quotations/internal/models"
)

// Kind names an event type on the wire.
type Kind string

const (
	KindEditSourceField         Kind = "edit_source_field"
	KindEditDependentField      Kind = "edit_dependent_field"
	KindEditSourceItems         Kind = "edit_source_items"
	KindEditDependentItems      Kind = "edit_dependent_items"
	KindChangeAdjustmentPercent Kind = "change_adjustment_percent"
	KindChangeSourceColumns     Kind = "change_source_columns"
	KindAddSourceColumn         Kind = "add_source_column"
	KindRemoveSourceColumn      Kind = "remove_source_column"
	KindResetOverrides          Kind = "reset_overrides"
	KindChangeTaxRate           Kind = "change_tax_rate"
)

// Event is one edit applied to a session through Engine.Apply.
type Event interface {
	Kind() Kind
}

// EditSourceField sets a customer field on the source and on every dependent
// that has not overridden that field.
type EditSourceField struct {
	Name  string
	Value string
}

// EditDependentField sets a customer field on one dependent and marks it
// overridden there.
type EditDependentField struct {
	Dependent models.EntityID
	Name      string
	Value     string
}

// EditSourceItems replaces the source rows and re-derives the rows of every
// dependent whose items are not overridden.
type EditSourceItems struct {
	Items []models.Item
}

// EditDependentItems replaces one dependent's rows and marks its items
// overridden.
type EditDependentItems struct {
	Dependent models.EntityID
	Items     []models.Item
}

// ChangeAdjustmentPercent stores a dependent's markup and, unless its items
// are overridden, re-derives its current rows with it.
type ChangeAdjustmentPercent struct {
	Dependent models.EntityID
	Percent   float64
}

// ChangeSourceColumns replaces the source item schema.
type ChangeSourceColumns struct {
	Columns []models.Column
}

// AddSourceColumn appends one column to the source schema, before the amount
// column when there is one. An empty ID is derived from DisplayName.
type AddSourceColumn struct {
	Column models.Column
}

// RemoveSourceColumn drops one dynamic column from the source schema.
type RemoveSourceColumn struct {
	ID string
}

// ResetOverrides clears the overrides of Dependent, or of every dependent
// when Dependent is empty, and resynchronizes them with the source.
type ResetOverrides struct {
	Dependent models.EntityID
}

// ChangeTaxRate sets the tax rate of one quotation. Rates never propagate.
type ChangeTaxRate struct {
	Entity models.EntityID
	Rate   float64
}

func (EditSourceField) Kind() Kind         { return KindEditSourceField }
func (EditDependentField) Kind() Kind      { return KindEditDependentField }
func (EditSourceItems) Kind() Kind         { return KindEditSourceItems }
func (EditDependentItems) Kind() Kind      { return KindEditDependentItems }
func (ChangeAdjustmentPercent) Kind() Kind { return KindChangeAdjustmentPercent }
func (ChangeSourceColumns) Kind() Kind     { return KindChangeSourceColumns }
func (AddSourceColumn) Kind() Kind         { return KindAddSourceColumn }
func (RemoveSourceColumn) Kind() Kind      { return KindRemoveSourceColumn }
func (ResetOverrides) Kind() Kind          { return KindResetOverrides }
func (ChangeTaxRate) Kind() Kind           { return KindChangeTaxRate }

// ErrInvalidEvent is returned by DecodeEvent for payloads that do not
// describe an event.
var ErrInvalidEvent = errors.New("invalid event")

// envelope is the wire form shared by the HTTP API and CLI scripts.
type envelope struct {
	Type     Kind            `json:"type"`
	Entity   models.EntityID `json:"entity,omitempty"`
	Name     string          `json:"name,omitempty"`
	Value    string          `json:"value,omitempty"`
	Items    []models.Item   `json:"items,omitempty"`
	Columns  []models.Column `json:"columns,omitempty"`
	Column   *models.Column  `json:"column,omitempty"`
	ColumnID string          `json:"column_id,omitempty"`
	Percent  *float64        `json:"percent,omitempty"`
	Rate     *float64        `json:"rate,omitempty"`
}

// DecodeEvent parses the JSON wire form of an event:
//
//	{"type":"edit_dependent_field","entity":"gdc","name":"customerName","value":"Acme"}
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	missing := func(what string) error {
		return fmt.Errorf("%w: %s requires %s", ErrInvalidEvent, env.Type, what)
	}
	switch env.Type {
	case KindEditSourceField:
		return EditSourceField{Name: env.Name, Value: env.Value}, nil
	case KindEditDependentField:
		return EditDependentField{Dependent: env.Entity, Name: env.Name, Value: env.Value}, nil
	case KindEditSourceItems:
		return EditSourceItems{Items: nonNilItems(env.Items)}, nil
	case KindEditDependentItems:
		return EditDependentItems{Dependent: env.Entity, Items: nonNilItems(env.Items)}, nil
	case KindChangeAdjustmentPercent:
		if env.Percent == nil {
			return nil, missing("percent")
		}
		return ChangeAdjustmentPercent{Dependent: env.Entity, Percent: *env.Percent}, nil
	case KindChangeSourceColumns:
		return ChangeSourceColumns{Columns: env.Columns}, nil
	case KindAddSourceColumn:
		if env.Column == nil {
			return nil, missing("column")
		}
		return AddSourceColumn{Column: *env.Column}, nil
	case KindRemoveSourceColumn:
		return RemoveSourceColumn{ID: env.ColumnID}, nil
	case KindResetOverrides:
		return ResetOverrides{Dependent: env.Entity}, nil
	case KindChangeTaxRate:
		if env.Rate == nil {
			return nil, missing("rate")
		}
		return ChangeTaxRate{Entity: env.Entity, Rate: *env.Rate}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrInvalidEvent)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, env.Type)
	}
}

func nonNilItems(items []models.Item) []models.Item {
	if items == nil {
		return []models.Item{}
	}
	return items
}
