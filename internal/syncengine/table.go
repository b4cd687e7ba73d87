package syncengine

import "github.com/diewo77/go-quotations/internal/models"

// Table adapts the callbacks of one item-table editor instance to events.
// A table belongs to exactly one quotation of a session.
type Table struct {
	Entity models.EntityID
	Source bool
}

// TableFor returns the table binding of entity within st.
func TableFor(st State, entity models.EntityID) (Table, error) {
	if entity == st.Source.ID {
		return Table{Entity: entity, Source: true}, nil
	}
	if st.dependentIndex(entity) < 0 {
		return Table{}, unknownEntity(entity)
	}
	return Table{Entity: entity}, nil
}

// OnItemsChange maps a row edit to the event for the owning quotation.
func (t Table) OnItemsChange(items []models.Item) Event {
	if t.Source {
		return EditSourceItems{Items: items}
	}
	return EditDependentItems{Dependent: t.Entity, Items: items}
}

// OnColumnsChange maps a schema edit to an event. Dependents never originate
// schema changes, so their tables report ok == false.
func (t Table) OnColumnsChange(columns []models.Column) (ev Event, ok bool) {
	if !t.Source {
		return nil, false
	}
	return ChangeSourceColumns{Columns: columns}, true
}
