package store

import (
	"github.com/TheBitDrifter/table"
	"github.com/TheBitDrifter/traitquery"
	"github.com/TheBitDrifter/traitquery/tick"
)

// Component represents a data attribute/state that can be attached to entities
// Components can be used to create queries for entities
type Component interface {
	table.ElementType
}

// trackedComponent is a component whose table cells carry change ticks.
type trackedComponent interface {
	Component
	stamp(tbl table.Table, row int, t tick.Tick)
	column(tbl table.Table) traitquery.Column
}

// cell is what a tracked component actually stores per row, so ticks move
// with the value whenever the table moves rows.
type cell[T any] struct {
	value T
	ticks tick.ComponentTicks
}

// AccessibleComponent is a tracked component with typed access to its values.
type AccessibleComponent[T any] struct {
	Component
	accessor table.Accessor[cell[T]]
}

var _ trackedComponent = AccessibleComponent[struct{}]{}

// Get retrieves the value stored at row of tbl.
func (c AccessibleComponent[T]) Get(row int, tbl table.Table) *T {
	return &c.accessor.Get(row, tbl).value
}

// Check determines if the component exists in tbl.
func (c AccessibleComponent[T]) Check(tbl table.Table) bool {
	return c.accessor.Check(tbl)
}

// GetFromCursor retrieves a component value for the entity at the cursor position
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return c.Get(
		cursor.entityIndex-1,
		cursor.currentArchetype.table,
	)
}

// GetFromCursorSafe safely retrieves a component value, checking if the component exists
// Returns a boolean indicating success and the component pointer if found
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if c.CheckCursor(cursor) {
		return true, c.GetFromCursor(cursor)
	}
	return false, nil
}

// CheckCursor determines if the component exists in the archetype at the cursor position
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return c.Check(cursor.currentArchetype.table)
}

// GetFromEntity retrieves a component value for the specified entity
func (c AccessibleComponent[T]) GetFromEntity(entity Entity) *T {
	return c.Get(entity.Index(), entity.Table())
}

// GetFromRow retrieves a component value for a row yielded by a trait query.
// The row's unit must be an archetype of this package.
func (c AccessibleComponent[T]) GetFromRow(row traitquery.Row) (bool, *T) {
	arch, ok := row.Unit.(Archetype)
	if !ok || !c.Check(arch.Table()) {
		return false, nil
	}
	return true, c.Get(row.Index, arch.Table())
}

// TicksFromEntity returns when the entity's value was added and last changed.
func (c AccessibleComponent[T]) TicksFromEntity(entity Entity) tick.ComponentTicks {
	return c.accessor.Get(entity.Index(), entity.Table()).ticks
}

// SetChanged marks the entity's value as changed at t. Writes made through
// GetFromEntity or GetFromCursor are not tracked on their own.
func (c AccessibleComponent[T]) SetChanged(entity Entity, t tick.Tick) {
	c.accessor.Get(entity.Index(), entity.Table()).ticks.SetChanged(t)
}

// stamp resets the cell at row to the zero value inserted at t. Tables reuse
// popped rows, so a new row may still hold an old entity's value.
func (c AccessibleComponent[T]) stamp(tbl table.Table, row int, t tick.Tick) {
	*c.accessor.Get(row, tbl) = cell[T]{ticks: tick.NewComponentTicks(t)}
}

func (c AccessibleComponent[T]) column(tbl table.Table) traitquery.Column {
	return column[T]{accessor: c.accessor, tbl: tbl}
}

// column adapts one table column to the type-erased traitquery.Column.
type column[T any] struct {
	accessor table.Accessor[cell[T]]
	tbl      table.Table
}

func (c column[T]) Cell(row int) (any, *tick.ComponentTicks) {
	cl := c.accessor.Get(row, c.tbl)
	return &cl.value, &cl.ticks
}

func stamp(tbl table.Table, row int, t tick.Tick, components ...Component) {
	for _, comp := range components {
		if tc, ok := comp.(trackedComponent); ok {
			tc.stamp(tbl, row, t)
		}
	}
}
