package traitquery

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/traitquery/tick"
)

// ComponentID identifies a concrete component type within one host schema.
// It doubles as the component's bit in a Unit's mask.
type ComponentID uint32

// Unit is a host storage unit: a group of entities sharing one component
// schema (an archetype).
type Unit interface {
	ID() uint32
	// Mask has a bit set for every ComponentID stored in the unit.
	Mask() mask.Mask
	Len() int
	// Column returns the column holding component id, if the unit stores it.
	Column(id ComponentID) (Column, bool)
}

// Column is a type-erased component column.
type Column interface {
	// Cell returns a pointer to the concrete component value stored at row
	// and a pointer to its change ticks. Writes through either are visible to
	// the host.
	Cell(row int) (ptr any, ticks *tick.ComponentTicks)
}

// Host is the storage a trait query walks.
type Host interface {
	Units() iter.Seq[Unit]
}

// Row locates one entity inside a unit.
type Row struct {
	Unit  Unit
	Index int
}
