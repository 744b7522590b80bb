package traitquery

import (
	"slices"

	"github.com/TheBitDrifter/mask"
)

// Access is the component footprint a query declares to the host scheduler.
// A trait query declares every component registered for its trait, since
// which of them it touches is only known while iterating.
type Access struct {
	Reads  mask.Mask
	Writes mask.Mask

	components []ComponentID
}

func newAccess(entries []Entry, write bool) Access {
	var a Access
	for _, e := range entries {
		a.Reads.Mark(uint32(e.Component))
		if write {
			a.Writes.Mark(uint32(e.Component))
		}
		a.components = append(a.components, e.Component)
	}
	return a
}

// Components returns the declared component ids in registration order.
func (a Access) Components() []ComponentID {
	return slices.Clone(a.components)
}

// Includes reports whether id is part of the footprint.
func (a Access) Includes(id ComponentID) bool {
	return hasComponent(a.Reads, id)
}

// IsReadOnly reports whether the footprint holds no writes.
func (a Access) IsReadOnly() bool {
	return a.Writes == mask.Mask{}
}

// Conflicts reports whether a and other cannot run at the same time:
// one writes a component the other reads or writes.
func (a Access) Conflicts(other Access) bool {
	return a.Writes.ContainsAny(other.Reads) ||
		a.Writes.ContainsAny(other.Writes) ||
		other.Writes.ContainsAny(a.Reads)
}
