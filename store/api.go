package store

import (
	"iter"

	"github.com/TheBitDrifter/table"
	"github.com/TheBitDrifter/traitquery"
	"github.com/TheBitDrifter/traitquery/tick"
)

type Storage interface {
	traitquery.Host
	Entity(id int) (Entity, error)
	NewEntities(int, ...Component) ([]Entity, error)
	EnqueueNewEntities(int, ...Component) error
	DestroyEntities(...Entity) error
	EnqueueDestroyEntities(...Entity) error
	RowIndexFor(Component) uint32
	ContainsComponent(Component) bool
	ComponentID(Component) traitquery.ComponentID
	Archetypes() []Archetype
	Clock() *tick.Clock
	RunSystem(*tick.System, func(tick.Window)) error
	CheckChangeTicks()
	Locked() bool
	Lock()
	Unlock()
	AddLock(bit uint32)
	RemoveLock(bit uint32)
}

type EntityDestroyCallback func(Entity)

type Entity interface {
	table.Entry
	Storage() Storage
	Valid() bool
	Components() []Component
	SetParent(parent Entity, callback EntityDestroyCallback) error
	SetDestroyCallback(EntityDestroyCallback) error
	AddComponent(Component) error
	RemoveComponent(Component) error
	EnqueueAddComponent(Component) error
	EnqueueRemoveComponent(Component) error
}

// Archetype is a table of entities sharing one component set. It is the
// storage unit trait queries iterate.
type Archetype interface {
	traitquery.Unit
	Table() table.Table
}

// Query builds boolean nodes over component sets. Items may be components,
// slices of components or other nodes.
type Query interface {
	QueryNode
	And(items ...any) QueryNode
	Or(items ...any) QueryNode
	Not(items ...any) QueryNode
}

type QueryNode interface {
	Evaluate(archetype Archetype, storage Storage) bool
}

type iCursor interface {
	traitquery.Host
	Entities() iter.Seq2[int, table.Table]
	Next() bool
}
