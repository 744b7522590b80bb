package store

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	iter_util "github.com/TheBitDrifter/util/iter"
)

var _ Entity = &entity{}

// entity holds on to its entry id only. Rows move whenever a table swaps or
// transfers entries, so the entry itself is looked up on every access.
type entity struct {
	sto           *storage
	id            table.EntryID
	relationships relationships
}

type relationships struct {
	parent    Entity
	onDestroy EntityDestroyCallback
}

func (e *entity) Storage() Storage {
	return e.sto
}

// Valid reports whether the entity is still alive in its storage.
func (e *entity) Valid() bool {
	if e.sto == nil || e.id == 0 {
		return false
	}
	return e.sto.entities[int(e.id)] == e
}

func (e *entity) entry() table.Entry {
	if !e.Valid() {
		return nil
	}
	en, err := e.sto.entryIndex.Entry(int(e.id) - 1)
	if err != nil {
		return nil
	}
	return en
}

func (e *entity) ID() table.EntryID {
	return e.id
}

// Index returns the entity's current row, or -1 once it is destroyed.
func (e *entity) Index() int {
	if en := e.entry(); en != nil {
		return en.Index()
	}
	return -1
}

// Table returns the table currently holding the entity, or nil once it is
// destroyed.
func (e *entity) Table() table.Table {
	if en := e.entry(); en != nil {
		return en.Table()
	}
	return nil
}

func (e *entity) Recycled() int {
	if en := e.entry(); en != nil {
		return en.Recycled()
	}
	return 0
}

func (e *entity) Components() []Component {
	elementTypes := iter_util.Collect(e.Table().ElementTypes())
	components := make([]Component, len(elementTypes))
	for i, et := range elementTypes {
		components[i] = et
	}
	return components
}

func (e *entity) SetParent(parent Entity, callback EntityDestroyCallback) error {
	if e.relationships.parent != nil {
		return EntityRelationError{e, e.relationships.parent}
	}
	e.relationships.parent = parent
	err := parent.SetDestroyCallback(callback)
	if err != nil {
		return err
	}
	return nil
}

func (e *entity) SetDestroyCallback(callback EntityDestroyCallback) error {
	e.relationships.onDestroy = callback
	return nil
}

func (e *entity) AddComponent(c Component) error {
	if e.sto.Locked() {
		return LockedStorageError{}
	}
	if !e.Valid() {
		return EntityNotFoundError{ID: int(e.id)}
	}
	originTable := e.Table()
	if originTable.Contains(c) {
		return ComponentExistsError{Component: c}
	}

	destMask := originTable.(mask.Maskable).Mask()
	destMask.Mark(uint32(e.sto.ComponentID(c)))

	components := append(e.Components(), c)
	destArchetype, err := e.sto.archetypeFor(destMask, components...)
	if err != nil {
		return fmt.Errorf("failed to get/create archetype: %w", err)
	}

	row, err := e.transfer(originTable, destArchetype.table)
	if err != nil {
		return err
	}
	stamp(destArchetype.table, row, e.sto.clock.Current(), c)
	return nil
}

func (e *entity) RemoveComponent(c Component) error {
	if e.sto.Locked() {
		return LockedStorageError{}
	}
	if !e.Valid() {
		return EntityNotFoundError{ID: int(e.id)}
	}
	originTable := e.Table()
	if !originTable.Contains(c) {
		return ComponentNotFoundError{Component: c}
	}

	destMask := originTable.(mask.Maskable).Mask()
	destMask.Unmark(e.sto.RowIndexFor(c))

	components := make([]Component, 0)
	for _, comp := range e.Components() {
		if e.sto.RowIndexFor(comp) != e.sto.RowIndexFor(c) {
			components = append(components, comp)
		}
	}
	if len(components) == 0 {
		return EmptyComponentsError{}
	}

	destArchetype, err := e.sto.archetypeFor(destMask, components...)
	if err != nil {
		return fmt.Errorf("failed to get/create archetype: %w", err)
	}

	_, err = e.transfer(originTable, destArchetype.table)
	return err
}

// transfer moves the entity from origin to the end of dest and returns its new
// row. The table hands out a new entry for the moved row, possibly under a
// recycled id, so the entity is re-keyed to it.
func (e *entity) transfer(origin, dest table.Table) (int, error) {
	row := dest.Length()
	if err := origin.TransferEntries(dest, e.Index()); err != nil {
		return 0, fmt.Errorf("failed to transfer entity: %w", err)
	}
	moved, err := dest.Entry(row)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve transferred entity: %w", err)
	}
	if moved.ID() != e.id {
		delete(e.sto.entities, int(e.id))
		e.id = moved.ID()
		e.sto.entities[int(e.id)] = e
	}
	return row, nil
}

func (e *entity) EnqueueAddComponent(c Component) error {
	if !e.sto.Locked() {
		return e.AddComponent(c)
	}
	e.sto.opQueue.enqueueChange(changeAdd, e, c)
	return nil
}

func (e *entity) EnqueueRemoveComponent(c Component) error {
	if !e.sto.Locked() {
		return e.RemoveComponent(c)
	}
	e.sto.opQueue.enqueueChange(changeRemove, e, c)
	return nil
}
