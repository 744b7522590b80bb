package store

import (
	"fmt"
	"iter"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"github.com/TheBitDrifter/traitquery"
	"github.com/TheBitDrifter/traitquery/tick"
)

var _ Storage = &storage{}

// Lock bits used by the storage itself. Callers of AddLock should stay below
// them.
const (
	lockBitSystem  uint32 = 61
	lockBitCursor  uint32 = 62
	lockBitStorage uint32 = 63
)

type storage struct {
	locks      mask.Mask
	schema     table.Schema
	entryIndex table.EntryIndex
	archetypes *archetypes
	catalog    *catalog
	opQueue    opQueue
	entities   map[int]*entity
	clock      *tick.Clock
}

type archetypes struct {
	nextID           archetypeID
	asSlice          []archetype
	idsGroupedByMask map[mask.Mask]archetypeID
}

func newStorage(schema table.Schema) Storage {
	archetypes := &archetypes{
		nextID:           1,
		idsGroupedByMask: make(map[mask.Mask]archetypeID),
	}
	storage := &storage{
		archetypes: archetypes,
		schema:     schema,
		entryIndex: table.Factory.NewEntryIndex(),
		catalog:    newCatalog(),
		opQueue:    newOpQueue(),
		entities:   make(map[int]*entity),
		clock:      tick.NewClock(),
	}
	return storage
}

func (sto *storage) Entity(id int) (Entity, error) {
	en, ok := sto.entities[id]
	if !ok {
		return nil, EntityNotFoundError{ID: id}
	}
	return en, nil
}

func (sto *storage) NewEntities(n int, components ...Component) ([]Entity, error) {
	if sto.Locked() {
		return nil, LockedStorageError{}
	}
	if len(components) == 0 {
		return nil, EmptyComponentsError{}
	}
	var entityMask mask.Mask
	for _, component := range components {
		entityMask.Mark(uint32(sto.ComponentID(component)))
	}
	entityArchetype, err := sto.archetypeFor(entityMask, components...)
	if err != nil {
		return nil, err
	}
	entries, err := entityArchetype.table.NewEntries(n)
	if err != nil {
		return nil, err
	}

	now := sto.clock.Current()
	entities := make([]Entity, n)
	for i, entry := range entries {
		en := &entity{
			id:  entry.ID(),
			sto: sto,
		}
		sto.entities[int(entry.ID())] = en
		entities[i] = en
		stamp(entityArchetype.table, entry.Index(), now, components...)
	}
	return entities, nil
}

// archetypeFor returns the archetype for entityMask, creating it from
// components when it does not exist yet.
func (sto *storage) archetypeFor(entityMask mask.Mask, components ...Component) (archetype, error) {
	if id, found := sto.archetypes.idsGroupedByMask[entityMask]; found {
		return sto.archetypes.asSlice[id-1], nil
	}
	created, err := newArchetype(sto.schema, sto.entryIndex, sto.archetypes.nextID, sto.catalog, components...)
	if err != nil {
		return archetype{}, fmt.Errorf("failed to create archetype: %w", err)
	}
	sto.archetypes.asSlice = append(sto.archetypes.asSlice, created)
	sto.archetypes.idsGroupedByMask[entityMask] = sto.archetypes.nextID
	sto.archetypes.nextID++
	return created, nil
}

func (sto *storage) RowIndexFor(c Component) uint32 {
	return sto.schema.RowIndexFor(c)
}

// ContainsComponent reports whether c has been registered with the storage
// schema.
func (sto *storage) ContainsComponent(c Component) bool {
	return sto.schema.Contains(c)
}

// ComponentID registers c with the storage schema and returns the id trait
// registrations must use for it.
func (sto *storage) ComponentID(c Component) traitquery.ComponentID {
	sto.schema.Register(c)
	id := traitquery.ComponentID(sto.schema.RowIndexFor(c))
	if tc, ok := c.(trackedComponent); ok {
		if _, seen := sto.catalog.components[id]; !seen {
			sto.catalog.components[id] = tc
		}
	}
	return id
}

func (sto *storage) Archetypes() []Archetype {
	archetypes := make([]Archetype, len(sto.archetypes.asSlice))
	for i, arch := range sto.archetypes.asSlice {
		archetypes[i] = arch
	}
	return archetypes
}

// Units yields every archetype, making the storage a traitquery.Host.
func (sto *storage) Units() iter.Seq[traitquery.Unit] {
	return func(yield func(traitquery.Unit) bool) {
		for _, arch := range sto.archetypes.asSlice {
			if !yield(arch) {
				return
			}
		}
	}
}

func (sto *storage) Clock() *tick.Clock {
	return sto.clock
}

// RunSystem runs fn as one system execution: it opens the system's change
// window, defers structural changes until fn returns and clamps old ticks
// when the clock asks for it.
//
// If fn panics the system lock is released and the queued operations stay
// queued until the storage is next unlocked.
func (sto *storage) RunSystem(sys *tick.System, fn func(tick.Window)) error {
	w := sys.Begin(sto.clock)
	sto.AddLock(lockBitSystem)
	defer sto.locks.Unmark(lockBitSystem)
	fn(w)
	sto.locks.Unmark(lockBitSystem)

	var err error
	if !sto.Locked() {
		err = sto.processOperationQueue()
	}
	if sto.clock.NeedsCheck() {
		sto.CheckChangeTicks()
		sys.Check(sto.clock.Current())
	}
	return err
}

// CheckChangeTicks clamps every stored tick that is older than
// tick.MaxChangeAge.
func (sto *storage) CheckChangeTicks() {
	now := sto.clock.Current()
	for _, arch := range sto.archetypes.asSlice {
		for id := range sto.catalog.components {
			col, ok := arch.Column(id)
			if !ok {
				continue
			}
			for row := range arch.Len() {
				_, ticks := col.Cell(row)
				ticks.Check(now)
			}
		}
	}
}

func (sto *storage) Locked() bool {
	return sto.locks != mask.Mask{}
}

func (sto *storage) Lock() {
	sto.AddLock(lockBitStorage)
}

func (sto *storage) Unlock() {
	sto.RemoveLock(lockBitStorage)
}

func (sto *storage) AddLock(bit uint32) {
	sto.locks.Mark(bit)
}

// RemoveLock releases bit and, once no lock is held, applies the queued
// operations.
func (sto *storage) RemoveLock(bit uint32) {
	sto.locks.Unmark(bit)
	if sto.Locked() {
		return
	}
	err := sto.processOperationQueue()
	if err != nil {
		panic(err)
	}
}

func (s *storage) EnqueueNewEntities(amount int, components ...Component) error {
	if !s.Locked() {
		_, err := s.NewEntities(amount, components...)
		if err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}

	s.opQueue.enqueueCreate(amount, components)
	return nil
}

func (s *storage) DestroyEntities(entities ...Entity) error {
	if s.Locked() {
		return LockedStorageError{}
	}
	// Rows are resolved before any deletion; each table deletes its batch at
	// once so swaps inside it do not invalidate the others.
	tableGroups := make(map[table.Table][]int)
	destroyed := make(map[int]*entity)
	var order []int
	for _, en := range entities {
		if en == nil || !en.Valid() {
			continue
		}
		id := int(en.ID())
		if _, dup := destroyed[id]; dup {
			continue
		}
		tbl := en.Table()
		tableGroups[tbl] = append(tableGroups[tbl], en.Index())
		destroyed[id] = s.entities[id]
		order = append(order, id)
	}
	for tbl, rows := range tableGroups {
		_, err := tbl.DeleteEntries(rows...)
		if err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
	}
	for id := range destroyed {
		delete(s.entities, id)
	}
	for _, id := range order {
		if en := destroyed[id]; en.relationships.onDestroy != nil {
			en.relationships.onDestroy(en)
		}
	}
	return nil
}

func (s *storage) EnqueueDestroyEntities(entities ...Entity) error {
	if !s.Locked() {
		return s.DestroyEntities(entities...)
	}

	s.opQueue.enqueueDestroy(entities)
	return nil
}
