package store

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"github.com/TheBitDrifter/traitquery"
)

var _ Archetype = archetype{}

type archetypeID uint32

type archetype struct {
	id      archetypeID
	table   table.Table
	catalog *catalog
}

// catalog remembers the tracked component behind every component id the
// storage has seen, so archetypes can hand out type-erased columns.
type catalog struct {
	components map[traitquery.ComponentID]trackedComponent
}

func newCatalog() *catalog {
	return &catalog{components: make(map[traitquery.ComponentID]trackedComponent)}
}

func newArchetype(schema table.Schema, entryIndex table.EntryIndex, id archetypeID, cat *catalog, components ...Component) (archetype, error) {
	elementTypes := make([]table.ElementType, len(components))
	for i, comp := range components {
		elementTypes[i] = comp
	}
	tbl, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return archetype{}, err
	}
	return archetype{
		table:   tbl,
		id:      id,
		catalog: cat,
	}, nil
}

func (a archetype) ID() uint32 {
	return uint32(a.id)
}

func (a archetype) Table() table.Table {
	return a.table
}

func (a archetype) Mask() mask.Mask {
	return a.table.(mask.Maskable).Mask()
}

func (a archetype) Len() int {
	return a.table.Length()
}

func (a archetype) Column(id traitquery.ComponentID) (traitquery.Column, bool) {
	comp, ok := a.catalog.components[id]
	if !ok || !a.table.Contains(comp) {
		return nil, false
	}
	return comp.column(a.table), true
}
