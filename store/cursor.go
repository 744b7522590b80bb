package store

import (
	"iter"

	"github.com/TheBitDrifter/table"
	"github.com/TheBitDrifter/traitquery"
)

var _ iCursor = &Cursor{}

// Cursor walks the entities of the archetypes matching a query. It also acts
// as a traitquery.Host restricted to those archetypes, so trait queries can
// be narrowed with And/Or/Not.
type Cursor struct {
	// The query to filter entities
	query QueryNode

	// The storage to iterate over
	storage Storage

	// Current iteration state
	currentArchetype archetype
	storageIndex     int
	entityIndex      int
	remaining        int

	// Initialization state
	initialized     bool
	matchedStorages []archetype
}

func newCursor(query QueryNode, storage Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
	}
}

func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

func (c *Cursor) advance() bool {
	if !c.initialized {
		c.initialize()
	}
	for c.storageIndex < len(c.matchedStorages) {
		c.currentArchetype = c.matchedStorages[c.storageIndex]
		c.remaining = c.currentArchetype.table.Length()

		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.storageIndex++
		c.entityIndex = 0
	}
	c.Reset()
	return false
}

func (c *Cursor) Entities() iter.Seq2[int, table.Table] {
	return func(yield func(int, table.Table) bool) {
		c.initialize()

		for c.storageIndex < len(c.matchedStorages) {
			c.currentArchetype = c.matchedStorages[c.storageIndex]
			c.remaining = c.currentArchetype.table.Length()

			for c.entityIndex < c.remaining {
				if !yield(c.entityIndex, c.currentArchetype.table) {
					c.Reset()
					return
				}
				c.entityIndex++
			}
			c.entityIndex = 0
			c.storageIndex++
		}
		c.Reset()
	}
}

// Units yields the archetypes matching the cursor's query. It does not touch
// the cursor's iteration state.
func (c *Cursor) Units() iter.Seq[traitquery.Unit] {
	return func(yield func(traitquery.Unit) bool) {
		for _, arch := range c.matching() {
			if !yield(arch) {
				return
			}
		}
	}
}

func (c *Cursor) matching() []archetype {
	matched := make([]archetype, 0)
	for _, arch := range c.storage.Archetypes() {
		if c.query.Evaluate(arch, c.storage) {
			matched = append(matched, arch.(archetype))
		}
	}
	return matched
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.storage.AddLock(lockBitCursor)
	c.matchedStorages = c.matching()
	if len(c.matchedStorages) > 0 {
		c.storageIndex = 0
		c.currentArchetype = c.matchedStorages[0]
		c.remaining = c.currentArchetype.table.Length()
	}
	c.initialized = true
}

func (c *Cursor) Reset() {
	c.storageIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.matchedStorages = nil
	if c.initialized {
		c.initialized = false
		c.storage.RemoveLock(lockBitCursor)
	}
}

func (c *Cursor) CurrentEntity() (int, table.Table) {
	return c.entityIndex, c.currentArchetype.table
}

// CurrentRow returns the cursor position as a trait query row, for use with
// single-row lookups such as traitquery.One.Get.
func (c *Cursor) CurrentRow() traitquery.Row {
	return traitquery.Row{Unit: c.currentArchetype, Index: c.entityIndex - 1}
}

func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

func (c *Cursor) TotalMatched() int {
	total := 0
	for _, arch := range c.matching() {
		total += arch.table.Length()
	}
	return total
}
