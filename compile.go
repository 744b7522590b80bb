package traitquery

import (
	"fmt"
	"sync"

	"github.com/TheBitDrifter/mask"
	"golang.org/x/sync/singleflight"
)

// MatchList is the ordered subset of a trait's registered implementations
// that are present in one storage unit schema.
type MatchList struct {
	entries []Entry
}

func (m MatchList) Len() int {
	return len(m.entries)
}

func (m MatchList) At(i int) Entry {
	return m.entries[i]
}

// Components returns the matched component ids in match order.
func (m MatchList) Components() []ComponentID {
	ids := make([]ComponentID, len(m.entries))
	for i, e := range m.entries {
		ids[i] = e.Component
	}
	return ids
}

// Compile keeps the entries whose component is set in schema, preserving
// their order.
func Compile(entries []Entry, schema mask.Mask) MatchList {
	var matches []Entry
	for _, e := range entries {
		if hasComponent(schema, e.Component) {
			matches = append(matches, e)
		}
	}
	return MatchList{entries: matches}
}

func hasComponent(schema mask.Mask, id ComponentID) bool {
	return schema.Contains(uint32(id))
}

// matchCache memoizes match lists per schema for one trait. Schemas never
// change once a unit exists, so entries are never invalidated.
type matchCache struct {
	trait   TraitID
	entries []Entry

	mu     sync.RWMutex
	lists  map[mask.Mask]MatchList
	flight singleflight.Group
}

func newMatchCache(trait TraitID, entries []Entry) *matchCache {
	return &matchCache{
		trait:   trait,
		entries: entries,
		lists:   make(map[mask.Mask]MatchList),
	}
}

func (c *matchCache) get(schema mask.Mask) MatchList {
	if ml, ok := c.lookup(schema); ok {
		matchListHits.WithLabelValues(c.trait.String()).Inc()
		return ml
	}
	v, _, _ := c.flight.Do(fmt.Sprintf("%v", schema), func() (any, error) {
		if ml, ok := c.lookup(schema); ok {
			return ml, nil
		}
		ml := Compile(c.entries, schema)

		c.mu.Lock()
		c.lists[schema] = ml
		c.mu.Unlock()

		matchListCompiles.WithLabelValues(c.trait.String()).Inc()
		Config.Logger().Debug("compiled match list",
			"trait", c.trait.String(),
			"registered", len(c.entries),
			"matched", ml.Len(),
		)
		return ml, nil
	})
	return v.(MatchList)
}

func (c *matchCache) lookup(schema mask.Mask) (MatchList, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ml, ok := c.lists[schema]
	return ml, ok
}

func (c *matchCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lists)
}
