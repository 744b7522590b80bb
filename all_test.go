package traitquery

import (
	"testing"

	"github.com/TheBitDrifter/traitquery/tick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tooltipsOf(traits Traits[Tooltip]) []string {
	var tips []string
	for ref := range traits.Iter() {
		tips = append(tips, ref.Get().Tooltip())
	}
	return tips
}

func TestAllIter(t *testing.T) {
	r := tooltipRegistry()
	q := FactoryNewAll[Tooltip](r)

	host := fakeHost{
		newUnit(1, 1).
			with(monsterID, newColumn(1, Monster{Tag: "m"})).
			with(positionID, newColumn(1, Position{})).
			with(playerID, newColumn(1, Player{Tag: "p"})),
		newUnit(2, 2).with(positionID, newColumn(1, Position{}, Position{})),
		newUnit(3, 1).with(villagerID, newColumn(1, Villager{Tag: "v"})),
	}

	type visit struct {
		unit  uint32
		index int
		tips  []string
	}
	var got []visit
	for row, traits := range q.Iter(host, window(0, 1)) {
		got = append(got, visit{row.Unit.ID(), row.Index, tooltipsOf(traits)})
	}

	// Entities without an implementation get an empty view.
	assert.Equal(t, []visit{
		{1, 0, []string{"player p", "monster m"}},
		{2, 0, nil},
		{2, 1, nil},
		{3, 0, []string{"villager v"}},
	}, got)
}

func TestAllViewAccessors(t *testing.T) {
	r := tooltipRegistry()
	q := FactoryNewAll[Tooltip](r)
	host := fakeHost{
		newUnit(1, 1).
			with(villagerID, newColumn(1, Villager{Tag: "v"})).
			with(playerID, newColumn(1, Player{Tag: "p"})),
	}

	for _, traits := range q.Iter(host, window(0, 1)) {
		require.Equal(t, 2, traits.Len())
		assert.Equal(t, []ComponentID{playerID, villagerID}, traits.Components())
		assert.Equal(t, "villager v", traits.At(1).Get().Tooltip())
		assert.Equal(t, villagerID, traits.At(1).Component())
	}
}

func TestAllFlatten(t *testing.T) {
	r := tooltipRegistry()
	q := FactoryNewAll[Tooltip](r)
	host := fakeHost{
		newUnit(1, 2).
			with(playerID, newColumn(1, Player{Tag: "p0"}, Player{Tag: "p1"})).
			with(monsterID, newColumn(1, Monster{Tag: "m0"}, Monster{Tag: "m1"})),
		newUnit(2, 1).with(positionID, newColumn(1, Position{})),
		newUnit(3, 1).with(villagerID, newColumn(1, Villager{Tag: "v0"})),
	}

	var tips []string
	for ref := range q.Flatten(host, window(0, 1)) {
		tips = append(tips, ref.Get().Tooltip())
	}
	assert.Equal(t, []string{"player p0", "monster m0", "player p1", "monster m1", "villager v0"}, tips)

	n := 0
	for range q.Flatten(host, window(0, 1)) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestAllChangeFilters(t *testing.T) {
	r := tooltipRegistry()
	q := FactoryNewAll[Tooltip](r)

	players := newColumn(2, Player{Tag: "p0"}, Player{Tag: "p1"}, Player{Tag: "p2"})
	monsters := newColumn(2, Monster{Tag: "m0"}, Monster{Tag: "m1"}, Monster{Tag: "m2"})
	players.ticks[1] = tick.NewComponentTicks(7)
	monsters.ticks[2].SetChanged(8)
	host := fakeHost{newUnit(1, 3).with(playerID, players).with(monsterID, monsters)}
	w := window(5, 10)

	var addedRows, changedRows []int
	for row, traits := range q.Added(host, w) {
		addedRows = append(addedRows, row.Index)
		var tips []string
		for ref := range traits.IterAdded() {
			tips = append(tips, ref.Get().Tooltip())
		}
		assert.Equal(t, []string{"player p1"}, tips)
	}
	for row, traits := range q.Changed(host, w) {
		changedRows = append(changedRows, row.Index)
		var tips []string
		for ref := range traits.IterChanged() {
			tips = append(tips, ref.Get().Tooltip())
		}
		assert.Len(t, tips, 1)
	}
	assert.Equal(t, []int{1}, addedRows)
	assert.Equal(t, []int{1, 2}, changedRows)
}

func TestAllMut(t *testing.T) {
	r := tooltipRegistry()
	q := FactoryNewAllMut[Tooltip](r)

	players := newColumn(1, Player{Tag: "p"})
	villagers := newColumn(1, Villager{Tag: "v"})
	host := fakeHost{newUnit(1, 1).with(playerID, players).with(villagerID, villagers)}

	for _, traits := range q.Iter(host, window(1, 4)) {
		require.Equal(t, 2, traits.Len())
		assert.Equal(t, []ComponentID{playerID, villagerID}, traits.Components())
		traits.At(0).Peek()
		traits.At(1).Get()
	}
	assert.Equal(t, tick.Tick(1), players.ticks[0].Changed)
	assert.Equal(t, tick.Tick(4), villagers.ticks[0].Changed)

	// The villager change is visible to a later window that started before it.
	var changed []ComponentID
	for m := range q.Flatten(host, window(2, 6)) {
		if m.IsChanged() {
			changed = append(changed, m.Component())
		}
	}
	assert.Equal(t, []ComponentID{villagerID}, changed)

	n := 0
	for _, traits := range q.Changed(host, window(2, 6)) {
		for range traits.IterChanged() {
			n++
		}
	}
	assert.Equal(t, 1, n)

	// Writes go through to the stored value.
	for m := range q.Flatten(host, window(6, 7)) {
		if p, ok := m.Get().(*Player); ok {
			p.Tag = "q"
		}
	}
	assert.Equal(t, "player q", players.values[0].(*Player).Tooltip())
}

func TestAllNoRegistrations(t *testing.T) {
	r := Factory.NewRegistry()
	q := FactoryNewAll[Named](r)
	unit := newUnit(1, 2).with(playerID, newColumn(1, Player{}, Player{}))

	n := 0
	for _, traits := range q.Iter(fakeHost{unit}, window(0, 1)) {
		assert.Zero(t, traits.Len())
		n++
	}
	assert.Equal(t, 2, n)
	assert.Zero(t, unit.columnCalls)
	assert.Empty(t, q.Access().Components())
}
