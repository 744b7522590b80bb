package traitquery

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/traitquery/tick"
)

// Trait and component types shared by the tests of this package.

type Tooltip interface {
	Tooltip() string
}

type Named interface {
	Name() string
}

type Player struct{ Tag string }

func (p *Player) Tooltip() string { return "player " + p.Tag }
func (p *Player) Name() string    { return p.Tag }

type Villager struct{ Tag string }

func (v *Villager) Tooltip() string { return "villager " + v.Tag }

type Monster struct{ Tag string }

func (m *Monster) Tooltip() string { return "monster " + m.Tag }

type Position struct{ X, Y float64 }

const (
	playerID   ComponentID = 1
	villagerID ComponentID = 2
	monsterID  ComponentID = 3
	positionID ComponentID = 4
)

type fakeColumn struct {
	values []any
	ticks  []tick.ComponentTicks
}

func (c *fakeColumn) Cell(row int) (any, *tick.ComponentTicks) {
	return c.values[row], &c.ticks[row]
}

// newColumn stores pointers to vals, all inserted at t.
func newColumn[C any](t tick.Tick, vals ...C) *fakeColumn {
	col := &fakeColumn{
		values: make([]any, len(vals)),
		ticks:  make([]tick.ComponentTicks, len(vals)),
	}
	for i := range vals {
		col.values[i] = &vals[i]
		col.ticks[i] = tick.NewComponentTicks(t)
	}
	return col
}

type fakeUnit struct {
	id          uint32
	rows        int
	schema      mask.Mask
	columns     map[ComponentID]*fakeColumn
	columnCalls int
}

func newUnit(id uint32, rows int) *fakeUnit {
	return &fakeUnit{id: id, rows: rows, columns: make(map[ComponentID]*fakeColumn)}
}

func (u *fakeUnit) with(id ComponentID, col *fakeColumn) *fakeUnit {
	u.schema.Mark(uint32(id))
	u.columns[id] = col
	return u
}

func (u *fakeUnit) ID() uint32      { return u.id }
func (u *fakeUnit) Mask() mask.Mask { return u.schema }
func (u *fakeUnit) Len() int        { return u.rows }

func (u *fakeUnit) Column(id ComponentID) (Column, bool) {
	u.columnCalls++
	col, ok := u.columns[id]
	if !ok {
		return nil, false
	}
	return col, true
}

type fakeHost []*fakeUnit

func (h fakeHost) Units() iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		for _, u := range h {
			if !yield(u) {
				return
			}
		}
	}
}

// tooltipRegistry registers Player, Villager and Monster for Tooltip, in
// that order.
func tooltipRegistry() *Registry {
	r := Factory.NewRegistry()
	mustImpl[Tooltip, Player](r, playerID)
	mustImpl[Tooltip, Villager](r, villagerID)
	mustImpl[Tooltip, Monster](r, monsterID)
	return r
}

func mustImpl[T, C any](r *Registry, id ComponentID) {
	if err := Impl[T, C](r, id); err != nil {
		panic(err)
	}
}

// recoverAmbiguous runs fn and returns the *AmbiguousMatchError it panicked
// with, if any.
func recoverAmbiguous(fn func()) (err *AmbiguousMatchError) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if err, ok = r.(*AmbiguousMatchError); !ok {
				panic(r)
			}
		}
	}()
	fn()
	return nil
}
