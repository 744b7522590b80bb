package traitquery

import (
	"github.com/TheBitDrifter/traitquery/tick"
)

type fetchState uint8

const (
	unbound fetchState = iota
	unitBound
)

// match is one present implementation for one entity.
type match struct {
	entry Entry
	ptr   any
	ticks *tick.ComponentTicks
}

// fetch walks storage units for one query execution. bind moves it to
// unitBound; every row lookup happens against the bound unit.
type fetch struct {
	trait  TraitID
	cache  *matchCache
	window tick.Window
	policy AmbiguityPolicy

	state   fetchState
	unit    Unit
	matches MatchList
	columns []Column
	present int
	warned  bool
}

func newFetch(s *state, w tick.Window) *fetch {
	return &fetch{
		trait:  s.trait,
		cache:  s.cache,
		window: w,
		policy: s.policy,
	}
}

// bind resolves the unit's columns for every match. This is the only place
// the host is asked for columns.
func (f *fetch) bind(u Unit) {
	f.unit = u
	f.matches = f.cache.get(u.Mask())
	f.columns = f.columns[:0]
	f.present = 0
	f.warned = false
	for _, e := range f.matches.entries {
		col, ok := u.Column(e.Component)
		if !ok {
			col = nil
		} else {
			f.present++
		}
		f.columns = append(f.columns, col)
	}
	f.state = unitBound
}

func (f *fetch) unbind() {
	f.unit = nil
	f.matches = MatchList{}
	f.columns = f.columns[:0]
	f.present = 0
	f.state = unbound
}

// empty reports whether no row of the bound unit can produce a match.
func (f *fetch) empty() bool {
	return f.present == 0
}

func (f *fetch) cell(i, row int) match {
	ptr, ticks := f.columns[i].Cell(row)
	return match{entry: f.matches.entries[i], ptr: ptr, ticks: ticks}
}

// one returns the first present match for row. More than one present match
// is resolved through the fetch's AmbiguityPolicy.
func (f *fetch) one(row int) (match, bool) {
	if f.state != unitBound {
		panic("traitquery: fetch used before a unit was bound")
	}
	first := -1
	for i, col := range f.columns {
		if col == nil {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		f.ambiguous(row)
		break
	}
	if first < 0 {
		return match{}, false
	}
	return f.cell(first, row), true
}

func (f *fetch) ambiguous(row int) {
	if f.policy == AmbiguityPanic {
		panic(&AmbiguousMatchError{
			Trait:      f.trait,
			Unit:       f.unit.ID(),
			Row:        row,
			Components: f.touched(),
		})
	}
	if f.warned {
		return
	}
	f.warned = true
	ambiguousUnits.WithLabelValues(f.trait.String()).Inc()
	Config.Logger().Warn("single-match query resolved ambiguous implementations by first match",
		"trait", f.trait.String(),
		"unit", f.unit.ID(),
		"matches", f.present,
	)
}

// all appends every present match for row to dst in match order.
func (f *fetch) all(row int, dst []match) []match {
	if f.state != unitBound {
		panic("traitquery: fetch used before a unit was bound")
	}
	for i, col := range f.columns {
		if col == nil {
			continue
		}
		dst = append(dst, f.cell(i, row))
	}
	return dst
}

// touched returns the component ids the bound unit resolved columns for.
func (f *fetch) touched() []ComponentID {
	var ids []ComponentID
	for i, col := range f.columns {
		if col != nil {
			ids = append(ids, f.matches.entries[i].Component)
		}
	}
	return ids
}
