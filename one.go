package traitquery

import (
	"iter"

	"github.com/TheBitDrifter/traitquery/tick"
)

// One queries the single component implementing T on each entity, with
// shared access. Entities without an implementation are skipped. Entities
// with more than one are handled by the AmbiguityPolicy set in Config when
// the query was built.
type One[T any] struct {
	state *state
}

func (q *One[T]) Access() Access {
	return q.state.access
}

func (q *One[T]) MatchList(u Unit) MatchList {
	return q.state.matchList(u)
}

func (q *One[T]) Iter(h Host, w tick.Window) iter.Seq2[Row, Ref[T]] {
	return func(yield func(Row, Ref[T]) bool) {
		walkOne(q.state, h, w, func(row Row, m match) bool {
			return yield(row, newRef[T](m, w))
		})
	}
}

// Get fetches the implementation of T for a single row.
func (q *One[T]) Get(row Row, w tick.Window) (Ref[T], bool) {
	m, ok := fetchOne(q.state, row, w)
	if !ok {
		return Ref[T]{}, false
	}
	return newRef[T](m, w), true
}

// OneMut queries the single component implementing T on each entity, with
// exclusive access.
type OneMut[T any] struct {
	state *state
}

func (q *OneMut[T]) Access() Access {
	return q.state.access
}

func (q *OneMut[T]) MatchList(u Unit) MatchList {
	return q.state.matchList(u)
}

func (q *OneMut[T]) Iter(h Host, w tick.Window) iter.Seq2[Row, Mut[T]] {
	return func(yield func(Row, Mut[T]) bool) {
		walkOne(q.state, h, w, func(row Row, m match) bool {
			return yield(row, newMut[T](m, w))
		})
	}
}

func (q *OneMut[T]) Get(row Row, w tick.Window) (Mut[T], bool) {
	m, ok := fetchOne(q.state, row, w)
	if !ok {
		return Mut[T]{}, false
	}
	return newMut[T](m, w), true
}

// OneAdded filters for entities whose single implementation of T was
// inserted inside the window.
type OneAdded[T any] struct {
	state *state
}

func (q *OneAdded[T]) Access() Access {
	return q.state.access
}

func (q *OneAdded[T]) Iter(h Host, w tick.Window) iter.Seq2[Row, Ref[T]] {
	return iterOneFiltered[T](q.state, h, w, func(c tick.ComponentTicks) bool { return c.IsAdded(w) })
}

// Matches reports whether row passes the filter.
func (q *OneAdded[T]) Matches(row Row, w tick.Window) bool {
	m, ok := fetchOne(q.state, row, w)
	return ok && m.ticks.IsAdded(w)
}

// OneChanged filters for entities whose single implementation of T was
// inserted or mutated inside the window.
type OneChanged[T any] struct {
	state *state
}

func (q *OneChanged[T]) Access() Access {
	return q.state.access
}

func (q *OneChanged[T]) Iter(h Host, w tick.Window) iter.Seq2[Row, Ref[T]] {
	return iterOneFiltered[T](q.state, h, w, func(c tick.ComponentTicks) bool { return c.IsChanged(w) })
}

func (q *OneChanged[T]) Matches(row Row, w tick.Window) bool {
	m, ok := fetchOne(q.state, row, w)
	return ok && m.ticks.IsChanged(w)
}

func iterOneFiltered[T any](s *state, h Host, w tick.Window, keep func(tick.ComponentTicks) bool) iter.Seq2[Row, Ref[T]] {
	return func(yield func(Row, Ref[T]) bool) {
		walkOne(s, h, w, func(row Row, m match) bool {
			if !keep(*m.ticks) {
				return true
			}
			return yield(row, newRef[T](m, w))
		})
	}
}

// walkOne drives a fetch over the units of h that hold at least one
// implementation, visiting each row's match.
func walkOne(s *state, h Host, w tick.Window, visit func(Row, match) bool) {
	f := newFetch(s, w)
	defer f.unbind()
	for u := range h.Units() {
		f.bind(u)
		if f.empty() {
			continue
		}
		n := u.Len()
		for row := 0; row < n; row++ {
			m, ok := f.one(row)
			if !ok {
				continue
			}
			if !visit(Row{Unit: u, Index: row}, m) {
				return
			}
		}
	}
}

func fetchOne(s *state, row Row, w tick.Window) (match, bool) {
	f := newFetch(s, w)
	f.bind(row.Unit)
	defer f.unbind()
	return f.one(row.Index)
}
