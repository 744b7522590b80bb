package traitquery

import (
	"iter"

	"github.com/TheBitDrifter/traitquery/tick"
)

// Traits is shared access to every component of one entity that implements
// T, in registration order.
type Traits[T any] struct {
	matches []match
	window  tick.Window
}

func (t Traits[T]) Len() int {
	return len(t.matches)
}

func (t Traits[T]) At(i int) Ref[T] {
	return newRef[T](t.matches[i], t.window)
}

func (t Traits[T]) Components() []ComponentID {
	ids := make([]ComponentID, len(t.matches))
	for i, m := range t.matches {
		ids[i] = m.entry.Component
	}
	return ids
}

func (t Traits[T]) Iter() iter.Seq[Ref[T]] {
	return func(yield func(Ref[T]) bool) {
		for _, m := range t.matches {
			if !yield(newRef[T](m, t.window)) {
				return
			}
		}
	}
}

// IterAdded yields the components inserted since the system last ran.
func (t Traits[T]) IterAdded() iter.Seq[Ref[T]] {
	return t.filtered(func(c tick.ComponentTicks) bool { return c.IsAdded(t.window) })
}

// IterChanged yields the components changed since the system last ran.
func (t Traits[T]) IterChanged() iter.Seq[Ref[T]] {
	return t.filtered(func(c tick.ComponentTicks) bool { return c.IsChanged(t.window) })
}

func (t Traits[T]) filtered(keep func(tick.ComponentTicks) bool) iter.Seq[Ref[T]] {
	return func(yield func(Ref[T]) bool) {
		for _, m := range t.matches {
			if !keep(*m.ticks) {
				continue
			}
			if !yield(newRef[T](m, t.window)) {
				return
			}
		}
	}
}

// TraitsMut is exclusive access to every component of one entity that
// implements T.
type TraitsMut[T any] struct {
	matches []match
	window  tick.Window
}

func (t TraitsMut[T]) Len() int {
	return len(t.matches)
}

func (t TraitsMut[T]) At(i int) Mut[T] {
	return newMut[T](t.matches[i], t.window)
}

func (t TraitsMut[T]) Components() []ComponentID {
	return Traits[T](t).Components()
}

func (t TraitsMut[T]) Iter() iter.Seq[Mut[T]] {
	return func(yield func(Mut[T]) bool) {
		for _, m := range t.matches {
			if !yield(newMut[T](m, t.window)) {
				return
			}
		}
	}
}

func (t TraitsMut[T]) IterAdded() iter.Seq[Mut[T]] {
	return t.filtered(func(c tick.ComponentTicks) bool { return c.IsAdded(t.window) })
}

func (t TraitsMut[T]) IterChanged() iter.Seq[Mut[T]] {
	return t.filtered(func(c tick.ComponentTicks) bool { return c.IsChanged(t.window) })
}

func (t TraitsMut[T]) filtered(keep func(tick.ComponentTicks) bool) iter.Seq[Mut[T]] {
	return func(yield func(Mut[T]) bool) {
		for _, m := range t.matches {
			if !keep(*m.ticks) {
				continue
			}
			if !yield(newMut[T](m, t.window)) {
				return
			}
		}
	}
}

// All queries every component implementing T, with shared access.
type All[T any] struct {
	state *state
}

// Access returns the declared read footprint.
func (q *All[T]) Access() Access {
	return q.state.access
}

// MatchList returns the cached match list for u.
func (q *All[T]) MatchList(u Unit) MatchList {
	return q.state.matchList(u)
}

// Iter visits every entity of h. Entities without an implementation of T
// are visited with an empty Traits.
func (q *All[T]) Iter(h Host, w tick.Window) iter.Seq2[Row, Traits[T]] {
	return func(yield func(Row, Traits[T]) bool) {
		walkAll(q.state, h, w, func(row Row, matches []match) bool {
			return yield(row, Traits[T]{matches: matches, window: w})
		})
	}
}

// Added visits the entities with at least one implementation of T inserted
// inside w.
func (q *All[T]) Added(h Host, w tick.Window) iter.Seq2[Row, Traits[T]] {
	return q.filtered(h, w, func(c tick.ComponentTicks) bool { return c.IsAdded(w) })
}

// Changed visits the entities with at least one implementation of T changed
// inside w.
func (q *All[T]) Changed(h Host, w tick.Window) iter.Seq2[Row, Traits[T]] {
	return q.filtered(h, w, func(c tick.ComponentTicks) bool { return c.IsChanged(w) })
}

func (q *All[T]) filtered(h Host, w tick.Window, keep func(tick.ComponentTicks) bool) iter.Seq2[Row, Traits[T]] {
	return func(yield func(Row, Traits[T]) bool) {
		walkAll(q.state, h, w, func(row Row, matches []match) bool {
			if !anyTicks(matches, keep) {
				return true
			}
			return yield(row, Traits[T]{matches: matches, window: w})
		})
	}
}

// Flatten yields every implementation of T on every entity of h.
func (q *All[T]) Flatten(h Host, w tick.Window) iter.Seq[Ref[T]] {
	return func(yield func(Ref[T]) bool) {
		for _, traits := range q.Iter(h, w) {
			for ref := range traits.Iter() {
				if !yield(ref) {
					return
				}
			}
		}
	}
}

// AllMut queries every component implementing T, with exclusive access.
type AllMut[T any] struct {
	state *state
}

// Access returns the declared write footprint.
func (q *AllMut[T]) Access() Access {
	return q.state.access
}

func (q *AllMut[T]) MatchList(u Unit) MatchList {
	return q.state.matchList(u)
}

func (q *AllMut[T]) Iter(h Host, w tick.Window) iter.Seq2[Row, TraitsMut[T]] {
	return func(yield func(Row, TraitsMut[T]) bool) {
		walkAll(q.state, h, w, func(row Row, matches []match) bool {
			return yield(row, TraitsMut[T]{matches: matches, window: w})
		})
	}
}

func (q *AllMut[T]) Added(h Host, w tick.Window) iter.Seq2[Row, TraitsMut[T]] {
	return q.filtered(h, w, func(c tick.ComponentTicks) bool { return c.IsAdded(w) })
}

func (q *AllMut[T]) Changed(h Host, w tick.Window) iter.Seq2[Row, TraitsMut[T]] {
	return q.filtered(h, w, func(c tick.ComponentTicks) bool { return c.IsChanged(w) })
}

func (q *AllMut[T]) filtered(h Host, w tick.Window, keep func(tick.ComponentTicks) bool) iter.Seq2[Row, TraitsMut[T]] {
	return func(yield func(Row, TraitsMut[T]) bool) {
		walkAll(q.state, h, w, func(row Row, matches []match) bool {
			if !anyTicks(matches, keep) {
				return true
			}
			return yield(row, TraitsMut[T]{matches: matches, window: w})
		})
	}
}

func (q *AllMut[T]) Flatten(h Host, w tick.Window) iter.Seq[Mut[T]] {
	return func(yield func(Mut[T]) bool) {
		for _, traits := range q.Iter(h, w) {
			for m := range traits.Iter() {
				if !yield(m) {
					return
				}
			}
		}
	}
}

// walkAll drives a fetch over every row of h. visit returning false stops
// the walk.
func walkAll(s *state, h Host, w tick.Window, visit func(Row, []match) bool) {
	f := newFetch(s, w)
	defer f.unbind()
	for u := range h.Units() {
		f.bind(u)
		n := u.Len()
		for row := 0; row < n; row++ {
			var matches []match
			if !f.empty() {
				matches = f.all(row, make([]match, 0, f.present))
			}
			if !visit(Row{Unit: u, Index: row}, matches) {
				return
			}
		}
	}
}

func anyTicks(matches []match, keep func(tick.ComponentTicks) bool) bool {
	for _, m := range matches {
		if keep(*m.ticks) {
			return true
		}
	}
	return false
}
