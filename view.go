package traitquery

import (
	"github.com/TheBitDrifter/traitquery/tick"
)

// Ref is shared access to one component through its trait.
type Ref[T any] struct {
	value     T
	component ComponentID
	ticks     tick.ComponentTicks
	window    tick.Window
}

func newRef[T any](m match, w tick.Window) Ref[T] {
	return Ref[T]{
		value:     m.entry.CastShared(m.ptr).(T),
		component: m.entry.Component,
		ticks:     *m.ticks,
		window:    w,
	}
}

func (r Ref[T]) Get() T {
	return r.value
}

// Component returns the concrete component id behind the trait value.
func (r Ref[T]) Component() ComponentID {
	return r.component
}

func (r Ref[T]) Ticks() tick.ComponentTicks {
	return r.ticks
}

// IsAdded reports whether the component was inserted since the system last ran.
func (r Ref[T]) IsAdded() bool {
	return r.ticks.IsAdded(r.window)
}

// IsChanged reports whether the component was inserted or mutated since the
// system last ran.
func (r Ref[T]) IsChanged() bool {
	return r.ticks.IsChanged(r.window)
}

func (r Ref[T]) LastChanged() tick.Tick {
	return r.ticks.Changed
}

// Mut is exclusive access to one component through its trait. Dereferencing
// it with Get marks the component changed at the running system's tick.
type Mut[T any] struct {
	value     T
	component ComponentID
	ticks     *tick.ComponentTicks
	window    tick.Window
}

func newMut[T any](m match, w tick.Window) Mut[T] {
	return Mut[T]{
		value:     m.entry.CastExclusive(m.ptr).(T),
		component: m.entry.Component,
		ticks:     m.ticks,
		window:    w,
	}
}

// Get returns the trait value and records a change at the current tick.
func (m Mut[T]) Get() T {
	m.ticks.SetChanged(m.window.ThisRun)
	return m.value
}

// Peek returns the trait value without recording a change.
func (m Mut[T]) Peek() T {
	return m.value
}

// SetChanged records a change without dereferencing.
func (m Mut[T]) SetChanged() {
	m.ticks.SetChanged(m.window.ThisRun)
}

func (m Mut[T]) Component() ComponentID {
	return m.component
}

func (m Mut[T]) Ticks() tick.ComponentTicks {
	return *m.ticks
}

func (m Mut[T]) IsAdded() bool {
	return m.ticks.IsAdded(m.window)
}

func (m Mut[T]) IsChanged() bool {
	return m.ticks.IsChanged(m.window)
}

func (m Mut[T]) LastChanged() tick.Tick {
	return m.ticks.Changed
}
