package tick

import "sync/atomic"

// Clock is the host-wide change tick. It starts at 1 so that values inserted
// before any system has run are still newer than a fresh System's last run.
type Clock struct {
	current   atomic.Uint32
	lastCheck atomic.Uint32
}

func NewClock() *Clock {
	c := &Clock{}
	c.current.Store(1)
	c.lastCheck.Store(1)
	return c
}

// Current returns the tick that inserts and mutations made outside of a
// system are stamped with.
func (c *Clock) Current() Tick {
	return Tick(c.current.Load())
}

// Increment advances the clock and returns the tick it held before, which
// becomes the ThisRun of the system that requested it.
func (c *Clock) Increment() Tick {
	return Tick(c.current.Add(1) - 1)
}

// NeedsCheck reports whether CheckThreshold ticks have passed since the last
// time it returned true.
func (c *Clock) NeedsCheck() bool {
	now := c.current.Load()
	last := c.lastCheck.Load()
	if Tick(now).RelativeTo(Tick(last)) < CheckThreshold {
		return false
	}
	return c.lastCheck.CompareAndSwap(last, now)
}

// System tracks the last tick a system ran at. The zero value has never run.
type System struct {
	lastRun Tick
}

// Begin starts a run of the system and returns the window of changes it
// should observe.
func (s *System) Begin(c *Clock) Window {
	thisRun := c.Increment()
	w := Window{LastRun: s.lastRun, ThisRun: thisRun}
	s.lastRun = thisRun
	return w
}

func (s *System) LastRun() Tick {
	return s.lastRun
}

// Check clamps the system's last run against current.
func (s *System) Check(current Tick) {
	s.lastRun.Check(current)
}
