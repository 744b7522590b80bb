// Package tick implements the change-detection counters shared by the store
// and the trait query engine.
//
// Ticks are plain uint32 counters that are allowed to wrap. Two ticks are never
// compared directly; instead their distance from the tick of the running
// system is compared, which stays correct across overflow as long as no tick
// is older than MaxChangeAge. Hosts keep that invariant by calling Check on
// stored ticks at least once every CheckThreshold increments.
package tick

import "math"

// Tick is a point in change-detection time.
type Tick uint32

const (
	// CheckThreshold is how many increments a host may perform between two
	// passes that clamp stored ticks.
	CheckThreshold Tick = 518_400_000

	// MaxChangeAge is the largest distance a stored tick may have from the
	// current tick before it is clamped.
	MaxChangeAge Tick = math.MaxUint32 - (2*CheckThreshold - 1)
)

// RelativeTo returns how many ticks have passed from other to t.
func (t Tick) RelativeTo(other Tick) Tick {
	return t - other
}

// IsNewerThan reports whether t happened after lastRun, as seen by a system
// running at thisRun.
func (t Tick) IsNewerThan(lastRun, thisRun Tick) bool {
	sinceInsert := min(thisRun.RelativeTo(t), MaxChangeAge)
	sinceSystem := min(thisRun.RelativeTo(lastRun), MaxChangeAge)
	return sinceSystem > sinceInsert
}

// Check clamps t so that it is at most MaxChangeAge behind current.
// It returns true when t was modified.
func (t *Tick) Check(current Tick) bool {
	if current.RelativeTo(*t) > MaxChangeAge {
		*t = current - MaxChangeAge
		return true
	}
	return false
}

// Window is the (LastRun, ThisRun] range a system observes changes in.
type Window struct {
	LastRun Tick
	ThisRun Tick
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t Tick) bool {
	return t.IsNewerThan(w.LastRun, w.ThisRun)
}

// ComponentTicks records when a component value was inserted and when it was
// last mutated.
type ComponentTicks struct {
	Added   Tick
	Changed Tick
}

// NewComponentTicks returns ticks for a component inserted at t.
func NewComponentTicks(t Tick) ComponentTicks {
	return ComponentTicks{Added: t, Changed: t}
}

func (c ComponentTicks) IsAdded(w Window) bool {
	return w.Contains(c.Added)
}

func (c ComponentTicks) IsChanged(w Window) bool {
	return w.Contains(c.Changed)
}

// SetChanged records a mutation at t.
func (c *ComponentTicks) SetChanged(t Tick) {
	c.Changed = t
}

// Check clamps both ticks against current.
func (c *ComponentTicks) Check(current Tick) {
	c.Added.Check(current)
	c.Changed.Check(current)
}
