package traitquery

import (
	"log/slog"
	"sync"
)

// AmbiguityPolicy decides what single-match queries do when an entity holds
// more than one component implementing their trait.
type AmbiguityPolicy int

const (
	// AmbiguityPanic panics with an *AmbiguousMatchError.
	AmbiguityPanic AmbiguityPolicy = iota
	// AmbiguityFirst uses the first match in registration order and logs a
	// warning once per storage unit.
	AmbiguityFirst
)

func (p AmbiguityPolicy) String() string {
	switch p {
	case AmbiguityPanic:
		return "panic"
	case AmbiguityFirst:
		return "first"
	}
	return "unknown"
}

// Config holds package wide settings. Queries read it when they are built.
// It is safe to change from any goroutine, but a change only affects queries
// built afterwards.
var Config config = config{
	logger: slog.Default(),
}

type config struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	ambiguity AmbiguityPolicy
}

// SetLogger sets the logger used for registry and query diagnostics.
// A nil logger restores slog.Default().
func (c *config) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
}

// Logger returns the logger used for registry and query diagnostics.
func (c *config) Logger() *slog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// SetAmbiguityPolicy sets the policy for single-match queries built after
// the call.
func (c *config) SetAmbiguityPolicy(p AmbiguityPolicy) {
	c.mu.Lock()
	c.ambiguity = p
	c.mu.Unlock()
}

// AmbiguityPolicy returns the policy new single-match queries will capture.
func (c *config) AmbiguityPolicy() AmbiguityPolicy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ambiguity
}
