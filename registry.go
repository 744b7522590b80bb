package traitquery

import (
	"cmp"
	"reflect"
	"slices"
	"sync"

	"github.com/TheBitDrifter/mask"
)

// CastFunc turns a type-erased pointer to a concrete component into a value
// of the trait it implements.
type CastFunc func(ptr any) any

// Entry is one registered implementation of a trait.
type Entry struct {
	Component     ComponentID
	CastShared    CastFunc
	CastExclusive CastFunc
	// Index is the global registration order of the entry. It only breaks
	// ties; it carries no priority.
	Index uint32
}

type registryKey struct {
	trait     TraitID
	component ComponentID
}

// Registry maps traits to the component types implementing them. It is
// filled during setup and sealed once the first query is built from it;
// after that it is read-only and safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sealed  bool
	next    uint32
	traits  map[TraitID][]Entry
	present map[registryKey]struct{}
}

func newRegistry() *Registry {
	return &Registry{
		traits:  make(map[TraitID][]Entry),
		present: make(map[registryKey]struct{}),
	}
}

// Register records that component implements trait. Registering the same
// pair twice fails with DuplicateRegistrationError and leaves the first
// registration in place. Component ids must fit in a mask.Mask.
func (r *Registry) Register(trait TraitID, component ComponentID, castShared, castExclusive CastFunc) error {
	if castShared == nil || castExclusive == nil {
		return InvalidCastError{Trait: trait, Component: component}
	}
	if uint32(component) >= mask.MaxBits {
		return ComponentIDRangeError{Trait: trait, Component: component}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return RegistrySealedError{Trait: trait}
	}
	key := registryKey{trait: trait, component: component}
	if _, exists := r.present[key]; exists {
		return DuplicateRegistrationError{Trait: trait, Component: component}
	}
	r.present[key] = struct{}{}
	r.traits[trait] = append(r.traits[trait], Entry{
		Component:     component,
		CastShared:    castShared,
		CastExclusive: castExclusive,
		Index:         r.next,
	})
	r.next++

	Config.Logger().Debug("registered trait implementation",
		"trait", trait.String(),
		"component", component,
		"index", r.next-1,
	)
	return nil
}

// EntriesFor returns the implementations of trait in registration order.
// An unknown trait yields an empty slice.
func (r *Registry) EntriesFor(trait TraitID) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.traits[trait])
}

// Len returns how many components implement trait.
func (r *Registry) Len(trait TraitID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.traits[trait])
}

// Traits returns every trait with at least one registration.
func (r *Registry) Traits() []TraitID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	traits := make([]TraitID, 0, len(r.traits))
	for t := range r.traits {
		traits = append(traits, t)
	}
	slices.SortFunc(traits, func(a, b TraitID) int {
		return cmp.Compare(r.traits[a][0].Index, r.traits[b][0].Index)
	})
	return traits
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether the registry rejects further registrations.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// snapshot seals the registry and returns the entries of trait.
func (r *Registry) snapshot(trait TraitID) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
	return slices.Clone(r.traits[trait])
}

// Impl registers component as an implementation of T. The component's
// column must hold values of type C; *C must implement T.
func Impl[T, C any](r *Registry, component ComponentID) error {
	trait := TraitOf[T]()
	if !trait.isInterface() {
		return NotATraitError{Type: trait.typ}
	}
	if _, ok := any((*C)(nil)).(T); !ok {
		return NotImplementedError{Trait: trait, Concrete: reflect.TypeFor[C]()}
	}
	cast := func(ptr any) any {
		return any(ptr.(*C)).(T)
	}
	return r.Register(trait, component, cast, cast)
}
