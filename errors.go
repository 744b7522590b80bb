package traitquery

import (
	"fmt"
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// DuplicateRegistrationError is returned when a component is registered twice
// for the same trait.
type DuplicateRegistrationError struct {
	Trait     TraitID
	Component ComponentID
}

func (e DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("component %d is already registered for trait %s", e.Component, e.Trait)
}

// RegistrySealedError is returned by registrations made after the first query
// was built from the registry.
type RegistrySealedError struct {
	Trait TraitID
}

func (e RegistrySealedError) Error() string {
	return fmt.Sprintf("registry is sealed: cannot register trait %s", e.Trait)
}

// InvalidCastError is returned when a registration is missing a cast function.
type InvalidCastError struct {
	Trait     TraitID
	Component ComponentID
}

func (e InvalidCastError) Error() string {
	return fmt.Sprintf("nil cast function for component %d of trait %s", e.Component, e.Trait)
}

// NotATraitError is returned by Impl when its trait parameter is not an
// interface.
type NotATraitError struct {
	Type reflect.Type
}

func (e NotATraitError) Error() string {
	return fmt.Sprintf("%v is not an interface type", e.Type)
}

// NotImplementedError is returned by Impl when the component does not satisfy
// the trait.
type NotImplementedError struct {
	Trait    TraitID
	Concrete reflect.Type
}

func (e NotImplementedError) Error() string {
	return fmt.Sprintf("*%v does not implement %s", e.Concrete, e.Trait)
}

// ComponentIDRangeError is returned when a component id has no bit in a
// mask.Mask.
type ComponentIDRangeError struct {
	Trait     TraitID
	Component ComponentID
}

func (e ComponentIDRangeError) Error() string {
	return fmt.Sprintf("component id %d of trait %s is out of range, ids must be below %d", e.Component, e.Trait, mask.MaxBits)
}

// AmbiguousMatchError is the panic value raised when a single-match query
// finds more than one implementation of its trait on one entity.
type AmbiguousMatchError struct {
	Trait      TraitID
	Unit       uint32
	Row        int
	Components []ComponentID
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("entity at row %d of unit %d has %d components implementing %s (%v), expected one",
		e.Row, e.Unit, len(e.Components), e.Trait, e.Components)
}
