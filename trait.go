package traitquery

import "reflect"

// TraitID identifies a trait, which is any Go interface type.
type TraitID struct {
	typ reflect.Type
}

// TraitOf returns the TraitID for T.
func TraitOf[T any]() TraitID {
	return TraitID{typ: reflect.TypeFor[T]()}
}

// Type returns the interface type behind the id.
func (t TraitID) Type() reflect.Type {
	return t.typ
}

func (t TraitID) String() string {
	if t.typ == nil {
		return "<nil>"
	}
	return t.typ.String()
}

func (t TraitID) isInterface() bool {
	return t.typ != nil && t.typ.Kind() == reflect.Interface
}
