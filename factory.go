package traitquery

type factory struct{}

var Factory factory

func (f factory) NewRegistry() *Registry {
	return newRegistry()
}

// The query constructors below seal r: implementations registered later
// would escape the access the query has already declared.

func FactoryNewAll[T any](r *Registry) *All[T] {
	return &All[T]{state: newState(r, TraitOf[T](), false)}
}

func FactoryNewAllMut[T any](r *Registry) *AllMut[T] {
	return &AllMut[T]{state: newState(r, TraitOf[T](), true)}
}

func FactoryNewOne[T any](r *Registry) *One[T] {
	return &One[T]{state: newState(r, TraitOf[T](), false)}
}

func FactoryNewOneMut[T any](r *Registry) *OneMut[T] {
	return &OneMut[T]{state: newState(r, TraitOf[T](), true)}
}

func FactoryNewOneAdded[T any](r *Registry) *OneAdded[T] {
	return &OneAdded[T]{state: newState(r, TraitOf[T](), false)}
}

func FactoryNewOneChanged[T any](r *Registry) *OneChanged[T] {
	return &OneChanged[T]{state: newState(r, TraitOf[T](), false)}
}
