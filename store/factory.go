package store

import "github.com/TheBitDrifter/table"

type factory struct{}

var Factory factory

func (f factory) NewStorage(schema table.Schema) Storage {
	return newStorage(schema)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, storage Storage) *Cursor {
	return newCursor(query, storage)
}

// FactoryNewComponent creates a tracked component type holding values of T.
func FactoryNewComponent[T any]() AccessibleComponent[T] {
	iden := table.FactoryNewElementType[cell[T]]()
	return AccessibleComponent[T]{
		Component: iden,
		accessor:  table.FactoryNewAccessor[cell[T]](iden),
	}
}
