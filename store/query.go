package store

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/traitquery"
)

// Operation combines the terms and children of a query node.
type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

func (op Operation) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	}
	return "unknown"
}

// node is one boolean term over archetype masks. Component bits depend on
// the schema, so they are resolved against the storage on every evaluation.
type node struct {
	op       Operation
	terms    []Component
	children []QueryNode
}

func (n *node) Evaluate(arch Archetype, sto Storage) bool {
	has := arch.Mask()
	want, unknown := termMask(sto, n.terms)

	switch n.op {
	case OpAnd:
		// A component the schema has never seen is on no archetype.
		if unknown || !has.ContainsAll(want) {
			return false
		}
		return every(n.children, arch, sto)
	case OpOr:
		if !want.IsEmpty() && has.ContainsAny(want) {
			return true
		}
		return some(n.children, arch, sto)
	case OpNot:
		if !want.IsEmpty() && !has.ContainsNone(want) {
			return false
		}
		return !some(n.children, arch, sto)
	}
	return false
}

// termMask marks the bits of the registered terms and reports whether any
// term is unknown to the storage schema.
func termMask(sto Storage, terms []Component) (m mask.Mask, unknown bool) {
	for _, c := range terms {
		if !sto.ContainsComponent(c) {
			unknown = true
			continue
		}
		m.Mark(sto.RowIndexFor(c))
	}
	return m, unknown
}

func every(nodes []QueryNode, arch Archetype, sto Storage) bool {
	for _, n := range nodes {
		if !n.Evaluate(arch, sto) {
			return false
		}
	}
	return true
}

func some(nodes []QueryNode, arch Archetype, sto Storage) bool {
	for _, n := range nodes {
		if n.Evaluate(arch, sto) {
			return true
		}
	}
	return false
}

// implementing matches archetypes holding at least one registered
// implementation of a trait.
type implementing struct {
	registry *traitquery.Registry
	trait    traitquery.TraitID
}

// Implementing returns a query node matching the archetypes that hold a
// component implementing T in r. It can be nested in And, Or and Not like any
// other node.
func Implementing[T any](r *traitquery.Registry) QueryNode {
	return implementing{registry: r, trait: traitquery.TraitOf[T]()}
}

func (n implementing) Evaluate(arch Archetype, _ Storage) bool {
	has := arch.Mask()
	for _, e := range n.registry.EntriesFor(n.trait) {
		if has.Contains(uint32(e.Component)) {
			return true
		}
	}
	return false
}

// query builds nodes. Evaluating the query itself evaluates the node built
// last, which for nested calls is the outermost one.
type query struct {
	last QueryNode
}

func newQuery() Query {
	return &query{}
}

func (q *query) And(items ...any) QueryNode {
	return q.build(OpAnd, items)
}

func (q *query) Or(items ...any) QueryNode {
	return q.build(OpOr, items)
}

func (q *query) Not(items ...any) QueryNode {
	return q.build(OpNot, items)
}

func (q *query) build(op Operation, items []any) QueryNode {
	n := &node{op: op}
	for _, item := range items {
		switch v := item.(type) {
		case Component:
			n.terms = append(n.terms, v)
		case []Component:
			n.terms = append(n.terms, v...)
		case QueryNode:
			n.children = append(n.children, v)
		}
	}
	q.last = n
	return n
}

func (q *query) Evaluate(arch Archetype, sto Storage) bool {
	if q.last == nil {
		return false
	}
	return q.last.Evaluate(arch, sto)
}
