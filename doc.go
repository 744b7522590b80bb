/*
Package traitquery queries entity-component storage by behavior instead of by type.

A trait is any Go interface. Component types that implement it are recorded in a
Registry during setup; afterwards a query over the trait finds every component on
an entity that implements it, without the caller naming the concrete types.

Core Concepts:

  - Registry: maps a trait to its implementing component types and their cast functions.
  - MatchList: the registered implementations present in one storage unit, compiled once per schema.
  - One / OneMut: the single implementation on each entity.
  - All / AllMut: every implementation on each entity, in registration order.
  - OneAdded / OneChanged: single-match filters driven by change ticks.

Basic Usage:

	registry := traitquery.Factory.NewRegistry()
	traitquery.Impl[Tooltip, Player](registry, sto.ComponentID(player))
	traitquery.Impl[Tooltip, Monster](registry, sto.ComponentID(monster))

	tooltips := traitquery.FactoryNewAll[Tooltip](registry)

	var sys tick.System
	w := sys.Begin(sto.Clock())
	for tip := range tooltips.Flatten(sto, w) {
		fmt.Println(tip.Get().Tooltip())
	}

Building a query seals the registry. Every query declares access to all components
registered for its trait; hosts use Access.Conflicts to decide which queries may run
in parallel.

Single-match queries treat an entity with several implementations as a logic error.
With AmbiguityPanic (the default) they panic with an *AmbiguousMatchError; with
AmbiguityFirst they use the first implementation in registration order. The policy is
chosen through Config and does not depend on build flags.
*/
package traitquery
