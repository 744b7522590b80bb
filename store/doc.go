/*
Package store is an archetype-based entity-component storage that hosts trait queries.

Entities sharing the same component set live in one archetype table. Every component
value carries the tick it was added at and the tick it last changed at, so the
traitquery package can filter by change without the storage knowing about traits.

Core Concepts:

  - Entity: A unique identifier that represents a game object.
  - Component: A data container that defines entity attributes.
  - Archetype: A collection of entities sharing the same component types; a traitquery.Unit.
  - Query: A way to find archetypes with specific component combinations.
  - Cursor: Iterates the entities of matching archetypes; a traitquery.Host.

Basic Usage:

	schema := table.Factory.NewSchema()
	sto := store.Factory.NewStorage(schema)

	player := store.FactoryNewComponent[Player]()
	monster := store.FactoryNewComponent[Monster]()

	registry := traitquery.Factory.NewRegistry()
	traitquery.Impl[Tooltip, Player](registry, sto.ComponentID(player))
	traitquery.Impl[Tooltip, Monster](registry, sto.ComponentID(monster))

	sto.NewEntities(1, player)
	sto.NewEntities(3, monster)

	tooltips := traitquery.FactoryNewOne[Tooltip](registry)

	var sys tick.System
	sto.RunSystem(&sys, func(w tick.Window) {
		for _, tip := range tooltips.Iter(sto, w) {
			fmt.Println(tip.Get().Tooltip())
		}
	})

Structural changes made while a system runs or a cursor iterates must go through
the Enqueue methods; they are applied once the storage is unlocked.
*/
package store
