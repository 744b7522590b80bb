package store

import "github.com/TheBitDrifter/table"

// Config holds global configuration for the storages of this package.
// Archetype tables read it when they are built.
var Config config = config{}

type config struct {
	tableEvents table.TableEvents
}

// SetTableEvents configures the table event callbacks of archetypes created
// after the call.
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

func (c *config) TableEvents() table.TableEvents {
	return c.tableEvents
}
