package store

import (
	"testing"

	"github.com/TheBitDrifter/table"
	"github.com/TheBitDrifter/traitquery"
	"github.com/TheBitDrifter/traitquery/tick"
)

// Traits implemented by the test components
type Mover interface {
	Speed() float64
}

type Wounded interface {
	Missing() int
}

func (v *Velocity) Speed() float64 { return v.X + v.Y }

func (h *Health) Missing() int { return h.Max - h.Current }

// Never stored in any test storage
type Marker struct{}

type population struct {
	storage  Storage
	registry *traitquery.Registry
	pos      AccessibleComponent[Position]
	vel      AccessibleComponent[Velocity]
	health   AccessibleComponent[Health]
}

// newPopulation fills a storage with 2 {pos,vel}, 3 {pos}, 4 {vel,health}
// and 5 {health} entities. Velocity implements Mover, Health implements
// Wounded.
func newPopulation(t *testing.T) *population {
	t.Helper()
	p := &population{
		storage:  Factory.NewStorage(table.Factory.NewSchema()),
		registry: traitquery.Factory.NewRegistry(),
		pos:      FactoryNewComponent[Position](),
		vel:      FactoryNewComponent[Velocity](),
		health:   FactoryNewComponent[Health](),
	}
	if err := traitquery.Impl[Mover, Velocity](p.registry, p.storage.ComponentID(p.vel)); err != nil {
		t.Fatalf("Impl() error = %v", err)
	}
	if err := traitquery.Impl[Wounded, Health](p.registry, p.storage.ComponentID(p.health)); err != nil {
		t.Fatalf("Impl() error = %v", err)
	}
	for _, batch := range []struct {
		n     int
		comps []Component
	}{
		{2, []Component{p.pos, p.vel}},
		{3, []Component{p.pos}},
		{4, []Component{p.vel, p.health}},
		{5, []Component{p.health}},
	} {
		entities, err := p.storage.NewEntities(batch.n, batch.comps...)
		if err != nil {
			t.Fatalf("NewEntities() error = %v", err)
		}
		for i, en := range entities {
			if p.vel.Check(en.Table()) {
				*p.vel.GetFromEntity(en) = Velocity{X: float64(i + 1)}
			}
			if p.health.Check(en.Table()) {
				*p.health.GetFromEntity(en) = Health{Current: 10 - i, Max: 10}
			}
		}
	}
	return p
}

func TestQueryFiltering(t *testing.T) {
	marker := FactoryNewComponent[Marker]()

	tests := []struct {
		name  string
		build func(q Query, p *population) QueryNode
		want  int
	}{
		{"and", func(q Query, p *population) QueryNode { return q.And(p.pos, p.vel) }, 2},
		{"or", func(q Query, p *population) QueryNode { return q.Or(p.pos, p.health) }, 14},
		{"not", func(q Query, p *population) QueryNode { return q.Not(p.vel) }, 8},
		{"component slice", func(q Query, p *population) QueryNode { return q.And([]Component{p.vel, p.health}) }, 4},
		{
			"or of ands",
			func(q Query, p *population) QueryNode { return q.Or(q.And(p.pos, p.vel), q.And(p.vel, p.health)) },
			6,
		},
		{"not of and", func(q Query, p *population) QueryNode { return q.Not(q.And(p.vel, p.health)) }, 10},
		{"and with nested not", func(q Query, p *population) QueryNode { return q.And(p.pos, q.Not(p.vel)) }, 3},
		{"unregistered component in and", func(q Query, p *population) QueryNode { return q.And(p.pos, marker) }, 0},
		{"unregistered component in not", func(q Query, p *population) QueryNode { return q.Not(marker) }, 14},
		{"unregistered component in or", func(q Query, p *population) QueryNode { return q.Or(marker, p.pos) }, 5},
		{"trait implementation", func(q Query, p *population) QueryNode { return q.And(Implementing[Mover](p.registry)) }, 6},
		{
			"trait implementation combined",
			func(q Query, p *population) QueryNode {
				return q.And(Implementing[Wounded](p.registry), q.Not(Implementing[Mover](p.registry)))
			},
			5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPopulation(t)
			q := Factory.NewQuery()
			node := tt.build(q, p)

			cursor := Factory.NewCursor(node, p.storage)
			count := 0
			for cursor.Next() {
				count++
			}
			if count != tt.want {
				t.Errorf("cursor visited %d entities, want %d", count, tt.want)
			}
			if p.storage.Locked() {
				t.Errorf("storage still locked after the cursor finished")
			}
			if got := Factory.NewCursor(node, p.storage).TotalMatched(); got != tt.want {
				t.Errorf("TotalMatched() = %d, want %d", got, tt.want)
			}

			units := 0
			for unit := range cursor.Units() {
				units += unit.Len()
			}
			if units != tt.want {
				t.Errorf("cursor units hold %d entities, want %d", units, tt.want)
			}

			// The query evaluates as the node built last
			matched := 0
			for _, arch := range p.storage.Archetypes() {
				if q.Evaluate(arch, p.storage) {
					matched += arch.Len()
				}
			}
			if matched != tt.want {
				t.Errorf("query matched %d entities, want %d", matched, tt.want)
			}
		})
	}
}

func TestTraitQueryThroughCursor(t *testing.T) {
	p := newPopulation(t)
	movers := traitquery.FactoryNewOne[Mover](p.registry)
	wounded := traitquery.FactoryNewAllMut[Wounded](p.registry)
	q := Factory.NewQuery()

	tests := []struct {
		name   string
		node   QueryNode
		speeds []float64
	}{
		{"positioned movers", q.And(p.pos), []float64{1, 2}},
		{"unpositioned movers", q.Not(p.pos), []float64{1, 2, 3, 4}},
		{"healthy or positioned", q.Or(p.pos, p.health), []float64{1, 2, 1, 2, 3, 4}},
		{"excluded by trait", q.Not(Implementing[Wounded](p.registry)), []float64{1, 2}},
	}

	var sys tick.System
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := Factory.NewCursor(tt.node, p.storage)
			var speeds []float64
			err := p.storage.RunSystem(&sys, func(w tick.Window) {
				for _, ref := range movers.Iter(cursor, w) {
					speeds = append(speeds, ref.Get().Speed())
				}
			})
			if err != nil {
				t.Fatalf("RunSystem() error = %v", err)
			}
			if len(speeds) != len(tt.speeds) {
				t.Fatalf("speeds = %v, want %v", speeds, tt.speeds)
			}
			for i := range speeds {
				if speeds[i] != tt.speeds[i] {
					t.Errorf("speeds = %v, want %v", speeds, tt.speeds)
					break
				}
			}
		})
	}

	// Writes through a narrowed trait query are seen as changes by a later
	// system looking at the whole storage.
	var healer, observer tick.System
	changed := traitquery.FactoryNewOneChanged[Wounded](p.registry)
	if err := p.storage.RunSystem(&observer, func(tick.Window) {}); err != nil {
		t.Fatalf("RunSystem() error = %v", err)
	}
	moving := Factory.NewCursor(q.And(Implementing[Mover](p.registry)), p.storage)
	err := p.storage.RunSystem(&healer, func(w tick.Window) {
		for ref := range wounded.Flatten(moving, w) {
			if h, ok := ref.Get().(*Health); ok {
				h.Current = h.Max
			}
		}
	})
	if err != nil {
		t.Fatalf("RunSystem() error = %v", err)
	}

	healed := 0
	err = p.storage.RunSystem(&observer, func(w tick.Window) {
		for _, ref := range changed.Iter(p.storage, w) {
			if ref.Get().Missing() != 0 {
				t.Errorf("changed entity still misses %d health", ref.Get().Missing())
			}
			healed++
		}
	})
	if err != nil {
		t.Fatalf("RunSystem() error = %v", err)
	}
	if healed != 4 {
		t.Errorf("observer saw %d healed entities, want 4", healed)
	}
}

func TestQueryComponentAccess(t *testing.T) {
	p := newPopulation(t)
	movers := Factory.NewQuery().And(p.pos, p.vel)

	cursor := Factory.NewCursor(movers, p.storage)
	for cursor.Next() {
		pos := p.pos.GetFromCursor(cursor)
		vel := p.vel.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y

		ok, found := p.pos.GetFromRow(cursor.CurrentRow())
		if !ok || found != pos {
			t.Errorf("GetFromRow() disagrees with GetFromCursor()")
		}
		if ok, _ := p.health.GetFromCursorSafe(cursor); ok {
			t.Errorf("GetFromCursorSafe() found a component the archetype lacks")
		}
	}

	var xs []float64
	for cursor.Next() {
		xs = append(xs, p.pos.GetFromCursor(cursor).X)
	}
	if len(xs) != 2 || xs[0] != 1 || xs[1] != 2 {
		t.Errorf("positions after one step = %v, want [1 2]", xs)
	}
}
