package store

import (
	"fmt"
)

type changeKind uint8

const (
	changeAdd changeKind = iota
	changeRemove
)

type createOp struct {
	amount int
	comps  []Component
}

type changeOp struct {
	kind   changeKind
	entity Entity
	comp   Component
}

// opQueue records the structural changes requested while the storage is
// locked. They are applied in three phases once the last lock is released:
// creations, component changes in the order they were queued, destructions.
type opQueue struct {
	creates  []createOp
	changes  []changeOp
	destroys []Entity
	doomed   map[Entity]struct{}
}

func newOpQueue() opQueue {
	return opQueue{doomed: make(map[Entity]struct{})}
}

func (q *opQueue) empty() bool {
	return len(q.creates) == 0 && len(q.changes) == 0 && len(q.destroys) == 0
}

func (q *opQueue) enqueueCreate(amount int, comps []Component) {
	q.creates = append(q.creates, createOp{amount: amount, comps: comps})
}

// enqueueChange drops changes to entities already queued for destruction.
func (q *opQueue) enqueueChange(kind changeKind, e Entity, c Component) {
	if _, doomed := q.doomed[e]; doomed {
		return
	}
	q.changes = append(q.changes, changeOp{kind: kind, entity: e, comp: c})
}

func (q *opQueue) enqueueDestroy(entities []Entity) {
	for _, e := range entities {
		if _, doomed := q.doomed[e]; doomed {
			continue
		}
		q.doomed[e] = struct{}{}
		q.destroys = append(q.destroys, e)
	}
}

// apply performs the change unless an earlier change already made it moot.
func (op changeOp) apply() error {
	present := op.entity.Table().Contains(op.comp)
	switch op.kind {
	case changeAdd:
		if present {
			return nil
		}
		if err := op.entity.AddComponent(op.comp); err != nil {
			return fmt.Errorf("failed to add queued component: %w", err)
		}
	case changeRemove:
		if !present {
			return nil
		}
		if err := op.entity.RemoveComponent(op.comp); err != nil {
			return fmt.Errorf("failed to remove queued component: %w", err)
		}
	}
	return nil
}

func (sto *storage) processOperationQueue() error {
	if sto.opQueue.empty() {
		return nil
	}
	// Destroy callbacks may queue more work; it lands in a fresh queue.
	batch := sto.opQueue
	sto.opQueue = newOpQueue()

	for _, op := range batch.creates {
		if _, err := sto.NewEntities(op.amount, op.comps...); err != nil {
			return fmt.Errorf("failed to process queued entity creation: %w", err)
		}
	}
	for _, op := range batch.changes {
		if _, doomed := batch.doomed[op.entity]; doomed || !op.entity.Valid() {
			continue
		}
		if err := op.apply(); err != nil {
			return err
		}
	}
	if len(batch.destroys) > 0 {
		if err := sto.DestroyEntities(batch.destroys...); err != nil {
			return fmt.Errorf("failed to delete queued entries: %w", err)
		}
	}
	return nil
}
