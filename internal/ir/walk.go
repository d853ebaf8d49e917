package ir

import (
	"iter"
)

// Normalize prepares a loaded model for generation. Every operation input is
// tagged SyntheticInput; operations without an input get an empty
// "<Operation>Input" structure so each operation has one to deserialize.
func Normalize(m *Model) {
	for op := range m.Operations() {
		if op.Input == "" || op.Input == UnitID {
			id := ShapeID(op.ID().Namespace() + "#" + op.ID().Name() + "Input")
			if _, exists := m.Lookup(id); !exists {
				m.Add(NewStructure(id, Traits{}))
			}
			op.Input = id
		}
		if s, ok := m.Expect(op.Input).(*Structure); ok {
			s.Traits().SyntheticInput = true
		}
	}
}

// Walk yields from and every shape reachable from it through member edges,
// breadth first. Each shape is yielded once, so cyclic graphs terminate.
func Walk(m *Model, from ShapeID) iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		seen := map[ShapeID]bool{from: true}
		queue := []ShapeID{from}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			s := m.Expect(id)
			if !yield(s) {
				return
			}
			for _, mem := range Members(s) {
				if !seen[mem.Target] {
					seen[mem.Target] = true
					queue = append(queue, mem.Target)
				}
			}
		}
	}
}

// ReachableFromInputs returns the ids of aggregate shapes reachable from any
// operation input. A model without operations is treated as a library of
// input shapes: every aggregate counts as reachable.
func ReachableFromInputs(m *Model) map[ShapeID]bool {
	out := make(map[ShapeID]bool)
	hasOps := false
	for op := range m.Operations() {
		hasOps = true
		for s := range Walk(m, op.Input) {
			if IsAggregate(s) {
				out[s.ID()] = true
			}
		}
	}
	if !hasOps {
		for s := range m.UserShapes() {
			if IsAggregate(s) {
				out[s.ID()] = true
			}
		}
	}
	return out
}

// InputOperation returns the operation whose input is id, if any.
func InputOperation(m *Model, id ShapeID) (*Operation, bool) {
	for op := range m.Operations() {
		if op.Input == id {
			return op, true
		}
	}
	return nil, false
}
