package ir

import (
	"fmt"
	"iter"
	"slices"
)

// PreludeNamespace is the namespace of the built-in shapes.
const PreludeNamespace = "smithy.api"

// UnitID is the prelude's empty structure, used for absent operation inputs.
const UnitID ShapeID = PreludeNamespace + "#Unit"

var preludeKinds = map[string]ShapeKind{
	"String":           KindString,
	"Byte":             KindByte,
	"Short":            KindShort,
	"Integer":          KindInteger,
	"Long":             KindLong,
	"Float":            KindFloat,
	"Double":           KindDouble,
	"Boolean":          KindBoolean,
	"Blob":             KindBlob,
	"Timestamp":        KindTimestamp,
	"Document":         KindDocument,
	"PrimitiveInteger": KindInteger,
	"PrimitiveLong":    KindLong,
	"PrimitiveBoolean": KindBoolean,
}

// Model is an arena of shapes addressed by id.
type Model struct {
	shapes  map[ShapeID]Shape
	service ShapeID
}

// NewModel returns a model seeded with the prelude shapes.
func NewModel() *Model {
	m := &Model{shapes: make(map[ShapeID]Shape)}
	for name, kind := range preludeKinds {
		id := ShapeID(PreludeNamespace + "#" + name)
		m.shapes[id] = NewSimple(id, kind, Traits{})
	}
	m.shapes[UnitID] = NewStructure(UnitID, Traits{})
	return m
}

// Add inserts s, replacing any shape with the same id.
func (m *Model) Add(s Shape) {
	m.shapes[s.ID()] = s
	if svc, ok := s.(*Service); ok && m.service == "" {
		m.service = svc.ID()
	}
}

// Lookup returns the shape with the given id.
func (m *Model) Lookup(id ShapeID) (Shape, bool) {
	s, ok := m.shapes[id]
	return s, ok
}

// Expect returns the shape with the given id. A missing id means the caller
// holds a dangling reference, which is a generator bug, so it panics.
func (m *Model) Expect(id ShapeID) Shape {
	s, ok := m.shapes[id]
	if !ok {
		panic(fmt.Sprintf("ir: shape %q not found in model", id))
	}
	return s
}

// Target resolves the shape a member points at.
func (m *Model) Target(mem *Member) Shape { return m.Expect(mem.Target) }

// Len returns the number of shapes, prelude included.
func (m *Model) Len() int { return len(m.shapes) }

// Shapes yields every shape sorted by id.
func (m *Model) Shapes() iter.Seq[Shape] {
	ids := make([]ShapeID, 0, len(m.shapes))
	for id := range m.shapes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return func(yield func(Shape) bool) {
		for _, id := range ids {
			if !yield(m.shapes[id]) {
				return
			}
		}
	}
}

// UserShapes yields every non-prelude shape sorted by id.
func (m *Model) UserShapes() iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		for s := range m.Shapes() {
			if s.ID().Namespace() == PreludeNamespace {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Operations yields every operation shape sorted by id.
func (m *Model) Operations() iter.Seq[*Operation] {
	return func(yield func(*Operation) bool) {
		for s := range m.Shapes() {
			if op, ok := s.(*Operation); ok {
				if !yield(op) {
					return
				}
			}
		}
	}
}

// Service returns the designated service, or nil when the model has none.
func (m *Model) Service() *Service {
	if m.service == "" {
		return nil
	}
	if svc, ok := m.shapes[m.service].(*Service); ok {
		return svc
	}
	return nil
}

// SetService designates the service used as naming context.
func (m *Model) SetService(id ShapeID) error {
	s, ok := m.shapes[id]
	if !ok {
		return fmt.Errorf("service %q not found", id)
	}
	if _, ok := s.(*Service); !ok {
		return fmt.Errorf("shape %q is a %s, not a service", id, s.Kind())
	}
	m.service = id
	return nil
}

// ContextName returns the name a shape takes within the service context,
// honoring the service's rename map.
func (m *Model) ContextName(id ShapeID) string {
	if svc := m.Service(); svc != nil {
		if n, ok := svc.Rename[id]; ok {
			return n
		}
	}
	return id.Name()
}

// Validate checks that every member target resolves.
func (m *Model) Validate() error {
	for s := range m.Shapes() {
		for _, mem := range Members(s) {
			if _, ok := m.shapes[mem.Target]; !ok {
				return &LoadError{Shape: s.ID(), Msg: fmt.Sprintf("member %q targets unknown shape %q", mem.Name, mem.Target)}
			}
		}
		switch v := s.(type) {
		case *Operation:
			for _, id := range append([]ShapeID{v.Input, v.Output}, v.Errors...) {
				if id == "" {
					continue
				}
				if _, ok := m.shapes[id]; !ok {
					return &LoadError{Shape: s.ID(), Msg: fmt.Sprintf("operation references unknown shape %q", id)}
				}
			}
		case *Service:
			for _, id := range v.Operations {
				if _, ok := m.shapes[id].(*Operation); !ok {
					return &LoadError{Shape: s.ID(), Msg: fmt.Sprintf("service references unknown operation %q", id)}
				}
			}
		}
	}
	return nil
}
