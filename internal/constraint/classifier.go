// Package constraint classifies shapes by how they relate to validation
// traits: directly constrained, transitively constrained, or unconstrained.
// It also marks the member edges that close reference cycles.
package constraint

import (
	"github.com/reoring/shapegen/internal/ir"
)

// Classifier answers classification queries for one model. Answers are
// memoized; a Classifier belongs to a single generation run.
type Classifier struct {
	model   *ir.Model
	reaches map[ir.ShapeID]bool
	boxed   map[ir.ShapeID]bool // member ids
}

// New returns a Classifier over m.
func New(m *ir.Model) *Classifier {
	return &Classifier{model: m, reaches: make(map[ir.ShapeID]bool)}
}

// Model returns the classified model.
func (c *Classifier) Model() *ir.Model { return c.model }

// IsDirectlyConstrained reports whether s itself bears a validation trait, or
// is a structure with at least one required member.
func (c *Classifier) IsDirectlyConstrained(s ir.Shape) bool {
	switch v := s.(type) {
	case *ir.Structure:
		for _, m := range v.Members {
			if m.IsRequired() {
				return true
			}
		}
		return false
	case *ir.Union:
		return false
	case *ir.List, *ir.Map:
		return s.Traits().Length != nil
	case *ir.Simple:
		return s.Traits().HasConstraint()
	case *ir.Operation, *ir.Service:
		return false
	default:
		panic(unexpected(s))
	}
}

// ReachesConstrainedShape reports whether s, or any shape reachable from it
// through member edges, is directly constrained.
func (c *Classifier) ReachesConstrainedShape(s ir.Shape) bool {
	if v, ok := c.reaches[s.ID()]; ok {
		return v
	}
	visited := make(map[ir.ShapeID]bool)
	queue := []ir.ShapeID{s.ID()}
	found := false
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		if c.reaches[id] {
			found = true
			break
		}
		sh := c.model.Expect(id)
		if c.IsDirectlyConstrained(sh) {
			found = true
			break
		}
		for _, m := range ir.Members(sh) {
			if !visited[m.Target] {
				queue = append(queue, m.Target)
			}
		}
	}
	if found {
		c.reaches[s.ID()] = true
		return true
	}
	// The whole closure was explored without a hit, so none of it reaches.
	for id := range visited {
		c.reaches[id] = false
	}
	return false
}

// TargetReachesConstrainedShape is ReachesConstrainedShape applied to the
// member's target.
func (c *Classifier) TargetReachesConstrainedShape(m *ir.Member) bool {
	return c.ReachesConstrainedShape(c.model.Target(m))
}

// IsTransitivelyButNotDirectlyConstrained reports shapes that only validate
// through something they contain.
func (c *Classifier) IsTransitivelyButNotDirectlyConstrained(s ir.Shape) bool {
	return !c.IsDirectlyConstrained(s) && c.ReachesConstrainedShape(s)
}

// IsOnCycle reports whether m closes a reference cycle and needs a boxed
// representation.
func (c *Classifier) IsOnCycle(m *ir.Member) bool {
	if c.boxed == nil {
		c.boxed = markCycles(c.model)
	}
	return c.boxed[m.ID()]
}

// IsEnum reports whether s is a string shape with a closed value set.
func IsEnum(s ir.Shape) bool {
	return s.Kind() == ir.KindString && len(s.Traits().Enum) > 0
}
