package constraint

import (
	"github.com/reoring/shapegen/internal/ir"
)

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// markCycles returns the ids of member edges that close a reference cycle
// between structures and unions. Lists and maps already provide indirection,
// so the walk never enters them and cycles through them stay unmarked.
//
// Every aggregate is used as a walk root. An edge u->v is marked when v is on
// the current path, which happens for every edge of every cycle once v itself
// is the root.
func markCycles(m *ir.Model) map[ir.ShapeID]bool {
	marked := make(map[ir.ShapeID]bool)
	for root := range m.Shapes() {
		if !boxable(root) {
			continue
		}
		states := make(map[ir.ShapeID]visitState)
		var visit func(s ir.Shape)
		visit = func(s ir.Shape) {
			states[s.ID()] = stateVisiting
			for _, mem := range ir.Members(s) {
				target := m.Target(mem)
				if !boxable(target) {
					continue
				}
				switch states[target.ID()] {
				case stateVisiting:
					marked[mem.ID()] = true
				case stateDone:
				default:
					visit(target)
				}
			}
			states[s.ID()] = stateDone
		}
		visit(root)
	}
	return marked
}

func boxable(s ir.Shape) bool {
	switch s.(type) {
	case *ir.Structure, *ir.Union:
		return true
	}
	return false
}
