package gen

import (
	"github.com/reoring/shapegen/internal/ir"
	"github.com/reoring/shapegen/internal/symbol"
)

// operationError emits <Op>Error, the sealed interface every error the
// operation declares implements, with one Is<E> predicate per error and an
// As<Op>Error helper for error chains.
//
// An error structure shared by several operations collects the predicates
// of all of them; each answers the same way everywhere.
func (g *generator) operationError(op *ir.Operation) {
	if len(op.Errors) == 0 {
		return
	}
	var errs []string
	seen := map[ir.ShapeID]bool{}
	for _, id := range op.Errors {
		if seen[id] {
			continue
		}
		seen[id] = true
		st, ok := g.m.Expect(id).(*ir.Structure)
		if !ok || st.Traits().Error == "" {
			fault("%s: %s is listed as an error but lacks the error trait", op.ID(), id)
		}
		g.structure(st)
		errs = append(errs, g.p.Base(st).GoName())
	}

	iface := g.name(op) + "Error"
	g.out.once(symbol.ModuleModel, "operation error "+iface, func(w *writer) {
		w.l("// %s is one of the errors the %s operation declares.", iface, g.name(op))
		w.l("type %s interface {", iface)
		w.l("error")
		w.l("ErrorFault() string")
		for _, e := range errs {
			w.l("Is%s() bool", e)
		}
		w.l("is%s()", iface)
		w.l("}")
		for _, e := range errs {
			w.blank()
			w.l("func (%s) is%s() {}", e, iface)
		}
		w.blank()
		w.l("// As%s finds the first error in err's chain that %s declares.", iface, g.name(op))
		w.l("func As%s(err error) (%s, bool) {", iface, iface)
		w.l("var target %s", iface)
		w.l("ok := errors.As(err, &target)")
		w.l("return target, ok")
		w.l("}")
	})

	for _, e := range errs {
		for _, other := range errs {
			method := "Is" + other
			g.out.once(symbol.ModuleModel, "error predicate "+e+"."+method, func(w *writer) {
				w.l("func (%s) %s() bool { return %t }", e, method, e == other)
			})
		}
	}
}
