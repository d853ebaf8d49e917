package gen

import (
	"fmt"
	"strings"

	"github.com/reoring/shapegen/internal/ir"
	"github.com/reoring/shapegen/internal/symbol"
)

// violationKind is one discriminator value of a structure violation.
type violationKind struct {
	name    string
	member  *ir.Member
	missing bool
}

// structPlan gathers what builder synthesis decided for one structure.
type structPlan struct {
	s       *ir.Structure
	name    string
	builder string
	takeIn  bool
	reaches bool
	kinds   []violationKind
	// hasViolation is true when build reports a violation type.
	hasViolation bool
	// fallible is true when Build returns an error.
	fallible bool
}

func (g *generator) plan(s *ir.Structure) *structPlan {
	sp := &structPlan{
		s:       s,
		name:    g.p.Base(s).GoName(),
		builder: g.p.Builder(s).GoName(),
		takeIn:  g.validating() && g.takeIn[s.ID()],
		reaches: g.cls.ReachesConstrainedShape(s),
	}
	missing := false
	for _, m := range s.Members {
		if m.IsRequired() && !m.Traits.HasDefault {
			missing = true
			sp.kinds = append(sp.kinds, violationKind{name: sp.name + "Missing" + fieldName(m), member: m, missing: true})
		}
		if g.p.SlotIsMaybeConstrained(m, sp.takeIn) {
			sp.kinds = append(sp.kinds, violationKind{name: sp.name + "Invalid" + fieldName(m), member: m})
		}
	}
	sp.hasViolation = len(sp.kinds) > 0 || (g.validating() && sp.reaches)
	synthetic := s.Traits().SyntheticInput
	if sp.takeIn {
		sp.fallible = synthetic || sp.reaches
	} else {
		sp.fallible = synthetic || missing
	}
	return sp
}

func (sp *structPlan) hasInvalid() bool {
	for _, k := range sp.kinds {
		if !k.missing {
			return true
		}
	}
	return false
}

func (g *generator) structure(s *ir.Structure) {
	sp := g.plan(s)
	g.out.once(symbol.ModuleModel, sp.name, func(w *writer) {
		g.dataType(w, sp)
		g.builder(w, sp)
		if sp.hasViolation {
			g.structViolation(w, sp)
		}
	})
}

func (g *generator) dataType(w *writer, sp *structPlan) {
	s := sp.s
	w.doc(s.Traits().Documentation)
	w.l("type %s struct {", sp.name)
	for _, m := range s.Members {
		w.doc(m.Traits.Documentation)
		w.l("%s %s", fieldName(m), g.p.MainMemberType(m).Render())
	}
	w.l("}")

	if errKind := s.Traits().Error; errKind != "" {
		w.blank()
		msg := "nil"
		for _, m := range s.Members {
			if strings.EqualFold(m.Name, "message") {
				msg = "x." + fieldName(m)
			}
		}
		w.l("func (x %s) Error() string { return shapegen.ErrorMessage(%q, %s) }", sp.name, sp.name, msg)
		w.blank()
		w.l("// ErrorFault reports whether the error is the caller's fault (\"client\")")
		w.l("// or the service's (\"server\").")
		w.l("func (%s) ErrorFault() string { return %q }", sp.name, errKind)
	}

	switch {
	case s.Traits().Sensitive:
		w.blank()
		w.l("func (%s) String() string { return shapegen.Redacted }", sp.name)
	case g.hasSensitiveMember(s):
		w.blank()
		w.l("func (x %s) String() string {", sp.name)
		w.l("return shapegen.FormatStruct(%q,", sp.name)
		for _, m := range s.Members {
			if m.Traits.Sensitive || g.m.Target(m).Traits().Sensitive {
				w.l("shapegen.Redact(%q),", m.Name)
			} else {
				w.l("shapegen.Field(%q, x.%s),", m.Name, fieldName(m))
			}
		}
		w.l(")")
		w.l("}")
	}
}

func (g *generator) hasSensitiveMember(s *ir.Structure) bool {
	for _, m := range s.Members {
		if m.Traits.Sensitive || g.m.Target(m).Traits().Sensitive {
			return true
		}
	}
	return false
}

func (g *generator) builder(w *writer, sp *structPlan) {
	s := sp.s
	w.blank()
	w.l("// %s accumulates the members of %s.", sp.builder, sp.name)
	w.l("type %s struct {", sp.builder)
	for _, m := range s.Members {
		w.l("%s %s", slotName(m), g.p.BuilderSlot(m, sp.takeIn).Render())
	}
	w.l("}")

	for _, m := range s.Members {
		g.setters(w, sp, m)
	}

	g.buildFunc(w, sp)

	w.blank()
	if sp.fallible {
		if sp.hasViolation {
			w.l("// Build returns the %s, or the first constraint violation found.", sp.name)
		} else {
			w.l("// Build returns the %s.", sp.name)
		}
		w.l("func (b *%s) Build() (%s, error) {", sp.builder, sp.name)
		if sp.hasViolation {
			w.l("v, cv := b.build()")
			w.l("if cv != nil {")
			w.l("return %s{}, cv", sp.name)
			w.l("}")
			w.l("return v, nil")
		} else {
			w.l("return b.build(), nil")
		}
	} else {
		w.l("// Build returns the %s.", sp.name)
		w.l("func (b *%s) Build() %s {", sp.builder, sp.name)
		if sp.hasViolation {
			w.l("v, _ := b.build()")
			w.l("return v")
		} else {
			w.l("return b.build()")
		}
	}
	w.l("}")

	if g.canRebuild(sp) {
		g.toBuilder(w, sp)
	}

	if g.validating() && sp.reaches {
		w.blank()
		w.l("func %s(u %s) (%s, *%s) {", g.constrainFunc(s), sp.builder, sp.name, g.p.Violation(s).GoName())
		w.l("return u.build()")
		w.l("}")
	}
}

// setters emits the chaining setters of one member. A slot that may hold an
// unvalidated value gets a setter taking the unconstrained type; with public
// constrained types the exported setter takes the validated type and the
// unconstrained one stays unexported for the deserializer.
func (g *generator) setters(w *writer, sp *structPlan, m *ir.Member) {
	target := g.m.Target(m)
	slot := slotName(m)
	exported := "Set" + fieldName(m)
	main := g.p.Main(target).Type.Render()

	if !g.p.SlotIsMaybeConstrained(m, sp.takeIn) {
		w.blank()
		w.l("func (b *%s) %s(v %s) *%s {", sp.builder, exported, main, sp.builder)
		if g.p.BuilderSlot(m, sp.takeIn).IsPointer() {
			w.l("b.%s = &v", slot)
		} else {
			w.l("b.%s = v", slot)
		}
		w.l("return b")
		w.l("}")
		return
	}

	c := g.p.PubCrateConstrained(target).Type.Render()
	u := g.p.Unconstrained(target).Type.Render()
	raw := exported
	if g.public() {
		raw = "set" + fieldName(m)
		w.blank()
		w.l("func (b *%s) %s(v %s) *%s {", sp.builder, exported, main, sp.builder)
		w.l("b.%s = shapegen.Ptr(shapegen.Constrained[%s, %s](v))", slot, c, u)
		w.l("return b")
		w.l("}")
	}
	w.blank()
	w.l("func (b *%s) %s(v %s) *%s {", sp.builder, raw, u, sp.builder)
	w.l("b.%s = shapegen.Ptr(shapegen.Unconstrained[%s, %s](v))", slot, c, u)
	w.l("return b")
	w.l("}")
}

// setterFor names the setter the deserializer calls for m.
func (g *generator) setterFor(sp *structPlan, m *ir.Member) string {
	if g.public() && g.p.SlotIsMaybeConstrained(m, sp.takeIn) {
		return "set" + fieldName(m)
	}
	return "Set" + fieldName(m)
}

func (g *generator) buildFunc(w *writer, sp *structPlan) {
	s := sp.s
	vio := ""
	w.blank()
	if sp.hasViolation {
		vio = g.p.Violation(s).GoName()
		w.l("func (b *%s) build() (%s, *%s) {", sp.builder, sp.name, vio)
	} else {
		w.l("func (b *%s) build() %s {", sp.builder, sp.name)
	}
	w.l("var out %s", sp.name)
	for _, m := range s.Members {
		target := g.m.Target(m)
		field, slot := fieldName(m), slotName(m)
		ft := g.p.MainMemberType(m)
		w.l("if b.%s != nil {", slot)
		if g.p.SlotIsMaybeConstrained(m, sp.takeIn) {
			w.l("c, cv := shapegen.Resolve(*b.%s, %s)", slot, g.constrainFunc(target))
			w.l("if cv != nil {")
			w.l("return %s{}, &%s{Kind: %s, %s: cv}", sp.name, vio, sp.name+"Invalid"+field, violationField(m))
			w.l("}")
			conv := g.convert(target, "c")
			switch {
			case !ft.IsPointer():
				w.l("out.%s = %s", field, conv)
			case conv == "c":
				w.l("out.%s = &c", field)
			default:
				w.l("out.%s = shapegen.Ptr(%s)", field, conv)
			}
		} else if g.p.BuilderSlot(m, sp.takeIn).IsPointer() && !ft.IsPointer() {
			w.l("out.%s = *b.%s", field, slot)
		} else {
			w.l("out.%s = b.%s", field, slot)
		}
		switch {
		case m.IsRequired() && !m.Traits.HasDefault:
			w.l("} else {")
			w.l("return %s{}, &%s{Kind: %s}", sp.name, vio, sp.name+"Missing"+field)
		case m.Traits.HasDefault:
			w.l("} else {")
			lit := g.defaultLiteral(m)
			if ft.IsPointer() {
				lit = "shapegen.Ptr(" + lit + ")"
			}
			w.l("out.%s = %s", field, lit)
		}
		w.l("}")
	}
	if sp.hasViolation {
		w.l("return out, nil")
	} else {
		w.l("return out")
	}
	w.l("}")
}

// canRebuild reports whether every validated slot holds the exposed type, so
// a value can be turned back into a builder without re-validation.
func (g *generator) canRebuild(sp *structPlan) bool {
	for _, m := range sp.s.Members {
		if !g.p.SlotIsMaybeConstrained(m, sp.takeIn) {
			continue
		}
		target := g.m.Target(m)
		if g.p.PubCrateConstrained(target).Type.Render() != g.p.Main(target).Type.Render() {
			return false
		}
	}
	return true
}

func (g *generator) toBuilder(w *writer, sp *structPlan) {
	w.blank()
	w.l("// ToBuilder returns a builder holding the members of x.")
	w.l("func (x %s) ToBuilder() *%s {", sp.name, sp.builder)
	if len(sp.s.Members) == 0 {
		w.l("return &%s{}", sp.builder)
		w.l("}")
		return
	}
	w.l("b := &%s{}", sp.builder)
	for _, m := range sp.s.Members {
		target := g.m.Target(m)
		field, slot := fieldName(m), slotName(m)
		ft := g.p.MainMemberType(m)
		if !g.p.SlotIsMaybeConstrained(m, sp.takeIn) {
			if g.p.BuilderSlot(m, sp.takeIn).IsPointer() && !ft.IsPointer() {
				w.l("b.%s = shapegen.Ptr(x.%s)", slot, field)
			} else {
				w.l("b.%s = x.%s", slot, field)
			}
			continue
		}
		wrap := fmt.Sprintf("shapegen.Constrained[%s, %s]", g.p.PubCrateConstrained(target).Type.Render(), g.p.Unconstrained(target).Type.Render())
		switch {
		case ft.IsPointer():
			w.l("if x.%s != nil {", field)
			w.l("b.%s = shapegen.Ptr(%s(*x.%s))", slot, wrap, field)
			w.l("}")
		case ft.IsOptional():
			w.l("if x.%s != nil {", field)
			w.l("b.%s = shapegen.Ptr(%s(x.%s))", slot, wrap, field)
			w.l("}")
		default:
			w.l("b.%s = shapegen.Ptr(%s(x.%s))", slot, wrap, field)
		}
	}
	w.l("return b")
	w.l("}")
}

func (g *generator) structViolation(w *writer, sp *structPlan) {
	s := sp.s
	vio := g.p.Violation(s).GoName()
	kind := vio + "Kind"

	w.blank()
	w.l("// %s identifies why building %s failed.", kind, sp.name)
	w.l("type %s int", kind)
	if len(sp.kinds) > 0 {
		w.blank()
		w.l("const (")
		for i, k := range sp.kinds {
			if i == 0 {
				w.l("%s %s = iota + 1", k.name, kind)
			} else {
				w.l("%s", k.name)
			}
		}
		w.l(")")
	}

	w.blank()
	w.l("// %s is returned when %s cannot be built.", vio, sp.name)
	w.l("type %s struct {", vio)
	w.l("Kind %s", kind)
	for _, k := range sp.kinds {
		if !k.missing {
			w.l("%s *%s", violationField(k.member), g.p.Violation(g.m.Target(k.member)).GoName())
		}
	}
	w.l("}")

	fallback := fmt.Sprintf("constraint violation when building `%s`", sp.name)
	w.blank()
	w.l("func (v *%s) Error() string {", vio)
	if len(sp.kinds) > 0 {
		w.l("switch v.Kind {")
		for _, k := range sp.kinds {
			w.l("case %s:", k.name)
			if k.missing {
				w.l("return %q", fmt.Sprintf("`%s` was not provided but it is required when building `%s`", k.member.Name, sp.name))
			} else {
				w.l("return %q + v.%s.Error()", fmt.Sprintf("constraint violation occurred building member `%s` when building `%s`: ", k.member.Name, sp.name), violationField(k.member))
			}
		}
		w.l("}")
	}
	w.l("return %q", fallback)
	w.l("}")

	w.blank()
	w.l("func (v *%s) Issue(at shapegen.PathRef) shapegen.Issue {", vio)
	if len(sp.kinds) > 0 {
		w.l("switch v.Kind {")
		for _, k := range sp.kinds {
			w.l("case %s:", k.name)
			if k.missing {
				w.l("return at.Field(%q).Issue(shapegen.CodeRequired, v.Error())", k.member.WireName())
			} else {
				w.l("return v.%s.Issue(at.Field(%q))", violationField(k.member), k.member.WireName())
			}
		}
		w.l("}")
	}
	w.l("return at.Issue(shapegen.CodeCustom, v.Error())")
	w.l("}")

	if sp.hasInvalid() {
		w.blank()
		w.l("func (v *%s) Unwrap() error {", vio)
		w.l("switch v.Kind {")
		for _, k := range sp.kinds {
			if k.missing {
				continue
			}
			w.l("case %s:", k.name)
			w.l("if v.%s != nil {", violationField(k.member))
			w.l("return v.%s", violationField(k.member))
			w.l("}")
		}
		w.l("}")
		w.l("return nil")
		w.l("}")
	}

	if s.Traits().SyntheticInput {
		w.blank()
		w.l("// Rejection converts v into the rejection reported to the caller.")
		w.l("func (v *%s) Rejection() *shapegen.RequestRejection {", vio)
		w.l("return shapegen.RejectViolation(v)")
		w.l("}")
	}
}
