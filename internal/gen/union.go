package gen

import (
	"github.com/reoring/shapegen/internal/ir"
	"github.com/reoring/shapegen/internal/symbol"
)

// variantName names the struct carrying member m of the union named union.
func variantName(union string, m *ir.Member) string {
	return union + "Member" + fieldName(m)
}

func (g *generator) union(s *ir.Union) {
	name := g.p.Base(s).GoName()
	marker := "is" + name
	g.out.once(symbol.ModuleModel, name, func(w *writer) {
		if doc := s.Traits().Documentation; doc != "" {
			w.doc(doc)
		} else {
			w.l("// %s holds exactly one of its variants.", name)
		}
		w.l("type %s interface {", name)
		w.l("%s()", marker)
		w.l("}")
		for _, m := range s.Members {
			v := variantName(name, m)
			w.blank()
			w.doc(m.Traits.Documentation)
			w.l("type %s struct {", v)
			w.l("Value %s", g.p.MainMemberType(m).Render())
			w.l("}")
			w.blank()
			w.l("func (%s) %s() {}", v, marker)
		}
		if !g.validating() {
			w.blank()
			w.l("// %sUnknown is a variant this client does not know about.", name)
			w.l("type %sUnknown struct {", name)
			w.l("Tag string")
			w.l("}")
			w.blank()
			w.l("func (%sUnknown) %s() {}", name, marker)
		}
		if g.validating() && g.cls.ReachesConstrainedShape(s) {
			g.unionViolation(w, s, name)
		}
	})
	if g.validating() && g.cls.ReachesConstrainedShape(s) {
		g.unconstrainedUnion(s, name)
	}
}

func (g *generator) unionViolation(w *writer, s *ir.Union, name string) {
	vio := g.p.Violation(s).GoName()
	kind := vio + "Kind"
	var members []*ir.Member
	for _, m := range s.Members {
		if g.cls.TargetReachesConstrainedShape(m) {
			members = append(members, m)
		}
	}
	w.blank()
	w.l("// %s identifies the variant of %s that failed validation.", kind, name)
	w.l("type %s int", kind)
	w.blank()
	w.l("const (")
	for i, m := range members {
		if i == 0 {
			w.l("%sInvalid%s %s = iota + 1", name, fieldName(m), kind)
		} else {
			w.l("%sInvalid%s", name, fieldName(m))
		}
	}
	w.l(")")
	w.blank()
	w.l("// %s is returned when a %s variant fails validation.", vio, name)
	w.l("type %s struct {", vio)
	w.l("Kind %s", kind)
	for _, m := range members {
		w.l("%s *%s", violationField(m), g.p.Violation(g.m.Target(m)).GoName())
	}
	w.l("}")
	w.blank()
	w.l("func (v *%s) Error() string {", vio)
	w.l("switch v.Kind {")
	for _, m := range members {
		w.l("case %sInvalid%s:", name, fieldName(m))
		w.l("return %q + v.%s.Error()", "constraint violation occurred building variant `"+m.Name+"` of `"+name+"`: ", violationField(m))
	}
	w.l("}")
	w.l("return %q", "constraint violation in union `"+name+"`")
	w.l("}")
	w.blank()
	w.l("func (v *%s) Issue(at shapegen.PathRef) shapegen.Issue {", vio)
	w.l("switch v.Kind {")
	for _, m := range members {
		w.l("case %sInvalid%s:", name, fieldName(m))
		w.l("return v.%s.Issue(at.Field(%q))", violationField(m), m.WireName())
	}
	w.l("}")
	w.l("return at.Issue(shapegen.CodeCustom, v.Error())")
	w.l("}")
	w.blank()
	w.l("func (v *%s) Unwrap() error {", vio)
	w.l("switch v.Kind {")
	for _, m := range members {
		w.l("case %sInvalid%s:", name, fieldName(m))
		w.l("if v.%s != nil {", violationField(m))
		w.l("return v.%s", violationField(m))
		w.l("}")
	}
	w.l("}")
	w.l("return nil")
	w.l("}")
}

// unconstrainedUnion emits the shadow union holding unvalidated variants and
// the function validating it.
func (g *generator) unconstrainedUnion(s *ir.Union, name string) {
	un := g.p.Unconstrained(s).GoName()
	marker := "is" + symbol.Pascal(un)
	vio := g.p.Violation(s).GoName()
	g.out.once(symbol.ModuleUnconstrained, un, func(w *writer) {
		w.l("type %s interface {", un)
		w.l("%s()", marker)
		w.l("}")
		for _, m := range s.Members {
			v := variantName(un, m)
			w.blank()
			w.l("type %s struct {", v)
			w.l("value %s", g.p.MemberType(symbol.LowerUnconstrained, m).Render())
			w.l("}")
			w.blank()
			w.l("func (%s) %s() {}", v, marker)
		}
		w.blank()
		w.l("func %s(u %s) (%s, *%s) {", g.constrainFunc(s), un, name, vio)
		w.l("switch u := u.(type) {")
		for _, m := range s.Members {
			target := g.m.Target(m)
			w.l("case %s:", variantName(un, m))
			if !g.cls.ReachesConstrainedShape(target) {
				w.l("return %s{Value: u.value}, nil", variantName(name, m))
				continue
			}
			arg := "u.value"
			boxed := g.p.MemberType(symbol.LowerUnconstrained, m).IsPointer()
			if boxed {
				arg = "*u.value"
			}
			w.l("c, cv := %s(%s)", g.constrainFunc(target), arg)
			w.l("if cv != nil {")
			w.l("return nil, &%s{Kind: %sInvalid%s, %s: cv}", vio, name, fieldName(m), violationField(m))
			w.l("}")
			val := g.convert(target, "c")
			if g.p.MainMemberType(m).IsPointer() {
				val = "shapegen.Ptr(" + val + ")"
			}
			w.l("return %s{Value: %s}, nil", variantName(name, m), val)
		}
		w.l("}")
		w.l("return nil, nil")
		w.l("}")
	})
}
