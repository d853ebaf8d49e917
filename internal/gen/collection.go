package gen

import (
	"github.com/reoring/shapegen/internal/ir"
	"github.com/reoring/shapegen/internal/symbol"
)

func (g *generator) list(s *ir.List) {
	if !g.validating() {
		return
	}
	g.collection(s)
}

func (g *generator) mapShape(s *ir.Map) {
	if !g.validating() {
		return
	}
	g.collection(s)
}

// collection emits every declaration a list or map needs on a validating
// target.
func (g *generator) collection(s ir.Shape) {
	if !g.cls.ReachesConstrainedShape(s) {
		return
	}
	direct := g.cls.IsDirectlyConstrained(s)
	if direct {
		g.collectionWrapper(s)
	}
	if pc := g.p.PubCrateConstrained(s); pc.Module() == symbol.ModuleConstrained {
		g.out.once(symbol.ModuleConstrained, pc.GoName(), func(w *writer) {
			under := g.p.Underlying(symbol.LowerConstrained, s)
			w.l("type %s %s", pc.GoName(), under.Render())
			w.blank()
			w.l("func (x %s) into() %s {", pc.GoName(), g.p.Base(s).Type.Render())
			g.intoBody(w, s, "x")
			w.l("}")
		})
	}
	g.collectionViolation(s)
	g.unconstrainedCollection(s)
}

// collectionWrapper emits the newtype of a length constrained list or map.
func (g *generator) collectionWrapper(s ir.Shape) {
	sym := g.p.Constrained(s)
	tn := sym.GoName()
	under := g.p.Underlying(symbol.LowerConstrained, s).Render()
	g.out.once(symbol.ModuleModel, tn, func(w *writer) {
		if doc := s.Traits().Documentation; doc != "" {
			w.doc(doc)
		} else {
			w.l("// %s holds a %s whose length satisfies %s.", tn, s.Kind(), s.ID())
		}
		w.l("type %s struct {", tn)
		w.l("value %s", under)
		w.l("}")
		w.blank()
		if sym.Visibility == symbol.Public {
			w.l("// New%s validates the length of v.", tn)
			w.l("func New%s(v %s) (%s, error) {", tn, under, tn)
			w.l("if cv := shapegen.CheckLength(%q, len(v), %s, %s); cv != nil {", s.ID(), intBound(s.Traits().Length.Min), intBound(s.Traits().Length.Max))
			w.l("return %s{}, &%s{Length: cv}", tn, g.p.Violation(s).GoName())
			w.l("}")
			w.l("return %s{value: v}, nil", tn)
			w.l("}")
			w.blank()
			w.l("// Value returns the validated collection.")
			w.l("func (x %s) Value() %s { return x.value }", tn, under)
		} else {
			w.l("func (x %s) into() %s {", tn, g.p.Base(s).Type.Render())
			g.intoBody(w, s, "x.value")
			w.l("}")
		}
	})
}

// intoBody converts the collection held in src to its base type, element by
// element when the elements need conversion.
func (g *generator) intoBody(w *writer, s ir.Shape, src string) {
	base := g.p.Base(s).Type.Render()
	switch v := s.(type) {
	case *ir.List:
		el := g.m.Target(v.Member)
		if !g.p.NeedsConversion(el) {
			w.l("return %s(%s)", base, src)
			return
		}
		w.l("if %s == nil {", src)
		w.l("return nil")
		w.l("}")
		w.l("out := make(%s, 0, len(%s))", base, src)
		w.l("for _, e := range %s {", src)
		g.elemInto(w, g.p.ElemType(symbol.LowerBase, s, v.Member), el, "e", "out = append(out, %s)")
		w.l("}")
		w.l("return out")
	case *ir.Map:
		key, val := g.m.Target(v.Key), g.m.Target(v.Value)
		if !g.p.NeedsConversion(key) && !g.p.NeedsConversion(val) {
			w.l("return %s(%s)", base, src)
			return
		}
		w.l("if %s == nil {", src)
		w.l("return nil")
		w.l("}")
		w.l("out := make(%s, len(%s))", base, src)
		w.l("for k, e := range %s {", src)
		w.l("key := %s", g.convert(key, "k"))
		g.elemInto(w, g.p.ElemType(symbol.LowerBase, s, v.Value), val, "e", "out[key] = %s")
		w.l("}")
		w.l("return out")
	}
}

// elemInto writes the conversion of one element e, finishing with store
// applied to the converted expression.
func (g *generator) elemInto(w *writer, dst *symbol.Type, target ir.Shape, e string, store string) {
	if !g.p.NeedsConversion(target) {
		w.l(store, e)
		return
	}
	if dst.IsPointer() {
		w.l("if %s == nil {", e)
		w.l(store, "nil")
		w.l("continue")
		w.l("}")
		w.l("c := %s", g.convert(target, "(*"+e+")"))
		w.l(store, "&c")
		return
	}
	w.l(store, g.convert(target, e))
}

func (g *generator) collectionViolation(s ir.Shape) {
	vio := g.p.Violation(s).GoName()
	direct := g.cls.IsDirectlyConstrained(s)
	g.out.once(symbol.ModuleModel, vio, func(w *writer) {
		w.l("// %s reports why a %s value of %s was rejected.", vio, s.Kind(), g.name(s))
		w.l("type %s struct {", vio)
		if direct {
			w.l("Length *shapegen.ScalarViolation")
		}
		var elem, key *ir.Member
		switch v := s.(type) {
		case *ir.List:
			if g.cls.TargetReachesConstrainedShape(v.Member) {
				elem = v.Member
				w.l("Index int")
				w.l("Member *%s", g.p.Violation(g.m.Target(v.Member)).GoName())
			}
		case *ir.Map:
			keyReaches := g.cls.TargetReachesConstrainedShape(v.Key)
			valReaches := g.cls.TargetReachesConstrainedShape(v.Value)
			if keyReaches || valReaches {
				w.l("Key string")
			}
			if keyReaches {
				key = v.Key
				w.l("KeyViolation *%s", g.p.Violation(g.m.Target(v.Key)).GoName())
			}
			if valReaches {
				elem = v.Value
				w.l("Value *%s", g.p.Violation(g.m.Target(v.Value)).GoName())
			}
		}
		w.l("}")
		w.blank()

		_, isMap := s.(*ir.Map)
		w.l("func (v *%s) Error() string {", vio)
		w.l("switch {")
		if key != nil {
			w.l("case v.KeyViolation != nil:")
			w.l("return fmt.Sprintf(\"constraint violation in key %s: %s\", v.Key, v.KeyViolation)", "%q", "%v")
		}
		if elem != nil && isMap {
			w.l("case v.Value != nil:")
			w.l("return fmt.Sprintf(\"constraint violation in value of key %s: %s\", v.Key, v.Value)", "%q", "%v")
		} else if elem != nil {
			w.l("case v.Member != nil:")
			w.l("return fmt.Sprintf(\"constraint violation at index %s: %s\", v.Index, v.Member)", "%d", "%v")
		}
		if direct {
			w.l("case v.Length != nil:")
			w.l("return v.Length.Error()")
		}
		w.l("}")
		w.l("return %q", "constraint violation in "+g.name(s))
		w.l("}")
		w.blank()

		w.l("func (v *%s) Issue(at shapegen.PathRef) shapegen.Issue {", vio)
		w.l("switch {")
		if key != nil {
			w.l("case v.KeyViolation != nil:")
			w.l("return v.KeyViolation.Issue(at.Field(v.Key))")
		}
		if elem != nil && isMap {
			w.l("case v.Value != nil:")
			w.l("return v.Value.Issue(at.Field(v.Key))")
		} else if elem != nil {
			w.l("case v.Member != nil:")
			w.l("return v.Member.Issue(at.Index(v.Index))")
		}
		if direct {
			w.l("case v.Length != nil:")
			w.l("return v.Length.Issue(at)")
		}
		w.l("}")
		w.l("return at.Issue(shapegen.CodeCustom, v.Error())")
		w.l("}")
		w.blank()

		w.l("func (v *%s) Unwrap() error {", vio)
		w.l("switch {")
		if key != nil {
			w.l("case v.KeyViolation != nil:")
			w.l("return v.KeyViolation")
		}
		if elem != nil && isMap {
			w.l("case v.Value != nil:")
			w.l("return v.Value")
		} else if elem != nil {
			w.l("case v.Member != nil:")
			w.l("return v.Member")
		}
		if direct {
			w.l("case v.Length != nil:")
			w.l("return v.Length")
		}
		w.l("}")
		w.l("return nil")
		w.l("}")
	})
}

// unconstrainedCollection emits the shadow collection of unvalidated
// elements and the function validating it.
func (g *generator) unconstrainedCollection(s ir.Shape) {
	un := g.p.Unconstrained(s)
	if un.Module() != symbol.ModuleUnconstrained {
		return
	}
	pc := g.p.PubCrateConstrained(s)
	vio := g.p.Violation(s).GoName()
	inner := g.p.Underlying(symbol.LowerConstrained, s).Render()
	zero := zeroValue(pc.Type)

	g.out.once(symbol.ModuleUnconstrained, un.GoName(), func(w *writer) {
		w.l("type %s %s", un.GoName(), g.p.Underlying(symbol.LowerUnconstrained, s).Render())
		w.blank()
		w.l("func %s(u %s) (%s, *%s) {", g.constrainFunc(s), un.GoName(), pc.Type.Render(), vio)
		switch v := s.(type) {
		case *ir.List:
			w.l("out := make(%s, 0, len(u))", inner)
			el := g.m.Target(v.Member)
			if !g.cls.ReachesConstrainedShape(el) {
				w.l("out = append(out, u...)")
				break
			}
			w.l("for i, e := range u {")
			g.constrainElem(w, g.p.ElemType(symbol.LowerUnconstrained, s, v.Member), el, "e", "out = append(out, %s)",
				"return %s, &%s{Index: i, Member: cv}", zero, vio)
			w.l("}")
		case *ir.Map:
			w.l("out := make(%s, len(u))", inner)
			key, val := g.m.Target(v.Key), g.m.Target(v.Value)
			w.l("for _, k := range shapegen.SortedKeys(u) {")
			if g.cls.ReachesConstrainedShape(key) {
				w.l("key, kcv := %s(string(k))", g.constrainFunc(key))
				w.l("if kcv != nil {")
				w.l("return %s, &%s{Key: string(k), KeyViolation: kcv}", zero, vio)
				w.l("}")
			} else {
				w.l("key := k")
			}
			if g.cls.ReachesConstrainedShape(val) {
				w.l("e := u[k]")
				g.constrainElem(w, g.p.ElemType(symbol.LowerUnconstrained, s, v.Value), val, "e", "out[key] = %s",
					"return %s, &%s{Key: string(k), Value: cv}", zero, vio)
			} else {
				w.l("out[key] = u[k]")
			}
			w.l("}")
		}
		if l := s.Traits().Length; l != nil {
			w.l("if lv := shapegen.CheckLength(%q, len(out), %s, %s); lv != nil {", s.ID(), intBound(l.Min), intBound(l.Max))
			w.l("return %s, &%s{Length: lv}", zero, vio)
			w.l("}")
		}
		switch {
		case g.cls.IsDirectlyConstrained(s):
			w.l("return %s{value: out}, nil", pc.GoName())
		case pc.IsDeclared():
			w.l("return %s(out), nil", pc.GoName())
		default:
			w.l("return out, nil")
		}
		w.l("}")
	})
}

// constrainElem validates one unconstrained element e of type src, storing
// the result with store or returning the violation with fail.
func (g *generator) constrainElem(w *writer, src *symbol.Type, target ir.Shape, e, store, fail, zero, vio string) {
	arg := e
	if src.IsPointer() {
		if src.IsOptional() {
			w.l("if %s == nil {", e)
			w.l(store, "nil")
			w.l("continue")
			w.l("}")
		}
		arg = "*" + e
	} else if src.IsOptional() && src.Strip().IsNilable() {
		w.l("if %s == nil {", e)
		w.l(store, "nil")
		w.l("continue")
		w.l("}")
	}
	w.l("c, cv := %s(%s)", g.constrainFunc(target), arg)
	w.l("if cv != nil {")
	w.l(fail, zero, vio)
	w.l("}")
	if src.IsPointer() {
		w.l(store, "&c")
		return
	}
	w.l(store, "c")
}
