package gen

import (
	"github.com/reoring/shapegen/codec"
	"github.com/reoring/shapegen/internal/constraint"
	"github.com/reoring/shapegen/internal/ir"
	"github.com/reoring/shapegen/internal/symbol"
)

// deserType is the type a deserializer of s produces: the plain type on a
// non-validating target, the unconstrained type for shapes that still need
// validation, and the constrained type otherwise.
func (g *generator) deserType(s ir.Shape) *symbol.Type {
	switch {
	case !g.validating():
		return g.p.Base(s).Type
	case g.cls.ReachesConstrainedShape(s):
		return g.p.Unconstrained(s).Type
	default:
		return g.p.Constrained(s).Type
	}
}

// deserLowering is the lowering deserialized collections hold elements in.
func (g *generator) deserLowering(s ir.Shape) symbol.Lowering {
	switch {
	case !g.validating():
		return symbol.LowerBase
	case g.cls.ReachesConstrainedShape(s):
		return symbol.LowerUnconstrained
	default:
		return symbol.LowerConstrained
	}
}

// deserCollection is the slice or map type a collection deserializer
// appends to, looking through named unconstrained collections.
func (g *generator) deserCollection(s ir.Shape) *symbol.Type {
	if l := g.deserLowering(s); l == symbol.LowerUnconstrained {
		return g.p.Underlying(l, s)
	}
	return g.deserType(s)
}

// readExpr returns the call reading one value of target; it evaluates to
// (value, ok, err).
func (g *generator) readExpr(target ir.Shape, m *ir.Member) string {
	switch target.Kind() {
	case ir.KindString:
		if constraint.IsEnum(target) && !g.validating() {
			return g.deserFunc(target) + "(tokens)"
		}
		return "tokens.ExpectStringOrNull()"
	case ir.KindByte:
		return "tokens.ExpectInt8OrNull()"
	case ir.KindShort:
		return "tokens.ExpectInt16OrNull()"
	case ir.KindInteger:
		return "tokens.ExpectInt32OrNull()"
	case ir.KindLong:
		return "tokens.ExpectInt64OrNull()"
	case ir.KindFloat:
		return "tokens.ExpectFloat32OrNull()"
	case ir.KindDouble:
		return "tokens.ExpectFloat64OrNull()"
	case ir.KindBoolean:
		return "tokens.ExpectBoolOrNull()"
	case ir.KindBlob:
		return "tokens.ExpectBlobOrNull()"
	case ir.KindTimestamp:
		return "tokens.ExpectTimestampOrNull(codec." + timestampFormat(target, m).Ident() + ")"
	case ir.KindDocument:
		return "tokens.ExpectDocumentOrNull()"
	}
	return g.deserFunc(target) + "(tokens)"
}

// timestampFormat picks the member's format, then the shape's, then the
// default.
func timestampFormat(target ir.Shape, m *ir.Member) codec.Format {
	name := target.Traits().TimestampFormat
	if m != nil && m.Traits.TimestampFormat != "" {
		name = m.Traits.TimestampFormat
	}
	if name == "" {
		return codec.Default
	}
	f, err := codec.ParseFormat(name)
	if err != nil {
		fault("%s: %v", target.ID(), err)
	}
	return f
}

// deserFunc makes sure the deserializer of s exists and returns its name.
func (g *generator) deserFunc(s ir.Shape) string {
	fn := "deserialize" + g.name(s)
	g.out.once(symbol.ModuleJSONDeser, fn, func(w *writer) {
		switch v := s.(type) {
		case *ir.Structure:
			g.deserStructure(w, fn, v)
		case *ir.Union:
			g.deserUnion(w, fn, v)
		case *ir.List:
			g.deserList(w, fn, v)
		case *ir.Map:
			g.deserMap(w, fn, v)
		case *ir.Simple:
			g.deserEnum(w, fn, v)
		}
	})
	return fn
}

func (g *generator) deserEnum(w *writer, fn string, s *ir.Simple) {
	name := g.p.Base(s).GoName()
	w.l("func %s(tokens *shapegen.TokenStream) (%s, bool, error) {", fn, name)
	w.l("s, ok, err := tokens.ExpectStringOrNull()")
	w.l("return %s(s), ok, err", name)
	w.l("}")
}

func (g *generator) deserStructure(w *writer, fn string, s *ir.Structure) {
	sp := g.plan(s)
	rt := g.deserType(s)
	zero := zeroOf(s, rt)
	members := g.membersFunc(s)
	w.l("func %s(tokens *shapegen.TokenStream) (%s, bool, error) {", fn, rt.Render())
	w.l("ok, err := tokens.StartObjectOrNull()")
	w.l("if err != nil || !ok {")
	w.l("return %s, false, err", zero)
	w.l("}")
	w.l("b := &%s{}", sp.builder)
	w.l("if err := %s(tokens, b); err != nil {", members)
	w.l("return %s, false, err", zero)
	w.l("}")
	switch {
	case rt.Render() == sp.builder:
		w.l("return *b, true, nil")
	case sp.fallible:
		w.l("v, err := b.Build()")
		w.l("if err != nil {")
		w.l("return %s, false, shapegen.BuildFailed(err)", zero)
		w.l("}")
		w.l("return v, true, nil")
	default:
		w.l("return b.Build(), true, nil")
	}
	w.l("}")
}

// membersFunc makes sure the member reader of s exists and returns its name.
func (g *generator) membersFunc(s *ir.Structure) string {
	fn := "deserialize" + g.name(s) + "Members"
	sp := g.plan(s)
	g.out.once(symbol.ModuleJSONDeser, fn, func(w *writer) {
		w.l("func %s(tokens *shapegen.TokenStream, b *%s) error {", fn, sp.builder)
		w.l("for {")
		w.l("key, more, err := tokens.NextKeyOrEnd()")
		w.l("if err != nil {")
		w.l("return err")
		w.l("}")
		w.l("if !more {")
		w.l("return nil")
		w.l("}")
		w.l("switch key {")
		for _, m := range s.Members {
			w.l("case %q:", m.WireName())
			w.l("v, ok, err := %s", g.readExpr(g.m.Target(m), m))
			w.l("if err != nil {")
			w.l("return err")
			w.l("}")
			w.l("if ok {")
			w.l("b.%s(v)", g.setterFor(sp, m))
			w.l("}")
		}
		w.l("default:")
		w.l("if err := tokens.SkipValue(); err != nil {")
		w.l("return err")
		w.l("}")
		w.l("}")
		w.l("}")
		w.l("}")
	})
	return fn
}

func (g *generator) deserList(w *writer, fn string, s *ir.List) {
	rt := g.deserType(s)
	col := g.deserCollection(s)
	target := g.m.Target(s.Member)
	w.l("func %s(tokens *shapegen.TokenStream) (%s, bool, error) {", fn, rt.Render())
	w.l("ok, err := tokens.StartArrayOrNull()")
	w.l("if err != nil || !ok {")
	w.l("return nil, false, err")
	w.l("}")
	w.l("out := %s{}", rt.Render())
	w.l("for {")
	w.l("more, err := tokens.NextElementOrEnd()")
	w.l("if err != nil {")
	w.l("return nil, false, err")
	w.l("}")
	w.l("if !more {")
	w.l("break")
	w.l("}")
	w.l("v, ok, err := %s", g.readExpr(target, s.Member))
	w.l("if err != nil {")
	w.l("return nil, false, err")
	w.l("}")
	w.l("if ok {")
	w.l("out = append(out, %s)", store(col.Elem, "v"))
	if s.Traits().Sparse {
		w.l("} else {")
		w.l("out = append(out, nil)")
	}
	w.l("}")
	w.l("}")
	w.l("return out, true, nil")
	w.l("}")
}

func (g *generator) deserMap(w *writer, fn string, s *ir.Map) {
	rt := g.deserType(s)
	col := g.deserCollection(s)
	target := g.m.Target(s.Value)
	key := "key"
	if k := col.Key.Render(); k != "string" {
		key = k + "(key)"
	}
	w.l("func %s(tokens *shapegen.TokenStream) (%s, bool, error) {", fn, rt.Render())
	w.l("ok, err := tokens.StartObjectOrNull()")
	w.l("if err != nil || !ok {")
	w.l("return nil, false, err")
	w.l("}")
	w.l("out := %s{}", rt.Render())
	w.l("for {")
	w.l("key, more, err := tokens.NextKeyOrEnd()")
	w.l("if err != nil {")
	w.l("return nil, false, err")
	w.l("}")
	w.l("if !more {")
	w.l("break")
	w.l("}")
	w.l("v, ok, err := %s", g.readExpr(target, s.Value))
	w.l("if err != nil {")
	w.l("return nil, false, err")
	w.l("}")
	w.l("if ok {")
	w.l("out[%s] = %s", key, store(col.Elem, "v"))
	if s.Traits().Sparse {
		w.l("} else {")
		w.l("out[%s] = nil", key)
	}
	w.l("}")
	w.l("}")
	w.l("return out, true, nil")
	w.l("}")
}

func (g *generator) deserUnion(w *writer, fn string, s *ir.Union) {
	rt := g.deserType(s)
	shadow := g.validating() && g.cls.ReachesConstrainedShape(s)
	variantOwner, field, lowering := g.p.Base(s).GoName(), "Value", g.deserLowering(s)
	if shadow {
		variantOwner, field = g.p.Unconstrained(s).GoName(), "value"
	}
	w.l("func %s(tokens *shapegen.TokenStream) (%s, bool, error) {", fn, rt.Render())
	w.l("ok, err := tokens.StartObjectOrNull()")
	w.l("if err != nil || !ok {")
	w.l("return nil, false, err")
	w.l("}")
	w.l("var out %s", rt.Render())
	w.l("for {")
	w.l("key, more, err := tokens.NextKeyOrEnd()")
	w.l("if err != nil {")
	w.l("return nil, false, err")
	w.l("}")
	w.l("if !more {")
	w.l("break")
	w.l("}")
	w.l("switch key {")
	for _, m := range s.Members {
		w.l("case %q:", m.WireName())
		w.l("v, ok, err := %s", g.readExpr(g.m.Target(m), m))
		w.l("if err != nil {")
		w.l("return nil, false, err")
		w.l("}")
		w.l("if !ok {")
		w.l("continue")
		w.l("}")
		w.l("if out != nil {")
		if g.validating() {
			w.l("return nil, false, shapegen.MixedVariants()")
		} else {
			w.l("out = %sUnknown{Tag: key}", g.p.Base(s).GoName())
			w.l("continue")
		}
		w.l("}")
		w.l("out = %s{%s: %s}", variantName(variantOwner, m), field, store(g.p.MemberType(lowering, m), "v"))
	}
	w.l("default:")
	if g.validating() {
		w.l("return nil, false, shapegen.UnknownVariant(key)")
	} else {
		w.l("if err := tokens.SkipValue(); err != nil {")
		w.l("return nil, false, err")
		w.l("}")
		w.l("out = %sUnknown{Tag: key}", g.p.Base(s).GoName())
	}
	w.l("}")
	w.l("}")
	w.l("if out == nil {")
	w.l("return nil, false, shapegen.EmptyUnion()")
	w.l("}")
	w.l("return out, true, nil")
	w.l("}")
}

// store adapts a freshly read value v to an element or member of type t.
func store(t *symbol.Type, v string) string {
	if t.IsPointer() {
		return "&" + v
	}
	return v
}

// topLevel emits the exported entry points reading a whole body into root.
func (g *generator) topLevel(s *ir.Structure) {
	sp := g.plan(s)
	members := g.membersFunc(s)
	deser := "Deserialize" + sp.name
	parse := "Parse" + sp.name
	g.out.once(symbol.ModuleJSONDeser, deser, func(w *writer) {
		w.l("// %s reads a JSON body into b. Members already set on b are kept", deser)
		w.l("// unless the body sets them again.")
		w.l("func %s(body []byte, b *%s) error {", deser, sp.builder)
		w.l("tokens := shapegen.TokensFromBytes(body)")
		w.l("if err := tokens.ExpectStartObject(); err != nil {")
		w.l("return err")
		w.l("}")
		w.l("if err := %s(tokens, b); err != nil {", members)
		w.l("return err")
		w.l("}")
		w.l("return tokens.ExpectEnd()")
		w.l("}")
		w.blank()
		if g.validating() {
			w.l("// %s reads and validates a JSON body. Failures are returned as", parse)
			w.l("// *shapegen.RequestRejection.")
		} else {
			w.l("// %s reads a JSON body.", parse)
		}
		w.l("func %s(body []byte) (%s, error) {", parse, sp.name)
		w.l("b := &%s{}", sp.builder)
		w.l("if err := %s(body, b); err != nil {", deser)
		if g.validating() {
			w.l("return %s{}, shapegen.RejectDeserialize(err)", sp.name)
		} else {
			w.l("return %s{}, err", sp.name)
		}
		w.l("}")
		switch {
		case g.validating() && sp.hasViolation:
			w.l("v, cv := b.build()")
			w.l("if cv != nil {")
			if s.Traits().SyntheticInput {
				w.l("return %s{}, cv.Rejection()", sp.name)
			} else {
				w.l("return %s{}, shapegen.RejectViolation(cv)", sp.name)
			}
			w.l("}")
			w.l("return v, nil")
		case g.validating():
			w.l("return b.build(), nil")
		case sp.fallible:
			w.l("return b.Build()")
		default:
			w.l("return b.Build(), nil")
		}
		w.l("}")
	})
}
