package gen

import (
	"strconv"
	"strings"

	"github.com/reoring/shapegen/internal/constraint"
	"github.com/reoring/shapegen/internal/ir"
	"github.com/reoring/shapegen/internal/symbol"
)

func (g *generator) simple(s *ir.Simple) {
	if constraint.IsEnum(s) {
		g.enum(s)
		return
	}
	if g.validating() && g.cls.IsDirectlyConstrained(s) {
		g.wrapper(s)
	}
}

func (g *generator) enum(s *ir.Simple) {
	name := g.p.Base(s).Type.Render()
	g.out.once(symbol.ModuleModel, name, func(w *writer) {
		w.doc(s.Traits().Documentation)
		w.l("type %s string", name)
		w.blank()
		w.l("const (")
		for _, e := range s.Traits().Enum {
			label := e.Name
			if label == "" {
				label = e.Value
			}
			w.l("%s %s = %s", symbol.EnumConstName(name, label), name, strconv.Quote(e.Value))
		}
		w.l(")")
		w.blank()
		w.l("// Values returns every value %s allows, in declaration order.", name)
		w.l("func (%s) Values() []string {", name)
		w.l("return %s", stringSlice(s.Traits().EnumStrings()))
		w.l("}")

		if !g.validating() {
			return
		}
		vio := g.p.Violation(s).GoName()
		w.blank()
		w.l("// %s reports a value outside the %s set.", vio, name)
		w.l("type %s struct{ shapegen.ScalarViolation }", vio)
		w.blank()
		w.l("func %s(u string) (%s, *%s) {", g.constrainFunc(s), name, vio)
		w.l("if v := shapegen.CheckEnum(%q, u, %s(\"\").Values(), %t); v != nil {", s.ID(), name, s.Traits().Sensitive)
		w.l("return \"\", &%s{*v}", vio)
		w.l("}")
		w.l("return %s(u), nil", name)
		w.l("}")
	})
}

// wrapper emits the validated newtype of a directly constrained scalar.
func (g *generator) wrapper(s *ir.Simple) {
	sym := g.p.Constrained(s)
	tn := sym.GoName()
	raw := symbol.BuiltinName(s.Kind())
	vio := g.p.Violation(s).GoName()
	t := s.Traits()
	pattern := ""
	if t.Pattern != "" {
		pattern = symbol.LowerCamel(g.name(s)) + "Pattern"
	}

	g.out.once(symbol.ModuleModel, tn, func(w *writer) {
		if doc := t.Documentation; doc != "" {
			w.doc(doc)
		} else {
			w.l("// %s holds a %s satisfying the constraints of %s.", tn, raw, s.ID())
		}
		w.l("type %s struct {", tn)
		w.l("value %s", raw)
		w.l("}")
		w.blank()
		if sym.Visibility == symbol.Public {
			w.l("// New%s validates v.", tn)
			w.l("func New%s(v %s) (%s, error) {", tn, raw, tn)
			w.l("c, cv := %s(v)", g.constrainFunc(s))
			w.l("if cv != nil {")
			w.l("return %s{}, cv", tn)
			w.l("}")
			w.l("return c, nil")
			w.l("}")
			w.blank()
			w.l("// Value returns the validated value.")
			w.l("func (x %s) Value() %s { return x.value }", tn, raw)
			w.blank()
		} else {
			w.l("func (x %s) into() %s { return x.value }", tn, raw)
			w.blank()
		}
		if t.Sensitive {
			w.l("func (x %s) String() string { return shapegen.Redacted }", tn)
		} else {
			w.l("func (x %s) String() string { return fmt.Sprint(x.value) }", tn)
		}
		w.blank()

		w.l("// %s reports a value of %s that failed validation.", vio, g.name(s))
		w.l("type %s struct{ shapegen.ScalarViolation }", vio)
		w.blank()

		w.l("func %s(u %s) (%s, *%s) {", g.constrainFunc(s), raw, tn, vio)
		if l := t.Length; l != nil {
			n := "shapegen.RuneCount(u)"
			if s.Kind() == ir.KindBlob {
				n = "len(u)"
			}
			w.l("if v := shapegen.CheckLength(%q, %s, %s, %s); v != nil {", s.ID(), n, intBound(l.Min), intBound(l.Max))
			w.l("return %s{}, &%s{*v}", tn, vio)
			w.l("}")
		}
		if pattern != "" {
			w.l("if v := shapegen.CheckPattern(%q, %s, u, %t); v != nil {", s.ID(), pattern, t.Sensitive)
			w.l("return %s{}, &%s{*v}", tn, vio)
			w.l("}")
		}
		if r := t.Range; r != nil {
			w.l("if v := shapegen.CheckRange(%q, float64(u), %s, %s, %t); v != nil {", s.ID(), floatBound(r.Min), floatBound(r.Max), t.Sensitive)
			w.l("return %s{}, &%s{*v}", tn, vio)
			w.l("}")
		}
		w.l("return %s{value: u}, nil", tn)
		w.l("}")
		if pattern != "" {
			w.blank()
			w.l("var %s = regexp.MustCompile(%s)", pattern, quotePattern(t.Pattern))
		}
	})
}

func intBound(v *int64) string {
	if v == nil {
		return "nil"
	}
	return "shapegen.Bound(" + strconv.FormatInt(*v, 10) + ")"
}

func floatBound(v *float64) string {
	if v == nil {
		return "nil"
	}
	return "shapegen.Bound(" + strconv.FormatFloat(*v, 'g', -1, 64) + ")"
}

// quotePattern prefers a raw string literal, which keeps regular
// expressions readable.
func quotePattern(p string) string {
	if !strings.ContainsAny(p, "`\r") && strconv.CanBackquote(p) {
		return "`" + p + "`"
	}
	return strconv.Quote(p)
}

func stringSlice(vs []string) string {
	q := make([]string, len(vs))
	for i, v := range vs {
		q[i] = strconv.Quote(v)
	}
	return "[]string{" + strings.Join(q, ", ") + "}"
}
