package gen

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"

	"github.com/reoring/shapegen/internal/constraint"
	"github.com/reoring/shapegen/internal/ir"
	"github.com/reoring/shapegen/internal/symbol"
)

// zeroValue spells the zero value of t, which must not be an enum.
func zeroValue(t *symbol.Type) string {
	if t.Kind == symbol.TypeOptional || t.Kind == symbol.TypeBoxed || t.IsNilable() {
		return "nil"
	}
	switch t.Kind {
	case symbol.TypeNamed:
		return t.Render() + "{}"
	case symbol.TypeBuiltin:
		switch t.Name {
		case "string":
			return `""`
		case "bool":
			return "false"
		case "time.Time":
			return "time.Time{}"
		default:
			return "0"
		}
	case symbol.TypeMaybeConstrained:
		return t.Render() + "{}"
	}
	return "nil"
}

// zeroOf is zeroValue aware of enums, whose named type is a string.
func zeroOf(s ir.Shape, t *symbol.Type) string {
	if constraint.IsEnum(s) && t.Kind == symbol.TypeNamed {
		return `""`
	}
	return zeroValue(t)
}

// defaultLiteral spells the default of m as a value of the member's exposed
// type.
func (g *generator) defaultLiteral(m *ir.Member) string {
	target := g.m.Target(m)
	val := m.Traits.Default
	main := g.p.Main(target)
	wrap := func(lit string) string {
		if main.IsDeclared() && !constraint.IsEnum(target) {
			return main.GoName() + "{value: " + lit + "}"
		}
		return lit
	}
	switch target.Kind() {
	case ir.KindString:
		s, ok := val.(string)
		if !ok {
			fault("default of %s must be a string, got %T", m.ID(), val)
		}
		if constraint.IsEnum(target) {
			return main.GoName() + "(" + strconv.Quote(s) + ")"
		}
		return wrap(strconv.Quote(s))
	case ir.KindBoolean:
		b, ok := val.(bool)
		if !ok {
			fault("default of %s must be a boolean, got %T", m.ID(), val)
		}
		return strconv.FormatBool(b)
	case ir.KindByte, ir.KindShort, ir.KindInteger, ir.KindLong:
		n, ok := number(val)
		if !ok || n != math.Trunc(n) {
			fault("default of %s must be an integer, got %v", m.ID(), val)
		}
		return wrap(strconv.FormatInt(int64(n), 10))
	case ir.KindFloat, ir.KindDouble:
		n, ok := number(val)
		if !ok {
			fault("default of %s must be a number, got %v", m.ID(), val)
		}
		lit := strconv.FormatFloat(n, 'g', -1, 64)
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			lit = strconv.FormatFloat(n, 'f', 1, 64)
		}
		return wrap(lit)
	case ir.KindBlob:
		s, _ := val.(string)
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			fault("default of %s is not base64: %v", m.ID(), err)
		}
		return wrap(fmt.Sprintf("[]byte(%q)", raw))
	case ir.KindTimestamp:
		n, ok := number(val)
		if !ok {
			fault("default of %s must be epoch seconds, got %v", m.ID(), val)
		}
		return fmt.Sprintf("time.Unix(%d, 0).UTC()", int64(n))
	case ir.KindDocument:
		if val == nil {
			return "nil"
		}
		return fmt.Sprintf("shapegen.Document(%#v)", val)
	case ir.KindList, ir.KindSet, ir.KindMap:
		if main.IsDeclared() {
			return main.GoName() + "{}"
		}
		return main.Type.Render() + "{}"
	}
	fault("%s members cannot have a default (%s)", target.Kind(), m.ID())
	return ""
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
