package symbol

import (
	"go/token"
	"strings"
	"unicode"
)

// Pascal converts snake, kebab and camel case names to PascalCase. Interior
// capitalization is kept, so "URLValue" stays "URLValue".
func Pascal(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

// LowerCamel converts a name to lowerCamelCase, lowering a leading initialism
// as a whole ("URLValue" becomes "urlValue"). Go keywords and predeclared
// identifiers get a trailing underscore.
func LowerCamel(s string) string {
	p := []rune(Pascal(s))
	n := 0
	for n < len(p) && unicode.IsUpper(p[n]) {
		n++
	}
	switch {
	case n == 0:
	case n == 1 || n == len(p):
		for i := 0; i < n; i++ {
			p[i] = unicode.ToLower(p[i])
		}
	default:
		// Keep the last capital: it starts the next word.
		for i := 0; i < n-1; i++ {
			p[i] = unicode.ToLower(p[i])
		}
	}
	return Escape(string(p))
}

// Escape makes name safe to declare in generated code.
func Escape(name string) string {
	if token.IsKeyword(name) || predeclared[name] {
		return name + "_"
	}
	return name
}

// Snake converts a name to snake_case for module paths.
func Snake(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		if r == '-' || r == ' ' || r == '.' {
			b.WriteRune('_')
			continue
		}
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]) && unicode.IsUpper(rs[i-1]))) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EnumConstName names the constant for one enum value of typeName.
func EnumConstName(typeName, name string) string {
	isUpper := strings.IndexFunc(name, unicode.IsLower) < 0
	if isUpper {
		name = strings.ToLower(name)
	}
	return typeName + Pascal(name)
}

func applyVisibility(name string, v Visibility) string {
	if v == Restricted {
		return LowerCamel(name)
	}
	return Pascal(name)
}

var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true, "complex64": true,
	"complex128": true, "error": true, "float32": true, "float64": true, "int": true,
	"int8": true, "int16": true, "int32": true, "int64": true, "rune": true,
	"string": true, "uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "uintptr": true, "true": true, "false": true, "iota": true,
	"nil": true, "append": true, "cap": true, "clear": true, "close": true,
	"complex": true, "copy": true, "delete": true, "imag": true, "len": true,
	"make": true, "max": true, "min": true, "new": true, "panic": true,
	"print": true, "println": true, "real": true, "recover": true,
	"shapegen": true, "codec": true, "time": true, "regexp": true, "fmt": true,
	"tokens": true, "b": true, "v": true, "u": true,
}
