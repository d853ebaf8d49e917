package symbol

import (
	"fmt"
	"strings"
)

// RuntimeQualifier is the package name generated code uses for the runtime.
const RuntimeQualifier = "shapegen"

// TypeKind identifies a node of the type descriptor tree.
type TypeKind int

const (
	TypeNamed TypeKind = iota
	TypeBuiltin
	TypeSlice
	TypeMap
	TypeOptional
	TypeBoxed
	TypeMaybeConstrained
)

// Type describes a Go type expression. Descriptors are immutable once built.
type Type struct {
	Kind TypeKind
	// Name is the spelling of Named and Builtin types.
	Name string
	// nilable marks Named and Builtin types whose zero value is nil.
	nilable bool
	// Elem is the element of slices, the value of maps, the wrapped type of
	// Optional and Boxed, and the constrained side of MaybeConstrained.
	Elem *Type
	// Key is the key of maps and the unconstrained side of MaybeConstrained.
	Key *Type
}

// Named returns a declared type. nilable is true for interfaces and for named
// slices and maps.
func Named(name string, nilable bool) *Type {
	return &Type{Kind: TypeNamed, Name: name, nilable: nilable}
}

// Builtin returns a predeclared or qualified library type.
func Builtin(name string) *Type {
	return &Type{Kind: TypeBuiltin, Name: name, nilable: name == "[]byte" || name == RuntimeQualifier+".Document"}
}

// SliceOf returns []elem.
func SliceOf(elem *Type) *Type { return &Type{Kind: TypeSlice, Elem: elem} }

// MapOf returns map[key]val.
func MapOf(key, val *Type) *Type { return &Type{Kind: TypeMap, Key: key, Elem: val} }

// Optional marks t as possibly absent. Optional of Optional collapses.
func Optional(t *Type) *Type {
	if t.Kind == TypeOptional {
		return t
	}
	return &Type{Kind: TypeOptional, Elem: t}
}

// Boxed marks t as heap indirected. Wrapping must always be optional of
// boxed; boxing an optional is a generator bug and panics.
func Boxed(t *Type) *Type {
	switch t.Kind {
	case TypeOptional:
		panic(&FaultError{Msg: fmt.Sprintf("cannot box optional type %s; wrap as optional of boxed", t.Render())})
	case TypeBoxed:
		return t
	}
	return &Type{Kind: TypeBoxed, Elem: t}
}

// MaybeConstrained returns the builder slot type holding either a validated
// value of c or a pending value of u.
func MaybeConstrained(c, u *Type) *Type {
	return &Type{Kind: TypeMaybeConstrained, Elem: c, Key: u}
}

// IsNilable reports whether the rendered type's zero value is nil.
func (t *Type) IsNilable() bool {
	switch t.Kind {
	case TypeNamed, TypeBuiltin:
		return t.nilable
	case TypeSlice, TypeMap, TypeOptional, TypeBoxed:
		return true
	default:
		return false
	}
}

// IsPointer reports whether rendering t introduces a pointer.
func (t *Type) IsPointer() bool {
	switch t.Kind {
	case TypeOptional:
		if t.Elem.Kind == TypeBoxed {
			return t.Elem.IsPointer()
		}
		return !t.Elem.IsNilable()
	case TypeBoxed:
		return !t.Elem.IsNilable()
	}
	return false
}

// Strip removes any Optional and Boxed wrapping.
func (t *Type) Strip() *Type {
	for t.Kind == TypeOptional || t.Kind == TypeBoxed {
		t = t.Elem
	}
	return t
}

// IsOptional reports whether t is Optional at the top.
func (t *Type) IsOptional() bool { return t.Kind == TypeOptional }

// IsBoxed reports whether t carries a Boxed layer, under any Optional.
func (t *Type) IsBoxed() bool {
	if t.Kind == TypeOptional {
		t = t.Elem
	}
	return t.Kind == TypeBoxed
}

// Render returns the Go spelling of t. Optional and Boxed collapse into one
// pointer, and nilable types are never pointed to.
func (t *Type) Render() string {
	switch t.Kind {
	case TypeNamed, TypeBuiltin:
		return t.Name
	case TypeSlice:
		return "[]" + t.Elem.Render()
	case TypeMap:
		return "map[" + t.Key.Render() + "]" + t.Elem.Render()
	case TypeOptional, TypeBoxed:
		inner := t.Strip()
		if inner.IsNilable() {
			return inner.Render()
		}
		return "*" + inner.Render()
	case TypeMaybeConstrained:
		return RuntimeQualifier + ".MaybeConstrained[" + t.Elem.Render() + ", " + t.Key.Render() + "]"
	}
	panic(fmt.Sprintf("symbol: unknown type kind %d", t.Kind))
}

func (t *Type) String() string { return t.Render() }

// Describe renders the descriptor tree itself, wrappers included, for
// diagnostics and tests.
func (t *Type) Describe() string {
	var b strings.Builder
	t.describe(&b)
	return b.String()
}

func (t *Type) describe(b *strings.Builder) {
	switch t.Kind {
	case TypeNamed, TypeBuiltin:
		b.WriteString(t.Name)
	case TypeSlice:
		b.WriteString("Slice(")
		t.Elem.describe(b)
		b.WriteString(")")
	case TypeMap:
		b.WriteString("Map(")
		t.Key.describe(b)
		b.WriteString(", ")
		t.Elem.describe(b)
		b.WriteString(")")
	case TypeOptional:
		b.WriteString("Optional(")
		t.Elem.describe(b)
		b.WriteString(")")
	case TypeBoxed:
		b.WriteString("Boxed(")
		t.Elem.describe(b)
		b.WriteString(")")
	case TypeMaybeConstrained:
		b.WriteString("MaybeConstrained(")
		t.Elem.describe(b)
		b.WriteString(", ")
		t.Key.describe(b)
		b.WriteString(")")
	}
}

// FaultError is a generation-time fault: a lowering used where the
// classification says it does not apply, or an impossible type wrapping.
// Lowerings panic with it; the generator recovers it once at its boundary.
type FaultError struct {
	Msg string
}

func (e *FaultError) Error() string { return "generation fault: " + e.Msg }
