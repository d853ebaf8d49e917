package symbol

import (
	"fmt"

	"github.com/reoring/shapegen/internal/constraint"
	"github.com/reoring/shapegen/internal/ir"
)

// Lowering names one of the shape-to-symbol mappings.
type Lowering int

const (
	LowerBase Lowering = iota
	LowerConstrained
	LowerPubCrate
	LowerUnconstrained
	LowerViolation
	LowerBuilder
)

var loweringNames = [...]string{"base", "constrained", "pub-crate", "unconstrained", "violation", "builder"}

func (l Lowering) String() string {
	if int(l) < len(loweringNames) {
		return loweringNames[l]
	}
	return fmt.Sprintf("Lowering(%d)", int(l))
}

type cacheKey struct {
	lowering Lowering
	id       ir.ShapeID
	target   Target
	public   bool
}

// Cache memoizes lowered symbols for one generation run. It is keyed by
// lowering, shape, target and mode, so one cache may serve several modes.
type Cache struct {
	entries map[cacheKey]Symbol
	active  map[cacheKey]bool
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Symbol), active: make(map[cacheKey]bool)}
}

// Len returns the number of memoized symbols.
func (c *Cache) Len() int { return len(c.entries) }

// Providers lowers shapes under one Mode. Symbols referring to other shapes
// are always computed through the providers, never looked up from emitted
// code, so generation order between shapes does not matter.
type Providers struct {
	model *ir.Model
	cls   *constraint.Classifier
	mode  Mode
	cache *Cache
}

// New returns Providers for mode. A nil cache allocates a fresh one.
func New(cls *constraint.Classifier, mode Mode, cache *Cache) *Providers {
	if cache == nil {
		cache = NewCache()
	}
	return &Providers{model: cls.Model(), cls: cls, mode: mode, cache: cache}
}

// WithMode returns providers for another mode sharing classifier and cache.
func (p *Providers) WithMode(mode Mode) *Providers {
	return &Providers{model: p.model, cls: p.cls, mode: mode, cache: p.cache}
}

func (p *Providers) Mode() Mode                         { return p.mode }
func (p *Providers) Model() *ir.Model                   { return p.model }
func (p *Providers) Classifier() *constraint.Classifier { return p.cls }

func (p *Providers) validating() bool { return p.mode.Target == Validating }

func (p *Providers) memo(l Lowering, s ir.Shape, f func() Symbol) Symbol {
	k := cacheKey{lowering: l, id: s.ID(), target: p.mode.Target, public: p.mode.PublicConstrainedTypes}
	if sym, ok := p.cache.entries[k]; ok {
		return sym
	}
	if p.cache.active[k] {
		panic(&FaultError{Msg: fmt.Sprintf("%s lowering of %s refers to itself without a structure or union in between", l, s.ID())})
	}
	p.cache.active[k] = true
	sym := f()
	delete(p.cache.active, k)
	p.cache.entries[k] = sym
	return sym
}

func (p *Providers) lower(l Lowering, s ir.Shape) Symbol {
	switch l {
	case LowerBase:
		return p.Base(s)
	case LowerConstrained:
		return p.Constrained(s)
	case LowerPubCrate:
		return p.PubCrateConstrained(s)
	case LowerUnconstrained:
		return p.Unconstrained(s)
	}
	panic(&FaultError{Msg: fmt.Sprintf("lowering %s has no member form", l)})
}

// Name returns the Pascal-cased context name of s.
func (p *Providers) Name(s ir.Shape) string {
	return Pascal(p.model.ContextName(s.ID()))
}

func (p *Providers) named(name string, vis Visibility, nilable bool, ns ...string) Symbol {
	return Symbol{Name: name, Namespace: ns, Visibility: vis, Type: Named(applyVisibility(name, vis), nilable)}
}

// Base lowers s to its plain representation, the one a non-validating
// target exposes.
func (p *Providers) Base(s ir.Shape) Symbol {
	return p.memo(LowerBase, s, func() Symbol {
		name := p.Name(s)
		ns := []string{ModuleModel, Snake(name)}
		switch v := s.(type) {
		case *ir.Structure:
			return p.named(name, Public, false, ns...)
		case *ir.Union:
			return p.named(name, Public, true, ns...)
		case *ir.List:
			return Symbol{Name: name, Namespace: ns, Type: SliceOf(p.elemType(LowerBase, v.Member, v.Traits().Sparse))}
		case *ir.Map:
			return Symbol{Name: name, Namespace: ns, Type: MapOf(p.lower(LowerBase, p.model.Target(v.Key)).Type, p.elemType(LowerBase, v.Value, v.Traits().Sparse))}
		case *ir.Simple:
			if constraint.IsEnum(s) {
				return p.named(name, Public, false, ns...)
			}
			return Symbol{Name: name, Namespace: ns, Type: Builtin(BuiltinName(s.Kind()))}
		default:
			panic(&FaultError{Msg: fmt.Sprintf("%s shape %s has no type representation", s.Kind(), s.ID())})
		}
	})
}

// Constrained lowers s to the type holding a validated value: a wrapper for
// directly constrained primitives, lists and maps, the declared type for
// structures, unions and enums, and the plain type otherwise.
func (p *Providers) Constrained(s ir.Shape) Symbol {
	if !p.validating() {
		return p.Base(s)
	}
	return p.memo(LowerConstrained, s, func() Symbol {
		name := p.Name(s)
		ns := []string{ModuleModel, Snake(name)}
		vis := p.constrainedVisibility(s)
		switch v := s.(type) {
		case *ir.Structure, *ir.Union:
			return p.Base(s)
		case *ir.List:
			if p.cls.IsDirectlyConstrained(s) {
				return p.named(name, vis, false, ns...)
			}
			return Symbol{Name: name, Namespace: ns, Type: SliceOf(p.elemType(LowerConstrained, v.Member, v.Traits().Sparse))}
		case *ir.Map:
			if p.cls.IsDirectlyConstrained(s) {
				return p.named(name, vis, false, ns...)
			}
			return Symbol{Name: name, Namespace: ns, Type: MapOf(p.lower(LowerConstrained, p.model.Target(v.Key)).Type, p.elemType(LowerConstrained, v.Value, v.Traits().Sparse))}
		case *ir.Simple:
			if constraint.IsEnum(s) || !p.cls.IsDirectlyConstrained(s) {
				return p.Base(s)
			}
			return p.named(name, vis, false, ns...)
		default:
			panic(&FaultError{Msg: fmt.Sprintf("%s shape %s has no constrained representation", s.Kind(), s.ID())})
		}
	})
}

// constrainedVisibility demotes wrappers of everything but structures,
// unions and enums when constrained types are not public.
func (p *Providers) constrainedVisibility(s ir.Shape) Visibility {
	if p.mode.PublicConstrainedTypes {
		return Public
	}
	switch s.(type) {
	case *ir.Structure, *ir.Union:
		return Public
	}
	if constraint.IsEnum(s) {
		return Public
	}
	return Restricted
}

// PubCrateConstrained lowers lists and maps that are constrained only
// through their elements to a restricted intermediate collection of
// restricted wrappers, when those wrappers differ from the exposed types.
// Everything else delegates to Constrained.
func (p *Providers) PubCrateConstrained(s ir.Shape) Symbol {
	if !p.validating() {
		return p.Base(s)
	}
	return p.memo(LowerPubCrate, s, func() Symbol {
		switch s.(type) {
		case *ir.List, *ir.Map:
			if !p.cls.IsDirectlyConstrained(s) && p.cls.ReachesConstrainedShape(s) && p.NeedsConversion(s) {
				name := p.Name(s) + "Constrained"
				return p.named(name, Restricted, true, ModuleConstrained, Snake(name))
			}
		}
		return p.Constrained(s)
	})
}

// NeedsConversion reports whether a validated value of s is held in a type
// other than the one exposed on data types, and so must be converted with
// into() before use. Only true when constrained types are not public.
func (p *Providers) NeedsConversion(s ir.Shape) bool {
	if !p.validating() || p.mode.PublicConstrainedTypes {
		return false
	}
	switch v := s.(type) {
	case *ir.Structure, *ir.Union:
		return false
	case *ir.List:
		return p.cls.IsDirectlyConstrained(s) || p.NeedsConversion(p.model.Target(v.Member))
	case *ir.Map:
		return p.cls.IsDirectlyConstrained(s) ||
			p.NeedsConversion(p.model.Target(v.Key)) ||
			p.NeedsConversion(p.model.Target(v.Value))
	case *ir.Simple:
		return !constraint.IsEnum(s) && p.cls.IsDirectlyConstrained(s)
	default:
		return false
	}
}

// Main lowers s to the type exposed on generated data types: the
// constrained type on a validating target with public constrained types, the
// plain type otherwise.
func (p *Providers) Main(s ir.Shape) Symbol {
	if p.validating() && p.mode.PublicConstrainedTypes {
		return p.Constrained(s)
	}
	return p.Base(s)
}

// Unconstrained lowers s to the type holding a not yet validated value:
// builders for structures, shadow unions for unions, wrappers of
// unconstrained elements for lists and maps, and raw values for directly
// constrained primitives. Shapes that do not reach a constraint delegate to
// Constrained.
func (p *Providers) Unconstrained(s ir.Shape) Symbol {
	if !p.validating() {
		return p.Base(s)
	}
	return p.memo(LowerUnconstrained, s, func() Symbol {
		name := p.Name(s) + "Unconstrained"
		ns := []string{ModuleUnconstrained, Snake(name)}
		switch s.(type) {
		case *ir.Structure:
			if p.cls.ReachesConstrainedShape(s) {
				return p.Builder(s)
			}
		case *ir.Union, *ir.List, *ir.Map:
			if p.cls.ReachesConstrainedShape(s) {
				return p.named(name, Restricted, true, ns...)
			}
		case *ir.Simple:
			if p.cls.IsDirectlyConstrained(s) {
				return Symbol{Name: p.Name(s), Namespace: ns, Type: Builtin(BuiltinName(s.Kind()))}
			}
		default:
			panic(&FaultError{Msg: fmt.Sprintf("%s shape %s has no unconstrained representation", s.Kind(), s.ID())})
		}
		return p.Constrained(s)
	})
}

// Builder lowers a structure to its builder type.
func (p *Providers) Builder(s ir.Shape) Symbol {
	if _, ok := s.(*ir.Structure); !ok {
		panic(&FaultError{Msg: fmt.Sprintf("builder requested for %s shape %s", s.Kind(), s.ID())})
	}
	return p.memo(LowerBuilder, s, func() Symbol {
		name := p.Name(s)
		return p.named(name+"Builder", Public, false, ModuleModel, Snake(name))
	})
}

// Violation lowers s to its constraint violation type. It is only defined
// for shapes that reach a constraint; any other request is a fault.
func (p *Providers) Violation(s ir.Shape) Symbol {
	if !p.cls.ReachesConstrainedShape(s) {
		panic(&FaultError{Msg: fmt.Sprintf("constraint violation requested for %s, which does not reach a constrained shape", s.ID())})
	}
	return p.memo(LowerViolation, s, func() Symbol {
		name := p.Name(s)
		ns := []string{ModuleModel, Snake(name)}
		if _, ok := s.(*ir.Structure); ok {
			ns = append(ns, "builder")
		}
		return p.named(name+"ConstraintViolation", p.constrainedVisibility(s), false, ns...)
	})
}

// elemType resolves the element of a list or map value under l. Sparse
// collections hold optional elements.
func (p *Providers) elemType(l Lowering, m *ir.Member, sparse bool) *Type {
	t := p.lower(l, p.model.Target(m)).Type
	if p.cls.IsOnCycle(m) {
		t = Boxed(t)
	}
	if sparse {
		t = Optional(t)
	}
	return t
}

// ElemType is the exported form of elemType for the generator.
func (p *Providers) ElemType(l Lowering, container ir.Shape, m *ir.Member) *Type {
	return p.elemType(l, m, container.Traits().Sparse)
}

// Underlying returns the collection type behind a named list or map symbol
// of lowering l: wrappers hold restricted intermediates, unconstrained
// wrappers hold unconstrained elements.
func (p *Providers) Underlying(l Lowering, s ir.Shape) *Type {
	el := l
	if l == LowerConstrained {
		el = LowerPubCrate
	}
	switch v := s.(type) {
	case *ir.List:
		return SliceOf(p.elemType(el, v.Member, v.Traits().Sparse))
	case *ir.Map:
		return MapOf(p.lower(el, p.model.Target(v.Key)).Type, p.elemType(el, v.Value, v.Traits().Sparse))
	case *ir.Simple:
		return Builtin(BuiltinName(s.Kind()))
	}
	panic(&FaultError{Msg: fmt.Sprintf("%s shape %s has no underlying collection", s.Kind(), s.ID())})
}

// MemberIsOptional reports whether a structure member may be absent on the
// data type: neither required nor defaulted.
func (p *Providers) MemberIsOptional(m *ir.Member) bool {
	if _, ok := p.model.Expect(m.Container).(*ir.Structure); !ok {
		return false
	}
	return !m.IsRequired() && !m.Traits.HasDefault
}

// MemberType resolves a structure or union member under l: the target type
// first, then Boxed when the member closes a cycle, then Optional when it
// may be absent. The order is always optional of boxed.
func (p *Providers) MemberType(l Lowering, m *ir.Member) *Type {
	t := p.lower(l, p.model.Target(m)).Type
	if p.cls.IsOnCycle(m) {
		t = Boxed(t)
	}
	if p.MemberIsOptional(m) {
		t = Optional(t)
	}
	return t
}

// MainMemberType is MemberType under the exposed lowering.
func (p *Providers) MainMemberType(m *ir.Member) *Type {
	if p.validating() && p.mode.PublicConstrainedTypes {
		return p.MemberType(LowerConstrained, m)
	}
	return p.MemberType(LowerBase, m)
}

// SlotIsMaybeConstrained reports whether a builder slot for m accepts both
// validated and unvalidated values.
func (p *Providers) SlotIsMaybeConstrained(m *ir.Member, takeIn bool) bool {
	return p.validating() && takeIn && p.cls.TargetReachesConstrainedShape(m)
}

// BuilderSlot resolves the builder field type for m. Every slot is
// optional. takeIn is true when the builder accepts unconstrained values,
// which is the case for structures reachable from an operation input.
func (p *Providers) BuilderSlot(m *ir.Member, takeIn bool) *Type {
	target := p.model.Target(m)
	var t *Type
	if p.SlotIsMaybeConstrained(m, takeIn) {
		t = MaybeConstrained(p.PubCrateConstrained(target).Type, p.Unconstrained(target).Type)
	} else {
		t = p.Main(target).Type
	}
	if p.cls.IsOnCycle(m) {
		t = Boxed(t)
	}
	return Optional(t)
}

// BuiltinName maps a primitive kind to its Go spelling.
func BuiltinName(k ir.ShapeKind) string {
	switch k {
	case ir.KindString:
		return "string"
	case ir.KindByte:
		return "int8"
	case ir.KindShort:
		return "int16"
	case ir.KindInteger:
		return "int32"
	case ir.KindLong:
		return "int64"
	case ir.KindFloat:
		return "float32"
	case ir.KindDouble:
		return "float64"
	case ir.KindBoolean:
		return "bool"
	case ir.KindBlob:
		return "[]byte"
	case ir.KindTimestamp:
		return "time.Time"
	case ir.KindDocument:
		return RuntimeQualifier + ".Document"
	}
	panic(&FaultError{Msg: fmt.Sprintf("%s is not a primitive kind", k)})
}
