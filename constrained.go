package shapegen

// MaybeConstrained holds either a value that already satisfies its
// constraints (C) or one that has not been checked yet (U). Builders of
// input shapes store members this way so deserializers can defer
// validation until Build.
type MaybeConstrained[C, U any] struct {
	constrained   C
	unconstrained U
	ok            bool
}

// Constrained wraps a validated value.
func Constrained[C, U any](c C) MaybeConstrained[C, U] {
	return MaybeConstrained[C, U]{constrained: c, ok: true}
}

// Unconstrained wraps a value that still needs validation.
func Unconstrained[C, U any](u U) MaybeConstrained[C, U] {
	return MaybeConstrained[C, U]{unconstrained: u}
}

// IsConstrained reports which variant is held.
func (m MaybeConstrained[C, U]) IsConstrained() bool { return m.ok }

// Constrained returns the validated value; ok is false for the other variant.
func (m MaybeConstrained[C, U]) Constrained() (c C, ok bool) {
	return m.constrained, m.ok
}

// Unconstrained returns the unchecked value; ok is false for the other
// variant.
func (m MaybeConstrained[C, U]) Unconstrained() (u U, ok bool) {
	return m.unconstrained, !m.ok
}

// Resolve returns the constrained value, running check on the unconstrained
// one first when needed. Generated builders call it from build. The
// violation is returned as-is so callers keep their concrete pointer type.
func Resolve[C, U any, V comparable](m MaybeConstrained[C, U], check func(U) (C, V)) (C, V) {
	if c, ok := m.Constrained(); ok {
		var zero V
		return c, zero
	}
	u, _ := m.Unconstrained()
	return check(u)
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T { return &v }
