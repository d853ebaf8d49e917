package shapegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type short struct{ v string }

type shortViolation struct{ got int }

func constrainShort(u string) (short, *shortViolation) {
	if len(u) > 3 {
		return short{}, &shortViolation{got: len(u)}
	}
	return short{v: u}, nil
}

func TestMaybeConstrainedVariants(t *testing.T) {
	c := Constrained[short, string](short{v: "ok"})
	assert.True(t, c.IsConstrained())
	got, ok := c.Constrained()
	assert.True(t, ok)
	assert.Equal(t, "ok", got.v)
	_, ok = c.Unconstrained()
	assert.False(t, ok)

	u := Unconstrained[short, string]("raw")
	assert.False(t, u.IsConstrained())
	raw, ok := u.Unconstrained()
	assert.True(t, ok)
	assert.Equal(t, "raw", raw)
}

func TestResolve(t *testing.T) {
	c, v := Resolve(Unconstrained[short, string]("abc"), constrainShort)
	assert.Nil(t, v)
	assert.Equal(t, "abc", c.v)

	_, v = Resolve(Unconstrained[short, string]("abcdef"), constrainShort)
	if assert.NotNil(t, v) {
		assert.Equal(t, 6, v.got)
	}

	// Already constrained values are not checked again.
	c, v = Resolve(Constrained[short, string](short{v: "toolong"}), constrainShort)
	assert.Nil(t, v)
	assert.Equal(t, "toolong", c.v)
}

func TestPtrCopies(t *testing.T) {
	v := 3
	p := Ptr(v)
	v = 4
	assert.Equal(t, 3, *p)
}
