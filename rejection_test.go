package shapegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectViolation(t *testing.T) {
	v := CheckLength("test#Name", 0, Bound(1), nil)
	rej := RejectViolation(v)
	assert.Equal(t, ReasonConstraintViolation, rej.Reason)
	require.Len(t, rej.Issues, 1)
	assert.Equal(t, "/", rej.Issues[0].Path)

	var sv *ScalarViolation
	assert.True(t, errors.As(rej, &sv))
	assert.Contains(t, rej.Error(), "request rejected (constraint violation)")
}

func TestRejectDeserialize(t *testing.T) {
	rej := RejectDeserialize(Custom("Union did not contain a valid variant."))
	assert.Equal(t, ReasonDeserialize, rej.Reason)
	assert.Equal(t, CodeCustom, rej.Issues[0].Code)

	plain := RejectDeserialize(errors.New("boom"))
	assert.Equal(t, CodeParseError, plain.Issues[0].Code)
	assert.Contains(t, plain.Issues[0].Message, "boom")
}

func TestIssuesError(t *testing.T) {
	iss := Issues{
		{Path: "/a", Code: CodeRequired},
		{Path: "/b", Code: CodeTooLong},
		{Path: "/c", Code: CodePattern},
		{Path: "/d", Code: CodeInvalidEnum},
	}
	assert.Equal(t, "required at /a; too_long at /b; pattern at /c; ... (total 4)", iss.Error())

	got, ok := AsIssues(error(iss))
	assert.True(t, ok)
	assert.Len(t, got, 4)
}

func TestUnionErrors(t *testing.T) {
	assert.Equal(t, "encountered mixed variants in union", MixedVariants().Error())
	assert.Equal(t, "unexpected union variant: dog", UnknownVariant("dog").Error())
	assert.Equal(t, CodeEmptyUnion, EmptyUnion().Issue().Code)
	assert.Equal(t, "/", EmptyUnion().Issue().Path)
}

func TestErrorMessage(t *testing.T) {
	msg := "not here"
	var none *string
	assert.Equal(t, "ThingNotFound: not here", ErrorMessage("ThingNotFound", &msg))
	assert.Equal(t, "ThingNotFound", ErrorMessage("ThingNotFound", none))
	assert.Equal(t, "ThingNotFound", ErrorMessage("ThingNotFound", ""))
}

func TestBuildFailedKeepsCause(t *testing.T) {
	cause := CheckLength("test#Name", 0, Bound(1), nil)
	rej := RejectDeserialize(BuildFailed(cause))
	assert.Equal(t, CodeCustom, rej.Issues[0].Code)

	var sv *ScalarViolation
	require.ErrorAs(t, rej, &sv)
	assert.Same(t, cause, sv)
	assert.Contains(t, rej.Error(), "failed to build nested value: ")
}
