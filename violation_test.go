package shapegen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLength(t *testing.T) {
	assert.Nil(t, CheckLength("test#NiceString", RuneCount("ok"), Bound(1), Bound(5)))
	assert.Nil(t, CheckLength("test#NiceString", RuneCount("héllo"), Bound(1), Bound(5)), "runes, not bytes")

	v := CheckLength("test#NiceString", RuneCount("toolong"), Bound(1), Bound(5))
	require.NotNil(t, v)
	assert.Equal(t, ConstraintLength, v.Constraint)
	assert.Equal(t, 7, v.Length)
	assert.Equal(t,
		"value with length 7 provided for 'test#NiceString' failed to satisfy constraint: member must have length between 1 and 5, inclusive",
		v.Error())

	iss := v.Issue(Root().Field("name"))
	assert.Equal(t, "/name", iss.Path)
	assert.Equal(t, CodeTooLong, iss.Code)
	assert.Equal(t, 7, iss.Params["length"])

	short := CheckLength("test#Min", 0, Bound(1), nil)
	require.NotNil(t, short)
	assert.Equal(t, CodeTooShort, short.Issue(Root()).Code)
	assert.Contains(t, short.Error(), "greater than or equal to 1")
}

func TestCheckRange(t *testing.T) {
	assert.Nil(t, CheckRange("test#Age", 10, Bound(0), Bound(150), false))
	v := CheckRange("test#Age", -1, Bound(0), nil, false)
	require.NotNil(t, v)
	assert.Equal(t, "-1", v.Value)
	assert.Equal(t, CodeTooSmall, v.Issue(Root()).Code)
	assert.Equal(t,
		"value -1 provided for 'test#Age' failed to satisfy constraint: member must be greater than or equal to 0",
		v.Error())

	secret := CheckRange("test#Pin", 99999, nil, Bound(9999), true)
	require.NotNil(t, secret)
	assert.Empty(t, secret.Value)
	assert.NotContains(t, secret.Error(), "99999")
	assert.Equal(t, CodeTooBig, secret.Issue(Root()).Code)
}

func TestCheckPatternAndEnum(t *testing.T) {
	re := regexp.MustCompile(`^[a-z]+$`)
	assert.Nil(t, CheckPattern("test#Lower", re, "abc", false))
	v := CheckPattern("test#Lower", re, "ABC", false)
	require.NotNil(t, v)
	assert.Contains(t, v.Error(), "value `ABC`")
	assert.Contains(t, v.Error(), "regular expression pattern: ^[a-z]+$")

	hidden := CheckPattern("test#Lower", re, "ABC", true)
	require.NotNil(t, hidden)
	assert.NotContains(t, hidden.Error(), "ABC")

	suits := []string{"heart", "spade"}
	assert.Nil(t, CheckEnum("test#Suit", "heart", suits, false))
	e := CheckEnum("test#Suit", "club", suits, false)
	require.NotNil(t, e)
	assert.Equal(t, CodeInvalidEnum, e.Issue(Root()).Code)
	assert.Contains(t, e.Error(), "enum value set: [heart, spade]")
}

func TestSortedKeys(t *testing.T) {
	type labels map[string]int
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(labels{"c": 1, "a": 2, "b": 3}))
	assert.Empty(t, SortedKeys(map[string]bool{}))
}

func TestPathRef(t *testing.T) {
	p := Root().Field("items").Index(2).Field("a/b~c")
	assert.Equal(t, "/items/2/a~1b~0c", p.Pointer())
	assert.Equal(t, "/", Root().Pointer())
	assert.Equal(t, "/x/0", At("/x/0").Pointer())
	iss := p.Issue(CodeRequired, "missing", "member", "a")
	assert.Equal(t, "a", iss.Params["member"])
}

func TestFormatStruct(t *testing.T) {
	n := 3
	var missing *int
	got := FormatStruct("Login", Field("user", "ann"), Field("tries", &n), Field("code", missing), Redact("password"))
	assert.Equal(t, "Login{user: ann, tries: 3, code: <nil>, password: "+Redacted+"}", got)
}
