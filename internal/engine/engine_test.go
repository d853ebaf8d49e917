package engine

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) }

func obj(kv ...Token) []Token {
	out := []Token{{Kind: KindBeginObject}}
	out = append(out, kv...)
	return append(out, Token{Kind: KindEndObject})
}

func key(k string) Token { return Token{Kind: KindKey, String: k} }
func str(v string) Token { return Token{Kind: KindString, String: v} }

func TestDecodeAnyFromSource(t *testing.T) {
	toks := obj(
		key("a"), Token{Kind: KindNumber, Number: "1.5"},
		key("b"), Token{Kind: KindBeginArray}, Token{Kind: KindBool, Bool: true}, Token{Kind: KindNull}, Token{Kind: KindEndArray},
	)
	got, err := DecodeAnyFromSource(&sliceSource{toks: toks})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1.5"), "b": []any{true, nil}}, got)
}

func TestDecodeAnyFrom_Unbalanced(t *testing.T) {
	_, err := DecodeAnyFromSource(&sliceSource{toks: []Token{{Kind: KindEndArray}}})
	assert.True(t, errors.Is(err, ErrUnbalanced))
}

func TestEnforce_DuplicateKey(t *testing.T) {
	inner := obj(key("a"), str("1"), key("a"), str("2"))
	toks := obj(append([]Token{key("x")}, inner...)...)
	var seen []SimpleIssue
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{
		OnDuplicate: DupError,
		IssueSink:   func(si SimpleIssue) { seen = append(seen, si) },
	})
	_, err := DecodeAnyFromSource(src)
	var ie IssueError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "duplicate_key", ie.Code)
	assert.Equal(t, "/x/a", ie.Path)
	assert.Len(t, seen, 1)
}

func TestEnforce_DuplicateKeyWarnContinues(t *testing.T) {
	toks := obj(key("a"), str("1"), key("a"), str("2"))
	var seen []SimpleIssue
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { seen = append(seen, si) },
	})
	got, err := DecodeAnyFromSource(src)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "2"}, got)
	require.Len(t, seen, 1)
	assert.Equal(t, "/a", seen[0].Path)
}

func TestEnforce_MaxDepth(t *testing.T) {
	toks := []Token{
		{Kind: KindBeginArray},
		{Kind: KindBeginArray},
		{Kind: KindBeginArray},
		{Kind: KindEndArray},
		{Kind: KindEndArray},
		{Kind: KindEndArray},
	}
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxDepth: 2})
	_, err := DecodeAnyFromSource(src)
	var ie IssueError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "max depth exceeded", ie.Message)
	assert.Equal(t, "/0/0", ie.Path)
}

func TestEnforce_MaxBytes(t *testing.T) {
	toks := obj(key("a"), str("1"), key("b"), str("2"))
	src := WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxBytes: 3})
	_, err := DecodeAnyFromSource(src)
	var ie IssueError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "truncated", ie.Code)
}

func TestJoinJSONPointerEscapes(t *testing.T) {
	assert.Equal(t, "/a~1b/c~0d", joinJSONPointer(joinJSONPointer("", "a/b"), "c~d"))
}
