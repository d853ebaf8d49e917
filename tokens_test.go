package shapegen

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapegen/codec"
)

func tokensOf(t *testing.T, body string) *TokenStream {
	t.Helper()
	return TokensFromBytes([]byte(body))
}

func requireCode(t *testing.T, err error, code string) *DeserializeError {
	t.Helper()
	var de *DeserializeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
	return de
}

func TestTokenStream_ObjectWalk(t *testing.T) {
	ts := tokensOf(t, `{"a": "x", "skip": {"deep": [1, {"z": null}]}, "b": 7}`)
	ok, err := ts.StartObjectOrNull()
	require.NoError(t, err)
	require.True(t, ok)

	got := map[string]any{}
	for {
		key, more, err := ts.NextKeyOrEnd()
		require.NoError(t, err)
		if !more {
			break
		}
		switch key {
		case "a":
			s, _, err := ts.ExpectStringOrNull()
			require.NoError(t, err)
			got[key] = s
		case "b":
			n, _, err := ts.ExpectInt32OrNull()
			require.NoError(t, err)
			got[key] = n
		default:
			require.NoError(t, ts.SkipValue())
		}
	}
	require.NoError(t, ts.ExpectEnd())
	assert.Equal(t, map[string]any{"a": "x", "b": int32(7)}, got)
}

func TestTokenStream_EmptyBodyIsEmptyObject(t *testing.T) {
	ts := tokensOf(t, "  \n")
	ok, err := ts.StartObjectOrNull()
	require.NoError(t, err)
	assert.True(t, ok)
	_, more, err := ts.NextKeyOrEnd()
	require.NoError(t, err)
	assert.False(t, more)
	assert.NoError(t, ts.ExpectEnd())
}

func TestTokenStream_Nulls(t *testing.T) {
	ts := tokensOf(t, `[null, null, null, null]`)
	ok, err := ts.StartArrayOrNull()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = ts.ExpectStringOrNull()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = ts.ExpectInt64OrNull()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = ts.ExpectTimestampOrNull(codec.DateTime)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = ts.StartObjectOrNull()
	require.NoError(t, err)
	assert.False(t, ok)

	more, err := ts.NextElementOrEnd()
	require.NoError(t, err)
	assert.False(t, more)
}

func TestTokenStream_TrailingTokens(t *testing.T) {
	ts := tokensOf(t, `{} {}`)
	require.NoError(t, ts.ExpectStartObject())
	_, _, err := ts.NextKeyOrEnd()
	require.NoError(t, err)
	de := requireCode(t, ts.ExpectEnd(), CodeTrailingTokens)
	assert.Equal(t, "found more JSON tokens after completing parsing", de.Msg)
}

func TestTokenStream_UnexpectedToken(t *testing.T) {
	ts := tokensOf(t, `{"a": 1}`)
	require.NoError(t, ts.ExpectStartObject())
	_, _, err := ts.NextKeyOrEnd()
	require.NoError(t, err)
	_, _, err = ts.ExpectStringOrNull()
	de := requireCode(t, err, CodeUnexpectedToken)
	assert.Equal(t, "expected string value, found number", de.Msg)
}

func TestTokenStream_NextKeyOrEndRejectsValues(t *testing.T) {
	ts := tokensOf(t, `[1]`)
	_, err := ts.StartArrayOrNull()
	require.NoError(t, err)
	_, _, err = ts.NextKeyOrEnd()
	de := requireCode(t, err, CodeUnexpectedToken)
	assert.Equal(t, "expected object key or end object, found: number", de.Msg)
}

func TestTokenStream_Numbers(t *testing.T) {
	ts := tokensOf(t, `[300, 1.5, "NaN", "-Infinity", 1e400]`)
	_, err := ts.StartArrayOrNull()
	require.NoError(t, err)

	_, _, err = ts.ExpectInt8OrNull()
	requireCode(t, err, CodeOverflow)
	_, _, err = ts.ExpectInt32OrNull()
	requireCode(t, err, CodeInvalidType)

	f, ok, err := ts.ExpectFloat64OrNull()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, math.IsNaN(f))
	f32, _, err := ts.ExpectFloat32OrNull()
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(f32), -1))
	_, _, err = ts.ExpectFloat64OrNull()
	requireCode(t, err, CodeOverflow)
}

func TestTokenStream_BlobTimestampDocument(t *testing.T) {
	ts := tokensOf(t, `["aGk=", 1398796238, "2025-01-01T00:00:00Z", {"k": [true, "v", 2]}, "%%"]`)
	_, err := ts.StartArrayOrNull()
	require.NoError(t, err)

	b, _, err := ts.ExpectBlobOrNull()
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), b)

	tm, _, err := ts.ExpectTimestampOrNull(codec.EpochSeconds)
	require.NoError(t, err)
	assert.Equal(t, int64(1398796238), tm.Unix())

	tm, _, err = ts.ExpectTimestampOrNull(codec.DateTime)
	require.NoError(t, err)
	assert.True(t, tm.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	doc, err := ts.ExpectDocument()
	require.NoError(t, err)
	m, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Len(t, m["k"], 3)

	_, _, err = ts.ExpectBlobOrNull()
	requireCode(t, err, CodeInvalidFormat)
}

func TestTokenStream_DuplicateKeysRejected(t *testing.T) {
	ts := tokensOf(t, `{"a": 1, "a": 2}`)
	require.NoError(t, ts.ExpectStartObject())
	_, _, err := ts.NextKeyOrEnd()
	require.NoError(t, err)
	require.NoError(t, ts.SkipValue())
	_, _, err = ts.NextKeyOrEnd()
	de := requireCode(t, err, CodeDuplicateKey)
	assert.Equal(t, "/a", de.Path)
}

func TestTokenStream_TruncatedInput(t *testing.T) {
	ts := tokensOf(t, `{"a": `)
	require.NoError(t, ts.ExpectStartObject())
	_, _, err := ts.NextKeyOrEnd()
	require.NoError(t, err)
	_, _, err = ts.ExpectStringOrNull()
	requireCode(t, err, CodeParseError)
}
