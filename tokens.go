package shapegen

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/reoring/shapegen/codec"
	eng "github.com/reoring/shapegen/internal/engine"
	"github.com/reoring/shapegen/internal/stream"
)

// Document is an untyped JSON value: map[string]any, []any, string,
// json.Number, bool or nil.
type Document interface{}

// TokenStream is the peekable token reader generated deserializers consume.
// Every Expect method returns ok=false (and no error) for a JSON null.
type TokenStream struct {
	src    Source
	peeked *Token
}

// NewTokenStream wraps a Source.
func NewTokenStream(src Source) *TokenStream { return &TokenStream{src: src} }

// TokensFromBytes reads body with the current JSON driver under
// DefaultParseOpt. An empty or whitespace-only body is read as "{}".
func TokensFromBytes(body []byte) *TokenStream {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	return NewTokenStream(EnforceSource(JSONBytes(body), DefaultParseOpt, nil))
}

// Next consumes the next token. End of input is reported as an error.
func (ts *TokenStream) Next() (Token, error) {
	tok, err := ts.raw()
	if err == io.EOF {
		return Token{}, deserializeError(CodeParseError, ts.src.Location(), "unexpected end of input")
	}
	return tok, err
}

// Peek returns the next token without consuming it.
func (ts *TokenStream) Peek() (Token, error) {
	if ts.peeked == nil {
		tok, err := ts.Next()
		if err != nil {
			return Token{}, err
		}
		ts.peeked = &tok
	}
	return *ts.peeked, nil
}

func (ts *TokenStream) raw() (Token, error) {
	if ts.peeked != nil {
		tok := *ts.peeked
		ts.peeked = nil
		return tok, nil
	}
	tok, err := ts.src.NextToken()
	if err == nil || err == io.EOF {
		return tok, err
	}
	var de *DeserializeError
	if errors.As(err, &de) {
		return Token{}, err
	}
	return Token{}, &DeserializeError{Code: CodeParseError, Msg: "invalid JSON", Offset: ts.src.Location(), Cause: err}
}

func unexpected(tok Token, want string) *DeserializeError {
	return deserializeError(CodeUnexpectedToken, tok.Offset, "expected %s, found %s", want, tok.Kind)
}

// StartObjectOrNull consumes '{' (true) or null (false).
func (ts *TokenStream) StartObjectOrNull() (bool, error) {
	return ts.startOrNull(StartObject, "start object or null")
}

// StartArrayOrNull consumes '[' (true) or null (false).
func (ts *TokenStream) StartArrayOrNull() (bool, error) {
	return ts.startOrNull(StartArray, "start array or null")
}

func (ts *TokenStream) startOrNull(kind TokenKind, want string) (bool, error) {
	tok, err := ts.Next()
	if err != nil {
		return false, err
	}
	switch tok.Kind {
	case kind:
		return true, nil
	case ValueNull:
		return false, nil
	default:
		return false, unexpected(tok, want)
	}
}

// ExpectStartObject consumes '{'; null is not accepted.
func (ts *TokenStream) ExpectStartObject() error {
	tok, err := ts.Next()
	if err != nil {
		return err
	}
	if tok.Kind != StartObject {
		return unexpected(tok, "start object")
	}
	return nil
}

// NextKeyOrEnd returns the next object key, or ok=false after consuming '}'.
func (ts *TokenStream) NextKeyOrEnd() (key string, ok bool, err error) {
	tok, err := ts.Next()
	if err != nil {
		return "", false, err
	}
	switch tok.Kind {
	case ObjectKey:
		return tok.String, true, nil
	case EndObject:
		return "", false, nil
	default:
		return "", false, deserializeError(CodeUnexpectedToken, tok.Offset, "expected object key or end object, found: %v", tok.Kind)
	}
}

// NextElementOrEnd reports whether another array element follows, consuming
// ']' when it does not.
func (ts *TokenStream) NextElementOrEnd() (bool, error) {
	tok, err := ts.Peek()
	if err != nil {
		return false, err
	}
	if tok.Kind == EndArray {
		ts.peeked = nil
		return false, nil
	}
	return true, nil
}

func (ts *TokenStream) scalar(kind TokenKind, want string) (Token, bool, error) {
	tok, err := ts.Next()
	if err != nil {
		return Token{}, false, err
	}
	switch tok.Kind {
	case kind:
		return tok, true, nil
	case ValueNull:
		return Token{}, false, nil
	default:
		return Token{}, false, unexpected(tok, want)
	}
}

// ExpectStringOrNull reads a string.
func (ts *TokenStream) ExpectStringOrNull() (string, bool, error) {
	tok, ok, err := ts.scalar(ValueString, "string value")
	return tok.String, ok, err
}

// ExpectBoolOrNull reads a boolean.
func (ts *TokenStream) ExpectBoolOrNull() (bool, bool, error) {
	tok, ok, err := ts.scalar(ValueBool, "boolean value")
	return tok.Bool, ok, err
}

func (ts *TokenStream) integer(bits int) (int64, bool, error) {
	tok, ok, err := ts.scalar(ValueNumber, "number value")
	if !ok || err != nil {
		return 0, ok, err
	}
	n, err := strconv.ParseInt(tok.Number, 10, bits)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && ne.Err == strconv.ErrRange {
			return 0, false, deserializeError(CodeOverflow, tok.Offset, "number %s does not fit in int%d", tok.Number, bits)
		}
		return 0, false, deserializeError(CodeInvalidType, tok.Offset, "expected integer, found %s", tok.Number)
	}
	return n, true, nil
}

// ExpectInt8OrNull reads a byte shape.
func (ts *TokenStream) ExpectInt8OrNull() (int8, bool, error) {
	n, ok, err := ts.integer(8)
	return int8(n), ok, err
}

// ExpectInt16OrNull reads a short shape.
func (ts *TokenStream) ExpectInt16OrNull() (int16, bool, error) {
	n, ok, err := ts.integer(16)
	return int16(n), ok, err
}

// ExpectInt32OrNull reads an integer shape.
func (ts *TokenStream) ExpectInt32OrNull() (int32, bool, error) {
	n, ok, err := ts.integer(32)
	return int32(n), ok, err
}

// ExpectInt64OrNull reads a long shape.
func (ts *TokenStream) ExpectInt64OrNull() (int64, bool, error) {
	return ts.integer(64)
}

func (ts *TokenStream) float(bits int) (float64, bool, error) {
	tok, err := ts.Next()
	if err != nil {
		return 0, false, err
	}
	switch tok.Kind {
	case ValueNull:
		return 0, false, nil
	case ValueString:
		switch tok.String {
		case "NaN":
			return math.NaN(), true, nil
		case "Infinity":
			return math.Inf(1), true, nil
		case "-Infinity":
			return math.Inf(-1), true, nil
		}
		return 0, false, deserializeError(CodeInvalidType, tok.Offset, "expected number or NaN/Infinity/-Infinity, found %q", tok.String)
	case ValueNumber:
		f, err := strconv.ParseFloat(tok.Number, bits)
		if err != nil {
			return 0, false, deserializeError(CodeOverflow, tok.Offset, "number %s does not fit in float%d", tok.Number, bits)
		}
		return f, true, nil
	default:
		return 0, false, unexpected(tok, "number value")
	}
}

// ExpectFloat32OrNull reads a float shape.
func (ts *TokenStream) ExpectFloat32OrNull() (float32, bool, error) {
	f, ok, err := ts.float(32)
	return float32(f), ok, err
}

// ExpectFloat64OrNull reads a double shape.
func (ts *TokenStream) ExpectFloat64OrNull() (float64, bool, error) {
	return ts.float(64)
}

// ExpectBlobOrNull reads a base64 string.
func (ts *TokenStream) ExpectBlobOrNull() ([]byte, bool, error) {
	tok, ok, err := ts.scalar(ValueString, "base64 encoded string")
	if !ok || err != nil {
		return nil, ok, err
	}
	b, err := base64.StdEncoding.DecodeString(tok.String)
	if err != nil {
		return nil, false, &DeserializeError{Code: CodeInvalidFormat, Msg: "failed to decode base64", Offset: tok.Offset, Cause: err}
	}
	return b, true, nil
}

// ExpectTimestampOrNull reads a timestamp in format f.
func (ts *TokenStream) ExpectTimestampOrNull(f codec.Format) (time.Time, bool, error) {
	var tok Token
	var ok bool
	var err error
	if f.Numeric() {
		tok, ok, err = ts.scalar(ValueNumber, "number value")
		tok.String = tok.Number
	} else {
		tok, ok, err = ts.scalar(ValueString, "string value")
	}
	if !ok || err != nil {
		return time.Time{}, ok, err
	}
	t, err := f.Decode(tok.String)
	if err != nil {
		return time.Time{}, false, &DeserializeError{Code: CodeInvalidFormat, Msg: "failed to parse timestamp", Offset: tok.Offset, Cause: err}
	}
	return t, true, nil
}

// ExpectDocument reads any JSON value; null yields a nil Document.
func (ts *TokenStream) ExpectDocument() (Document, error) {
	tok, err := ts.Next()
	if err != nil {
		return nil, err
	}
	v, err := eng.DecodeAnyFrom(ts.engine(), toEngineToken(tok))
	if err != nil {
		return nil, err
	}
	return Document(v), nil
}

// ExpectDocumentOrNull is ExpectDocument with null reported as absent.
func (ts *TokenStream) ExpectDocumentOrNull() (Document, bool, error) {
	doc, err := ts.ExpectDocument()
	if err != nil {
		return nil, false, err
	}
	return doc, doc != nil, nil
}

// SkipValue consumes the next value, however deeply nested.
func (ts *TokenStream) SkipValue() error {
	tok, err := ts.Next()
	if err != nil {
		return err
	}
	return stream.Skip(ts.engine(), toEngineToken(tok))
}

// ExpectEnd fails when tokens remain after a complete value.
func (ts *TokenStream) ExpectEnd() error {
	tok, err := ts.raw()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	return deserializeError(CodeTrailingTokens, tok.Offset, "found more JSON tokens after completing parsing")
}

// engine exposes the stream, including the peeked token, to engine helpers.
func (ts *TokenStream) engine() eng.TokenSource { return &streamEngineSource{ts: ts} }

type streamEngineSource struct{ ts *TokenStream }

func (s *streamEngineSource) NextToken() (eng.Token, error) {
	tok, err := s.ts.Next()
	if err != nil {
		return eng.Token{}, err
	}
	return toEngineToken(tok), nil
}

func (s *streamEngineSource) Location() int64 { return s.ts.src.Location() }

func toEngineToken(t Token) eng.Token {
	return eng.Token{Kind: toEngineKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}
}
