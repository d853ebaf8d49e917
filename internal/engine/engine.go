package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface implemented by tokenizer drivers.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrUnbalanced is returned when a container closes without opening or a
// value position holds a structural token.
var ErrUnbalanced = errors.New("unbalanced JSON token stream")

// DecodeAnyFromSource builds an untyped tree (map[string]any, []any, string,
// json.Number, bool, nil) from the next value in src.
func DecodeAnyFromSource(src TokenSource) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return DecodeAnyFrom(src, tok)
}

// DecodeAnyFrom is DecodeAnyFromSource with the first token already read.
func DecodeAnyFrom(src TokenSource, first Token) (any, error) {
	switch first.Kind {
	case KindBeginObject:
		m := make(map[string]any)
		for {
			tok, err := src.NextToken()
			if err != nil {
				return nil, err
			}
			if tok.Kind == KindEndObject {
				return m, nil
			}
			if tok.Kind != KindKey {
				return nil, fmt.Errorf("%w: expected key, got kind %d", ErrUnbalanced, tok.Kind)
			}
			v, err := DecodeAnyFromSource(src)
			if err != nil {
				return nil, err
			}
			m[tok.String] = v
		}
	case KindBeginArray:
		arr := []any{}
		for {
			tok, err := src.NextToken()
			if err != nil {
				return nil, err
			}
			if tok.Kind == KindEndArray {
				return arr, nil
			}
			v, err := DecodeAnyFrom(src, tok)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case KindString:
		return first.String, nil
	case KindNumber:
		return json.Number(first.Number), nil
	case KindBool:
		return first.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unexpected kind %d in value position", ErrUnbalanced, first.Kind)
	}
}
