// Package gojson tokenizes JSON with goccy/go-json. It is the default
// driver of the shapegen runtime.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/shapegen/internal/engine"
)

type source struct {
	dec *j.Decoder
	fr  eng.Framer
}

// NewReader wraps an io.Reader into an engine.TokenSource.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{', '[':
			return eng.Token{Kind: s.fr.Open(v == '{'), Offset: -1}, nil
		default:
			return eng.Token{Kind: s.fr.Close(), Offset: -1}, nil
		}
	case string:
		return eng.Token{Kind: s.fr.String(), String: v, Offset: -1}, nil
	case bool:
		s.fr.Value()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.fr.Value()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.fr.Value()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	}
	s.fr.Value()
	return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
}

func (s *source) Location() int64 { return -1 }
