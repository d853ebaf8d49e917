// Package json tokenizes JSON with encoding/json. It reports byte offsets,
// which the default go-json driver does not, so MaxBytes enforcement and
// issue offsets only work with this driver installed:
//
//	shapegen.SetJSONDriver(json.Driver())
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/reoring/shapegen"
	eng "github.com/reoring/shapegen/internal/engine"
)

// Driver returns a shapegen.JSONDriver backed by encoding/json.
func Driver() shapegen.JSONDriver { return driver{} }

type driver struct{}

func (driver) NewReader(r io.Reader) shapegen.Source { return shapegen.SourceFromEngine(NewReader(r)) }
func (driver) NewBytes(b []byte) shapegen.Source     { return shapegen.SourceFromEngine(NewBytes(b)) }
func (driver) Name() string                          { return "encoding/json" }

type jsonSource struct {
	dec        *json.Decoder
	fr         eng.Framer
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		if v == '{' || v == '[' {
			return eng.Token{Kind: s.fr.Open(v == '{'), Offset: s.lastOffset}, nil
		}
		return eng.Token{Kind: s.fr.Close(), Offset: s.lastOffset}, nil
	case string:
		return eng.Token{Kind: s.fr.String(), String: v, Offset: s.lastOffset}, nil
	case bool:
		s.fr.Value()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: s.lastOffset}, nil
	case json.Number:
		s.fr.Value()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: s.lastOffset}, nil
	case float64:
		s.fr.Value()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: s.lastOffset}, nil
	}
	s.fr.Value()
	return eng.Token{Kind: eng.KindNull, Offset: s.lastOffset}, nil
}

func (s *jsonSource) Location() int64 { return s.lastOffset }
