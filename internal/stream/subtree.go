// Package stream provides views over a single value of a token stream.
package stream

import (
	"io"

	eng "github.com/reoring/shapegen/internal/engine"
)

// Subtree is a token source bounded to one JSON value whose first token has
// already been read from inner. After the value's last token it returns
// io.EOF without touching inner.
type Subtree struct {
	inner eng.TokenSource
	first *eng.Token
	depth int
	done  bool
}

// NewSubtree returns a view over the value that begins with first.
func NewSubtree(inner eng.TokenSource, first eng.Token) *Subtree {
	return &Subtree{inner: inner, first: &first}
}

func (s *Subtree) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if s.first != nil {
		tok, s.first = *s.first, nil
	} else {
		t, err := s.inner.NextToken()
		if err != nil {
			if err == io.EOF {
				return eng.Token{}, io.ErrUnexpectedEOF
			}
			return eng.Token{}, err
		}
		tok = t
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
	}
	if s.depth <= 0 {
		s.done = true
	}
	return tok, nil
}

func (s *Subtree) Location() int64 { return s.inner.Location() }

// Done reports whether the whole value has been consumed.
func (s *Subtree) Done() bool { return s.done }

// Skip consumes the value starting with first.
func Skip(inner eng.TokenSource, first eng.Token) error {
	sub := NewSubtree(inner, first)
	for !sub.Done() {
		if _, err := sub.NextToken(); err != nil {
			return err
		}
	}
	return nil
}
