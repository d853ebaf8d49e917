package shapegen

import (
	"io"
	"sync"

	eng "github.com/reoring/shapegen/internal/engine"
	gojson "github.com/reoring/shapegen/source/gojson"
)

// TokenKind enumerates the tokens a Source produces.
type TokenKind int

const (
	StartObject TokenKind = iota
	EndObject
	StartArray
	EndArray
	ObjectKey
	ValueString
	ValueNumber
	ValueBool
	ValueNull
)

var tokenKindNames = [...]string{
	StartObject: "start object",
	EndObject:   "end object",
	StartArray:  "start array",
	EndArray:    "end array",
	ObjectKey:   "object key",
	ValueString: "string",
	ValueNumber: "number",
	ValueBool:   "boolean",
	ValueNull:   "null",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown token"
}

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token struct {
	Kind   TokenKind
	String string // key and string tokens
	Number string // number text, interpreted by the caller
	Bool   bool
	Offset int64
}

// Source is a pull-based token producer.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source. The default implementation
// is backed by goccy/go-json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the driver JSONBytes and JSONReader use.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source { return SourceFromEngine(gojson.NewReader(r)) }
func (defaultJSONDriver) NewBytes(b []byte) Source     { return SourceFromEngine(gojson.NewBytes(b)) }
func (defaultJSONDriver) Name() string                 { return "go-json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// SourceFromEngine wraps an engine token source, which is what tokenizer
// drivers produce.
func SourceFromEngine(inner eng.TokenSource) Source {
	return &engineSourceAdapter{inner: inner}
}

// EnforceSource wraps a Source with depth, size and duplicate-key
// enforcement. Warnings go to sink when it is non-nil.
func EnforceSource(s Source, opt ParseOpt, sink func(Issue)) Source {
	if opt.isZero() {
		return s
	}
	var forward func(eng.SimpleIssue)
	if sink != nil {
		forward = func(si eng.SimpleIssue) {
			sink(Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: s.Location()})
		}
	}
	inner, ok := s.(*engineSourceAdapter)
	var src eng.TokenSource
	if ok {
		src = inner.inner
	} else {
		src = &publicTokenSource{s: s}
	}
	return SourceFromEngine(eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   forward,
		FailFast:    opt.FailFast,
	}))
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

type engineSourceAdapter struct {
	inner eng.TokenSource
}

func (s *engineSourceAdapter) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, fromEngineError(err)
	}
	return Token{Kind: fromEngineKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s *engineSourceAdapter) Location() int64 { return s.inner.Location() }

// publicTokenSource adapts a Source back into the engine's interface.
type publicTokenSource struct {
	s Source
}

func (p *publicTokenSource) NextToken() (eng.Token, error) {
	t, err := p.s.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return toEngineToken(t), nil
}
func (p *publicTokenSource) Location() int64 { return p.s.Location() }

func fromEngineError(err error) error {
	if ie, ok := err.(eng.IssueError); ok {
		return &DeserializeError{Code: ie.Code, Msg: ie.Message, Path: ie.Path, Offset: -1}
	}
	return err
}

func fromEngineKind(k eng.Kind) TokenKind {
	switch k {
	case eng.KindBeginObject:
		return StartObject
	case eng.KindEndObject:
		return EndObject
	case eng.KindBeginArray:
		return StartArray
	case eng.KindEndArray:
		return EndArray
	case eng.KindKey:
		return ObjectKey
	case eng.KindString:
		return ValueString
	case eng.KindNumber:
		return ValueNumber
	case eng.KindBool:
		return ValueBool
	default:
		return ValueNull
	}
}

func toEngineKind(k TokenKind) eng.Kind {
	switch k {
	case StartObject:
		return eng.KindBeginObject
	case EndObject:
		return eng.KindEndObject
	case StartArray:
		return eng.KindBeginArray
	case EndArray:
		return eng.KindEndArray
	case ObjectKey:
		return eng.KindKey
	case ValueString:
		return eng.KindString
	case ValueNumber:
		return eng.KindNumber
	case ValueBool:
		return eng.KindBool
	default:
		return eng.KindNull
	}
}
