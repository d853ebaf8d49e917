package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by enforcement.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives every finding, fatal or not. May be nil.
	IssueSink func(SimpleIssue)
	// FailFast makes duplicate-key warnings fatal.
	FailFast bool
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind       containerKind
	path       string
	keys       map[string]struct{}
	pendingKey string
	haveKey    bool
	nextIndex  int
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy, the maximum nesting depth and the maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func (e *enforcingTokenSource) report(code, path, msg string) IssueError {
	si := SimpleIssue{Code: code, Path: normalizeIssuePath(path), Message: msg}
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	return IssueError{si}
}

func (e *enforcingTokenSource) top() *frame {
	if len(e.stack) == 0 {
		return nil
	}
	return &e.stack[len(e.stack)-1]
}

// valuePath returns the pointer of the value about to be produced and
// advances the enclosing container's bookkeeping.
func (e *enforcingTokenSource) valuePath() string {
	top := e.top()
	switch {
	case top == nil:
		return ""
	case top.kind == kindArray:
		p := joinJSONPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	default:
		p := top.path
		if top.haveKey {
			p = joinJSONPointer(top.path, top.pendingKey)
		}
		top.haveKey = false
		top.pendingKey = ""
		return p
	}
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.valuePath()
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f.kind = kindObject
			f.keys = make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.report("parse_error", path, "max depth exceeded")
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if top := e.top(); top != nil && top.kind == kindObject {
			path := joinJSONPointer(top.path, tok.String)
			if e.opt.OnDuplicate != DupIgnore {
				if _, dup := top.keys[tok.String]; dup {
					ie := e.report("duplicate_key", path, "key '"+tok.String+"' duplicated")
					if e.opt.OnDuplicate == DupError || e.opt.FailFast {
						return Token{}, ie
					}
				}
			}
			top.keys[tok.String] = struct{}{}
			top.pendingKey = tok.String
			top.haveKey = true
		}
	default:
		e.valuePath()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			path := ""
			if top := e.top(); top != nil {
				path = top.path
			}
			return Token{}, e.report("truncated", path, "max bytes exceeded")
		}
	}
	return tok, nil
}

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinJSONPointer(base, token string) string {
	return base + "/" + jsonPointerEscaper.Replace(token)
}
