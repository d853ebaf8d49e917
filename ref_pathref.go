package shapegen

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
// Violation types use it to report where in the input they happened.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code, msg string, kv ...any) Issue
}

// Root returns the path of the request body.
func Root() PathRef { return &pathRef{} }

// At parses a JSON Pointer into a PathRef.
func At(pointer string) PathRef {
	p := &pathRef{}
	for _, part := range strings.Split(pointer, "/") {
		if part != "" {
			p.parts = append(p.parts, part)
		}
	}
	return p
}

type pathRef struct {
	parts []string
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	return &pathRef{parts: append(append([]string{}, p.parts...), pointerEscaper.Replace(name))}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue at this path; kv are alternating param names and
// values.
func (p *pathRef) Issue(code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Offset: -1, Params: m}
}
