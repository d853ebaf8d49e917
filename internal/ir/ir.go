package ir

// Package ir holds the shape graph consumed by the generator. Shapes live in a
// Model arena and refer to each other by ShapeID only, so cyclic schemas never
// produce ownership cycles in memory.

import (
	"fmt"
	"strings"
)

// ShapeKind identifies a shape variant.
type ShapeKind int

const (
	KindStructure ShapeKind = iota
	KindUnion
	KindList
	KindSet
	KindMap
	KindString
	KindByte
	KindShort
	KindInteger
	KindLong
	KindFloat
	KindDouble
	KindBoolean
	KindBlob
	KindTimestamp
	KindDocument
	KindOperation
	KindService
)

var kindNames = map[ShapeKind]string{
	KindStructure: "structure",
	KindUnion:     "union",
	KindList:      "list",
	KindSet:       "set",
	KindMap:       "map",
	KindString:    "string",
	KindByte:      "byte",
	KindShort:     "short",
	KindInteger:   "integer",
	KindLong:      "long",
	KindFloat:     "float",
	KindDouble:    "double",
	KindBoolean:   "boolean",
	KindBlob:      "blob",
	KindTimestamp: "timestamp",
	KindDocument:  "document",
	KindOperation: "operation",
	KindService:   "service",
}

func (k ShapeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// IsNumber reports whether k is one of the numeric primitives.
func (k ShapeKind) IsNumber() bool {
	switch k {
	case KindByte, KindShort, KindInteger, KindLong, KindFloat, KindDouble:
		return true
	}
	return false
}

// ShapeID is an absolute shape identifier of the form "namespace#Name".
type ShapeID string

// Namespace returns the part before '#'.
func (id ShapeID) Namespace() string {
	s := string(id)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return ""
}

// Name returns the part after '#', without any member suffix.
func (id ShapeID) Name() string {
	s := string(id)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, '$'); i >= 0 {
		s = s[:i]
	}
	return s
}

// Member returns the member id "namespace#Name$member".
func (id ShapeID) Member(name string) ShapeID { return ShapeID(string(id) + "$" + name) }

// Shape is the closed set of shape variants. Only types in this package
// implement it.
type Shape interface {
	ID() ShapeID
	Kind() ShapeKind
	Traits() *Traits
	sealed()
}

type base struct {
	id     ShapeID
	traits Traits
}

func (b *base) ID() ShapeID     { return b.id }
func (b *base) Traits() *Traits { return &b.traits }
func (b *base) sealed()         {}

// Member is a named, directed edge from a container shape to a target shape.
type Member struct {
	Name      string
	Container ShapeID
	Target    ShapeID
	Traits    Traits
}

// ID returns the member's absolute id.
func (m *Member) ID() ShapeID { return m.Container.Member(m.Name) }

// IsRequired reports whether the member carries the required trait.
func (m *Member) IsRequired() bool { return m.Traits.Required }

// WireName returns the JSON key used for the member.
func (m *Member) WireName() string {
	if m.Traits.JSONName != "" {
		return m.Traits.JSONName
	}
	return m.Name
}

// Structure is an ordered set of named members.
type Structure struct {
	base
	Members []*Member
}

func (*Structure) Kind() ShapeKind { return KindStructure }

// Union is a tagged alternative over its members.
type Union struct {
	base
	Members []*Member
}

func (*Union) Kind() ShapeKind { return KindUnion }

// List is a homogeneous collection. Set is true for set shapes.
type List struct {
	base
	Member *Member
	Set    bool
}

func (l *List) Kind() ShapeKind {
	if l.Set {
		return KindSet
	}
	return KindList
}

// Map is a string-keyed map.
type Map struct {
	base
	Key   *Member
	Value *Member
}

func (*Map) Kind() ShapeKind { return KindMap }

// Simple is any primitive leaf shape.
type Simple struct {
	base
	kind ShapeKind
}

func (s *Simple) Kind() ShapeKind { return s.kind }

// Operation binds an input, an output and error structures.
type Operation struct {
	base
	Input  ShapeID
	Output ShapeID
	Errors []ShapeID
}

func (*Operation) Kind() ShapeKind { return KindOperation }

// Service is the naming context for the generated code.
type Service struct {
	base
	Version    string
	Operations []ShapeID
	Rename     map[ShapeID]string
}

func (*Service) Kind() ShapeKind { return KindService }

// NewStructure returns a structure with the given members. Member containers
// are set to id.
func NewStructure(id ShapeID, traits Traits, members ...*Member) *Structure {
	s := &Structure{base: base{id: id, traits: traits}, Members: members}
	for _, m := range members {
		m.Container = id
	}
	return s
}

// NewUnion returns a union with the given members.
func NewUnion(id ShapeID, traits Traits, members ...*Member) *Union {
	u := &Union{base: base{id: id, traits: traits}, Members: members}
	for _, m := range members {
		m.Container = id
	}
	return u
}

// NewList returns a list (or set) targeting member.
func NewList(id ShapeID, traits Traits, target ShapeID, set bool) *List {
	return &List{
		base:   base{id: id, traits: traits},
		Member: &Member{Name: "member", Container: id, Target: target},
		Set:    set,
	}
}

// NewMap returns a map from key to value targets.
func NewMap(id ShapeID, traits Traits, key, value ShapeID) *Map {
	return &Map{
		base:  base{id: id, traits: traits},
		Key:   &Member{Name: "key", Container: id, Target: key},
		Value: &Member{Name: "value", Container: id, Target: value},
	}
}

// NewSimple returns a primitive shape of the given kind.
func NewSimple(id ShapeID, kind ShapeKind, traits Traits) *Simple {
	switch kind {
	case KindStructure, KindUnion, KindList, KindSet, KindMap, KindOperation, KindService:
		panic(fmt.Sprintf("ir: %s is not a simple shape kind", kind))
	}
	return &Simple{base: base{id: id, traits: traits}, kind: kind}
}

// NewOperation returns an operation shape.
func NewOperation(id ShapeID, input, output ShapeID, errs ...ShapeID) *Operation {
	return &Operation{base: base{id: id}, Input: input, Output: output, Errors: errs}
}

// NewService returns a service shape.
func NewService(id ShapeID, version string, ops ...ShapeID) *Service {
	return &Service{base: base{id: id}, Version: version, Operations: ops, Rename: map[ShapeID]string{}}
}

// Members returns the outgoing member edges of s in declaration order.
// Operations and services have no member edges.
func Members(s Shape) []*Member {
	switch v := s.(type) {
	case *Structure:
		return v.Members
	case *Union:
		return v.Members
	case *List:
		return []*Member{v.Member}
	case *Map:
		return []*Member{v.Key, v.Value}
	case *Simple, *Operation, *Service:
		return nil
	default:
		panic(fmt.Sprintf("ir: unexpected shape type %T", s))
	}
}

// IsAggregate reports whether s is a structure, union, collection or map.
func IsAggregate(s Shape) bool {
	switch s.(type) {
	case *Structure, *Union, *List, *Map:
		return true
	}
	return false
}
