package ir

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadError reports a malformed model document.
type LoadError struct {
	Shape ShapeID
	Line  int
	Msg   string
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("model")
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Shape != "" {
		fmt.Fprintf(&b, ": %s", e.Shape)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// LoadFile reads a JSON AST model (JSON or YAML syntax) from path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// Load decodes a model document. The document is walked as a yaml.Node tree
// rather than unmarshalled into maps so member declaration order survives.
func Load(r io.Reader) (*Model, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, &LoadError{Msg: "empty document"}
		}
		return nil, &LoadError{Msg: err.Error()}
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &LoadError{Line: root.Line, Msg: "expected a mapping at the document root"}
	}

	m := NewModel()
	shapes := mappingValue(root, "shapes")
	if shapes == nil {
		return m, nil
	}
	if shapes.Kind != yaml.MappingNode {
		return nil, &LoadError{Line: shapes.Line, Msg: "\"shapes\" must be a mapping"}
	}
	l := &loader{model: m}
	for i := 0; i+1 < len(shapes.Content); i += 2 {
		id := ShapeID(shapes.Content[i].Value)
		if !strings.Contains(string(id), "#") {
			return nil, &LoadError{Line: shapes.Content[i].Line, Msg: fmt.Sprintf("shape id %q is not absolute", id)}
		}
		if err := l.loadShape(id, shapes.Content[i+1]); err != nil {
			return nil, err
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

type loader struct {
	model *Model
}

func (l *loader) loadShape(id ShapeID, n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return &LoadError{Shape: id, Line: n.Line, Msg: "shape definition must be a mapping"}
	}
	typ := scalarValue(n, "type")
	traits, err := l.traits(id, mappingValue(n, "traits"))
	if err != nil {
		return err
	}

	switch typ {
	case "structure", "union":
		members, err := l.members(id, mappingValue(n, "members"))
		if err != nil {
			return err
		}
		if typ == "structure" {
			l.model.Add(NewStructure(id, traits, members...))
		} else {
			if len(members) == 0 {
				return &LoadError{Shape: id, Line: n.Line, Msg: "union must have at least one member"}
			}
			l.model.Add(NewUnion(id, traits, members...))
		}
	case "list", "set":
		mem, err := l.member(id, "member", mappingValue(n, "member"))
		if err != nil {
			return err
		}
		s := NewList(id, traits, mem.Target, typ == "set")
		s.Member.Traits = mem.Traits
		l.model.Add(s)
	case "map":
		key, err := l.member(id, "key", mappingValue(n, "key"))
		if err != nil {
			return err
		}
		val, err := l.member(id, "value", mappingValue(n, "value"))
		if err != nil {
			return err
		}
		s := NewMap(id, traits, key.Target, val.Target)
		s.Key.Traits = key.Traits
		s.Value.Traits = val.Traits
		l.model.Add(s)
	case "enum":
		members, err := l.members(id, mappingValue(n, "members"))
		if err != nil {
			return err
		}
		for _, mem := range members {
			v := mem.Name
			if ev, ok := mem.Traits.Default.(string); ok && mem.Traits.HasDefault {
				v = ev
			}
			traits.Enum = append(traits.Enum, EnumValue{Name: mem.Name, Value: v})
		}
		l.model.Add(NewSimple(id, KindString, traits))
	case "operation":
		op := NewOperation(id, targetOf(n, "input"), targetOf(n, "output"))
		if errs := mappingOrSeq(n, "errors"); errs != nil {
			for _, e := range errs.Content {
				op.Errors = append(op.Errors, ShapeID(scalarValue(e, "target")))
			}
		}
		op.traits = traits
		l.model.Add(op)
	case "service":
		svc := NewService(id, scalarValue(n, "version"))
		if ops := mappingOrSeq(n, "operations"); ops != nil {
			for _, o := range ops.Content {
				svc.Operations = append(svc.Operations, ShapeID(scalarValue(o, "target")))
			}
		}
		if rn := mappingValue(n, "rename"); rn != nil {
			for i := 0; i+1 < len(rn.Content); i += 2 {
				svc.Rename[ShapeID(rn.Content[i].Value)] = rn.Content[i+1].Value
			}
		}
		svc.traits = traits
		l.model.Add(svc)
	case "":
		return &LoadError{Shape: id, Line: n.Line, Msg: "missing shape type"}
	default:
		kind, ok := simpleKinds[typ]
		if !ok {
			return &LoadError{Shape: id, Line: n.Line, Msg: fmt.Sprintf("unsupported shape type %q", typ)}
		}
		l.model.Add(NewSimple(id, kind, traits))
	}
	return nil
}

var simpleKinds = map[string]ShapeKind{
	"string":    KindString,
	"byte":      KindByte,
	"short":     KindShort,
	"integer":   KindInteger,
	"long":      KindLong,
	"float":     KindFloat,
	"double":    KindDouble,
	"boolean":   KindBoolean,
	"blob":      KindBlob,
	"timestamp": KindTimestamp,
	"document":  KindDocument,
}

func (l *loader) members(container ShapeID, n *yaml.Node) ([]*Member, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, &LoadError{Shape: container, Line: n.Line, Msg: "members must be a mapping"}
	}
	out := make([]*Member, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		mem, err := l.member(container, n.Content[i].Value, n.Content[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, mem)
	}
	return out, nil
}

func (l *loader) member(container ShapeID, name string, n *yaml.Node) (*Member, error) {
	if n == nil {
		return nil, &LoadError{Shape: container, Msg: fmt.Sprintf("missing %q member", name)}
	}
	target := scalarValue(n, "target")
	if target == "" {
		// Smithy 2.0 enum members target Unit implicitly.
		target = PreludeNamespace + "#String"
	}
	traits, err := l.traits(container.Member(name), mappingValue(n, "traits"))
	if err != nil {
		return nil, err
	}
	if ev, ok := enumValueOf(mappingValue(n, "traits")); ok {
		traits.Default, traits.HasDefault = ev, true
	}
	return &Member{Name: name, Container: container, Target: resolveTarget(container, target), Traits: traits}, nil
}

func resolveTarget(container ShapeID, target string) ShapeID {
	if strings.Contains(target, "#") {
		return ShapeID(target)
	}
	if _, ok := preludeKinds[target]; ok {
		return ShapeID(PreludeNamespace + "#" + target)
	}
	return ShapeID(container.Namespace() + "#" + target)
}

func (l *loader) traits(owner ShapeID, n *yaml.Node) (Traits, error) {
	var t Traits
	if n == nil {
		return t, nil
	}
	if n.Kind != yaml.MappingNode {
		return t, &LoadError{Shape: owner, Line: n.Line, Msg: "traits must be a mapping"}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		if !strings.Contains(name, "#") {
			name = PreludeNamespace + "#" + name
		}
		v := n.Content[i+1]
		fail := func(err error) error {
			return &LoadError{Shape: owner, Line: v.Line, Msg: fmt.Sprintf("trait %s: %v", name, err)}
		}
		switch name {
		case TraitRequired:
			t.Required = true
		case TraitLength:
			var raw struct {
				Min *int64 `yaml:"min"`
				Max *int64 `yaml:"max"`
			}
			if err := v.Decode(&raw); err != nil {
				return t, fail(err)
			}
			t.Length = &Length{Min: raw.Min, Max: raw.Max}
		case TraitRange:
			var raw struct {
				Min *float64 `yaml:"min"`
				Max *float64 `yaml:"max"`
			}
			if err := v.Decode(&raw); err != nil {
				return t, fail(err)
			}
			t.Range = &Range{Min: raw.Min, Max: raw.Max}
		case TraitPattern:
			t.Pattern = v.Value
		case TraitEnum:
			var raw []struct {
				Value string `yaml:"value"`
				Name  string `yaml:"name"`
			}
			if err := v.Decode(&raw); err != nil {
				return t, fail(err)
			}
			for _, e := range raw {
				t.Enum = append(t.Enum, EnumValue{Name: e.Name, Value: e.Value})
			}
		case TraitSparse:
			t.Sparse = true
		case TraitError:
			if v.Value != "client" && v.Value != "server" {
				return t, fail(fmt.Errorf("must be \"client\" or \"server\", got %q", v.Value))
			}
			t.Error = v.Value
		case TraitSensitive:
			t.Sensitive = true
		case TraitDefault:
			var d any
			if err := v.Decode(&d); err != nil {
				return t, fail(err)
			}
			t.Default, t.HasDefault = d, true
		case TraitJSONName:
			t.JSONName = v.Value
		case TraitTimestampFormat:
			switch v.Value {
			case "date-time", "epoch-seconds", "http-date":
				t.TimestampFormat = v.Value
			default:
				return t, fail(fmt.Errorf("unknown format %q", v.Value))
			}
		case TraitDocumentation:
			t.Documentation = v.Value
		}
	}
	return t, nil
}

func enumValueOf(traits *yaml.Node) (string, bool) {
	if traits == nil {
		return "", false
	}
	v := mappingValue(traits, TraitEnumValue)
	if v == nil {
		v = mappingValue(traits, "enumValue")
	}
	if v == nil || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func mappingOrSeq(n *yaml.Node, key string) *yaml.Node {
	v := mappingValue(n, key)
	if v == nil || v.Kind != yaml.SequenceNode {
		return nil
	}
	return v
}

func scalarValue(n *yaml.Node, key string) string {
	v := mappingValue(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

func targetOf(n *yaml.Node, key string) ShapeID {
	return ShapeID(scalarValue(mappingValue(n, key), "target"))
}
