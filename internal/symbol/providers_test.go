package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapegen/internal/constraint"
	"github.com/reoring/shapegen/internal/ir"
)

const str ir.ShapeID = "smithy.api#String"

func testModel() *ir.Model {
	m := ir.NewModel()
	m.Add(ir.NewSimple("test#NiceString", ir.KindString, ir.Traits{Length: &ir.Length{Min: ir.Int64(1), Max: ir.Int64(5)}}))
	m.Add(ir.NewSimple("test#Suit", ir.KindString, ir.Traits{Enum: []ir.EnumValue{{Value: "heart"}, {Value: "spade"}}}))
	m.Add(ir.NewList("test#NiceStringList", ir.Traits{}, "test#NiceString", false))
	m.Add(ir.NewList("test#BoundedList", ir.Traits{Length: &ir.Length{Max: ir.Int64(2)}}, "test#NiceString", false))
	m.Add(ir.NewList("test#PlainList", ir.Traits{Sparse: true}, str, false))
	m.Add(ir.NewMap("test#NodeMap", ir.Traits{}, str, "test#Node"))
	m.Add(ir.NewStructure("test#Node", ir.Traits{},
		&ir.Member{Name: "value", Target: "test#NiceString", Traits: ir.Traits{Required: true}},
		&ir.Member{Name: "next", Target: "test#Node"},
		&ir.Member{Name: "tags", Target: "test#NiceStringList"},
	))
	m.Add(ir.NewStructure("test#Plain", ir.Traits{}, &ir.Member{Name: "a", Target: str}))
	m.Add(ir.NewUnion("test#Choice", ir.Traits{},
		&ir.Member{Name: "node", Target: "test#Node"},
		&ir.Member{Name: "text", Target: str},
	))
	return m
}

func providers(t *testing.T, mode Mode) (*Providers, *ir.Model) {
	t.Helper()
	m := testModel()
	return New(constraint.New(m), mode, nil), m
}

var (
	publicMode  = Mode{Target: Validating, PublicConstrainedTypes: true}
	privateMode = Mode{Target: Validating, PublicConstrainedTypes: false}
	clientMode  = Mode{Target: NonValidating}
)

func TestConstrained_Primitives(t *testing.T) {
	p, m := providers(t, publicMode)
	nice := m.Expect("test#NiceString")

	c := p.Constrained(nice)
	assert.Equal(t, "NiceString", c.Type.Render())
	assert.Equal(t, Public, c.Visibility)
	assert.Equal(t, ModuleModel, c.Module())
	assert.Equal(t, "string", p.Unconstrained(nice).Type.Render())
	assert.Equal(t, "NiceStringConstraintViolation", p.Violation(nice).GoName())
	assert.Equal(t, "NiceString", p.Main(nice).Type.Render())

	priv := p.WithMode(privateMode)
	c = priv.Constrained(nice)
	assert.Equal(t, "niceString", c.Type.Render())
	assert.Equal(t, Restricted, c.Visibility)
	assert.Equal(t, "string", priv.Main(nice).Type.Render())
	assert.Equal(t, "niceStringConstraintViolation", priv.Violation(nice).GoName())
	assert.True(t, priv.NeedsConversion(nice))
	assert.False(t, p.NeedsConversion(nice))
}

func TestConstrained_EnumStaysPublic(t *testing.T) {
	p, m := providers(t, privateMode)
	suit := m.Expect("test#Suit")
	assert.Equal(t, "Suit", p.Constrained(suit).Type.Render())
	assert.Equal(t, "Suit", p.Base(suit).Type.Render())
	assert.Equal(t, "string", p.Unconstrained(suit).Type.Render())
	assert.Equal(t, "SuitConstraintViolation", p.Violation(suit).GoName())
	assert.False(t, p.NeedsConversion(suit))
}

func TestCollections(t *testing.T) {
	p, m := providers(t, publicMode)
	list := m.Expect("test#NiceStringList")
	bounded := m.Expect("test#BoundedList")

	assert.Equal(t, "[]NiceString", p.Constrained(list).Type.Render())
	assert.Equal(t, "[]NiceString", p.PubCrateConstrained(list).Type.Render(), "no intermediate with public types")
	assert.Equal(t, "niceStringListUnconstrained", p.Unconstrained(list).Type.Render())
	assert.Equal(t, ModuleUnconstrained, p.Unconstrained(list).Module())
	assert.Equal(t, "[]string", p.Underlying(LowerUnconstrained, list).Render())
	assert.Equal(t, "BoundedList", p.Constrained(bounded).Type.Render())
	assert.Equal(t, "[]NiceString", p.Underlying(LowerConstrained, bounded).Render())
	assert.Equal(t, "[]*string", p.Base(m.Expect("test#PlainList")).Type.Render())

	priv := p.WithMode(privateMode)
	pc := priv.PubCrateConstrained(list)
	assert.Equal(t, "niceStringListConstrained", pc.Type.Render())
	assert.Equal(t, ModuleConstrained, pc.Module())
	assert.Equal(t, "[]niceString", priv.Underlying(LowerPubCrate, list).Render())
	assert.Equal(t, "boundedList", priv.Constrained(bounded).Type.Render())
	assert.Equal(t, "[]string", priv.Main(list).Type.Render())
}

func TestStructuresAndUnions(t *testing.T) {
	p, m := providers(t, publicMode)
	node := m.Expect("test#Node")
	plain := m.Expect("test#Plain")
	choice := m.Expect("test#Choice")

	assert.Equal(t, "NodeBuilder", p.Unconstrained(node).Type.Render())
	assert.Equal(t, "Node", p.Constrained(node).Type.Render())
	assert.Equal(t, "Plain", p.Unconstrained(plain).Type.Render(), "unconstrained structures delegate")
	assert.Equal(t, "choiceUnconstrained", p.Unconstrained(choice).Type.Render())
	assert.True(t, p.Unconstrained(choice).Type.IsNilable())
	assert.Equal(t, "ChoiceConstraintViolation", p.Violation(choice).GoName())
	assert.Equal(t, []string{"model", "node", "builder"}, p.Violation(node).Namespace)
}

func TestMemberWrappingOrder(t *testing.T) {
	p, m := providers(t, publicMode)
	node := m.Expect("test#Node").(*ir.Structure)
	value, next, tags := node.Members[0], node.Members[1], node.Members[2]

	assert.Equal(t, "NiceString", p.MainMemberType(value).Describe())
	assert.Equal(t, "Optional(Boxed(Node))", p.MainMemberType(next).Describe())
	assert.Equal(t, "*Node", p.MainMemberType(next).Render())
	assert.Equal(t, "[]NiceString", p.MainMemberType(tags).Render())

	assert.Equal(t, "Optional(Boxed(NodeBuilder))", p.MemberType(LowerUnconstrained, next).Describe())

	slot := p.BuilderSlot(next, true)
	assert.Equal(t, "Optional(Boxed(MaybeConstrained(Node, NodeBuilder)))", slot.Describe())
	assert.Equal(t, "*shapegen.MaybeConstrained[Node, NodeBuilder]", slot.Render())
	assert.True(t, slot.IsPointer())

	assert.Equal(t, "*NiceString", p.BuilderSlot(value, false).Render())
	assert.Equal(t, "*shapegen.MaybeConstrained[NiceString, string]", p.BuilderSlot(value, true).Render())
	assert.Equal(t, "shapegen.MaybeConstrained[[]NiceString, niceStringListUnconstrained]",
		p.BuilderSlot(tags, true).Strip().Render())
}

func TestBoxingAnOptionalIsAFault(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*FaultError)
		assert.True(t, ok, "want *FaultError, got %T", r)
	}()
	Boxed(Optional(Builtin("string")))
}

func TestViolationOfUnconstrainedShapeIsAFault(t *testing.T) {
	p, m := providers(t, publicMode)
	var r any
	func() {
		defer func() { r = recover() }()
		p.Violation(m.Expect("test#Plain"))
	}()
	fe, ok := r.(*FaultError)
	require.True(t, ok, "want *FaultError, got %T", r)
	assert.Equal(t, "constraint violation requested for test#Plain, which does not reach a constrained shape", fe.Msg)
}

func TestNonValidatingUsesBaseEverywhere(t *testing.T) {
	p, m := providers(t, clientMode)
	for _, id := range []ir.ShapeID{"test#NiceString", "test#NiceStringList", "test#Choice", "test#Node"} {
		s := m.Expect(id)
		base := p.Base(s).Type.Render()
		assert.Equal(t, base, p.Constrained(s).Type.Render(), "%s", id)
		assert.Equal(t, base, p.Unconstrained(s).Type.Render(), "%s", id)
		assert.Equal(t, base, p.Main(s).Type.Render(), "%s", id)
	}
	node := m.Expect("test#Node").(*ir.Structure)
	assert.Equal(t, "*Node", p.BuilderSlot(node.Members[1], true).Render())
}

func TestCacheIsReferentiallyStable(t *testing.T) {
	cache := NewCache()
	m := testModel()
	p := New(constraint.New(m), publicMode, cache)
	nice := m.Expect("test#NiceString")

	first := p.Constrained(nice)
	n := cache.Len()
	second := p.Constrained(nice)
	assert.Same(t, first.Type, second.Type)
	assert.Equal(t, n, cache.Len())

	// Another mode gets its own entry instead of reusing the public one.
	priv := p.WithMode(privateMode).Constrained(nice)
	assert.NotEqual(t, first.GoName(), priv.GoName())
	assert.Greater(t, cache.Len(), n)
}

func TestNaming(t *testing.T) {
	assert.Equal(t, "NiceString", Pascal("nice_string"))
	assert.Equal(t, "MyField", Pascal("myField"))
	assert.Equal(t, "URLValue", Pascal("URLValue"))
	assert.Equal(t, "X2d", Pascal("2d"))
	assert.Equal(t, "urlValue", LowerCamel("URLValue"))
	assert.Equal(t, "niceString", LowerCamel("NiceString"))
	assert.Equal(t, "id", LowerCamel("ID"))
	assert.Equal(t, "type_", LowerCamel("type"))
	assert.Equal(t, "string_", LowerCamel("String"))
	assert.Equal(t, "nice_string", Snake("NiceString"))
	assert.Equal(t, "url_value", Snake("URLValue"))
	assert.Equal(t, "SuitHeart", EnumConstName("Suit", "HEART"))
	assert.Equal(t, "SuitDiamondJack", EnumConstName("Suit", "diamond_jack"))
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget("non-validating")
	require.NoError(t, err)
	assert.Equal(t, NonValidating, got)
	got, err = ParseTarget("Validating")
	require.NoError(t, err)
	assert.Equal(t, Validating, got)
	_, err = ParseTarget("both")
	assert.Error(t, err)
}
