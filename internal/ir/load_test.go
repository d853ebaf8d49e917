package ir

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModel = `{
  "smithy": "2.0",
  "shapes": {
    "example#Service": {
      "type": "service",
      "version": "2024-01-01",
      "operations": [{"target": "example#PutThing"}, {"target": "example#Ping"}],
      "rename": {"example#Thing": "Widget"}
    },
    "example#PutThing": {
      "type": "operation",
      "input": {"target": "example#PutThingInput"},
      "errors": [{"target": "example#BadThing"}]
    },
    "example#Ping": {"type": "operation"},
    "example#PutThingInput": {
      "type": "structure",
      "members": {
        "zeta": {"target": "smithy.api#String", "traits": {"smithy.api#required": {}}},
        "alpha": {"target": "example#Thing"},
        "tags": {"target": "example#Tags", "traits": {"smithy.api#jsonName": "Tags"}}
      }
    },
    "example#Thing": {
      "type": "structure",
      "members": {
        "next": {"target": "example#Thing"},
        "name": {"target": "example#Name", "traits": {"smithy.api#required": {}}}
      }
    },
    "example#Name": {
      "type": "string",
      "traits": {"smithy.api#length": {"min": 1, "max": 5}, "smithy.api#pattern": "^[a-z]+$"}
    },
    "example#Tags": {
      "type": "list",
      "member": {"target": "smithy.api#String"},
      "traits": {"smithy.api#sparse": {}}
    },
    "example#Suit": {
      "type": "enum",
      "members": {
        "HEART": {"traits": {"smithy.api#enumValue": "heart"}},
        "SPADE": {}
      }
    },
    "example#BadThing": {
      "type": "structure",
      "members": {"message": {"target": "smithy.api#String"}},
      "traits": {"smithy.api#error": "client"}
    }
  }
}`

func TestLoad_PreservesMemberOrder(t *testing.T) {
	m, err := Load(strings.NewReader(sampleModel))
	require.NoError(t, err)

	in := m.Expect("example#PutThingInput").(*Structure)
	var names []string
	for _, mem := range in.Members {
		names = append(names, mem.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "tags"}, names)
	assert.True(t, in.Members[0].IsRequired())
	assert.Equal(t, "Tags", in.Members[2].WireName())
	assert.Equal(t, ShapeID("example#PutThingInput"), in.Members[0].Container)
}

func TestLoad_Traits(t *testing.T) {
	m, err := Load(strings.NewReader(sampleModel))
	require.NoError(t, err)

	name := m.Expect("example#Name")
	require.NotNil(t, name.Traits().Length)
	assert.Equal(t, int64(1), *name.Traits().Length.Min)
	assert.Equal(t, int64(5), *name.Traits().Length.Max)
	assert.Equal(t, "^[a-z]+$", name.Traits().Pattern)
	assert.True(t, m.Expect("example#Tags").Traits().Sparse)
	assert.Equal(t, "client", m.Expect("example#BadThing").Traits().Error)

	suit := m.Expect("example#Suit")
	assert.Equal(t, KindString, suit.Kind())
	assert.Equal(t, []string{"heart", "SPADE"}, suit.Traits().EnumStrings())
}

func TestLoad_ServiceContext(t *testing.T) {
	m, err := Load(strings.NewReader(sampleModel))
	require.NoError(t, err)
	require.NotNil(t, m.Service())
	assert.Equal(t, "Widget", m.ContextName("example#Thing"))
	assert.Equal(t, "Name", m.ContextName("example#Name"))
}

func TestLoad_YAMLSyntax(t *testing.T) {
	doc := `
shapes:
  example#Box:
    type: structure
    members:
      b: {target: Integer}
      a: {target: String}
`
	m, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	box := m.Expect("example#Box").(*Structure)
	assert.Equal(t, "b", box.Members[0].Name)
	assert.Equal(t, ShapeID("smithy.api#Integer"), box.Members[0].Target)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"dangling", `{"shapes": {"a#S": {"type": "structure", "members": {"x": {"target": "a#Missing"}}}}}`, "unknown shape"},
		{"unsupported", `{"shapes": {"a#B": {"type": "bigDecimal"}}}`, "unsupported shape type"},
		{"relative id", `{"shapes": {"B": {"type": "string"}}}`, "not absolute"},
		{"bad error trait", `{"shapes": {"a#E": {"type": "structure", "traits": {"smithy.api#error": "oops"}}}}`, "client"},
		{"empty union", `{"shapes": {"a#U": {"type": "union"}}}`, "at least one member"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.doc))
			require.Error(t, err)
			var le *LoadError
			require.True(t, errors.As(err, &le), "want *LoadError, got %T", err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNormalize_SyntheticInputs(t *testing.T) {
	m, err := Load(strings.NewReader(sampleModel))
	require.NoError(t, err)
	Normalize(m)

	assert.True(t, m.Expect("example#PutThingInput").Traits().SyntheticInput)
	assert.False(t, m.Expect("example#Thing").Traits().SyntheticInput)

	ping := m.Expect("example#Ping").(*Operation)
	assert.Equal(t, ShapeID("example#PingInput"), ping.Input)
	synth, ok := m.Lookup("example#PingInput")
	require.True(t, ok)
	assert.True(t, synth.Traits().SyntheticInput)
}

func TestWalk_TerminatesOnCycles(t *testing.T) {
	m, err := Load(strings.NewReader(sampleModel))
	require.NoError(t, err)

	var ids []ShapeID
	for s := range Walk(m, "example#Thing") {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, ShapeID("example#Thing"), ids[0])
	assert.ElementsMatch(t, []ShapeID{"example#Thing", "example#Name"}, ids)
}

func TestReachableFromInputs(t *testing.T) {
	m, err := Load(strings.NewReader(sampleModel))
	require.NoError(t, err)
	Normalize(m)

	got := ReachableFromInputs(m)
	assert.True(t, got["example#PutThingInput"])
	assert.True(t, got["example#Thing"])
	assert.True(t, got["example#Tags"])
	assert.False(t, got["example#BadThing"])
	assert.False(t, got["example#Name"], "only aggregates are tagged")

	lib := NewModel()
	lib.Add(NewStructure("x#S", Traits{}))
	assert.True(t, ReachableFromInputs(lib)["x#S"])
}

func TestModel_ShapesSorted(t *testing.T) {
	m := NewModel()
	m.Add(NewSimple("b#Z", KindString, Traits{}))
	m.Add(NewSimple("a#Y", KindString, Traits{}))
	var ids []ShapeID
	for s := range m.UserShapes() {
		ids = append(ids, s.ID())
	}
	assert.True(t, slices.IsSorted(ids))
	assert.Equal(t, []ShapeID{"a#Y", "b#Z"}, ids)
}

func TestModel_ExpectPanicsOnDanglingID(t *testing.T) {
	m := NewModel()
	assert.Panics(t, func() { m.Expect("nope#Nothing") })
}
