package shapegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapegen"
	jsonsrc "github.com/reoring/shapegen/source/json"
)

func kinds(t *testing.T, src shapegen.Source) []shapegen.TokenKind {
	t.Helper()
	var out []shapegen.TokenKind
	for {
		tok, err := src.NextToken()
		if err != nil {
			return out
		}
		out = append(out, tok.Kind)
	}
}

func TestDriversAgree(t *testing.T) {
	body := []byte(`{"a": ["x", 1, true, null], "b": {"c": "d"}}`)
	want := []shapegen.TokenKind{
		shapegen.StartObject, shapegen.ObjectKey, shapegen.StartArray,
		shapegen.ValueString, shapegen.ValueNumber, shapegen.ValueBool, shapegen.ValueNull,
		shapegen.EndArray, shapegen.ObjectKey, shapegen.StartObject, shapegen.ObjectKey,
		shapegen.ValueString, shapegen.EndObject, shapegen.EndObject,
	}
	assert.Equal(t, "go-json", shapegen.CurrentJSONDriver().Name())
	assert.Equal(t, want, kinds(t, shapegen.JSONBytes(body)))
	assert.Equal(t, want, kinds(t, jsonsrc.Driver().NewBytes(body)))
}

func TestSetJSONDriver(t *testing.T) {
	shapegen.SetJSONDriver(jsonsrc.Driver())
	t.Cleanup(shapegen.UseDefaultJSONDriver)
	assert.Equal(t, "encoding/json", shapegen.CurrentJSONDriver().Name())

	shapegen.SetJSONDriver(nil)
	assert.Equal(t, "encoding/json", shapegen.CurrentJSONDriver().Name())
}

func TestEnforceSourceMaxBytes(t *testing.T) {
	src := shapegen.EnforceSource(jsonsrc.Driver().NewBytes([]byte(`{"a": "0123456789"}`)), shapegen.ParseOpt{MaxBytes: 8}, nil)
	var err error
	for err == nil {
		_, err = src.NextToken()
	}
	var de *shapegen.DeserializeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, shapegen.CodeTruncated, de.Code)
}

func TestEnforceSourceWarnsOnDuplicate(t *testing.T) {
	var issues shapegen.Issues
	src := shapegen.EnforceSource(shapegen.JSONBytes([]byte(`{"a": 1, "a": 2}`)),
		shapegen.ParseOpt{OnDuplicateKey: shapegen.Warn},
		func(i shapegen.Issue) { issues = append(issues, i) })
	kinds(t, src)
	require.Len(t, issues, 1)
	assert.Equal(t, shapegen.CodeDuplicateKey, issues[0].Code)
}
