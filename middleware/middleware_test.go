package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapegen/examples/constrained"
)

func serve(body string) (*httptest.ResponseRecorder, *constrained.PutThingInput) {
	var got *constrained.PutThingInput
	h := ValidateJSON(constrained.ParsePutThingInput)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in, ok := InputFromContext[constrained.PutThingInput](r.Context())
		if ok {
			got = &in
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(body)))
	return rec, got
}

func TestValidateJSON_Accepts(t *testing.T) {
	rec, got := serve(`{"name": "abc"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.Name.Value())
}

func TestValidateJSON_RejectsViolation(t *testing.T) {
	rec, got := serve(`{"name": "toolong"}`)
	assert.Nil(t, got)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "constraint violation", p.Reason)
	require.Len(t, p.Issues, 1)
	assert.Equal(t, "/name", p.Issues[0].Path)
}

func TestValidateJSON_RejectsMalformed(t *testing.T) {
	rec, _ := serve(`{"name": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "deserialize", p.Reason)
	assert.Len(t, p.Issues, 1)
}

func TestPayload_Internal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, http.StatusInternalServerError, Status(err))
	assert.Equal(t, ErrorPayload{Reason: "internal", Error: "boom"}, Payload(err))
}

func TestInputFromContext_Missing(t *testing.T) {
	_, ok := InputFromContext[constrained.PutThingInput](httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
