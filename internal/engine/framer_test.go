package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramerTellsKeysFromValues(t *testing.T) {
	var f Framer
	got := []Kind{
		f.Open(true), // {
		f.String(),   // "a"
		f.String(),   // "x"
		f.String(),   // "b"
		f.Open(false),
		f.String(), // "in array"
		f.Close(),
		f.String(), // "c"
		f.Close(),
	}
	assert.Equal(t, []Kind{
		KindBeginObject, KindKey, KindString, KindKey,
		KindBeginArray, KindString, KindEndArray, KindKey, KindEndObject,
	}, got)
}
