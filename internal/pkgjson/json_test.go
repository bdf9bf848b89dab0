package pkgjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesObjectKeyOrder(t *testing.T) {
	v, err := Parse(`{"node":1,"browser":2,"default":3}`)
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind)
	require.Len(t, v.Props, 3)
	assert.Equal(t, "node", v.Props[0].Key)
	assert.Equal(t, "browser", v.Props[1].Key)
	assert.Equal(t, "default", v.Props[2].Key)

	first, ok := v.FirstKey()
	require.True(t, ok)
	assert.Equal(t, "node", first)
}

func TestParse_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	v, err := Parse(`{"a":1,"b":2,"a":3}`)
	require.NoError(t, err)
	require.Len(t, v.Props, 2)
	assert.Equal(t, "a", v.Props[0].Key)
	assert.Equal(t, float64(3), v.Props[0].Value.Number)
	assert.Equal(t, "b", v.Props[1].Key)
}

func TestParse_StringEscapes(t *testing.T) {
	v, err := Parse(`"line1\nline2\t\"quoted\"\\slash"`)
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "line1\nline2\t\"quoted\"\\slash", s)
}

func TestParse_UnicodeEscape(t *testing.T) {
	v, err := Parse("\"\\u00e9\"")
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "é", s)
}

func TestParse_SurrogatePairEscape(t *testing.T) {
	v, err := Parse("\"\\ud83d\\ude00\"")
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "😀", s)
}

func TestParse_NestedExportsConditionMap(t *testing.T) {
	v, err := Parse(`{
		"exports": {
			".": {
				"import": "./esm/index.js",
				"require": "./cjs/index.js",
				"default": "./index.js"
			},
			"./feature": "./feature.js"
		}
	}`)
	require.NoError(t, err)

	exports, ok := v.Get("exports")
	require.True(t, ok)
	require.Equal(t, KindObject, exports.Kind)

	dot, ok := exports.Get(".")
	require.True(t, ok)
	firstCond, ok := dot.FirstKey()
	require.True(t, ok)
	assert.Equal(t, "import", firstCond)

	feature, ok := exports.Get("./feature")
	require.True(t, ok)
	s, ok := feature.AsString()
	require.True(t, ok)
	assert.Equal(t, "./feature.js", s)
}

func TestParse_ArrayAndBoolAndNull(t *testing.T) {
	v, err := Parse(`{"list":[1,2.5,"x",true,false,null]}`)
	require.NoError(t, err)
	list, ok := v.Get("list")
	require.True(t, ok)
	require.Len(t, list.Items, 6)
	assert.Equal(t, float64(1), list.Items[0].Number)
	assert.Equal(t, float64(2.5), list.Items[1].Number)
	s, _ := list.Items[2].AsString()
	assert.Equal(t, "x", s)
	b, ok := list.Items[3].AsBool()
	require.True(t, ok)
	assert.True(t, b)
	b, ok = list.Items[4].AsBool()
	require.True(t, ok)
	assert.False(t, b)
	assert.Equal(t, KindNull, list.Items[5].Kind)
}

func TestParse_GetOnNonObjectReturnsFalse(t *testing.T) {
	v, err := Parse(`"just a string"`)
	require.NoError(t, err)
	_, ok := v.Get("anything")
	assert.False(t, ok)
}

func TestParse_TrailingDataIsAnError(t *testing.T) {
	_, err := Parse(`{"a":1} garbage`)
	assert.Error(t, err)
}

func TestParse_UnterminatedStringIsAnError(t *testing.T) {
	_, err := Parse(`"unterminated`)
	assert.Error(t, err)
}

func TestParse_MissingColonIsAnError(t *testing.T) {
	_, err := Parse(`{"a" 1}`)
	assert.Error(t, err)
}
