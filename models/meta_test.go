package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeta_UnmarshalJSON(t *testing.T) {
	t.Run("scalars and nested objects", func(t *testing.T) {
		var m Meta
		err := json.Unmarshal([]byte(`{"name":"a","score":8.5,"hd":true,"category_map":{"1":"movie"}}`), &m)
		require.NoError(t, err)

		s, ok := m.GetString("name")
		assert.True(t, ok)
		assert.Equal(t, "a", s)

		n, ok := m["score"].AsNumber()
		assert.True(t, ok)
		assert.Equal(t, 8.5, n)

		b, ok := m["hd"].AsBool()
		assert.True(t, ok)
		assert.True(t, b)

		inner, ok := m.GetMap("category_map")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"1": "movie"}, inner.StringMap())
	})

	t.Run("reject arrays", func(t *testing.T) {
		var m Meta
		assert.Error(t, json.Unmarshal([]byte(`{"list":[1,2]}`), &m))
	})

	t.Run("reject null", func(t *testing.T) {
		var m Meta
		assert.Error(t, json.Unmarshal([]byte(`{"x":null}`), &m))
	})
}

func TestMeta_MarshalJSON(t *testing.T) {
	m := Meta{
		"title": String("x"),
		"count": Number(3),
		"ok":    Bool(false),
		"inner": Object(nil),
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","count":3,"ok":false,"inner":{}}`, string(data))

	_, err = json.Marshal(Meta{"zero": {}})
	assert.Error(t, err)
}

func TestMeta_StringMap(t *testing.T) {
	m := Meta{"a": String("1"), "b": Number(2), "c": Bool(true), "d": Object(Meta{})}
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "true"}, m.StringMap())
}

func TestNewMetaJSON(t *testing.T) {
	col := NewMetaJSON(nil)
	assert.NotNil(t, col.Data())

	data, err := json.Marshal(NewMetaJSON(Meta{"k": String("v")}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"v"}`, string(data))
}
