package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestParseValuePath_DottedAndEmpty checks the dotted wire form.
func TestParseValuePath_DottedAndEmpty(t *testing.T) {
	assert.Equal(t, ValuePath{"data", "records", "0", "name"}, ParseValuePath("data.records.0.name"))
	assert.Empty(t, ParseValuePath(""))
	assert.Equal(t, "data.records.0.name", ValuePath{"data", "records", "0", "name"}.String())
}

// TestValuePath_UnmarshalYAML accepts both a dotted scalar and a sequence.
func TestValuePath_UnmarshalYAML(t *testing.T) {
	var doc struct {
		A ValuePath `yaml:"a"`
		B ValuePath `yaml:"b"`
	}
	src := "a: data.id\nb: [data, 0, id]\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	assert.Equal(t, ValuePath{"data", "id"}, doc.A)
	assert.Equal(t, ValuePath{"data", "0", "id"}, doc.B)

	var bad struct {
		A ValuePath `yaml:"a"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("a: {x: 1}\n"), &bad))
}

// TestValuePath_UnmarshalJSON accepts strings, arrays and numeric segments.
func TestValuePath_UnmarshalJSON(t *testing.T) {
	var p ValuePath
	require.NoError(t, json.Unmarshal([]byte(`"data.records.1"`), &p))
	assert.Equal(t, ValuePath{"data", "records", "1"}, p)

	require.NoError(t, json.Unmarshal([]byte(`["data", 2, "name"]`), &p))
	assert.Equal(t, ValuePath{"data", "2", "name"}, p)

	assert.Error(t, json.Unmarshal([]byte(`[{"x":1}]`), &p))
}

// TestValuePath_Key quotes segments that would read as several.
func TestValuePath_Key(t *testing.T) {
	tests := []struct {
		path ValuePath
		want string
	}{
		{ValuePath{"data", "records", "0", "name"}, "data.records.0.name"},
		{ValuePath{"a.b"}, `["a.b"]`},
		{ValuePath{"a", "b"}, "a.b"},
		{ValuePath{"x", "a.b", "c"}, `x["a.b"].c`},
		{ValuePath{"k[0]"}, `["k[0]"]`},
		{ValuePath{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.path.Key())
	}
	assert.NotEqual(t, ValuePath{"a.b"}.Key(), ValuePath{"a", "b"}.Key())
}
