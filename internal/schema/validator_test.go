package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseNode(t *testing.T, doc string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &n))
	return &n
}

func TestToJSONValue_KeepsLiteralKeys(t *testing.T) {
	n := parseNode(t, "images:\n  12.1: base\nversion: 3.10\nflag: true\nnothing: null\nlist: [a, 1]\n")

	got := ToJSONValue(n)

	want := map[string]interface{}{
		"images":  map[string]interface{}{"12.1": "base"},
		"version": json.Number("3.10"),
		"flag":    true,
		"nothing": nil,
		"list":    []interface{}{"a", json.Number("1")},
	}
	assert.Equal(t, want, got)
}

func TestValidateConfig(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	valid := parseNode(t, "build_target: {python_version: 3.11, cuda_version: \"12.4\"}\nprojects:\n  - {name: demo, repo_url: https://example.com/demo.git}\n")
	assert.NoError(t, v.ValidateConfig(valid))

	invalid := parseNode(t, "build_target: {python_version: 3.11}\n")
	assert.Error(t, v.ValidateConfig(invalid))
}
