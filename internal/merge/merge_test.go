package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_LaterLayerWins(t *testing.T) {
	base := Tree{"a": 1, "b": "base"}
	override := Tree{"b": "override"}

	result := Merge(base, override)

	assert.Equal(t, 1, result["a"])
	assert.Equal(t, "override", result["b"])
}

func TestMerge_NestedTreesMergeKeyByKey(t *testing.T) {
	defaults := Tree{"colors": Tree{"primary": "#000", "text": Tree{"primary": "#111", "muted": "#999"}}}
	preset := Tree{"colors": Tree{"text": Tree{"primary": "#222"}}}
	override := Tree{"colors": Tree{"primary": "#f00"}}

	result := Merge(defaults, preset, override)

	v, ok := Lookup(result, "colors.primary")
	require.True(t, ok)
	assert.Equal(t, "#f00", v)

	v, ok = Lookup(result, "colors.text.primary")
	require.True(t, ok)
	assert.Equal(t, "#222", v)

	v, ok = Lookup(result, "colors.text.muted")
	require.True(t, ok)
	assert.Equal(t, "#999", v)
}

func TestMerge_ArraysAreReplacedNotConcatenated(t *testing.T) {
	base := Tree{"order": []any{"experience", "education", "skills"}}
	override := Tree{"order": []any{"skills"}}

	result := Merge(base, override)

	assert.Equal(t, []any{"skills"}, result["order"])
}

func TestMerge_NilValueIsUnset(t *testing.T) {
	base := Tree{"primary": "#000"}
	override := Tree{"primary": nil}

	result := Merge(base, override)

	assert.Equal(t, "#000", result["primary"])
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := Tree{"colors": Tree{"primary": "#000"}, "order": []any{"a"}}
	override := Tree{"colors": Tree{"primary": "#fff"}}

	result := Merge(base, override)
	result["colors"].(Tree)["primary"] = "#123"
	result["order"].([]any)[0] = "changed"

	assert.Equal(t, "#000", base["colors"].(Tree)["primary"])
	assert.Equal(t, "#fff", override["colors"].(Tree)["primary"])
	assert.Equal(t, "a", base["order"].([]any)[0])
}

func TestMerge_ScalarReplacedByTree(t *testing.T) {
	result := Merge(Tree{"a": "scalar"}, Tree{"a": Tree{"b": 1}})

	v, ok := Lookup(result, "a.b")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestMerge_NoLayers(t *testing.T) {
	assert.Empty(t, Merge())
}

func TestLeaves_SortedDottedPaths(t *testing.T) {
	tree := Tree{
		"b": 1,
		"a": Tree{"y": true, "x": Tree{"z": "v"}},
		"c": []any{1, 2},
		"e": Tree{},
	}

	assert.Equal(t, []string{"a.x.z", "a.y", "b", "c"}, Leaves(tree))
}

func TestLookup_MissingPath(t *testing.T) {
	tree := Tree{"a": Tree{"b": 1}}

	_, ok := Lookup(tree, "a.c")
	assert.False(t, ok)

	_, ok = Lookup(tree, "a.b.c")
	assert.False(t, ok)

	_, ok = Lookup(tree, "")
	assert.False(t, ok)
}

type decodeTarget struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestFromValueAndDecode(t *testing.T) {
	tree, err := FromValue(decodeTarget{Name: "x", Count: 2, Tags: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "x", tree["name"])

	var out decodeTarget
	require.NoError(t, Decode(tree, &out))
	assert.Equal(t, decodeTarget{Name: "x", Count: 2, Tags: []string{"a"}}, out)
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	var out decodeTarget
	err := Decode(Tree{"name": "x", "unknown": 1}, &out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestClone_Independent(t *testing.T) {
	original := Tree{"a": Tree{"b": []any{"c"}}}
	copied := Clone(original)
	copied["a"].(Tree)["b"].([]any)[0] = "changed"

	assert.Equal(t, "c", original["a"].(Tree)["b"].([]any)[0])
	assert.Nil(t, Clone(nil))
}
