// Package merge provides layered deep-merge over JSON-shaped configuration trees.
package merge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Tree is a JSON-shaped configuration tree. Leaves are scalars or arrays.
type Tree = map[string]any

// Merge combines layers left to right; keys in later layers win.
// Nested trees merge recursively, arrays are replaced wholesale, and a nil
// value in a later layer counts as unset. Inputs are never mutated.
func Merge(layers ...Tree) Tree {
	result := Tree{}
	for _, layer := range layers {
		mergeInto(result, layer)
	}
	return result
}

func mergeInto(dst, src Tree) {
	for key, value := range src {
		if value == nil {
			continue
		}

		srcTree, srcIsTree := asTree(value)
		if !srcIsTree {
			dst[key] = cloneValue(value)
			continue
		}

		dstTree, dstIsTree := asTree(dst[key])
		if !dstIsTree {
			dstTree = Tree{}
		}
		mergeInto(dstTree, srcTree)
		dst[key] = dstTree
	}
}

// asTree reports whether v is a nested tree. Both Tree and map[string]any
// literals qualify since Tree is an alias.
func asTree(v any) (Tree, bool) {
	t, ok := v.(map[string]any)
	return t, ok
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(Tree, len(typed))
		for k, inner := range typed {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, inner := range typed {
			out[i] = cloneValue(inner)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return v
	}
}

// Clone returns a deep copy of t.
func Clone(t Tree) Tree {
	if t == nil {
		return nil
	}
	return cloneValue(t).(Tree)
}

// FromValue converts a JSON-tagged struct (or map) into a Tree.
func FromValue(v any) (Tree, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode value into tree: %w", err)
	}
	return t, nil
}

// Decode converts t into out, rejecting keys that out does not declare.
func Decode(t Tree, out any) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode tree: %w", err)
	}
	return nil
}

// Leaves returns the sorted dotted paths of every leaf in t.
// Empty nested trees contribute no leaves.
func Leaves(t Tree) []string {
	var paths []string
	collectLeaves(t, "", &paths)
	sort.Strings(paths)
	return paths
}

func collectLeaves(t Tree, prefix string, out *[]string) {
	for key, value := range t {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := asTree(value); ok {
			collectLeaves(nested, path, out)
			continue
		}
		*out = append(*out, path)
	}
}

// Lookup returns the value at a dotted path.
func Lookup(t Tree, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := any(t)
	for _, part := range strings.Split(path, ".") {
		node, ok := asTree(current)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}
