// Package cssvars flattens a resolved template config into CSS custom properties.
package cssvars

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/merge"
)

// identityPaths are config leaves that name the config rather than style it.
var identityPaths = map[string]bool{
	"id":       true,
	"category": true,
}

// ToVariables flattens every design leaf of cfg into a variable name → value map.
// The walk covers the same tree Compose validates, so each schema leaf outside
// the identity fields yields exactly one variable.
func ToVariables(cfg design.TemplateConfig) map[string]string {
	tree, err := design.ToTree(cfg)
	if err != nil {
		// TemplateConfig only holds JSON-safe scalars, strings and slices.
		panic(fmt.Sprintf("cssvars: encode config: %v", err))
	}

	vars := make(map[string]string)
	for _, path := range merge.Leaves(tree) {
		if identityPaths[path] {
			continue
		}
		value, _ := merge.Lookup(tree, path)
		vars[Name(path)] = formatValue(value)
	}
	return vars
}

// Name maps a dotted config path to its variable name,
// e.g. "colors.text.primary" → "--colors-text-primary".
func Name(path string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = kebab(p)
	}
	return "--" + strings.Join(parts, "-")
}

func kebab(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatValue(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case []any:
		parts := make([]string, len(typed))
		for i, item := range typed {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(typed)
	}
}

// Stylesheet renders vars as a :root block with names in sorted order.
func Stylesheet(vars map[string]string) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s;\n", name, vars[name])
	}
	b.WriteString("}\n")
	return b.String()
}
