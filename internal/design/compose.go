package design

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-studio/internal/merge"
)

var validate = validator.New()

// Compose resolves base against the named preset and the built-in defaults.
// Precedence per leaf: base, then preset, then default. Arrays are replaced.
func Compose(base merge.Tree, presetKey string) (TemplateConfig, error) {
	merged, err := ComposeTree(base, presetKey)
	if err != nil {
		return TemplateConfig{}, err
	}

	var cfg TemplateConfig
	if err := merge.Decode(merged, &cfg); err != nil {
		return TemplateConfig{}, &InvalidConfigError{Message: "config does not match schema", Cause: err}
	}

	if err := validate.Struct(cfg); err != nil {
		return TemplateConfig{}, newInvalidConfigError(err)
	}

	return cfg, nil
}

// ComposeTree merges the three layers and checks that every schema leaf
// resolved. The returned tree is owned by the caller.
func ComposeTree(base merge.Tree, presetKey string) (merge.Tree, error) {
	preset, ok := presets[presetKey]
	if !ok {
		return nil, &UnknownPresetError{Key: presetKey}
	}

	merged := merge.Merge(Defaults(), preset, base)

	var missing []string
	for _, path := range SchemaPaths() {
		if _, ok := merge.Lookup(merged, path); !ok {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteConfigError{Missing: missing}
	}

	return merged, nil
}

// MustCompose is Compose for compiled-in configs. It panics on error.
func MustCompose(base merge.Tree, presetKey string) TemplateConfig {
	cfg, err := Compose(base, presetKey)
	if err != nil {
		panic(fmt.Sprintf("design: compose %q: %v", presetKey, err))
	}
	return cfg
}

var (
	schemaOnce  sync.Once
	schemaPaths []string
)

// SchemaPaths returns the sorted dotted JSON paths of every TemplateConfig leaf.
func SchemaPaths() []string {
	schemaOnce.Do(func() {
		collectPaths(reflect.TypeOf(TemplateConfig{}), "", &schemaPaths)
		sort.Strings(schemaPaths)
	})
	return append([]string(nil), schemaPaths...)
}

func collectPaths(t reflect.Type, prefix string, out *[]string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if field.Type.Kind() == reflect.Struct {
			collectPaths(field.Type, path, out)
			continue
		}
		*out = append(*out, path)
	}
}

// ToTree converts a resolved config back into a tree.
func ToTree(cfg TemplateConfig) (merge.Tree, error) {
	return merge.FromValue(cfg)
}
