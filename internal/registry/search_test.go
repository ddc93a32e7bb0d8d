package registry_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/catalog"
	"github.com/jonathan/resume-studio/internal/registry"
)

func TestSearch_IncludesEveryNameMatch(t *testing.T) {
	reg := registry.New()
	require.NoError(t, catalog.Bootstrap(reg))

	tests := []struct {
		query   string
		atLeast int
	}{
		{"Modern", 2},
		{"Professional", 3},
		{"Tech", 2},
		{"Clean", 1},
		{"o", 8},
		{"Executive", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found := make(map[string]bool)
			for _, tp := range reg.Search(tt.query) {
				found[tp.ID] = true
			}

			matched := 0
			for _, tp := range reg.All() {
				if !strings.Contains(tp.Name, tt.query) {
					continue
				}
				matched++
				assert.True(t, found[tp.ID], "%q matches name %q but was not returned", tt.query, tp.Name)
			}
			assert.GreaterOrEqual(t, matched, tt.atLeast)
		})
	}
}
