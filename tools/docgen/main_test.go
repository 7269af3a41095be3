package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "cli")
	require.NoError(t, generate(dir))

	for _, name := range []string{
		"bargain-finder.md",
		"bargain-finder_serve.md",
		"bargain-finder_search.md",
		"bargain-finder_lookup.md",
		"bargain-finder_evaluate.md",
		"bargain-finder_ratelimits.md",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}
