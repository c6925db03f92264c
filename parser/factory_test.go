package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateParser(t *testing.T) {
	cases := []struct {
		path     string
		language string
	}{
		{"app.js", "javascript"},
		{"view.jsx", "javascript"},
		{"mod.mjs", "javascript"},
		{"legacy.cjs", "javascript"},
		{"app.ts", "typescript"},
		{"view.tsx", "tsx"},
	}

	for _, c := range cases {
		p, err := CreateParser(c.path)
		require.NoError(t, err, c.path)
		assert.Equal(t, c.language, p.GetLanguage(), c.path)
		p.Close()
	}

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := CreateParser("styles.css")
		assert.Error(t, err)
	})
}

func TestParseFile(t *testing.T) {
	t.Run("clean parse has no errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clean.js")
		require.NoError(t, os.WriteFile(path, []byte(`export const x = 1;`), 0o644))

		p, err := CreateParser(path)
		require.NoError(t, err)
		defer p.Close()

		result, err := p.ParseFile(path)
		require.NoError(t, err)
		defer result.Tree.Close()

		assert.False(t, result.HasErrors())
		assert.Equal(t, path, result.FilePath)
	})

	t.Run("syntax errors are collected, not fatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.js")
		require.NoError(t, os.WriteFile(path, []byte(`function (( {`), 0o644))

		p, err := CreateParser(path)
		require.NoError(t, err)
		defer p.Close()

		result, err := p.ParseFile(path)
		require.NoError(t, err)
		defer result.Tree.Close()

		assert.True(t, result.HasErrors())
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		p, err := CreateParser("ghost.js")
		require.NoError(t, err)
		defer p.Close()

		_, err = p.ParseFile(filepath.Join(t.TempDir(), "ghost.js"))
		assert.Error(t, err)
	})
}
