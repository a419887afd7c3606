package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	t.Run("matches files with simple pattern", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte(""), 0o644))

		got, err := fs.Expand(filepath.Join(dir, "*.csv"))
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}, got)
	})

	t.Run("matches files recursively with doublestar", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "root.xlsx"), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(sub, "nested.xlsx"), []byte(""), 0o644))

		got, err := fs.Expand(filepath.Join(dir, "**", "*.xlsx"))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{filepath.Join(dir, "root.xlsx"), filepath.Join(sub, "nested.xlsx")}, got)
	})

	t.Run("deduplicates literal paths and patterns", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		p := filepath.Join(dir, "data.csv")
		require.NoError(t, os.WriteFile(p, []byte(""), 0o644))

		got, err := fs.Expand(p, filepath.Join(dir, "*.csv"), p)
		require.NoError(t, err)
		assert.Equal(t, []string{p}, got)
	})

	t.Run("returns error when pattern matches nothing", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, err := fs.Expand(filepath.Join(dir, "*.csv"))
		assert.ErrorIs(t, err, datasage.ErrInvalidInput)
	})

	t.Run("returns error for missing literal path", func(t *testing.T) {
		t.Parallel()
		_, err := fs.Expand(filepath.Join(t.TempDir(), "missing.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("returns error for directory", func(t *testing.T) {
		t.Parallel()
		_, err := fs.Expand(t.TempDir())
		assert.ErrorIs(t, err, datasage.ErrInvalidInput)
	})

	t.Run("returns error for invalid pattern", func(t *testing.T) {
		t.Parallel()
		_, err := fs.Expand("data/[.csv")
		assert.ErrorIs(t, err, datasage.ErrInvalidInput)
	})

	t.Run("requires at least one argument", func(t *testing.T) {
		t.Parallel()
		_, err := fs.Expand()
		assert.ErrorIs(t, err, datasage.ErrInvalidInput)
	})
}
