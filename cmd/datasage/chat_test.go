package main

import (
	"path/filepath"
	"testing"

	"github.com/fwojciec/datasage"
	dsjson "github.com/fwojciec/datasage/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSession(t *testing.T) {
	t.Parallel()
	d := &datasage.Dataset{Name: "sales.csv", Columns: []string{"region"}, Rows: [][]string{{"north"}}}

	t.Run("no path starts fresh", func(t *testing.T) {
		t.Parallel()
		s, err := openSession("", d)
		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.Same(t, d, s.Dataset)
	})

	t.Run("missing file starts fresh", func(t *testing.T) {
		t.Parallel()
		s, err := openSession(filepath.Join(t.TempDir(), "new.json"), d)
		require.NoError(t, err)
		assert.Empty(t, s.Messages)
	})

	t.Run("resumes saved session", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "s.json")
		saved := datasage.NewSession(d)
		saved.Record("Which region leads?", datasage.Completion{Text: "North.", Model: "test-model"})
		require.NoError(t, dsjson.Save(path, saved))

		s, err := openSession(path, d)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, s.ID)
		assert.Len(t, s.Messages, 2)
		assert.Same(t, d, s.Dataset)
	})

	t.Run("corrupt file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "s.json", "{")
		_, err := openSession(path, d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load session")
	})
}
