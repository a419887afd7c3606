package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/csv"
	"github.com/fwojciec/datasage/excel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		res, err := execute(t, nil, nil, "summarize", path)
		require.NoError(t, err)
		assert.Contains(t, res.stdout, "sales.csv: 4 rows, 2 columns, 1 missing cells, 0 duplicate rows")
		assert.Contains(t, res.stdout, "region")
		assert.Contains(t, res.stdout, "┌")
	})

	t.Run("json over a glob", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(salesCSV), 0o644))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.csv"), []byte("x\n1\n"), 0o644))

		res, err := execute(t, nil, nil, "summarize", "--format", "json", filepath.Join(dir, "**", "*.csv"))
		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &got), res.stdout)
		require.Len(t, got, 2)
		assert.Equal(t, "a.csv", got[0]["summary"].(map[string]any)["name"])
		assert.Equal(t, "b.csv", got[1]["summary"].(map[string]any)["name"])
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		_, err := execute(t, nil, nil, "summarize", "--format", "yaml", path)
		assert.ErrorIs(t, err, datasage.ErrInvalidInput)
	})

	t.Run("legacy excel", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "old.xls", "not a workbook")
		_, err := execute(t, nil, nil, "summarize", path)
		assert.ErrorIs(t, err, datasage.ErrUnsupportedFormat)
	})
}

func TestQuality(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "sales.csv", salesCSV+"north,10\n")

	res, err := execute(t, nil, nil, "quality", path)
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "Quality score:")
	assert.Contains(t, res.stdout, "Duplicate rows: 1 (20.00%)")
	assert.Contains(t, res.stdout, "Missing data:")
	assert.Contains(t, res.stdout, "Duplicates:")

	res, err = execute(t, nil, nil, "quality", "--format", "json", path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Contains(t, got, "score")
}

func TestClean(t *testing.T) {
	t.Parallel()

	t.Run("writes cleaned csv", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV+"north,10\n")
		out := filepath.Join(t.TempDir(), "clean.csv")

		res, err := execute(t, nil, nil, "clean", path, "--ops", "remove_duplicates", "--out", out)
		require.NoError(t, err)
		assert.Contains(t, res.stderr, "5 rows x 2 columns -> 4 rows x 2 columns")

		d, err := csv.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, 4, d.Len())
	})

	t.Run("writes workbook", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		out := filepath.Join(t.TempDir(), "clean.xlsx")

		_, err := execute(t, nil, nil, "clean", path, "--out", out)
		require.NoError(t, err)

		d, err := excel.ReadFile(out, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"region", "sales"}, d.Columns)
		assert.Equal(t, 4, d.Len())
	})

	t.Run("unknown operation", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		_, err := execute(t, nil, nil, "clean", path, "--ops", "shuffle")
		assert.ErrorIs(t, err, datasage.ErrInvalidInput)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("answers locally", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		res, err := execute(t, failing(t), nil, "query", path, "how", "many", "missing", "values?")
		require.NoError(t, err)
		assert.Contains(t, res.stdout, "1 missing values in total.")
		assert.Contains(t, res.stdout, "sales")
	})

	t.Run("unrecognized without ai", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		_, err := execute(t, failing(t), nil, "query", path, "which region grows fastest?")
		assert.ErrorIs(t, err, datasage.ErrUnrecognizedQuery)
	})

	t.Run("falls back to the model", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		res, err := execute(t, answering("North grows fastest.", nil), nil, "query", "--ai", path, "which region grows fastest?")
		require.NoError(t, err)
		assert.Equal(t, "North grows fastest.\n", res.stdout)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		res, err := execute(t, nil, nil, "query", "--format", "json", path, "what are the columns?")
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
		assert.Equal(t, "Columns: region, sales", got["answer"])
	})
}

func TestChart(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "sales.csv", salesCSV)
	out := filepath.Join(t.TempDir(), "chart.png")

	_, err := execute(t, nil, nil, "chart", path, "--kind", "bar", "--x", "region", "--y", "sales", "--out", out)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = execute(t, nil, nil, "chart", path)
	assert.ErrorIs(t, err, datasage.ErrInvalidInput)
}

func TestExport(t *testing.T) {
	t.Parallel()

	t.Run("xlsx from extension", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		out := filepath.Join(t.TempDir(), "sales.xlsx")

		_, err := execute(t, nil, nil, "export", path, "--out", out)
		require.NoError(t, err)
		d, err := excel.ReadFile(out, excel.DefaultSheet)
		require.NoError(t, err)
		assert.Equal(t, 4, d.Len())
	})

	t.Run("csv to stdout", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		res, err := execute(t, nil, nil, "export", path, "--format", "csv")
		require.NoError(t, err)
		assert.Equal(t, salesCSV, res.stdout)
	})

	t.Run("xlsx needs a path", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "sales.csv", salesCSV)
		_, err := execute(t, nil, nil, "export", path, "--format", "xlsx")
		assert.ErrorIs(t, err, datasage.ErrInvalidInput)
	})
}

func TestChartKeepsExistingFileOnBadColumn(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "sales.csv", salesCSV)
	out := writeFile(t, "chart.png", "previous")

	_, err := execute(t, nil, nil, "chart", path, "--kind", "histogram", "--x", "profit", "--out", out)
	require.ErrorIs(t, err, datasage.ErrInvalidInput)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}
