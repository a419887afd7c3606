package datasage_test

import (
	"testing"

	"github.com/fwojciec/datasage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess_CleanDataset(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"name", "age"},
		[]string{"a", "30"},
		[]string{"b", "31"},
		[]string{"c", "32"},
		[]string{"d", "33"},
	)
	q := datasage.Assess(d)

	assert.Equal(t, 4, q.Rows)
	assert.Equal(t, 2, q.Columns)
	assert.Equal(t, 0, q.Missing.Total)
	assert.Equal(t, datasage.SeverityNone, q.Missing.Severity)
	assert.Equal(t, 0, q.Duplicates.Total)
	assert.Equal(t, 0, q.OutlierCount())
	assert.InDelta(t, 100, q.Score, 1e-9)
}

func TestAssess_Missing(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"x", "y"},
		[]string{"1", "5"},
		[]string{"2", ""},
		[]string{"3", "7"},
		[]string{"4", "8"},
	)
	q := datasage.Assess(d)

	assert.Equal(t, 1, q.Missing.Total)
	assert.Equal(t, 1, q.Missing.ColumnsAffected)
	assert.InDelta(t, 12.5, q.Missing.Percentage, 1e-9)
	assert.Equal(t, datasage.SeverityMedium, q.Missing.Severity)
	require.Len(t, q.Missing.PerColumn, 2)
	assert.Equal(t, datasage.MissingNone, q.Missing.PerColumn[0].Pattern)
	assert.Equal(t, datasage.MissingModerate, q.Missing.PerColumn[1].Pattern)
	assert.InDelta(t, 25, q.Missing.PerColumn[1].Percentage, 1e-9)
	assert.InDelta(t, 93.8, q.Score, 1e-9)
}

func TestAssess_CompleteMissingColumn(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"x", "empty"}, []string{"1", ""}, []string{"2", "NA"})
	q := datasage.Assess(d)
	assert.Equal(t, datasage.MissingComplete, q.Missing.PerColumn[1].Pattern)
}

func TestAssess_Outliers(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"v"},
		[]string{"1"}, []string{"2"}, []string{"3"}, []string{"4"}, []string{"5"},
		[]string{"6"}, []string{"7"}, []string{"8"}, []string{"9"}, []string{"100"},
	)
	q := datasage.Assess(d)

	require.Len(t, q.Outliers, 1)
	o := q.Outliers[0]
	assert.Equal(t, "v", o.Column)
	assert.Equal(t, 1, o.IQR)
	assert.InDelta(t, 14.5, o.Upper, 1e-9)
	assert.InDelta(t, -3.5, o.Lower, 1e-9)
	assert.Equal(t, datasage.SeverityHigh, o.Severity)
	assert.Less(t, q.Score, 100.0)
}

func TestAssess_TypeSuggestion(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"price"}, []string{"$1,200"}, []string{"$300"}, []string{"45%"})
	q := datasage.Assess(d)

	require.Len(t, q.Types, 1)
	assert.Equal(t, datasage.KindText, q.Types[0].Current)
	assert.Equal(t, datasage.KindNumeric, q.Types[0].Suggested)
	assert.True(t, q.Types[0].NeedsChange())
	assert.InDelta(t, 98, q.Score, 1e-9)
}

func TestAssess_ScoreBounds(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"a", "b", "c"},
		[]string{"", "", "$1"},
		[]string{"", "", "$1"},
		[]string{"", "", "$1"},
	)
	q := datasage.Assess(d)
	assert.GreaterOrEqual(t, q.Score, 0.0)
	assert.LessOrEqual(t, q.Score, 100.0)
	assert.Less(t, q.Score, 100.0)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	t.Run("groups recommendations by category", func(t *testing.T) {
		t.Parallel()
		d := mustDataset(t, []string{"price", "note"},
			[]string{"$10", "a"},
			[]string{"$10", "a"},
			[]string{"", "b"},
		)
		s := datasage.Suggest(datasage.Assess(d))

		require.Len(t, s.MissingData, 1)
		assert.Contains(t, s.MissingData[0], `"price"`)
		require.Len(t, s.Duplicates, 1)
		assert.Contains(t, s.Duplicates[0], "Remove 1 duplicate rows")
		require.Len(t, s.DataTypes, 1)
		assert.Contains(t, s.DataTypes[0], "from text to numeric")
		assert.Len(t, s.TextCleaning, 2)
		assert.False(t, s.Empty())
	})

	t.Run("clean numeric data needs nothing", func(t *testing.T) {
		t.Parallel()
		d := mustDataset(t, []string{"n"}, []string{"1"}, []string{"2"}, []string{"3"})
		assert.True(t, datasage.Suggest(datasage.Assess(d)).Empty())
	})
}
