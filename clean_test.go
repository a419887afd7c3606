package datasage_test

import (
	"testing"

	"github.com/fwojciec/datasage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"price", "note"},
		[]string{"$1,200", "  spaced   out "},
		[]string{"$1,200", "  spaced   out "},
		[]string{"", "x"},
	)
	before := d.Clone()

	_, _, err := datasage.Clean(d,
		datasage.OpRemoveDuplicates,
		datasage.OpFixDataTypes,
		datasage.OpHandleMissingBasic,
		datasage.OpCleanText,
		datasage.OpRemoveOutliers,
	)
	require.NoError(t, err)
	assert.Equal(t, before, d)
}

func TestClean_RemoveDuplicates(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"a"},
		[]string{"1"}, []string{"1"}, []string{"2"}, []string{"1"}, []string{"3"},
	)
	out, sum, err := datasage.Clean(d, datasage.OpRemoveDuplicates)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.RowsRemoved())
	assert.Equal(t, 5, sum.OriginalRows)
	assert.Equal(t, 3, sum.Rows)
	assert.Equal(t, [][]string{{"1"}, {"2"}, {"3"}}, out.Rows)
	assert.Equal(t, []string{"Removed 2 duplicate rows"}, sum.Log)
}

func TestClean_FixDataTypes(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"price", "name"},
		[]string{"$1,200", "a"},
		[]string{"45%", "b"},
	)
	out, sum, err := datasage.Clean(d, datasage.OpFixDataTypes)
	require.NoError(t, err)

	assert.Equal(t, []string{"1200", "45"}, out.Column(0))
	assert.Equal(t, datasage.KindNumeric, out.Kind(0))
	assert.Equal(t, []string{"a", "b"}, out.Column(1))
	assert.Equal(t, []string{"Converted to numeric: price"}, sum.Log)
}

func TestClean_HandleMissingBasic(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"n", "t", "e"},
		[]string{"1", "a", ""},
		[]string{"", "a", ""},
		[]string{"3", "b", ""},
		[]string{"10", "", ""},
	)
	out, _, err := datasage.Clean(d, datasage.OpHandleMissingBasic)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3", "3", "10"}, out.Column(0))
	assert.Equal(t, []string{"a", "a", "b", "a"}, out.Column(1))
	assert.Equal(t, []string{"Unknown", "Unknown", "Unknown", "Unknown"}, out.Column(2))
}

func TestClean_CleanText(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"note"}, []string{"  hello   world "}, []string{"ok"})
	out, _, err := datasage.Clean(d, datasage.OpCleanText)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello world", "ok"}, out.Column(0))
}

func TestClean_RemoveOutliers(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"v"},
		[]string{"1"}, []string{"2"}, []string{"3"}, []string{"4"}, []string{"5"},
		[]string{"6"}, []string{"7"}, []string{"8"}, []string{"9"}, []string{"100"},
	)
	out, sum, err := datasage.Clean(d, datasage.OpRemoveOutliers)
	require.NoError(t, err)
	assert.Equal(t, 9, out.Len())
	assert.Equal(t, 1, sum.RowsRemoved())
	assert.NotContains(t, out.Column(0), "100")
}

func TestClean_InvalidOps(t *testing.T) {
	t.Parallel()
	d := mustDataset(t, []string{"a"}, []string{"1"})

	_, _, err := datasage.Clean(d)
	assert.ErrorIs(t, err, datasage.ErrInvalidInput)

	_, _, err = datasage.Clean(d, datasage.CleanOp("shuffle"))
	assert.ErrorIs(t, err, datasage.ErrInvalidInput)
}

func TestParseCleanOp(t *testing.T) {
	t.Parallel()
	op, err := datasage.ParseCleanOp(" clean_text ")
	require.NoError(t, err)
	assert.Equal(t, datasage.OpCleanText, op)

	_, err = datasage.ParseCleanOp("drop_everything")
	assert.ErrorIs(t, err, datasage.ErrInvalidInput)
}
