package dataset

import (
	"math"
	"testing"

	"cropeda/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(
		NumericColumn("N", []float64{90, 85, 60, 90, 74}),
		NumericColumn("temperature", []float64{20.87974371, 21.77046169, math.NaN(), 20.87974371, 26.49109635}),
		CategoricalColumn(LabelColumn, []string{"rice", "rice", "maize", "rice", "banana"}),
		NumericColumn("ph", []float64{6.502985292, 7.038096361, 7.840207144, 6.502985292, 6.980400905}),
	)
	require.NoError(t, err)
	return tbl
}

func TestNewTableRejectsRaggedColumns(t *testing.T) {
	_, err := NewTable(
		NumericColumn("a", []float64{1, 2}),
		NumericColumn("b", []float64{1}),
	)
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))

	_, err = NewTable(NumericColumn("a", []float64{1}), NumericColumn("a", []float64{2}))
	require.Error(t, err)
}

func TestFeaturesExcludeLabelAndKeepOrder(t *testing.T) {
	tbl := sampleTable(t)

	features := Features(tbl)

	assert.Equal(t, []string{"N", "temperature", "ph"}, features)
	assert.NotContains(t, features, LabelColumn)
}

func TestFeaturesWithoutLabel(t *testing.T) {
	tbl, err := NewTable(NumericColumn("x", []float64{1}), NumericColumn("y", []float64{2}))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, Features(tbl))
}

func TestDTypes(t *testing.T) {
	tbl := sampleTable(t)
	schema := Schema(tbl)

	require.Len(t, schema, 4)
	assert.Equal(t, FieldInfo{Name: "N", NonNull: 5, DType: "int64"}, schema[0])
	assert.Equal(t, FieldInfo{Name: "temperature", NonNull: 4, DType: "float64"}, schema[1])
	assert.Equal(t, FieldInfo{Name: LabelColumn, NonNull: 5, DType: "object"}, schema[2])
}

func TestMissingCounts(t *testing.T) {
	tbl := sampleTable(t)

	counts := MissingCounts(tbl)

	assert.Equal(t, []ColumnCount{{"N", 0}, {"temperature", 1}, {LabelColumn, 0}, {"ph", 0}}, counts)
	assert.Equal(t, 1, TotalMissing(tbl))
}

func TestDuplicates(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, []bool{false, false, false, true, false}, DuplicateMask(tbl))
	assert.Equal(t, 1, DuplicateCount(tbl))

	once := DropDuplicates(tbl)
	twice := DropDuplicates(once)
	assert.Equal(t, 4, once.Rows())
	assert.Equal(t, once.Rows(), twice.Rows())
	assert.True(t, once.Equal(twice))
	assert.Equal(t, 5, tbl.Rows(), "source table must not shrink")
}

func TestDuplicatesTreatMissingAsEqual(t *testing.T) {
	tbl, err := NewTable(
		NumericColumn("x", []float64{math.NaN(), math.NaN(), 1}),
		CategoricalColumn("s", []string{"", "", "a"}),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, DuplicateCount(tbl))
}

func TestDropColumnIsNonDestructive(t *testing.T) {
	tbl := sampleTable(t)
	before := tbl.Clone()

	dropped, err := tbl.DropColumn(LabelColumn)
	require.NoError(t, err)

	assert.Equal(t, []string{"N", "temperature", "ph"}, dropped.Names())
	assert.Equal(t, 5, dropped.Rows())
	assert.True(t, tbl.HasColumn(LabelColumn))
	assert.True(t, tbl.Equal(before))

	_, err = dropped.DropColumn(LabelColumn)
	assert.Equal(t, errors.CodeMissingColumn, errors.GetCode(err))
}

func TestWithColumnReplacesInPlaceOrder(t *testing.T) {
	tbl := sampleTable(t)

	out, err := tbl.WithColumn(CategoricalColumn("N", []string{"a", "b", "c", "d", "e"}))
	require.NoError(t, err)
	assert.Equal(t, tbl.Names(), out.Names())

	col, _ := out.Column("N")
	assert.Equal(t, KindCategorical, col.Kind)

	_, err = tbl.WithColumn(NumericColumn("short", []float64{1}))
	assert.Error(t, err)
}

func TestHeadTail(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, []string{"90", "20.87974371", "rice", "6.502985292"}, tbl.Head(2).Row(0))
	assert.Equal(t, 2, tbl.Head(2).Rows())
	assert.Equal(t, []string{"74", "26.49109635", "banana", "6.980400905"}, tbl.Tail(1).Row(0))
	assert.Equal(t, 5, tbl.Head(50).Rows())
	assert.Equal(t, 0, tbl.Tail(-1).Rows())
}

func TestDisplayRow(t *testing.T) {
	tbl := sampleTable(t)
	assert.Equal(t, []string{"60", "NaN", "maize", "7.840207"}, tbl.DisplayRow(2))
}

func TestFilterEquals(t *testing.T) {
	tbl := sampleTable(t)

	rice, err := FilterEquals(tbl, LabelColumn, "rice")
	require.NoError(t, err)
	assert.Equal(t, 3, rice.Rows())

	none, err := FilterEquals(tbl, LabelColumn, "coffee")
	require.NoError(t, err)
	assert.Equal(t, 0, none.Rows())
	assert.Equal(t, tbl.Names(), none.Names())

	_, err = FilterEquals(tbl, "N", "90")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestUniqueAndValueCounts(t *testing.T) {
	tbl := sampleTable(t)

	unique, err := UniqueValues(tbl, LabelColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"rice", "maize", "banana"}, unique)

	counts, err := ValueCounts(tbl, LabelColumn)
	require.NoError(t, err)
	assert.Equal(t, []ValueCount{{"rice", 3}, {"banana", 1}, {"maize", 1}}, counts)
}

func TestGroupNumbers(t *testing.T) {
	tbl := sampleTable(t)

	keys, groups, err := GroupNumbers(tbl, LabelColumn, "temperature")
	require.NoError(t, err)

	assert.Equal(t, []string{"rice", "banana"}, keys, "maize only has a missing temperature")
	assert.Equal(t, []float64{20.87974371, 21.77046169, 20.87974371}, groups[0])
	assert.Equal(t, []float64{26.49109635}, groups[1])

	_, _, err = GroupNumbers(tbl, LabelColumn, LabelColumn)
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	tbl := sampleTable(t)
	records := tbl.Records()

	require.Len(t, records, 6)
	assert.Equal(t, tbl.Names(), records[0])
	assert.Equal(t, "", records[3][1], "missing numbers export as empty cells")
}
