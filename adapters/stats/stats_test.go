package stats

import (
	"math"
	"testing"

	"cropeda/domain/dataset"
	"cropeda/internal/errors"

	mfstats "github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cropTable(t *testing.T) *dataset.Table {
	t.Helper()
	nan := math.NaN()
	tbl, err := dataset.NewTable(
		dataset.NumericColumn("N", []float64{90, 85, 60, 74, 78}),
		dataset.NumericColumn("temperature", []float64{20.8, 21.7, nan, 26.4, 20.1}),
		dataset.NumericColumn("humidity", []float64{82.0, 80.3, 82.3, 80.1, 81.6}),
		dataset.NumericColumn("ph", []float64{6.5, nan, 7.8, 6.9, 7.6}),
		dataset.NumericColumn("rainfall", []float64{202.9, 226.6, 263.9, 242.8, 262.7}),
		dataset.CategoricalColumn(dataset.LabelColumn, []string{"rice", "rice", "maize", "maize", "coffee"}),
	)
	require.NoError(t, err)
	return tbl
}

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, Quantile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(sorted, 0.75), 1e-12)
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestDescribe(t *testing.T) {
	summaries := Describe(cropTable(t))
	require.Len(t, summaries, 5)

	n := summaries[0]
	assert.Equal(t, "N", n.Column)
	assert.Equal(t, 5, n.Count)
	assert.InDelta(t, 77.4, n.Mean, 1e-9)
	assert.InDelta(t, 11.5239, n.Std, 1e-4)
	assert.Equal(t, 60.0, n.Min)
	assert.Equal(t, 74.0, n.Q25)
	assert.Equal(t, 78.0, n.Q50)
	assert.Equal(t, 85.0, n.Q75)
	assert.Equal(t, 90.0, n.Max)

	temp := summaries[1]
	assert.Equal(t, 4, temp.Count, "missing cells are not counted")
	assert.Len(t, temp.Values(), len(SummaryLabels))
}

func TestDescribeDegenerateColumns(t *testing.T) {
	tbl, err := dataset.NewTable(
		dataset.NumericColumn("empty", []float64{math.NaN(), math.NaN()}),
		dataset.NumericColumn("single", []float64{3, math.NaN()}),
	)
	require.NoError(t, err)

	s := Describe(tbl)
	assert.Equal(t, 0, s[0].Count)
	assert.True(t, math.IsNaN(s[0].Mean))
	assert.Equal(t, 1, s[1].Count)
	assert.Equal(t, 3.0, s[1].Mean)
	assert.True(t, math.IsNaN(s[1].Std))
}

func TestFillMedian(t *testing.T) {
	tbl := cropTable(t)
	tempBefore, _ := tbl.Column("temperature")
	wantTemp := Median(tempBefore)
	phBefore, _ := tbl.Column("ph")
	wantPH := Median(phBefore)

	filled, report, err := FillMedian(tbl)
	require.NoError(t, err)

	for _, c := range dataset.NumericColumns(filled) {
		for i := range c.Numbers {
			assert.False(t, c.IsMissing(i), "%s row %d", c.Name, i)
		}
	}
	temp, _ := filled.Column("temperature")
	assert.Equal(t, wantTemp, temp.Numbers[2])
	ph, _ := filled.Column("ph")
	assert.Equal(t, wantPH, ph.Numbers[1])

	require.Len(t, report, 2)
	assert.Equal(t, Imputation{Column: "temperature", Filled: 1, Value: wantTemp}, report[0])
	assert.Equal(t, "ph", report[1].Column)

	assert.True(t, tempBefore.IsMissing(2), "source table is untouched")
	assert.Equal(t, tbl.Names(), filled.Names())
}

func TestFillMedianSkipsEmptyColumn(t *testing.T) {
	tbl, err := dataset.NewTable(
		dataset.NumericColumn("x", []float64{math.NaN(), math.NaN()}),
		dataset.NumericColumn("y", []float64{1, math.NaN()}),
	)
	require.NoError(t, err)

	filled, report, err := FillMedian(tbl)

	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "x", report[0].Column)
	assert.True(t, report[0].Skipped)
	assert.Equal(t, 0, report[0].Filled)
	assert.True(t, math.IsNaN(report[0].Value))
	assert.Equal(t, Imputation{Column: "y", Filled: 1, Value: 1}, report[1])

	x, _ := filled.Column("x")
	assert.True(t, x.IsMissing(0))
	assert.True(t, x.IsMissing(1))
	y, _ := filled.Column("y")
	assert.Equal(t, []float64{1, 1}, y.Numbers)
}

func TestCorrelation(t *testing.T) {
	tbl, err := dataset.NewTable(
		dataset.NumericColumn("a", []float64{1, 2, 3, 4}),
		dataset.NumericColumn("b", []float64{2, 4, 6, math.NaN()}),
		dataset.NumericColumn("c", []float64{4, 3, 2, 1}),
		dataset.NumericColumn("flat", []float64{5, 5, 5, 5}),
		dataset.CategoricalColumn(dataset.LabelColumn, []string{"x", "y", "x", "y"}),
	)
	require.NoError(t, err)

	m := Correlation(tbl)
	assert.Equal(t, []string{"a", "b", "c", "flat"}, m.Names)
	assert.InDelta(t, 1.0, m.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-12, "pairwise rows skip the missing cell")
	assert.InDelta(t, -1.0, m.At(0, 2), 1e-12)
	assert.Equal(t, m.At(2, 0), m.At(0, 2))
	assert.True(t, math.IsNaN(m.At(0, 3)))
}

func TestStandardScaler(t *testing.T) {
	filled, _, err := FillMedian(cropTable(t))
	require.NoError(t, err)

	scaled, scaler, err := FitTransform(filled, ScaledColumns)
	require.NoError(t, err)
	assert.Equal(t, ScaledColumns, scaler.Columns)

	for _, name := range ScaledColumns {
		c, _ := scaled.Column(name)
		mean, _ := mfstats.Mean(c.Numbers)
		std, _ := mfstats.StandardDeviationPopulation(c.Numbers)
		assert.InDelta(t, 0, mean, 1e-9, name)
		assert.InEpsilon(t, 1, std, 1e-6, name)
	}

	n, _ := scaled.Column("N")
	orig, _ := filled.Column("N")
	assert.Equal(t, orig.Numbers, n.Numbers, "unlisted columns are untouched")
}

func TestStandardScalerConstantColumn(t *testing.T) {
	tbl, err := dataset.NewTable(dataset.NumericColumn("ph", []float64{7, 7, 7}))
	require.NoError(t, err)

	scaled, scaler, err := FitTransform(tbl, []string{"ph"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, scaler.Scales[0])
	c, _ := scaled.Column("ph")
	assert.Equal(t, []float64{0, 0, 0}, c.Numbers)
}

func TestStandardScalerErrors(t *testing.T) {
	tbl := cropTable(t)
	_, _, err := FitTransform(tbl, []string{"salinity"})
	assert.Equal(t, errors.CodeMissingColumn, errors.GetCode(err))

	_, _, err = FitTransform(tbl, []string{dataset.LabelColumn})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
