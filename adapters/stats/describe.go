package stats

import (
	"math"
	"sort"

	"cropeda/domain/dataset"

	mfstats "github.com/montanaflynn/stats"
)

// Summary holds the descriptive statistics of one numeric column. Std is the
// sample standard deviation; quartiles use linear interpolation between ranks.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// SummaryLabels are the row labels of a describe table, in display order
var SummaryLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values returns the statistics in SummaryLabels order
func (s Summary) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
}

// NonMissing returns the present values of a numeric column
func NonMissing(c *dataset.Column) []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Describe summarizes every numeric column in table order. A column with no
// present values gets NaN statistics; a single value has an undefined Std.
func Describe(t *dataset.Table) []Summary {
	cols := dataset.NumericColumns(t)
	out := make([]Summary, 0, len(cols))
	for _, c := range cols {
		out = append(out, describeColumn(c))
	}
	return out
}

func describeColumn(c *dataset.Column) Summary {
	data := NonMissing(c)
	s := Summary{Column: c.Name, Count: len(data)}
	if len(data) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	s.Mean, _ = mfstats.Mean(data)
	s.Min, _ = mfstats.Min(data)
	s.Max, _ = mfstats.Max(data)
	if len(data) > 1 {
		s.Std, _ = mfstats.StandardDeviationSample(data)
	} else {
		s.Std = math.NaN()
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	s.Q25 = Quantile(sorted, 0.25)
	s.Q50 = Quantile(sorted, 0.50)
	s.Q75 = Quantile(sorted, 0.75)
	return s
}

// Quantile returns the p-quantile of sorted data, interpolating linearly
// between the two closest ranks at position p*(n-1).
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Median returns the median of the present values of a numeric column, NaN when
// every value is missing.
func Median(c *dataset.Column) float64 {
	data := NonMissing(c)
	if len(data) == 0 {
		return math.NaN()
	}
	m, err := mfstats.Median(data)
	if err != nil {
		return math.NaN()
	}
	return m
}
