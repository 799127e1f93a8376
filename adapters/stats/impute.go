package stats

import (
	"math"

	"cropeda/domain/dataset"
	"cropeda/internal/errors"
)

// Imputation records how many cells of a column were filled and with what.
// Skipped marks a column with no values to take a median from; its cells stay
// missing, Filled is 0 and Value is NaN.
type Imputation struct {
	Column  string
	Filled  int
	Value   float64
	Skipped bool
}

// FillMedian replaces missing numeric cells with their column median and returns
// a new table. Categorical columns are left alone. A numeric column with no
// present values is left missing and reported as skipped.
func FillMedian(t *dataset.Table) (*dataset.Table, []Imputation, error) {
	out := t
	var report []Imputation
	for _, c := range dataset.NumericColumns(t) {
		filled := 0
		for _, v := range c.Numbers {
			if math.IsNaN(v) {
				filled++
			}
		}
		if filled == 0 {
			continue
		}

		median := Median(c)
		if math.IsNaN(median) {
			report = append(report, Imputation{Column: c.Name, Value: median, Skipped: true})
			continue
		}
		values := make([]float64, len(c.Numbers))
		for i, v := range c.Numbers {
			if math.IsNaN(v) {
				v = median
			}
			values[i] = v
		}

		var err error
		out, err = out.WithColumn(dataset.FloatColumn(c.Name, values))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to impute column %s", c.Name)
		}
		report = append(report, Imputation{Column: c.Name, Filled: filled, Value: median})
	}
	return out, report, nil
}
