package stats

import (
	"math"

	"cropeda/domain/dataset"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix is the Pearson correlation between numeric columns
type CorrMatrix struct {
	Names  []string
	Values *mat.SymDense
}

// At returns the correlation between columns i and j
func (m *CorrMatrix) At(i, j int) float64 {
	return m.Values.At(i, j)
}

// Size is the number of correlated columns
func (m *CorrMatrix) Size() int {
	return len(m.Names)
}

// Correlation computes pairwise Pearson correlation over the numeric columns of t.
// Each pair uses only the rows where both values are present; fewer than two such
// rows, or a constant column, yields NaN.
func Correlation(t *dataset.Table) *CorrMatrix {
	cols := dataset.NumericColumns(t)
	n := len(cols)
	names := make([]string, n)
	for i, c := range cols {
		names[i] = c.Name
	}
	if n == 0 {
		return &CorrMatrix{Names: names}
	}

	values := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			values.SetSym(i, j, pairCorrelation(cols[i].Numbers, cols[j].Numbers))
		}
	}
	return &CorrMatrix{Names: names, Values: values}
}

func pairCorrelation(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if constant(xs) || constant(ys) {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}
