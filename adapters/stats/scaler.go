package stats

import (
	"math"

	"cropeda/domain/dataset"
	"cropeda/internal/errors"

	mfstats "github.com/montanaflynn/stats"
)

// ScaledColumns are the features standardized by the batch pipeline
var ScaledColumns = []string{"temperature", "humidity", "ph", "rainfall"}

// StandardScaler holds the per-column mean and scale learned by Fit
type StandardScaler struct {
	Columns []string
	Means   []float64
	Scales  []float64
}

// Fit learns the mean and population standard deviation of each named column.
// A zero-variance column gets a scale of 1.
func Fit(t *dataset.Table, columns []string) (*StandardScaler, error) {
	s := &StandardScaler{
		Columns: append([]string(nil), columns...),
		Means:   make([]float64, len(columns)),
		Scales:  make([]float64, len(columns)),
	}
	for i, name := range columns {
		c, ok := t.Column(name)
		if !ok {
			return nil, errors.MissingColumn(name)
		}
		if !c.IsNumeric() {
			return nil, errors.InvalidInput("cannot scale categorical column " + name)
		}
		data := NonMissing(c)
		if len(data) == 0 {
			return nil, errors.NoData("column " + name + " has no values to scale")
		}
		mean, _ := mfstats.Mean(data)
		std, _ := mfstats.StandardDeviationPopulation(data)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Means[i] = mean
		s.Scales[i] = std
	}
	return s, nil
}

// Transform returns a new table with every fitted column replaced by
// (x - mean) / scale. Missing cells stay missing.
func (s *StandardScaler) Transform(t *dataset.Table) (*dataset.Table, error) {
	out := t
	for i, name := range s.Columns {
		c, ok := out.Column(name)
		if !ok {
			return nil, errors.MissingColumn(name)
		}
		values := make([]float64, len(c.Numbers))
		for r, v := range c.Numbers {
			values[r] = (v - s.Means[i]) / s.Scales[i]
		}
		var err error
		if out, err = out.WithColumn(dataset.FloatColumn(name, values)); err != nil {
			return nil, errors.Wrapf(err, "failed to scale column %s", name)
		}
	}
	return out, nil
}

// FitTransform fits a scaler on columns and applies it to t
func FitTransform(t *dataset.Table, columns []string) (*dataset.Table, *StandardScaler, error) {
	s, err := Fit(t, columns)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.Transform(t)
	if err != nil {
		return nil, nil, err
	}
	return out, s, nil
}
