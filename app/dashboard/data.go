package dashboard

import (
	"cropeda/adapters/stats"
	"cropeda/domain/dataset"
	"cropeda/internal/errors"
)

// Data is the session's loaded table with the lists computed once after load
type Data struct {
	Table *dataset.Table
	// Features is every column except the label, in table order
	Features []string
	// PlotFeatures are the numeric features offered by plot selects
	PlotFeatures []string
}

// NewData checks the label precondition and computes the feature lists. A
// table without a label column cannot back a dashboard.
func NewData(t *dataset.Table) (*Data, error) {
	if !t.HasColumn(dataset.LabelColumn) {
		return nil, errors.MissingColumn(dataset.LabelColumn)
	}
	d := &Data{Table: t, Features: dataset.Features(t)}
	for _, name := range d.Features {
		if c, _ := t.Column(name); c.IsNumeric() {
			d.PlotFeatures = append(d.PlotFeatures, name)
		}
	}
	return d, nil
}

// Derived memoizes the artifacts several widgets of one pass may need. It
// lives for exactly one render pass.
type Derived struct {
	table   *dataset.Table
	numeric []*dataset.Column
	corr    *stats.CorrMatrix
}

// NewDerived starts an empty cache over t
func NewDerived(t *dataset.Table) *Derived {
	return &Derived{table: t}
}

// NumericColumns returns the numeric columns, computed on first use
func (d *Derived) NumericColumns() []*dataset.Column {
	if d.numeric == nil {
		d.numeric = dataset.NumericColumns(d.table)
		if d.numeric == nil {
			d.numeric = []*dataset.Column{}
		}
	}
	return d.numeric
}

// Correlation returns the pairwise-complete correlation matrix, computed on first use
func (d *Derived) Correlation() *stats.CorrMatrix {
	if d.corr == nil {
		d.corr = stats.Correlation(d.table)
	}
	return d.corr
}
