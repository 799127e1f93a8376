package dataset

import (
	"fmt"
	"math"
	"strconv"

	"cropeda/internal/errors"
)

// LabelColumn is the categorical crop name column every dataset is expected to carry.
const LabelColumn = "label"

// Kind is the inferred storage kind of a column
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Column is a single named column. Numeric columns keep NaN for missing cells,
// categorical columns keep the empty string.
type Column struct {
	Name    string
	Kind    Kind
	Numbers []float64
	Strings []string
	// Integer marks a numeric column stored as whole numbers with no missing cells.
	Integer bool
}

// NumericColumn builds a numeric column, inferring whether it is an integer column.
func NumericColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: KindNumeric, Numbers: values, Integer: allWhole(values)}
}

// FloatColumn builds a numeric column that always reports as floating point.
func FloatColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: KindNumeric, Numbers: values}
}

// CategoricalColumn builds a string column.
func CategoricalColumn(name string, values []string) *Column {
	return &Column{Name: name, Kind: KindCategorical, Strings: values}
}

func allWhole(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return false
		}
	}
	return true
}

// Len returns the number of cells
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Numbers)
	}
	return len(c.Strings)
}

// IsNumeric reports whether the column holds numbers
func (c *Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// IsMissing reports whether cell i is missing
func (c *Column) IsMissing(i int) bool {
	if c.Kind == KindNumeric {
		return math.IsNaN(c.Numbers[i])
	}
	return c.Strings[i] == ""
}

// DType names the column type the way the dataset summary reports it.
func (c *Column) DType() string {
	switch {
	case c.Kind == KindCategorical:
		return "object"
	case c.Integer:
		return "int64"
	default:
		return "float64"
	}
}

// Cell formats cell i losslessly; missing cells become the empty string.
func (c *Column) Cell(i int) string {
	if c.Kind == KindCategorical {
		return c.Strings[i]
	}
	v := c.Numbers[i]
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Display formats cell i for previews: floats get six decimals, missing cells read NaN.
func (c *Column) Display(i int) string {
	if c.IsMissing(i) {
		return "NaN"
	}
	if c.Kind == KindCategorical || c.Integer {
		return c.Cell(i)
	}
	return strconv.FormatFloat(c.Numbers[i], 'f', 6, 64)
}

// key identifies the value of cell i for equality comparisons, NaN included.
func (c *Column) key(i int) string {
	if c.IsMissing(i) {
		return "\x00"
	}
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.Numbers[i], 'g', -1, 64)
	}
	return c.Strings[i]
}

// Clone returns a deep copy
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Integer: c.Integer}
	if c.Numbers != nil {
		out.Numbers = append([]float64(nil), c.Numbers...)
	}
	if c.Strings != nil {
		out.Strings = append([]string(nil), c.Strings...)
	}
	return out
}

func (c *Column) subset(idx []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Integer: c.Integer}
	if c.Kind == KindNumeric {
		out.Numbers = make([]float64, len(idx))
		for j, i := range idx {
			out.Numbers[j] = c.Numbers[i]
		}
		return out
	}
	out.Strings = make([]string, len(idx))
	for j, i := range idx {
		out.Strings[j] = c.Strings[i]
	}
	return out
}

// Table is an in-memory dataset with ordered, uniquely named columns.
// Operations return new tables; a loaded table is never changed in place.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable assembles columns of equal length into a table
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, col := range cols {
		if col == nil {
			return nil, errors.InvalidInput(fmt.Sprintf("column %d is nil", i))
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, errors.ValidationError(fmt.Sprintf("duplicate column name %q", col.Name))
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, errors.ValidationError(fmt.Sprintf("column %q has %d rows, expected %d", col.Name, col.Len(), t.rows))
		}
		t.index[col.Name] = i
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// Rows returns the number of rows
func (t *Table) Rows() int { return t.rows }

// Cols returns the number of columns
func (t *Table) Cols() int { return len(t.columns) }

// Shape returns (rows, columns)
func (t *Table) Shape() (int, int) { return t.rows, len(t.columns) }

// Names returns the column names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in table order
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// Column looks a column up by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Clone()
	}
	out, _ := NewTable(cols...)
	return out
}

// DropColumn returns a copy of the table without the named column
func (t *Table) DropColumn(name string) (*Table, error) {
	if !t.HasColumn(name) {
		return nil, errors.MissingColumn(name)
	}
	cols := make([]*Column, 0, len(t.columns)-1)
	for _, c := range t.columns {
		if c.Name != name {
			cols = append(cols, c.Clone())
		}
	}
	out, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = t.rows
	return out, nil
}

// WithColumn returns a copy of the table with col appended, or replacing the
// column of the same name in place.
func (t *Table) WithColumn(col *Column) (*Table, error) {
	if col.Len() != t.rows && len(t.columns) > 0 {
		return nil, errors.ValidationError(fmt.Sprintf("column %q has %d rows, expected %d", col.Name, col.Len(), t.rows))
	}
	cols := make([]*Column, 0, len(t.columns)+1)
	replaced := false
	for _, c := range t.columns {
		if c.Name == col.Name {
			cols = append(cols, col)
			replaced = true
			continue
		}
		cols = append(cols, c.Clone())
	}
	if !replaced {
		cols = append(cols, col)
	}
	return NewTable(cols...)
}

// SelectRows returns a table holding the given rows in the given order
func (t *Table) SelectRows(idx []int) *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.subset(idx)
	}
	out, _ := NewTable(cols...)
	out.rows = len(idx)
	return out
}

// Head returns the first n rows
func (t *Table) Head(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	return t.SelectRows(seq(0, n))
}

// Tail returns the last n rows
func (t *Table) Tail(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	return t.SelectRows(seq(t.rows-n, t.rows))
}

// Row returns the lossless cell strings of row i
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Cell(i)
	}
	return row
}

// DisplayRow returns row i formatted for previews
func (t *Table) DisplayRow(i int) []string {
	row := make([]string, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Display(i)
	}
	return row
}

// Records returns the header followed by every row, formatted losslessly
func (t *Table) Records() [][]string {
	out := make([][]string, 0, t.rows+1)
	out = append(out, t.Names())
	for i := 0; i < t.rows; i++ {
		out = append(out, t.Row(i))
	}
	return out
}

// Equal reports whether both tables hold the same columns, kinds and cell values.
// Missing cells compare equal to each other.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.columns) != len(o.columns) {
		return false
	}
	for j, c := range t.columns {
		oc := o.columns[j]
		if c.Name != oc.Name || c.Kind != oc.Kind {
			return false
		}
		for i := 0; i < t.rows; i++ {
			if c.key(i) != oc.key(i) {
				return false
			}
		}
	}
	return true
}

func seq(from, to int) []int {
	idx := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		idx = append(idx, i)
	}
	return idx
}
