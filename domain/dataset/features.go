package dataset

import (
	"sort"

	"cropeda/internal/errors"
)

// Features lists every column except the label, in table order.
func Features(t *Table) []string {
	names := t.Names()
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != LabelColumn {
			out = append(out, name)
		}
	}
	return out
}

// NumericColumns returns the numeric columns in table order
func NumericColumns(t *Table) []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// FieldInfo is one line of the schema summary
type FieldInfo struct {
	Name    string
	NonNull int
	DType   string
}

// Schema summarizes every column's non-null count and type
func Schema(t *Table) []FieldInfo {
	out := make([]FieldInfo, len(t.columns))
	for j, c := range t.columns {
		out[j] = FieldInfo{Name: c.Name, NonNull: t.rows - missing(c), DType: c.DType()}
	}
	return out
}

// ColumnCount pairs a column name with a count
type ColumnCount struct {
	Column string
	Count  int
}

// MissingCounts counts missing cells per column, in table order
func MissingCounts(t *Table) []ColumnCount {
	out := make([]ColumnCount, len(t.columns))
	for j, c := range t.columns {
		out[j] = ColumnCount{Column: c.Name, Count: missing(c)}
	}
	return out
}

// TotalMissing sums missing cells across the table
func TotalMissing(t *Table) int {
	total := 0
	for _, c := range t.columns {
		total += missing(c)
	}
	return total
}

func missing(c *Column) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// DuplicateMask marks every row that repeats an earlier row across all columns.
func DuplicateMask(t *Table) []bool {
	mask := make([]bool, t.rows)
	seen := make(map[string]struct{}, t.rows)
	for i := 0; i < t.rows; i++ {
		k := rowKey(t, i)
		if _, ok := seen[k]; ok {
			mask[i] = true
			continue
		}
		seen[k] = struct{}{}
	}
	return mask
}

// DuplicateCount counts rows that repeat an earlier row
func DuplicateCount(t *Table) int {
	n := 0
	for _, dup := range DuplicateMask(t) {
		if dup {
			n++
		}
	}
	return n
}

// DropDuplicates keeps the first occurrence of every distinct row
func DropDuplicates(t *Table) *Table {
	mask := DuplicateMask(t)
	keep := make([]int, 0, t.rows)
	for i, dup := range mask {
		if !dup {
			keep = append(keep, i)
		}
	}
	return t.SelectRows(keep)
}

func rowKey(t *Table, i int) string {
	b := make([]byte, 0, 16*len(t.columns))
	for _, c := range t.columns {
		b = append(b, c.key(i)...)
		b = append(b, 0x1f)
	}
	return string(b)
}

// FilterEquals returns the rows whose categorical column equals value
func FilterEquals(t *Table, column, value string) (*Table, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, errors.MissingColumn(column)
	}
	if col.IsNumeric() {
		return nil, errors.InvalidInput("filter column " + column + " is not categorical")
	}
	var idx []int
	for i, s := range col.Strings {
		if s == value {
			idx = append(idx, i)
		}
	}
	return t.SelectRows(idx), nil
}

// UniqueValues lists the distinct non-missing values of a categorical column
// in order of first appearance.
func UniqueValues(t *Table, column string) ([]string, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, errors.MissingColumn(column)
	}
	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		v := col.Cell(i)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// ValueCount is the frequency of one value
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts counts non-missing values, most frequent first, ties by value.
func ValueCounts(t *Table, column string) ([]ValueCount, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, errors.MissingColumn(column)
	}
	counts := make(map[string]int)
	for i := 0; i < col.Len(); i++ {
		if !col.IsMissing(i) {
			counts[col.Cell(i)]++
		}
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

// GroupNumbers splits a numeric column by the label value of each row, groups in
// first-appearance order. Missing numbers and missing labels are skipped.
func GroupNumbers(t *Table, groupBy, column string) ([]string, [][]float64, error) {
	g, ok := t.Column(groupBy)
	if !ok {
		return nil, nil, errors.MissingColumn(groupBy)
	}
	c, ok := t.Column(column)
	if !ok {
		return nil, nil, errors.MissingColumn(column)
	}
	if !c.IsNumeric() {
		return nil, nil, errors.InvalidInput("column " + column + " is not numeric")
	}
	pos := make(map[string]int)
	var keys []string
	var groups [][]float64
	for i := 0; i < t.rows; i++ {
		if g.IsMissing(i) || c.IsMissing(i) {
			continue
		}
		k := g.Cell(i)
		j, ok := pos[k]
		if !ok {
			j = len(keys)
			pos[k] = j
			keys = append(keys, k)
			groups = append(groups, nil)
		}
		groups[j] = append(groups[j], c.Numbers[i])
	}
	return keys, groups, nil
}
