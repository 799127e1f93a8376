package dataset

import (
	"math"
	"sort"

	"cropeda/internal/errors"
)

// CropNumberColumn is the column the fixed crop table encoding adds.
const CropNumberColumn = "crop_no"

// FixedCrops lists the 22 known crops; crop i is encoded as i+1.
var FixedCrops = []string{
	"rice", "maize", "chickpea", "kidneybeans", "pigeonpeas",
	"mothbeans", "mungbean", "blackgram", "lentil", "pomegranate",
	"banana", "mango", "grapes", "watermelon", "muskmelon",
	"apple", "orange", "papaya", "coconut", "cotton",
	"jute", "coffee",
}

var fixedCropCodes = func() map[string]int {
	m := make(map[string]int, len(FixedCrops))
	for i, name := range FixedCrops {
		m[name] = i + 1
	}
	return m
}()

// FixedCropCode looks a crop up in the fixed table. Unknown crops report false.
func FixedCropCode(label string) (int, bool) {
	code, ok := fixedCropCodes[label]
	return code, ok
}

// WithFixedCropCodes returns a copy of t with a crop_no column holding the fixed
// table code of each label; unknown labels leave the cell missing. label is kept.
func WithFixedCropCodes(t *Table) (*Table, error) {
	col, ok := t.Column(LabelColumn)
	if !ok {
		return nil, errors.MissingColumn(LabelColumn)
	}
	codes := make([]float64, t.Rows())
	for i := range codes {
		code, known := FixedCropCode(col.Cell(i))
		if !known || col.IsMissing(i) {
			codes[i] = math.NaN()
			continue
		}
		codes[i] = float64(code)
	}
	return t.WithColumn(NumericColumn(CropNumberColumn, codes))
}

// CategoricalCodes encodes values by their index in the sorted set of distinct
// non-empty values. Empty values get -1. The sorted categories are returned too.
func CategoricalCodes(values []string) ([]int, []string) {
	set := make(map[string]struct{})
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	categories := make([]string, 0, len(set))
	for v := range set {
		categories = append(categories, v)
	}
	sort.Strings(categories)

	pos := make(map[string]int, len(categories))
	for i, v := range categories {
		pos[v] = i
	}
	codes := make([]int, len(values))
	for i, v := range values {
		if v == "" {
			codes[i] = -1
			continue
		}
		codes[i] = pos[v]
	}
	return codes, categories
}

// EncodeCategorical replaces a categorical column with its categorical codes.
func EncodeCategorical(t *Table, column string) (*Table, []string, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, nil, errors.MissingColumn(column)
	}
	if col.IsNumeric() {
		return nil, nil, errors.InvalidInput("column " + column + " is already numeric")
	}
	codes, categories := CategoricalCodes(col.Strings)
	values := make([]float64, len(codes))
	for i, c := range codes {
		values[i] = float64(c)
	}
	out, err := t.WithColumn(NumericColumn(column, values))
	if err != nil {
		return nil, nil, err
	}
	return out, categories, nil
}
