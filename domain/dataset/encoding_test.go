package dataset

import (
	"math"
	"testing"

	"cropeda/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedCropCode(t *testing.T) {
	require.Len(t, FixedCrops, 22)

	tests := []struct {
		label string
		code  int
		known bool
	}{
		{"rice", 1, true},
		{"maize", 2, true},
		{"pomegranate", 10, true},
		{"coffee", 22, true},
		{"Rice", 0, false},
		{"quinoa", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				code, known := FixedCropCode(tt.label)
				assert.Equal(t, tt.code, code)
				assert.Equal(t, tt.known, known)
			}
		})
	}
}

func TestWithFixedCropCodes(t *testing.T) {
	tbl, err := NewTable(
		NumericColumn("N", []float64{1, 2, 3}),
		CategoricalColumn(LabelColumn, []string{"coffee", "quinoa", "rice"}),
	)
	require.NoError(t, err)

	out, err := WithFixedCropCodes(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"N", LabelColumn, CropNumberColumn}, out.Names())
	col, _ := out.Column(CropNumberColumn)
	assert.Equal(t, 22.0, col.Numbers[0])
	assert.True(t, math.IsNaN(col.Numbers[1]))
	assert.Equal(t, 1.0, col.Numbers[2])
	assert.Equal(t, "float64", col.DType())
	assert.False(t, tbl.HasColumn(CropNumberColumn), "source table keeps its columns")

	noLabel, _ := tbl.DropColumn(LabelColumn)
	_, err = WithFixedCropCodes(noLabel)
	assert.Equal(t, errors.CodeMissingColumn, errors.GetCode(err))
}

func TestCategoricalCodesSortedOrder(t *testing.T) {
	codes, categories := CategoricalCodes([]string{"rice", "apple", "maize", "rice", ""})

	assert.Equal(t, []string{"apple", "maize", "rice"}, categories)
	assert.Equal(t, []int{2, 0, 1, 2, -1}, codes)
}

func TestEncodingsDiffer(t *testing.T) {
	codes, _ := CategoricalCodes([]string{"rice", "maize"})
	fixedRice, _ := FixedCropCode("rice")

	assert.Equal(t, 1, codes[0])
	assert.Equal(t, 1, fixedRice)
	fixedMaize, _ := FixedCropCode("maize")
	assert.NotEqual(t, codes[1], fixedMaize, "sorted codes and the fixed table are different encodings")
}

func TestEncodeCategorical(t *testing.T) {
	tbl, err := NewTable(CategoricalColumn(LabelColumn, []string{"rice", "apple"}))
	require.NoError(t, err)

	out, categories, err := EncodeCategorical(tbl, LabelColumn)
	require.NoError(t, err)

	col, _ := out.Column(LabelColumn)
	assert.Equal(t, []float64{1, 0}, col.Numbers)
	assert.Equal(t, "int64", col.DType())
	assert.Equal(t, []string{"apple", "rice"}, categories)

	_, _, err = EncodeCategorical(out, LabelColumn)
	assert.Error(t, err)
}
