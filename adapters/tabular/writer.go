package tabular

import (
	"bytes"
	"encoding/csv"
	"io"

	"cropeda/domain/dataset"
	"cropeda/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Export artifact names and MIME types
const (
	ExportCSVName  = "final_crop_dataset.csv"
	ExportXLSXName = "final_crop_dataset.xlsx"
	CSVMIMEType    = "text/csv"
	XLSXMIMEType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteCSV writes the header and rows without an index column. Missing cells
// are written empty; numbers are written at full precision.
func WriteCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return errors.Wrap(err, "failed to write CSV")
	}
	return nil
}

// EncodeCSV returns the CSV bytes of t
func EncodeCSV(t *dataset.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX writes t to the first sheet of a new workbook. Numbers are stored as
// numeric cells and missing cells are left blank.
func WriteXLSX(w io.Writer, t *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, 0, t.Cols())
	for _, name := range t.Names() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write XLSX header")
	}

	cols := t.Columns()
	for i := 0; i < t.Rows(); i++ {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			switch {
			case c.IsMissing(i):
				row[j] = nil
			case c.IsNumeric():
				row[j] = c.Numbers[i]
			default:
				row[j] = c.Strings[i]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to address XLSX row")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write XLSX row %d", i+1)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "failed to write XLSX")
	}
	return nil
}

// EncodeXLSX returns the workbook bytes of t
func EncodeXLSX(t *dataset.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
