package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cropeda/domain/dataset"
	"cropeda/internal"
	"cropeda/internal/errors"

	"github.com/xuri/excelize/v2"
)

// missingMarkers are the cell spellings read as missing values
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissingMarker reports whether a raw cell spells a missing value
func IsMissingMarker(cell string) bool {
	_, ok := missingMarkers[strings.TrimSpace(cell)]
	return ok
}

// DataReader handles reading Excel and CSV files into tables
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader, picking the format from the file extension
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := strings.TrimPrefix(ext, ".")
	if ext == ".xls" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: internal.DefaultLogger.With("DataReader")}
}

// ReadTable reads the file into a table
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	r.logger.Info("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv", "tsv", "txt":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.UnsupportedFormat(r.fileType)
	}
}

// readExcelData reads the first sheet of a workbook
func (r *DataReader) readExcelData() (*dataset.Table, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NoData("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	r.logger.Debug("Sheet %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads delimited text
func (r *DataReader) readCSVData() (*dataset.Table, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	delimiter := ','
	if r.fileType == "tsv" {
		delimiter = '\t'
	}
	readStart := time.Now()
	rows, err := readRecords(file, delimiter)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

func (r *DataReader) processRows(rows [][]string) (*dataset.Table, error) {
	table, err := BuildTable(rows)
	if err != nil {
		return nil, err
	}
	rowsN, colsN := table.Shape()
	r.logger.Info("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), colsN, rowsN)
	return table, nil
}

// ReadCSV parses comma separated text with a header row
func ReadCSV(in io.Reader) (*dataset.Table, error) {
	rows, err := readRecords(in, ',')
	if err != nil {
		return nil, err
	}
	return BuildTable(rows)
}

func readRecords(in io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(in)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	return rows, nil
}

// BuildTable converts a header row plus data rows into a typed table. Short rows
// are padded with missing cells. A column is numeric when every non-missing cell
// parses as a number; the label column is always categorical.
func BuildTable(rows [][]string) (*dataset.Table, error) {
	if len(rows) == 0 {
		return nil, errors.NoData("file has no header row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	data := rows[1:]

	cols := make([]*dataset.Column, len(headers))
	for j, name := range headers {
		cells := make([]string, len(data))
		for i, row := range data {
			if j < len(row) {
				cells[i] = strings.TrimSpace(row[j])
			}
		}
		cols[j] = inferColumn(name, cells)
	}
	return dataset.NewTable(cols...)
}

func inferColumn(name string, cells []string) *dataset.Column {
	if name != dataset.LabelColumn {
		if values, ok := parseNumbers(cells); ok {
			return dataset.NumericColumn(name, values)
		}
	}
	values := make([]string, len(cells))
	for i, c := range cells {
		if !IsMissingMarker(c) {
			values[i] = c
		}
	}
	return dataset.CategoricalColumn(name, values)
}

func parseNumbers(cells []string) ([]float64, bool) {
	values := make([]float64, len(cells))
	for i, c := range cells {
		if IsMissingMarker(c) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
