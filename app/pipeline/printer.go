package pipeline

import (
	"fmt"
	"io"
	"strconv"

	"cropeda/adapters/stats"
	"cropeda/domain/dataset"

	"github.com/olekukonko/tablewriter"
)

// printer writes pipeline sections to the console as aligned tables
type printer struct {
	out io.Writer
}

func (p *printer) section(title string) {
	fmt.Fprintf(p.out, "\n%s\n", title)
}

func (p *printer) line(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) grid(header []string, rows [][]string) {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(rows)
	table.Render()
}

// frame prints t with a leading row position column starting at offset
func (p *printer) frame(t *dataset.Table, offset int) {
	header := append([]string{""}, t.Names()...)
	rows := make([][]string, t.Rows())
	for i := range rows {
		rows[i] = append([]string{strconv.Itoa(offset + i)}, t.DisplayRow(i)...)
	}
	p.grid(header, rows)
}

func (p *printer) info(t *dataset.Table) {
	rows, cols := t.Shape()
	p.line("%d entries, %d columns", rows, cols)
	schema := dataset.Schema(t)
	out := make([][]string, len(schema))
	for i, f := range schema {
		out[i] = []string{strconv.Itoa(i), f.Name, fmt.Sprintf("%d non-null", f.NonNull), f.DType}
	}
	p.grid([]string{"#", "Column", "Non-Null Count", "Dtype"}, out)
}

func (p *printer) counts(header string, counts []dataset.ColumnCount) {
	out := make([][]string, len(counts))
	for i, c := range counts {
		out[i] = []string{c.Column, strconv.Itoa(c.Count)}
	}
	p.grid([]string{"Column", header}, out)
}

func (p *printer) describe(summaries []stats.Summary) {
	header, rows := describeGrid(summaries)
	p.grid(header, rows)
}

// describeGrid lays summaries out with one row per statistic and one column
// per feature.
func describeGrid(summaries []stats.Summary) ([]string, [][]string) {
	header := []string{""}
	for _, s := range summaries {
		header = append(header, s.Column)
	}
	rows := make([][]string, len(stats.SummaryLabels))
	for i, label := range stats.SummaryLabels {
		row := []string{label}
		for _, s := range summaries {
			row = append(row, formatStat(s.Values()[i]))
		}
		rows[i] = row
	}
	return header, rows
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
