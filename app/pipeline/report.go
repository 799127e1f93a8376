package pipeline

import (
	"fmt"
	"strings"

	"cropeda/adapters/stats"
	"cropeda/domain/dataset"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// report accumulates a Markdown summary of a run, one section per stage
type report struct {
	sections []string
}

func newReport() *report {
	return &report{}
}

func (r *report) add(title, body string) {
	r.sections = append(r.sections, fmt.Sprintf("## %s\n\n%s\n", title, strings.TrimRight(body, "\n")))
}

func (r *report) shape(rows, cols int) {
	r.add("Dataset", fmt.Sprintf("%d rows and %d columns were loaded.", rows, cols))
}

func (r *report) missing(counts []dataset.ColumnCount) {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Column, fmt.Sprint(c.Count)}
	}
	r.add("Missing values", mdTable([]string{"Column", "Missing"}, rows))
}

func (r *report) imputations(imps []stats.Imputation) {
	if len(imps) == 0 {
		r.add("Imputation", "No numeric column had missing values.")
		return
	}
	rows := make([][]string, len(imps))
	for i, imp := range imps {
		median := formatStat(imp.Value)
		if imp.Skipped {
			median = "no values, left missing"
		}
		rows[i] = []string{imp.Column, fmt.Sprint(imp.Filled), median}
	}
	r.add("Imputation", mdTable([]string{"Column", "Filled", "Median"}, rows))
}

func (r *report) duplicates(dropped, remaining int) {
	r.add("Duplicates", fmt.Sprintf("%d duplicate rows were removed, %d rows remain.", dropped, remaining))
}

func (r *report) describe(summaries []stats.Summary, columns []string) {
	header, rows := describeGrid(summaries)
	body := mdTable(header, rows) + "\nColumns: " + strings.Join(columns, ", ")
	r.add("Statistics", body)
}

func (r *report) chart(title, file string) {
	r.add(title, fmt.Sprintf("![%s](%s)", title, file))
}

func (r *report) categories(categories []string) {
	rows := make([][]string, len(categories))
	for i, c := range categories {
		rows[i] = []string{fmt.Sprint(i), c}
	}
	r.add("Label encoding", mdTable([]string{"Code", "Label"}, rows))
}

func (r *report) scaler(s *stats.StandardScaler) {
	rows := make([][]string, len(s.Columns))
	for i, c := range s.Columns {
		rows[i] = []string{c, formatStat(s.Means[i]), formatStat(s.Scales[i])}
	}
	r.add("Scaling", mdTable([]string{"Column", "Mean", "Scale"}, rows))
}

func (r *report) final(t *dataset.Table, n int) {
	head := t.Head(n)
	rows := make([][]string, head.Rows())
	for i := range rows {
		rows[i] = head.DisplayRow(i)
	}
	r.add("Final preview", mdTable(head.Names(), rows))
}

func (r *report) markdown(runID string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Crop recommendation analysis\n\nRun `%s`\n\n", runID)
	b.WriteString(strings.Join(r.sections, "\n"))
	return []byte(b.String())
}

func mdTable(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

// renderHTML converts the Markdown report into a standalone page
func renderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Crop recommendation analysis",
	})
	return markdown.Render(doc, renderer)
}
