package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cropeda/adapters/charts"
	"cropeda/adapters/stats"
	"cropeda/adapters/tabular"
	"cropeda/domain/dataset"
	"cropeda/internal"
	"cropeda/internal/errors"

	"github.com/google/uuid"
)

// Chart file names written to the output directory
const (
	LabelChartFile       = "label_distribution.png"
	CorrelationChartFile = "correlation_heatmap.png"
	HistogramChartFile   = "numeric_histograms.png"
	ReportMarkdownFile   = "report.md"
	ReportHTMLFile       = "report.html"
)

// StageName names one step of the batch pipeline
type StageName string

const (
	StageInspect     StageName = "inspect"
	StageMissing     StageName = "missing"
	StageImpute      StageName = "impute"
	StageDeduplicate StageName = "deduplicate"
	StageDescribe    StageName = "describe"
	StageCharts      StageName = "charts"
	StageEncode      StageName = "encode"
	StageScale       StageName = "scale"
	StageFinal       StageName = "final"
	StageExport      StageName = "export"
)

// Options configure one pipeline run
type Options struct {
	DataFile      string
	OutputDir     string
	ProcessedFile string // optional CSV of the final table
	Report        bool
	PreviewRows   int
	Charts        charts.Options
}

// StageResult records how one stage went
type StageResult struct {
	Name     StageName
	Duration time.Duration
}

// Result is everything a run produced
type Result struct {
	RunID             string
	Raw               *dataset.Table
	Final             *dataset.Table
	Missing           []dataset.ColumnCount
	Imputations       []stats.Imputation
	DuplicatesDropped int
	Summaries         []stats.Summary
	Categories        []string
	Scaler            *stats.StandardScaler
	Artifacts         []string
	Stages            []StageResult
}

type stage struct {
	name StageName
	run  func(ctx context.Context, st *runState) error
}

// runState is threaded through the stages of a single run
type runState struct {
	table  *dataset.Table
	result *Result
	report *report
}

// Runner executes the fixed load, clean, describe, chart, encode, scale sequence
type Runner struct {
	opts     Options
	print    *printer
	renderer *charts.Renderer
	logger   *internal.Logger
}

// NewRunner creates a runner printing to out
func NewRunner(opts Options, out io.Writer) *Runner {
	if opts.PreviewRows < 1 {
		opts.PreviewRows = 5
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	return &Runner{
		opts:     opts,
		print:    &printer{out: out},
		renderer: charts.NewRenderer(opts.Charts),
		logger:   internal.DefaultLogger.With("Pipeline"),
	}
}

// Run loads the configured data file and runs every stage on it
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	table, err := tabular.NewDataReader(r.opts.DataFile).ReadTable()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dataset")
	}
	return r.RunTable(ctx, table)
}

// RunTable runs every stage on an already loaded table. The context is checked
// between stages.
func (r *Runner) RunTable(ctx context.Context, table *dataset.Table) (*Result, error) {
	st := &runState{
		table:  table,
		result: &Result{RunID: uuid.New().String(), Raw: table},
		report: newReport(),
	}
	r.logger.Info("Starting run %s (%d rows)", st.result.RunID, table.Rows())

	for _, s := range r.stages() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "pipeline cancelled before stage %s", s.name)
		}
		start := time.Now()
		if err := s.run(ctx, st); err != nil {
			r.logger.Error("Stage %s failed: %v", s.name, err)
			return nil, errors.Wrapf(err, "stage %s failed", s.name)
		}
		elapsed := time.Since(start)
		st.result.Stages = append(st.result.Stages, StageResult{Name: s.name, Duration: elapsed})
		r.logger.Debug("Stage %s completed in %.2fms", s.name, float64(elapsed.Nanoseconds())/1e6)
	}

	st.result.Final = st.table
	r.logger.Info("Run %s finished with %d artifacts", st.result.RunID, len(st.result.Artifacts))
	return st.result, nil
}

func (r *Runner) stages() []stage {
	return []stage{
		{StageInspect, r.inspect},
		{StageMissing, r.missing},
		{StageImpute, r.impute},
		{StageDeduplicate, r.deduplicate},
		{StageDescribe, r.describe},
		{StageCharts, r.renderCharts},
		{StageEncode, r.encode},
		{StageScale, r.scale},
		{StageFinal, r.final},
		{StageExport, r.export},
	}
}

func (r *Runner) inspect(_ context.Context, st *runState) error {
	n := r.opts.PreviewRows
	r.print.section(fmt.Sprintf("First %d rows of the dataset:", n))
	r.print.frame(st.table.Head(n), 0)

	tail := st.table.Tail(n)
	r.print.section(fmt.Sprintf("Last %d rows of the dataset:", n))
	r.print.frame(tail, st.table.Rows()-tail.Rows())

	rows, cols := st.table.Shape()
	r.print.section("Shape of the dataset:")
	r.print.line("(%d, %d)", rows, cols)

	r.print.section("Dataset Information:")
	r.print.info(st.table)

	st.report.shape(rows, cols)
	return nil
}

func (r *Runner) missing(_ context.Context, st *runState) error {
	st.result.Missing = dataset.MissingCounts(st.table)
	r.print.section("Checking for missing values:")
	r.print.counts("Missing", st.result.Missing)
	st.report.missing(st.result.Missing)
	return nil
}

func (r *Runner) impute(_ context.Context, st *runState) error {
	filled, imputations, err := stats.FillMedian(st.table)
	if err != nil {
		return err
	}
	st.table = filled
	st.result.Imputations = imputations
	r.print.section("Missing values handled by filling with median.")
	for _, imp := range imputations {
		if imp.Skipped {
			r.logger.Warn("Column %s has no values; left missing", imp.Column)
			r.print.line("%s: no values, left missing", imp.Column)
			continue
		}
		r.print.line("%s: %d filled with %s", imp.Column, imp.Filled, formatStat(imp.Value))
	}
	st.report.imputations(imputations)
	return nil
}

func (r *Runner) deduplicate(_ context.Context, st *runState) error {
	dups := dataset.DuplicateCount(st.table)
	r.print.section("Checking for duplicated values:")
	r.print.line("%d", dups)

	st.table = dataset.DropDuplicates(st.table)
	st.result.DuplicatesDropped = dups
	r.print.section("Duplicate rows removed.")
	st.report.duplicates(dups, st.table.Rows())
	return nil
}

func (r *Runner) describe(_ context.Context, st *runState) error {
	st.result.Summaries = stats.Describe(st.table)
	r.print.section("Dataset Statistics:")
	r.print.describe(st.result.Summaries)

	r.print.section("Columns in the dataset:")
	r.print.line("%s", strings.Join(st.table.Names(), ", "))
	st.report.describe(st.result.Summaries, st.table.Names())
	return nil
}

func (r *Runner) renderCharts(ctx context.Context, st *runState) error {
	labels, err := dataset.UniqueValues(st.table, dataset.LabelColumn)
	if err != nil {
		return err
	}
	counts, err := dataset.ValueCounts(st.table, dataset.LabelColumn)
	if err != nil {
		return err
	}
	byLabel := make(map[string]int, len(counts))
	for _, c := range counts {
		byLabel[c.Value] = c.Count
	}
	ordered := make([]int, len(labels))
	for i, l := range labels {
		ordered[i] = byLabel[l]
	}

	var rendered []charts.Chart
	countChart, err := r.renderer.CountPlot(dataset.LabelColumn, labels, ordered)
	if err != nil {
		return err
	}
	rendered = append(rendered, countChart)

	heatmap, err := r.renderer.Heatmap("Correlation Heatmap", stats.Correlation(st.table))
	if err != nil {
		return err
	}
	rendered = append(rendered, heatmap)

	series := make([]charts.Series, 0, len(stats.ScaledColumns))
	for _, name := range stats.ScaledColumns {
		col, ok := st.table.Column(name)
		if !ok {
			return errors.MissingColumn(name)
		}
		series = append(series, charts.Series{Name: name, Values: col.Numbers, Fill: "skyblue"})
	}
	grid, err := r.renderer.HistogramGrid("Histograms of Numerical Columns", series, 2)
	if err != nil {
		return err
	}
	rendered = append(rendered, grid)

	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	for i, name := range []string{LabelChartFile, CorrelationChartFile, HistogramChartFile} {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(r.opts.OutputDir, name)
		if err := os.WriteFile(path, rendered[i].PNG, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write chart %s", name)
		}
		st.result.Artifacts = append(st.result.Artifacts, path)
		st.report.chart(rendered[i].Title, name)
		r.logger.Info("Wrote %s", path)
	}
	return nil
}

func (r *Runner) encode(_ context.Context, st *runState) error {
	encoded, categories, err := dataset.EncodeCategorical(st.table, dataset.LabelColumn)
	if err != nil {
		return err
	}
	st.table = encoded
	st.result.Categories = categories
	r.print.section("Encoded 'label' column.")
	st.report.categories(categories)
	return nil
}

func (r *Runner) scale(_ context.Context, st *runState) error {
	scaled, scaler, err := stats.FitTransform(st.table, stats.ScaledColumns)
	if err != nil {
		return err
	}
	st.table = scaled
	st.result.Scaler = scaler
	r.print.section("Numerical features scaled.")
	st.report.scaler(scaler)
	return nil
}

func (r *Runner) final(_ context.Context, st *runState) error {
	r.print.section("Final dataset preview:")
	r.print.frame(st.table.Head(r.opts.PreviewRows), 0)
	return nil
}

func (r *Runner) export(_ context.Context, st *runState) error {
	if r.opts.ProcessedFile != "" {
		f, err := os.Create(r.opts.ProcessedFile)
		if err != nil {
			return errors.Wrap(err, "failed to create processed file")
		}
		werr := tabular.WriteCSV(f, st.table)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return errors.Wrap(werr, "failed to write processed file")
		}
		st.result.Artifacts = append(st.result.Artifacts, r.opts.ProcessedFile)
		r.logger.Info("Wrote %s", r.opts.ProcessedFile)
	}

	if !r.opts.Report {
		return nil
	}
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	st.report.final(st.table, r.opts.PreviewRows)
	md := st.report.markdown(st.result.RunID)
	mdPath := filepath.Join(r.opts.OutputDir, ReportMarkdownFile)
	if err := os.WriteFile(mdPath, md, 0o644); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	htmlPath := filepath.Join(r.opts.OutputDir, ReportHTMLFile)
	if err := os.WriteFile(htmlPath, renderHTML(md), 0o644); err != nil {
		return errors.Wrap(err, "failed to write HTML report")
	}
	st.result.Artifacts = append(st.result.Artifacts, mdPath, htmlPath)
	return nil
}
