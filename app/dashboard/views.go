package dashboard

import (
	"fmt"
	"strconv"

	"cropeda/adapters/stats"
	"cropeda/adapters/tabular"
	"cropeda/domain/dataset"
	"cropeda/internal/errors"

	mfstats "github.com/montanaflynn/stats"
)

// Control keys read by the views
const (
	KeyPreview    = "overview_preview"
	KeyInfo       = "overview_info"
	KeyMissing    = "overview_missing"
	KeyDuplicates = "overview_duplicates"

	KeyDescribe    = "stats_describe"
	KeyLabelCounts = "stats_label_counts"
	KeyCorrelation = "stats_correlation"

	KeyHistogram     = "viz_hist"
	KeyScatter       = "viz_scatter"
	KeyBoxplot       = "viz_box"
	KeyHeatmap       = "viz_heatmap"
	KeyViolin        = "viz_violin"
	KeyBarplot       = "viz_bar"
	KeyHistFeature   = "viz_hist_feature"
	KeyScatterX      = "viz_scatter_x"
	KeyScatterY      = "viz_scatter_y"
	KeyBoxFeature    = "viz_box_feature"
	KeyViolinFeature = "viz_violin_feature"
	KeyBarFeature    = "viz_bar_feature"

	KeyEncode        = "filter_encode"
	KeyCrop          = "filter_crop"
	KeyPlotKind      = "filter_plot_kind"
	KeyFilterFeature = "filter_feature"
	KeyFilterX       = "filter_x"
	KeyFilterY       = "filter_y"

	KeyFinalPreview = "download_preview"
	KeyExport       = "download_export"
)

// Plot kinds offered by the Filter view
const (
	PlotHistogram = "Histogram"
	PlotBoxplot   = "Boxplot"
	PlotScatter   = "Scatterplot"
)

// PlotKinds lists the Filter view plot kinds, default first
var PlotKinds = []string{PlotHistogram, PlotBoxplot, PlotScatter}

// Export formats offered by the Download view
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var overviewToggles = []toggle{
	{KeyPreview, "Show dataset preview", func(p *pass) error {
		p.page.frame("Dataset preview", p.data.Table.Head(p.preview), 0)
		return nil
	}},
	{KeyInfo, "Show dataset information", func(p *pass) error {
		rows, cols := p.data.Table.Shape()
		p.page.text(fmt.Sprintf("%d entries, %d columns", rows, cols))
		schema := dataset.Schema(p.data.Table)
		out := make([][]string, len(schema))
		for i, f := range schema {
			out[i] = []string{strconv.Itoa(i), f.Name, fmt.Sprintf("%d non-null", f.NonNull), f.DType}
		}
		p.page.grid("Dataset information", []string{"#", "Column", "Non-Null Count", "Dtype"}, out)
		return nil
	}},
	{KeyMissing, "Show missing values", func(p *pass) error {
		counts := dataset.MissingCounts(p.data.Table)
		out := make([][]string, len(counts))
		for i, c := range counts {
			out[i] = []string{c.Column, strconv.Itoa(c.Count)}
		}
		p.page.grid("Missing values", []string{"Column", "Missing"}, out)
		return nil
	}},
	{KeyDuplicates, "Show duplicate values", func(p *pass) error {
		p.page.text(fmt.Sprintf("Duplicate rows: %d", dataset.DuplicateCount(p.data.Table)))
		return nil
	}},
}

func renderOverview(p *pass) error {
	p.page.header("Overview of the Dataset")
	return runToggles(p, overviewToggles)
}

var statisticsToggles = []toggle{
	{KeyDescribe, "Show dataset statistics", func(p *pass) error {
		summaries := stats.Describe(p.data.Table)
		header := []string{""}
		for _, s := range summaries {
			header = append(header, s.Column)
		}
		rows := make([][]string, len(stats.SummaryLabels))
		for i, label := range stats.SummaryLabels {
			row := []string{label}
			for _, s := range summaries {
				row = append(row, strconv.FormatFloat(s.Values()[i], 'f', 6, 64))
			}
			rows[i] = row
		}
		p.page.grid("Dataset statistics", header, rows)
		return nil
	}},
	{KeyLabelCounts, "Show target feature distribution", func(p *pass) error {
		counts, err := dataset.ValueCounts(p.data.Table, dataset.LabelColumn)
		if err != nil {
			return err
		}
		rows := make([][]string, len(counts))
		for i, c := range counts {
			rows[i] = []string{c.Value, strconv.Itoa(c.Count)}
		}
		p.page.grid("Target feature distribution", []string{dataset.LabelColumn, "count"}, rows)
		return nil
	}},
}

func renderStatistics(p *pass) error {
	p.page.header("Dataset Statistics")
	if err := runToggles(p, statisticsToggles); err != nil {
		return err
	}
	p.page.add(Block{Kind: BlockList, Title: "Features", Items: p.data.Features})
	return runToggles(p, []toggle{{KeyCorrelation, "Show correlation heatmap", correlationHeatmap}})
}

// correlationHeatmap shows the numeric correlation matrix and its heatmap
func correlationHeatmap(p *pass) error {
	m := p.derived.Correlation()
	header := append([]string{""}, m.Names...)
	rows := make([][]string, m.Size())
	for i, name := range m.Names {
		row := []string{name}
		for j := range m.Names {
			row = append(row, strconv.FormatFloat(m.At(i, j), 'f', 6, 64))
		}
		rows[i] = row
	}
	p.page.grid("Correlation matrix", header, rows)

	c, err := p.renderer.Heatmap("Correlation Heatmap", m)
	if err != nil {
		return err
	}
	p.page.chart(c)
	return nil
}

// numbers looks a plotted feature up among the pass's numeric columns
func numbers(p *pass, name string) ([]float64, error) {
	for _, c := range p.derived.NumericColumns() {
		if c.Name == name {
			return c.Numbers, nil
		}
	}
	if !p.data.Table.HasColumn(name) {
		return nil, errors.MissingColumn(name)
	}
	return nil, errors.InvalidInput("column " + name + " is not numeric")
}

var visualizeTriggers = []trigger{
	{KeyHistogram, "Show Histplot", []selectSpec{{KeyHistFeature, "Select feature for histplot:"}}, func(p *pass, chosen []string) error {
		values, err := numbers(p, chosen[0])
		if err != nil {
			return err
		}
		c, err := p.renderer.Histogram(chosen[0], values, "skyblue")
		if err != nil {
			return err
		}
		p.page.chart(c)
		return nil
	}},
	{KeyScatter, "Show Scatterplot", []selectSpec{{KeyScatterX, "Select X feature for scatterplot:"}, {KeyScatterY, "Select Y feature for scatterplot:"}}, func(p *pass, chosen []string) error {
		xs, err := numbers(p, chosen[0])
		if err != nil {
			return err
		}
		ys, err := numbers(p, chosen[1])
		if err != nil {
			return err
		}
		c, err := p.renderer.Scatter(chosen[0], chosen[1], xs, ys, "salmon")
		if err != nil {
			return err
		}
		p.page.chart(c)
		return nil
	}},
	{KeyBoxplot, "Show Boxplot", []selectSpec{{KeyBoxFeature, "Select feature for boxplot:"}}, func(p *pass, chosen []string) error {
		values, err := numbers(p, chosen[0])
		if err != nil {
			return err
		}
		c, err := p.renderer.Box(chosen[0], values, "lightgreen")
		if err != nil {
			return err
		}
		p.page.chart(c)
		return nil
	}},
	{KeyHeatmap, "Show Heatmap", nil, func(p *pass, _ []string) error {
		return correlationHeatmap(p)
	}},
	{KeyViolin, "Show Violinplot", []selectSpec{{KeyViolinFeature, "Select feature for violinplot:"}}, func(p *pass, chosen []string) error {
		groups, values, err := dataset.GroupNumbers(p.data.Table, dataset.LabelColumn, chosen[0])
		if err != nil {
			return err
		}
		c, err := p.renderer.Violin(chosen[0], dataset.LabelColumn, groups, values, "steelblue")
		if err != nil {
			return err
		}
		p.page.chart(c)
		return nil
	}},
	{KeyBarplot, "Show Barplot", []selectSpec{{KeyBarFeature, "Select feature for barplot:"}}, func(p *pass, chosen []string) error {
		groups, values, err := dataset.GroupNumbers(p.data.Table, dataset.LabelColumn, chosen[0])
		if err != nil {
			return err
		}
		means := make([]float64, len(values))
		for i, v := range values {
			means[i], _ = mfstats.Mean(v)
		}
		c, err := p.renderer.MeanBar(chosen[0], dataset.LabelColumn, groups, means, "lightgreen")
		if err != nil {
			return err
		}
		p.page.chart(c)
		return nil
	}},
}

func renderVisualize(p *pass) error {
	p.page.header("Visualize Features")
	if len(p.data.PlotFeatures) == 0 {
		p.page.text("No numeric features to plot.")
		return nil
	}
	return runTriggers(p, visualizeTriggers)
}

func renderFilter(p *pass) error {
	p.page.header("Filter and Analyze Crop Data")

	working := p.data.Table
	if p.controls.Checkbox(KeyEncode, "Show encoded target labels") {
		encoded, err := dataset.WithFixedCropCodes(working)
		if err != nil {
			return err
		}
		working = encoded
		p.page.frame("Encoded target labels", working.Head(p.preview), 0)
	}

	crops, err := dataset.UniqueValues(working, dataset.LabelColumn)
	if err != nil {
		return err
	}
	choice := p.controls.Select(KeyCrop, "Select a crop to analyze:", crops)
	if choice == "" {
		p.page.text("No crops to analyze.")
		return nil
	}
	filtered, err := dataset.FilterEquals(working, dataset.LabelColumn, choice)
	if err != nil {
		return err
	}
	p.page.frame(fmt.Sprintf("Filtered dataset for %s:", choice), filtered.Head(p.preview), 0)

	kind := p.controls.Select(KeyPlotKind, "Select plot type:", PlotKinds)
	if len(p.data.PlotFeatures) == 0 {
		p.page.text("No numeric features to plot.")
		return nil
	}
	column := func(name string) []float64 {
		c, _ := filtered.Column(name)
		return c.Numbers
	}

	switch kind {
	case PlotHistogram:
		feature := p.controls.Select(KeyFilterFeature, "Select feature for histogram:", p.data.PlotFeatures)
		c, err := p.renderer.Histogram(feature, column(feature), "coral")
		if err != nil {
			return err
		}
		p.page.chart(c)
	case PlotBoxplot:
		feature := p.controls.Select(KeyFilterFeature, "Select feature for boxplot:", p.data.PlotFeatures)
		c, err := p.renderer.Box(feature, column(feature), "plum")
		if err != nil {
			return err
		}
		p.page.chart(c)
	case PlotScatter:
		x := p.controls.Select(KeyFilterX, "Select X feature for scatterplot:", p.data.PlotFeatures)
		y := p.controls.Select(KeyFilterY, "Select Y feature for scatterplot:", p.data.PlotFeatures)
		c, err := p.renderer.Scatter(x, y, column(x), column(y), "mediumvioletred")
		if err != nil {
			return err
		}
		p.page.chart(c)
	}
	return nil
}

func renderDownload(p *pass) error {
	p.page.header("Download the Processed Dataset")

	// the label is dropped from a copy; the session table keeps it
	working, err := p.data.Table.DropColumn(dataset.LabelColumn)
	if err != nil {
		return err
	}

	if p.controls.Checkbox(KeyFinalPreview, "Show final dataset after dropping label") {
		tail := working.Tail(p.preview)
		p.page.frame("Final dataset", tail, working.Rows()-tail.Rows())
	}

	if !p.controls.Checkbox(KeyExport, "Download final dataset") {
		return nil
	}
	csvData, err := tabular.EncodeCSV(working)
	if err != nil {
		return err
	}
	p.page.add(Block{Kind: BlockDownload, Download: &Download{
		Label: "Download CSV", Format: FormatCSV, FileName: tabular.ExportCSVName, MIMEType: tabular.CSVMIMEType, Data: csvData,
	}})
	xlsxData, err := tabular.EncodeXLSX(working)
	if err != nil {
		return err
	}
	p.page.add(Block{Kind: BlockDownload, Download: &Download{
		Label: "Download XLSX", Format: FormatXLSX, FileName: tabular.ExportXLSXName, MIMEType: tabular.XLSXMIMEType, Data: xlsxData,
	}})
	return nil
}
