package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"cropeda/adapters/charts"
	"cropeda/app/pipeline"
	"cropeda/internal"
	"cropeda/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dataFile    string
		outDir      string
		processed   string
		report      bool
		previewRows int
	)

	cmd := &cobra.Command{
		Use:   "crop-pipeline",
		Short: "Run the crop recommendation EDA pipeline",
		Long: `Load the crop recommendation dataset, clean it, describe it, draw the
summary charts, encode the label and scale the climate features.

Flags override the environment (CROP_DATA_FILE, OUTPUT_DIR, PREVIEW_ROWS).

Example: crop-pipeline --data Dataset/Crop_recommendation.csv --out-dir output --report`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			appConfig, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("data") {
				appConfig.Data.File = dataFile
			}
			if flags.Changed("out-dir") {
				appConfig.Output.Dir = outDir
			}
			if flags.Changed("preview-rows") {
				appConfig.Data.PreviewRows = previewRows
			}
			if err := appConfig.Validate(); err != nil {
				return err
			}
			internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))

			opts := pipeline.Options{
				DataFile:      appConfig.Data.File,
				OutputDir:     appConfig.Output.Dir,
				ProcessedFile: processed,
				Report:        report,
				PreviewRows:   appConfig.Data.PreviewRows,
				Charts:        charts.InchOptions(appConfig.Charts.WidthIn, appConfig.Charts.HeightIn, appConfig.Charts.HistogramBins),
			}

			result, err := pipeline.NewRunner(opts, cmd.OutOrStdout()).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "run %s finished: %d rows, %d artifacts\n", result.RunID, result.Final.Rows(), len(result.Artifacts))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", config.DefaultDataFile, "dataset file (.csv, .tsv or .xlsx)")
	cmd.Flags().StringVar(&outDir, "out-dir", "output", "directory for charts and reports")
	cmd.Flags().StringVar(&processed, "processed", "", "also write the final table to this CSV file")
	cmd.Flags().BoolVar(&report, "report", false, "write a Markdown and HTML report")
	cmd.Flags().IntVar(&previewRows, "preview-rows", 5, "rows shown in head and tail previews")

	return cmd
}
