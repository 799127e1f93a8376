package main

import (
	"log"

	"cropeda/adapters/charts"
	"cropeda/adapters/tabular"
	"cropeda/app/dashboard"
	"cropeda/internal"
	"cropeda/internal/config"
	"cropeda/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))
	logger := internal.DefaultLogger.With("Main")

	table, err := tabular.NewDataReader(appConfig.Data.File).ReadTable()
	if err != nil {
		log.Fatalf("Failed to load dataset %s: %v", appConfig.Data.File, err)
	}
	rows, cols := table.Shape()
	logger.Info("Loaded %s (%d rows, %d columns)", appConfig.Data.File, rows, cols)

	renderer := charts.NewRenderer(charts.InchOptions(appConfig.Charts.WidthIn, appConfig.Charts.HeightIn, appConfig.Charts.HistogramBins))
	dispatcher := dashboard.NewDispatcher(renderer, appConfig.Data.PreviewRows)
	session := dashboard.NewSession(table, dispatcher)

	server, err := ui.NewServer(session, appConfig.Server.GinMode)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
