package config

import (
	"os"
	"strconv"
	"strings"

	"cropeda/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Server   ServerConfig
	Output   OutputConfig
	Charts   ChartConfig
	LogLevel string
}

// DataConfig holds the source dataset settings
type DataConfig struct {
	File        string
	PreviewRows int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// OutputConfig holds where the batch pipeline writes its artifacts
type OutputConfig struct {
	Dir string
}

// ChartConfig holds chart rendering settings
type ChartConfig struct {
	WidthIn       float64
	HeightIn      float64
	HistogramBins int
}

// DefaultDataFile is the dataset path both programs read when nothing else is configured.
const DefaultDataFile = "Dataset/Crop_recommendation.csv"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:     *loadDataConfig(),
		Server:   *loadServerConfig(),
		Output:   *loadOutputConfig(),
		Charts:   *loadChartConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:        getEnvOrDefault("CROP_DATA_FILE", DefaultDataFile),
		PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 5),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadOutputConfig() *OutputConfig {
	return &OutputConfig{
		Dir: getEnvOrDefault("OUTPUT_DIR", "output"),
	}
}

func loadChartConfig() *ChartConfig {
	return &ChartConfig{
		WidthIn:       getEnvFloatOrDefault("CHART_WIDTH_IN", 6),
		HeightIn:      getEnvFloatOrDefault("CHART_HEIGHT_IN", 4),
		HistogramBins: getEnvIntOrDefault("HISTOGRAM_BINS", 20),
	}
}

// Validate checks the values flags or the environment may have broken
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.File) == "" {
		return errors.ConfigInvalid("data file is required")
	}
	if c.Data.PreviewRows < 1 {
		return errors.ConfigInvalid("preview rows must be positive")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return errors.ConfigInvalid("port must be numeric")
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if c.Charts.WidthIn <= 0 || c.Charts.HeightIn <= 0 {
		return errors.ConfigInvalid("chart dimensions must be positive")
	}
	if c.Charts.HistogramBins < 1 {
		return errors.ConfigInvalid("histogram bins must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
