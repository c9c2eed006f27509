// Package config provides configuration types and defaults for gridline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/gridline/internal/log"
)

// Config holds all configuration options for gridline.
type Config struct {
	Dataset     DatasetConfig `mapstructure:"dataset"`
	Grid        GridConfig    `mapstructure:"grid"`
	UI          UIConfig      `mapstructure:"ui"`
	AutoRefresh bool          `mapstructure:"auto_refresh"`
	Tracing     TracingConfig `mapstructure:"tracing"`
}

// DatasetConfig selects and locates the row source.
type DatasetConfig struct {
	// Source selects the backing store.
	// Valid values: "synthetic" (default), "sqlite"
	Source string `mapstructure:"source"`

	// DBPath is the dataset database path (required when source=sqlite).
	DBPath string `mapstructure:"db_path"`

	// Rows is the row count for the synthetic source. For sqlite the
	// count is read from the database instead.
	Rows int64 `mapstructure:"rows"`

	// Columns is the column count for the synthetic source.
	Columns int64 `mapstructure:"columns"`
}

// GridConfig holds the viewport geometry options.
type GridConfig struct {
	CellWidth    float64 `mapstructure:"cell_width"`
	CellHeight   float64 `mapstructure:"cell_height"`
	HeaderHeight float64 `mapstructure:"header_height"`

	// SegmentSize is the row loading granularity.
	SegmentSize int64 `mapstructure:"segment_size"`

	// MaxSafeRowIndex overrides the hard row ceiling. Zero keeps the
	// built-in default of two billion.
	MaxSafeRowIndex int64 `mapstructure:"max_safe_row_index"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// TracingConfig holds trace export configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/gridline/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/gridline/traces/traces.jsonl or empty string if home
// dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gridline", "traces", "traces.jsonl")
}

// DefaultDBPath returns the default dataset database path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gridline", "gridline.db")
}

// Defaults returns a Config with sensible default values. The pixel
// geometry matches an 8x20 terminal cell scale, so the thumb size floor
// lands on exactly one terminal row.
func Defaults() Config {
	return Config{
		Dataset: DatasetConfig{
			Source:  "synthetic",
			Rows:    1_000_000_000,
			Columns: 20,
		},
		Grid: GridConfig{
			CellWidth:    96,
			CellHeight:   20,
			HeaderHeight: 20,
			SegmentSize:  100,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
		},
		AutoRefresh: true,
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the configuration for errors.
func Validate(cfg Config) error {
	if err := ValidateDataset(cfg.Dataset); err != nil {
		return err
	}
	if err := ValidateGrid(cfg.Grid); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateDataset checks dataset configuration for errors.
func ValidateDataset(ds DatasetConfig) error {
	switch ds.Source {
	case "", "synthetic", "sqlite":
		// Valid
	default:
		return fmt.Errorf("dataset.source must be \"synthetic\" or \"sqlite\", got %q", ds.Source)
	}
	if ds.Source == "sqlite" && ds.DBPath == "" {
		return fmt.Errorf("dataset.db_path is required when source is \"sqlite\"")
	}
	if ds.Rows < 0 {
		return fmt.Errorf("dataset.rows must not be negative, got %d", ds.Rows)
	}
	if ds.Columns < 0 {
		return fmt.Errorf("dataset.columns must not be negative, got %d", ds.Columns)
	}
	return nil
}

// ValidateGrid checks grid geometry configuration for errors.
// Zero values are valid and fall back to defaults.
func ValidateGrid(g GridConfig) error {
	if g.CellWidth < 0 || g.CellHeight < 0 || g.HeaderHeight < 0 {
		return fmt.Errorf("grid cell sizes must not be negative")
	}
	if g.SegmentSize < 0 {
		return fmt.Errorf("grid.segment_size must not be negative, got %d", g.SegmentSize)
	}
	if g.MaxSafeRowIndex < 0 {
		return fmt.Errorf("grid.max_safe_row_index must not be negative, got %d", g.MaxSafeRowIndex)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Gridline Configuration

# Dataset settings
dataset:
  # Backing store: "synthetic" (default) or "sqlite"
  source: synthetic

  # Path to the dataset database (required when source: sqlite)
  # db_path: ~/.config/gridline/gridline.db

  # Synthetic dataset shape (ignored for sqlite)
  rows: 1000000000
  columns: 20

# Grid geometry in pixels. Defaults map one terminal cell to 8x20 pixels.
grid:
  cell_width: 96
  cell_height: 20
  header_height: 20

  # Rows loaded per segment
  segment_size: 100

  # Hard row ceiling; rows beyond it are never requested
  # max_safe_row_index: 2000000000

# UI settings
ui:
  show_status_bar: true   # Show status bar at bottom
  # markdown_style: dark  # Help rendering style: "dark" (default) or "light"

# Auto-refresh when the dataset database changes
auto_refresh: true

# Trace export configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/gridline/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
