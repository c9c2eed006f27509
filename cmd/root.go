// Package cmd wires the command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/gridline/internal/app"
	"github.com/zjrosen/gridline/internal/config"
	"github.com/zjrosen/gridline/internal/data"
	"github.com/zjrosen/gridline/internal/log"
	"github.com/zjrosen/gridline/internal/tracing"
	"github.com/zjrosen/gridline/internal/ui/gridview"
	"github.com/zjrosen/gridline/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "gridline",
	Short:   "A terminal viewer for billion-row datasets",
	Long:    `A terminal grid viewer that scrolls datasets of up to a billion rows with pixel-exact scrollbar geometry, loading only the rows in view.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/gridline/config.yaml)")
	rootCmd.Flags().String("db", "",
		"path to a sqlite dataset (implies dataset.source=sqlite)")
	rootCmd.Flags().Int64("rows", 0,
		"synthetic dataset row count")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic refresh when the dataset database changes")

	// Bind flags to viper
	_ = viper.BindPFlag("dataset.db_path", rootCmd.Flags().Lookup("db"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("dataset.source", defaults.Dataset.Source)
	viper.SetDefault("dataset.rows", defaults.Dataset.Rows)
	viper.SetDefault("dataset.columns", defaults.Dataset.Columns)
	viper.SetDefault("grid.cell_width", defaults.Grid.CellWidth)
	viper.SetDefault("grid.cell_height", defaults.Grid.CellHeight)
	viper.SetDefault("grid.header_height", defaults.Grid.HeaderHeight)
	viper.SetDefault("grid.segment_size", defaults.Grid.SegmentSize)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .gridline/config.yaml (current directory)
		// 2. ~/.config/gridline/config.yaml (user config)
		if _, err := os.Stat(".gridline/config.yaml"); err == nil {
			viper.SetConfigFile(".gridline/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "gridline"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create a commented default
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, homeErr := os.UserHomeDir()
			if homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "gridline", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if os.Getenv("GRIDLINE_DEBUG") != "" || debugFlag {
		home, err := os.UserHomeDir()
		if err == nil {
			dir := filepath.Join(home, ".config", "gridline")
			if mkErr := os.MkdirAll(dir, 0o750); mkErr == nil {
				cleanup, logErr := log.Init(filepath.Join(dir, "gridline.log"))
				if logErr == nil {
					defer cleanup()
				}
			}
		}
	}

	// A --db flag means the user wants the sqlite source even when the
	// config file says otherwise.
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Dataset.Source = "sqlite"
		cfg.Dataset.DBPath = db
	}
	if rows, _ := cmd.Flags().GetInt64("rows"); rows > 0 {
		cfg.Dataset.Rows = rows
	}
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Persist a --db override so the next plain `gridline` run reopens
	// the same dataset. Other sections of the file keep their comments.
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		if path := viper.ConfigFileUsed(); path != "" {
			if saveErr := config.SaveDataset(path, cfg.Dataset); saveErr != nil {
				log.ErrorErr(log.CatConfig, "saving dataset config", saveErr)
			}
		}
	}

	tcfg := tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	}
	if tcfg.Enabled && tcfg.Exporter == "file" && tcfg.FilePath == "" {
		tcfg.FilePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tcfg)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	source, rows, dbClose, err := openSource(cfg.Dataset)
	if err != nil {
		return err
	}
	if dbClose != nil {
		defer dbClose()
	}

	// The watcher only makes sense for a file-backed dataset.
	var changes <-chan struct{}
	if cfg.AutoRefresh && cfg.Dataset.Source == "sqlite" {
		w, watchErr := watcher.New(watcher.DefaultConfig(cfg.Dataset.DBPath))
		if watchErr != nil {
			log.ErrorErr(log.CatWatcher, "watcher unavailable", watchErr)
		} else if ch, startErr := w.Start(); startErr != nil {
			log.ErrorErr(log.CatWatcher, "watcher failed to start", startErr)
		} else {
			changes = ch
			defer func() { _ = w.Stop() }()
		}
	}

	zone.NewGlobal()

	model, err := gridview.New(cfg, source, rows, changes)
	if err != nil {
		return fmt.Errorf("building viewer: %w", err)
	}

	p := tea.NewProgram(
		app.New(model),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openSource builds the configured row source. For sqlite the row count
// comes from the database; the returned closer releases the connection.
func openSource(ds config.DatasetConfig) (data.RowSource, int64, func(), error) {
	if ds.Source == "sqlite" {
		db, err := data.NewDB(ds.DBPath)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("opening dataset: %w", err)
		}
		src := data.NewSQLiteSource(db)
		rows, err := src.CountRows()
		if err != nil {
			_ = db.Close()
			return nil, 0, nil, fmt.Errorf("counting rows: %w", err)
		}
		return src, rows, func() { _ = db.Close() }, nil
	}
	return data.NewSyntheticSource(ds.Columns), ds.Rows, nil, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
