package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/vibe-cli/internal/config"
	"github.com/kamusis/vibe-cli/internal/logging"
	"github.com/kamusis/vibe-cli/internal/metrics"
)

var (
	flagLogLevel    string
	flagLogFormat   string
	flagMetricsFile string
)

var rootCmd = &cobra.Command{
	Use:          "vibe",
	Short:        "Vibe CLI: lay out mood anchors on a plane and route compositions to sub-vibes",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `Vibe places a small graph of mood anchors on a 2-D manifold, embeds
derived sub-vibes as weighted blends of those anchors, and routes classifier
output to the nearest sub-vibe. State lives under ~/.vibe/ (or $VIBE_HOME).`,
	PersistentPostRunE: writeMetrics,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from vibe.yaml, else info)")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json (default from vibe.yaml, else text)")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile when the command finishes")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads vibe.yaml with the usual hint on failure.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w\nRun 'vibe init' first.", err)
	}
	return cfg, nil
}

// newLogger resolves flags over vibe.yaml. cfg may be nil.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	level, format := flagLogLevel, flagLogFormat
	if cfg != nil {
		if level == "" {
			level = cfg.LogLevel
		}
		if format == "" {
			format = cfg.LogFormat
		}
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, lvl, format)
}

func writeMetrics(_ *cobra.Command, _ []string) error {
	if flagMetricsFile == "" {
		return nil
	}
	path, err := config.ExpandPath(flagMetricsFile)
	if err != nil {
		return err
	}
	if err := metrics.DefaultRegistry().WriteTextfile(path); err != nil {
		return fmt.Errorf("cannot write metrics to %s: %w", path, err)
	}
	return nil
}
