package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/KaramelBytes/datavista-cli/internal/config"
	"github.com/KaramelBytes/datavista-cli/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger is replaced once configuration has been read
	logger = logging.Nop()

	warnColor = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
)

var rootCmd = &cobra.Command{
	Use:   "datavista",
	Short: "DataVista CLI: filter, chart and summarize tabular datasets",
	Long: `DataVista loads CSV, TSV, XLSX or chart JSON datasets into named workspaces,
narrows them with column filters, and reports statistics, trends, outliers and
recurring patterns for every numeric series.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	_ = logging.Sync(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datavista/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: config show/set and init still work on defaults
		warnf("failed to load config: %v", err)
		return
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	lc, err := logging.FromStrings(level, cfg.LogFormat)
	if err != nil {
		warnf("invalid logging config: %v", err)
		return
	}
	lc.Caller = debug
	l, err := logging.New(lc, zapcore.AddSync(os.Stderr))
	if err != nil {
		warnf("failed to build logger: %v", err)
		return
	}
	logger = l
}

// requireConfig returns the loaded configuration, retrying the load so the
// underlying error reaches the user.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

func warnf(format string, args ...any) {
	_, _ = warnColor.Fprintf(os.Stderr, "⚠ Warning: "+format+"\n", args...)
}

func okf(cmd *cobra.Command, format string, args ...any) {
	_, _ = okColor.Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", args...)
}
