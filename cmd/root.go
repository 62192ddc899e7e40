package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/paxsat-cli/internal/config"
	"github.com/KaramelBytes/paxsat-cli/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Diagnostics go to stderr; user-facing output goes to stdout.
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:   "paxsat",
	Short: "paxsat: airline passenger satisfaction analytics",
	Long: `paxsat loads passenger survey or flight satisfaction tables (CSV, TSV, XLSX),
checks them against a schema contract, cleans them, and runs regression,
clustering and grouped reports over the result.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.paxsat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	// A .env in the working directory may carry PAXSAT_* overrides.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to read .env: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	l, err := logging.New(os.Stderr, cfg.LogLevel, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		return
	}
	logger = l
	logger.Debug("config loaded", slog.String("schema", cfg.Schema), slog.String("config", cfgFile))
}
