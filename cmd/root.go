package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/shopstats-cli/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	headColor = color.New(color.FgCyan, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:   "shopstats",
	Short: "shopstats: descriptive statistics and charts for e-commerce product data",
	Long: `shopstats loads a delimited product dataset (ratings, reviews, brands, sales,
discounts) and produces a descriptive summary, aggregate tables, and a fixed set
of charts written as PNG or SVG files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errColor.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.shopstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	// .env is optional; SHOPSTATS_* values in it feed the env layer of Load.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		warnf("failed to load .env: %v", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal for read-only commands; currentConfig supplies defaults.
		// cfg stays nil so config set refuses to overwrite the file.
		warnf("failed to load config: %v", err)
		cfg = nil
		return
	}
	cfg = c
	debugf("config: charts_dir=%s format=%s bins=%d", cfg.ChartsDir, cfg.ChartFormat, cfg.HistogramBins)
}

// currentConfig returns the loaded configuration, or the defaults when it
// could not be loaded.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}

func success(w io.Writer, format string, a ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", a...)
}

func warnf(format string, a ...any) {
	warnColor.Fprintf(os.Stderr, "⚠ Warning: "+format+"\n", a...)
}

func debugf(format string, a ...any) {
	if !debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", a...)
}
