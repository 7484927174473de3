package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shopstats-cli/internal/charts"
	"github.com/KaramelBytes/shopstats-cli/internal/utils"
)

var (
	chLoad   loadFlags
	chOut    string
	chFormat string
	chWidth  int
	chHeight int
	chBins   int
	chQuiet  bool
)

var chartsCmd = &cobra.Command{
	Use:   "charts <file>",
	Short: "Render the chart suite (histogram, scatter, heatmap, bar, pie, density, regression)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		formatName := c.ChartFormat
		if chFormat != "" {
			formatName = chFormat
		}
		format, err := charts.ParseFormat(formatName)
		if err != nil {
			return err
		}

		t, err := loadTable(args[0], chLoad)
		if err != nil {
			return err
		}

		opt := charts.SuiteOptionsFromConfig(c, format)
		if chWidth > 0 {
			opt.Chart.Width = chWidth
		}
		if chHeight > 0 {
			opt.Chart.Height = chHeight
		}
		if chBins > 0 {
			opt.Bins = chBins
		}

		outDir := chOut
		if outDir == "" {
			base := c.ChartsDir
			if base == "" {
				base = "charts"
			}
			outDir = filepath.Join(base, uuid.NewString())
		}
		if outDir, err = utils.ExpandHome(outDir); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		suite := charts.NewSuite(t, opt)
		debugf("charts: %s", strings.Join(suite.Names(), ", "))
		if !chQuiet {
			fmt.Fprintf(out, "Rendering %d charts for %s (%d rows) into %s\n", suite.Len(), t.Name(), t.Len(), outDir)
		}
		written := 0
		_, err = suite.Run(outDir, func(total int, r charts.Result) {
			if r.Skipped {
				if !chQuiet {
					fmt.Fprintf(out, "[%d/%d] %s skipped\n", r.Index, total, r.Name)
				}
				warnColor.Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", r.Note)
				return
			}
			written++
			if !chQuiet {
				fmt.Fprintf(out, "[%d/%d] %s: %s\n", r.Index, total, r.Name, filepath.Base(r.Path))
			}
			debugf("%s: %s", r.Name, r.Note)
		})
		if err != nil {
			return err
		}
		success(out, "Wrote %d charts to %s", written, outDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chLoad.register(chartsCmd)
	chartsCmd.Flags().StringVarP(&chOut, "out", "o", "", "output directory (default <charts_dir>/<run-id>)")
	chartsCmd.Flags().StringVar(&chFormat, "format", "", "image format: png | svg (default from config)")
	chartsCmd.Flags().IntVar(&chWidth, "width", 0, "chart width in pixels (default from config)")
	chartsCmd.Flags().IntVar(&chHeight, "height", 0, "chart height in pixels (default from config)")
	chartsCmd.Flags().IntVar(&chBins, "bins", 0, "rating histogram bins (default from config)")
	chartsCmd.Flags().BoolVar(&chQuiet, "quiet", false, "suppress progress output")
}
