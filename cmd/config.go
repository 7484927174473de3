package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shopstats-cli/internal/charts"
	cfgpkg "github.com/KaramelBytes/shopstats-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set shopstats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "columns.rating: %s\n", c.Columns.Rating)
		fmt.Fprintf(out, "columns.reviews: %s\n", c.Columns.Reviews)
		fmt.Fprintf(out, "columns.brand: %s\n", c.Columns.Brand)
		fmt.Fprintf(out, "columns.quantity_sold: %s\n", c.Columns.QuantitySold)
		fmt.Fprintf(out, "columns.gender: %s\n", c.Columns.Gender)
		fmt.Fprintf(out, "columns.discount: %s\n", c.Columns.Discount)
		fmt.Fprintf(out, "columns.normalized_price: %s\n", c.Columns.NormalizedPrice)
		fmt.Fprintf(out, "columns.normalized_discount: %s\n", c.Columns.NormalizedDiscount)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.DecimalSeparator != "" {
			fmt.Fprintf(out, "decimal_separator: %q\n", c.DecimalSeparator)
		}
		if c.ThousandsSeparator != "" {
			fmt.Fprintf(out, "thousands_separator: %q\n", c.ThousandsSeparator)
		}
		fmt.Fprintf(out, "chart_format: %s\n", c.ChartFormat)
		fmt.Fprintf(out, "chart_width: %d\n", c.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", c.ChartHeight)
		fmt.Fprintf(out, "histogram_bins: %d\n", c.HistogramBins)
		fmt.Fprintf(out, "density_points: %d\n", c.DensityPoints)
		fmt.Fprintf(out, "top_brands: %d\n", c.TopBrands)
		fmt.Fprintf(out, "top_genders: %d\n", c.TopGenders)
		fmt.Fprintf(out, "sample_rows: %d\n", c.SampleRows)
		fmt.Fprintf(out, "charts_dir: %s\n", c.ChartsDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setConfigValue(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Saved %s", key)
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	positive := func(dst *int) error {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		*dst = i
		return nil
	}
	var err error
	switch key {
	case "columns.rating":
		c.Columns.Rating = val
	case "columns.reviews":
		c.Columns.Reviews = val
	case "columns.brand":
		c.Columns.Brand = val
	case "columns.quantity_sold":
		c.Columns.QuantitySold = val
	case "columns.gender":
		c.Columns.Gender = val
	case "columns.discount":
		c.Columns.Discount = val
	case "columns.normalized_price":
		c.Columns.NormalizedPrice = val
	case "columns.normalized_discount":
		c.Columns.NormalizedDiscount = val
	case "delimiter":
		if _, err = parseDelimiter(val); err == nil {
			c.Delimiter = val
		}
	case "decimal_separator":
		if _, err = parseDecimal(val); err == nil {
			c.DecimalSeparator = val
		}
	case "thousands_separator":
		if _, err = parseThousands(val); err == nil {
			c.ThousandsSeparator = val
		}
	case "chart_format":
		var f charts.Format
		if f, err = charts.ParseFormat(val); err == nil {
			c.ChartFormat = string(f)
		}
	case "chart_width":
		err = positive(&c.ChartWidth)
	case "chart_height":
		err = positive(&c.ChartHeight)
	case "histogram_bins":
		err = positive(&c.HistogramBins)
	case "density_points":
		err = positive(&c.DensityPoints)
	case "top_brands":
		err = positive(&c.TopBrands)
	case "top_genders":
		err = positive(&c.TopGenders)
	case "sample_rows":
		i, e := strconv.Atoi(val)
		if e != nil || i < 0 {
			return fmt.Errorf("invalid int for sample_rows: %v", val)
		}
		c.SampleRows = i
	case "charts_dir":
		c.ChartsDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
