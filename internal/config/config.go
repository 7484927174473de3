package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Columns names the dataset columns each chart reads.
type Columns struct {
	Rating             string `mapstructure:"rating" yaml:"rating"`
	Reviews            string `mapstructure:"reviews" yaml:"reviews"`
	Brand              string `mapstructure:"brand" yaml:"brand"`
	QuantitySold       string `mapstructure:"quantity_sold" yaml:"quantity_sold"`
	Gender             string `mapstructure:"gender" yaml:"gender"`
	Discount           string `mapstructure:"discount" yaml:"discount"`
	NormalizedPrice    string `mapstructure:"normalized_price" yaml:"normalized_price"`
	NormalizedDiscount string `mapstructure:"normalized_discount" yaml:"normalized_discount"`
}

// Global configuration structure.
type Global struct {
	Columns Columns `mapstructure:"columns" yaml:"columns"`

	// Parsing
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`

	// Charts
	ChartsDir     string `mapstructure:"charts_dir" yaml:"charts_dir"`
	ChartFormat   string `mapstructure:"chart_format" yaml:"chart_format"`
	ChartWidth    int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight   int    `mapstructure:"chart_height" yaml:"chart_height"`
	HistogramBins int    `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	DensityPoints int    `mapstructure:"density_points" yaml:"density_points"`
	TopBrands     int    `mapstructure:"top_brands" yaml:"top_brands"`
	TopGenders    int    `mapstructure:"top_genders" yaml:"top_genders"`

	// Reports
	SampleRows int `mapstructure:"sample_rows" yaml:"sample_rows"`
}

// DefaultColumns returns the column names of the reference e-commerce dataset.
func DefaultColumns() Columns {
	return Columns{
		Rating:             "Rating",
		Reviews:            "Number_of_Reviews",
		Brand:              "Brand",
		QuantitySold:       "Quantity Sold",
		Gender:             "Gender",
		Discount:           "Discount",
		NormalizedPrice:    "Normalized_Price",
		NormalizedDiscount: "Normalized_Discount",
	}
}

// Default returns the built-in configuration. ChartsDir is left empty and
// resolved by Load.
func Default() *Global {
	return &Global{
		Columns:       DefaultColumns(),
		ChartFormat:   "png",
		ChartWidth:    1000,
		ChartHeight:   600,
		HistogramBins: 20,
		DensityPoints: 1000,
		TopBrands:     10,
		TopGenders:    3,
		SampleRows:    5,
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".shopstats"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.shopstats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file (cfgFile or ~/.shopstats/config.yaml) > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SHOPSTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	d := Default()
	v.SetDefault("columns.rating", d.Columns.Rating)
	v.SetDefault("columns.reviews", d.Columns.Reviews)
	v.SetDefault("columns.brand", d.Columns.Brand)
	v.SetDefault("columns.quantity_sold", d.Columns.QuantitySold)
	v.SetDefault("columns.gender", d.Columns.Gender)
	v.SetDefault("columns.discount", d.Columns.Discount)
	v.SetDefault("columns.normalized_price", d.Columns.NormalizedPrice)
	v.SetDefault("columns.normalized_discount", d.Columns.NormalizedDiscount)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("decimal_separator", d.DecimalSeparator)
	v.SetDefault("thousands_separator", d.ThousandsSeparator)
	v.SetDefault("charts_dir", d.ChartsDir)
	v.SetDefault("chart_format", d.ChartFormat)
	v.SetDefault("chart_width", d.ChartWidth)
	v.SetDefault("chart_height", d.ChartHeight)
	v.SetDefault("histogram_bins", d.HistogramBins)
	v.SetDefault("density_points", d.DensityPoints)
	v.SetDefault("top_brands", d.TopBrands)
	v.SetDefault("top_genders", d.TopGenders)
	v.SetDefault("sample_rows", d.SampleRows)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve charts_dir default: ~/.shopstats/charts
	if c.ChartsDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.ChartsDir = filepath.Join(dir, "charts")
	}
	return &c, nil
}
