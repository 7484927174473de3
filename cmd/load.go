package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
)

// loadFlags are the parsing flags shared by every command that reads a dataset.
type loadFlags struct {
	delimiter string
	decimal   string
	thousands string
}

func (f *loadFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "field delimiter: ',' | ';' | '|' | 'tab' (default from config, else by extension)")
	c.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	c.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
}

// options resolves flags over configuration.
func (f loadFlags) options() (dataset.Options, error) {
	c := currentConfig()
	pick := func(flag, conf string) string {
		if flag != "" {
			return flag
		}
		return conf
	}
	var opt dataset.Options
	var err error
	if opt.Delimiter, err = parseDelimiter(pick(f.delimiter, c.Delimiter)); err != nil {
		return opt, err
	}
	if opt.Parse.DecimalSeparator, err = parseDecimal(pick(f.decimal, c.DecimalSeparator)); err != nil {
		return opt, err
	}
	if opt.Parse.ThousandsSeparator, err = parseThousands(pick(f.thousands, c.ThousandsSeparator)); err != nil {
		return opt, err
	}
	return opt, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab", "\\t":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case "":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", s)
}

func parseThousands(s string) (rune, error) {
	if s == " " {
		return ' ', nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	case "space":
		return ' ', nil
	case "":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", s)
}

// loadTable reads the dataset once and coerces the sales and discount columns
// that are present. Every step of a command shares the returned table.
func loadTable(path string, f loadFlags) (*dataset.Table, error) {
	opt, err := f.options()
	if err != nil {
		return nil, err
	}
	t, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	cols := currentConfig().Columns
	var coerce []string
	for _, c := range []string{cols.QuantitySold, cols.Discount} {
		if t.Has(c) {
			coerce = append(coerce, c)
		}
	}
	t, err = t.Coerce(coerce...)
	if err != nil {
		return nil, err
	}
	debugf("loaded %s: %d rows, %d columns, coerced %v", t.Name(), t.Len(), len(t.Columns()), coerce)
	return t, nil
}
