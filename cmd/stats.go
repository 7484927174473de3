package cmd

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shopstats-cli/internal/analysis"
	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
	"github.com/KaramelBytes/shopstats-cli/internal/utils"
)

var (
	stLoad       loadFlags
	stTopBrands  int
	stTopGenders int
	stTopPairs   int
	stJSON       bool
)

type fitSummary struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	N         int     `json:"n"`
	Equation  string  `json:"equation"`
}

type statsSummary struct {
	File       string                   `json:"file"`
	Rows       int                      `json:"rows"`
	TopBrands  []analysis.GroupSum      `json:"top_brands"`
	Genders    []analysis.CategoryCount `json:"genders"`
	Columns    []string                 `json:"correlation_columns,omitempty"`
	Corr       [][]*float64             `json:"correlation,omitempty"`
	Regression *fitSummary              `json:"regression,omitempty"`
	Notes      []string                 `json:"notes,omitempty"`

	matrix *analysis.CorrMatrix
}

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print aggregate tables: top brands, gender share, correlations, regression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0], stLoad)
		if err != nil {
			return err
		}
		c := currentConfig()
		topBrands, topGenders := c.TopBrands, c.TopGenders
		if stTopBrands > 0 {
			topBrands = stTopBrands
		}
		if stTopGenders > 0 {
			topGenders = stTopGenders
		}
		s, err := computeStats(t, topBrands, topGenders)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if stJSON {
			b, err := utils.PrettyJSON(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		printStats(out, cmd.ErrOrStderr(), s, topBrands, topGenders, stTopPairs)
		return nil
	},
}

func computeStats(t *dataset.Table, topBrands, topGenders int) (*statsSummary, error) {
	cols := currentConfig().Columns
	s := &statsSummary{File: t.Name(), Rows: t.Len()}

	groups, err := analysis.SumByGroup(t, cols.Brand, cols.QuantitySold)
	if err != nil {
		return nil, err
	}
	s.TopBrands = analysis.TopGroups(groups, topBrands)

	freq, err := analysis.Frequency(t, cols.Gender)
	if err != nil {
		return nil, err
	}
	s.Genders = analysis.BucketTopNPlusOther(freq, topGenders)

	m, err := analysis.CorrelationMatrix(t.Raw())
	switch {
	case errors.Is(err, analysis.ErrNoData):
		s.Notes = append(s.Notes, "no numeric columns to correlate")
	case err != nil:
		return nil, err
	default:
		s.matrix = m
		s.Columns = m.Columns
		s.Corr = make([][]*float64, len(m.Values))
		for i, row := range m.Values {
			s.Corr[i] = make([]*float64, len(row))
			for j := range row {
				if v := row[j]; !math.IsNaN(v) {
					s.Corr[i][j] = &v
				}
			}
		}
	}

	x, err := t.Numeric(cols.NormalizedPrice)
	if err != nil {
		return nil, err
	}
	y, err := t.Numeric(cols.NormalizedDiscount)
	if err != nil {
		return nil, err
	}
	fit, err := analysis.LinearFit(x, y)
	switch {
	case errors.Is(err, analysis.ErrInsufficientData):
		s.Notes = append(s.Notes, fmt.Sprintf("not enough paired data to fit a regression (n=%d)", fit.N))
	case errors.Is(err, analysis.ErrZeroVariance):
		s.Notes = append(s.Notes, fmt.Sprintf("%s is constant; no regression line (n=%d)", cols.NormalizedPrice, fit.N))
	case err != nil:
		return nil, err
	default:
		s.Regression = &fitSummary{Slope: fit.Slope, Intercept: fit.Intercept, N: fit.N, Equation: fit.String()}
	}
	return s, nil
}

func printStats(w, errw io.Writer, s *statsSummary, topBrands, topGenders, topPairs int) {
	cols := currentConfig().Columns
	headColor.Fprintf(w, "%s: %d rows\n", s.File, s.Rows)

	headColor.Fprintf(w, "\nTop %d brands by %s\n", topBrands, cols.QuantitySold)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", cols.Brand, cols.QuantitySold, "Rows"})
	for i, g := range s.TopBrands {
		table.Append([]string{strconv.Itoa(i + 1), g.Key, formatNumber(g.Sum), strconv.Itoa(g.Count)})
	}
	table.Render()

	headColor.Fprintf(w, "\n%s share (top %d + %s)\n", cols.Gender, topGenders, analysis.OthersLabel)
	total := 0
	for _, g := range s.Genders {
		total += g.Count
	}
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{cols.Gender, "Count", "Share"})
	for _, g := range s.Genders {
		share := "-"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*float64(g.Count)/float64(total))
		}
		table.Append([]string{g.Value, strconv.Itoa(g.Count), share})
	}
	table.Render()

	if m := s.matrix; m != nil {
		headColor.Fprintln(w, "\nCorrelation matrix (Pearson)")
		table = tablewriter.NewWriter(w)
		table.SetHeader(append([]string{""}, m.Columns...))
		for i, name := range m.Columns {
			row := []string{name}
			for _, v := range m.Values[i] {
				row = append(row, formatCorr(v))
			}
			table.Append(row)
		}
		table.Render()

		if pairs := m.TopPairs(topPairs); len(pairs) > 0 {
			headColor.Fprintln(w, "\nStrongest correlations")
			table = tablewriter.NewWriter(w)
			table.SetHeader([]string{"Column A", "Column B", "r"})
			for _, p := range pairs {
				table.Append([]string{p.A, p.B, formatCorr(p.R)})
			}
			table.Render()
		}
	}

	headColor.Fprintf(w, "\nRegression: %s vs %s\n", cols.NormalizedDiscount, cols.NormalizedPrice)
	if r := s.Regression; r != nil {
		fmt.Fprintf(w, "%s (n=%d)\n", r.Equation, r.N)
	}
	for _, n := range s.Notes {
		warnColor.Fprintf(errw, "⚠ %s\n", n)
	}
}

func formatCorr(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	stLoad.register(statsCmd)
	statsCmd.Flags().IntVar(&stTopBrands, "top-brands", 0, "number of brands to list (default from config)")
	statsCmd.Flags().IntVar(&stTopGenders, "top-genders", 0, "number of gender categories before Others (default from config)")
	statsCmd.Flags().IntVar(&stTopPairs, "top-pairs", 5, "strongest correlation pairs to list (0 = all)")
	statsCmd.Flags().BoolVar(&stJSON, "json", false, "print the aggregates as JSON")
}
