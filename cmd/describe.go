package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shopstats-cli/internal/analysis"
	"github.com/KaramelBytes/shopstats-cli/internal/utils"
)

var (
	descLoad       loadFlags
	descOutputPath string
	descSampleRows int
	descTopValues  int
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print a Markdown summary of a dataset (head, column info, statistics)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0], descLoad)
		if err != nil {
			return err
		}
		opt := analysis.DefaultDescribeOptions()
		opt.SampleRows = currentConfig().SampleRows
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = descSampleRows
		}
		if descTopValues > 0 {
			opt.TopValues = descTopValues
		}
		rep := analysis.Describe(t, opt)
		md := rep.Markdown()

		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			success(cmd.OutOrStdout(), "Wrote summary of %s to %s", rep.Name, descOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	descLoad.register(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	describeCmd.Flags().IntVar(&descSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables the head table)")
	describeCmd.Flags().IntVar(&descTopValues, "top-values", 8, "most frequent values listed per categorical column")
}
