package commands

import (
	"encoding/json"
	"fmt"

	"remasep/internal/pipeline"
	"remasep/internal/visuals"

	"github.com/spf13/cobra"
)

var (
	summarizeInput  string
	summarizeCharts bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Print the summary tables of a visit export as JSON without writing a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		analysis, err := pipeline.Analyze(cmd.Context(), pipeline.NewRun(cfg, summarizeInput))
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if summarizeCharts || cfg.EnableMermaidCharts {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), visuals.GenerateAll(analysis.Summaries))
		}
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeInput, "input", "i", "", "visit export workbook (.xlsx)")
	summarizeCmd.Flags().BoolVar(&summarizeCharts, "charts", false, "append Mermaid charts")
	_ = summarizeCmd.MarkFlagRequired("input")
}
