package commands

import (
	"fmt"

	"remasep/internal/pipeline"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var generateOpts struct {
	input    string
	template string
	sheet    string
	outDir   string
	prefix   string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the report workbook from a visit export",
	RunE: func(cmd *cobra.Command, args []string) error {
		run := pipeline.NewRun(cfg, generateOpts.input)
		if generateOpts.template != "" {
			run.TemplatePath = generateOpts.template
		}
		if generateOpts.sheet != "" {
			run.SheetName = generateOpts.sheet
		}
		if generateOpts.outDir != "" {
			run.OutputDir = generateOpts.outDir
		}
		if generateOpts.prefix != "" {
			run.Prefix = generateOpts.prefix
		}

		res, err := pipeline.Generate(cmd.Context(), run)
		if err != nil {
			log.Error().Err(err).Str("input", run.InputPath).Msg("Report generation failed")
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.OutputPath)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOpts.input, "input", "i", "", "visit export workbook (.xlsx)")
	generateCmd.Flags().StringVarP(&generateOpts.template, "template", "t", "", "report template workbook (default: TEMPLATE_PATH)")
	generateCmd.Flags().StringVar(&generateOpts.sheet, "sheet", "", "template sheet name (default: first sheet)")
	generateCmd.Flags().StringVarP(&generateOpts.outDir, "out", "o", "", "output directory (default: OUTPUT_DIR)")
	generateCmd.Flags().StringVar(&generateOpts.prefix, "prefix", "", "output file name prefix (default: REPORT_PREFIX)")
	_ = generateCmd.MarkFlagRequired("input")
}
