package commands

import (
	"context"
	"os"
	"os/signal"

	"remasep/internal/config"
	"remasep/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "remasep",
	Short: "REMASEP fills the emergency-department statistical report from a visit export",
	Long: `Reads a spreadsheet export of emergency-department visits, classifies each visit by
age band, sex, triage category, length of stay and insurance, and writes the aggregated
counts into the fixed sections of the report template.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("REMASEP starting")
	},
}

// Execute runs the root command; an interrupt cancels the running pipeline.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(generateCmd, summarizeCmd, serveCmd)
}
