package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/legalease/internal/common"
	"github.com/joseph-ayodele/legalease/internal/logging"
)

var (
	envFile  string
	logLevel string

	cfg    *common.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "legalease",
	Short:         "AI-assisted analysis of contracts and other legal documents",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return err
			}
		}
		cfg = common.LoadConfig()
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		logger = logging.New(cfg.Log)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")

	rootCmd.AddCommand(serveCmd, analyzeCmd, batchCmd, watchCmd, extractCmd, dbCmd)
}
