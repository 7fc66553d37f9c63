package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/generalbioinformatics/gbapi/internal/core/config"
	"github.com/generalbioinformatics/gbapi/internal/report"
)

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "gbapi",
	Short: "Ceres GraphQL client with JSON flattening and sequence extraction",
	Long: `gbapi runs GraphQL query templates against the Ceres API, warns when list
fields come back truncated at the query limit, flattens nested responses
into tabular records and pulls out FASTA sequences.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := report.NewLogger(logLevel, logFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "results archive URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads configuration and applies the limit/offset flags when the
// command defines and sets them.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if f := cmd.Flags().Lookup("limit"); f != nil && f.Changed {
		cfg.Limit, _ = cmd.Flags().GetInt("limit")
	}
	if f := cmd.Flags().Lookup("offset"); f != nil && f.Changed {
		cfg.Offset, _ = cmd.Flags().GetInt("offset")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
