package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/generalbioinformatics/gbapi/internal/core/auth"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Verify the configured GraphQL URL and token against the API",
	Args:  cobra.NoArgs,
	RunE:  runCheckConfig,
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Info("Checking that Graphql configuration is valid")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireEndpoint(); err != nil {
		return err
	}

	client, err := auth.HTTPClient(ctx, cfg.Token, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	if err := auth.CheckCredentials(ctx, client, cfg.GraphQLURL); err != nil {
		logger.Error("Unable to validate config", zap.Error(err), zap.String("url", auth.AuthURL(cfg.GraphQLURL)))
		return fmt.Errorf("config check failed: %w", err)
	}

	logger.Info("Configuration is valid", zap.String("graphql", cfg.GraphQLURL))
	return nil
}
