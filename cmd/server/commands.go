package main

import (
	"context"
	"fmt"
	"time"

	"nutrition-coach/internal/auth"
	"nutrition-coach/internal/config"
	"nutrition-coach/internal/database"
	"nutrition-coach/pkg/logger"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "coach",
		Short:        "Nutrition coaching backend: room chat and client analytics",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newTokenCmd(),
	)
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(contextOrBackground(cmd.Context()), time.Minute)
			defer cancel()

			db, err := database.Open(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("✅ Schema is up to date (%s)", cfg.Database.Driver)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var nutritionistID int

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token for a nutritionist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if nutritionistID <= 0 {
				return fmt.Errorf("--nutritionist-id must be a positive integer")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			token, err := auth.NewService(cfg.JWT).GenerateToken(nutritionistID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().IntVar(&nutritionistID, "nutritionist-id", 0, "nutritionist_id claim to embed")
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	return cfg, nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
