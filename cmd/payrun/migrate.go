package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mistypay/internal/platform/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			slog.Info("Starting database migration")
			if err := db.Migrate(cmd.Context(), pool); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			slog.Info("Database migration completed")
			return nil
		},
	}
}
