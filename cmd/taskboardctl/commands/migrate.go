package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskboard/api/internal/config"
	"github.com/taskboard/api/internal/database"
)

// NewMigrateCmd creates the migrate command.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long:  "Creates tables and indexes if they do not exist, including the personal-task system project.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() { _ = db.Close() }()

			if err := db.Migrate(context.Background()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Println("Database schema is up to date.")
			return nil
		},
	}
}
