package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskboard/api/internal/config"
	"github.com/taskboard/api/internal/database"
)

// NewSeedCmd creates the seed command.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-statuses",
		Short: "Insert the default shared statuses",
		Long:  "Inserts the default shared status set. Existing statuses with the same name are left untouched.",
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

			if err := db.SeedStatuses(context.Background()); err != nil {
				return fmt.Errorf("seed statuses: %w", err)
			}
			fmt.Println("Default statuses seeded.")
			return nil
		},
	}
}
