package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskboard/api/internal/config"
	"github.com/taskboard/api/internal/database"
)

// NewStatusCmd creates the status inspection command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Inspect status definitions",
	}
	cmd.AddCommand(newStatusListCmd())
	return cmd
}

func newStatusListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all status definitions",
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

			repo := database.NewStatusRepository(db)
			statuses, err := repo.List(context.Background())
			if err != nil {
				return fmt.Errorf("list statuses: %w", err)
			}

			fmt.Printf("%-6s %-20s %-20s %-6s %-8s %s\n", "ID", "NAME", "DISPLAY", "ORDER", "COLOR", "PROJECT")
			for _, s := range statuses {
				project := "shared"
				if s.ProjectID != nil {
					project = fmt.Sprintf("%d", *s.ProjectID)
				}
				fmt.Printf("%-6d %-20s %-20s %-6d %-8s %s\n", s.ID, s.Name, s.DisplayName, s.Order, s.Color, project)
			}
			return nil
		},
	}
}
