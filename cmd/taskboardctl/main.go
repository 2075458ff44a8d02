package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskboard/api/cmd/taskboardctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "taskboardctl",
		Short: "Administration tool for the Taskboard API",
		Long:  "CLI tool for database schema management and status seeding",
	}

	rootCmd.AddCommand(commands.NewMigrateCmd())
	rootCmd.AddCommand(commands.NewSeedCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
