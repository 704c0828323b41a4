package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/degreeaudit/internal/core/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("status", false, "show migration status instead of applying")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	status, _ := cmd.Flags().GetBool("status")
	if status {
		statuses, err := db.MigrateStatus(database)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%-40s %s\n", s.ID, state)
		}
		return nil
	}

	if err := db.MigrateUp(database); err != nil {
		return err
	}
	fmt.Println("migrations applied")
	return nil
}
