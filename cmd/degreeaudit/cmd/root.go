package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/solatis/degreeaudit/internal/core/config"
	"github.com/solatis/degreeaudit/internal/core/db"
)

var (
	configFile string
	dbURL      string
)

var rootCmd = &cobra.Command{
	Use:   "degreeaudit",
	Short: "Degree audit engine",
	Long:  `Evaluates a student's transcript against an area of study's requirement tree and reports which requirements are satisfied.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads configuration and applies the --db-url override.
func loadConfig() (*config.AuditConfig, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	return cfg, nil
}

// openStore connects to the input store. Caller closes the returned DB.
func openStore(cfg *config.AuditConfig) (*sqlx.DB, *db.Store, error) {
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}

	return database, db.NewStore(queries), nil
}
