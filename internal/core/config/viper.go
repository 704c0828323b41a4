package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*AuditConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultAuditConfig
	v.SetDefault("audit.database_url", "sqlite://degreeaudit.db")
	v.SetDefault("audit.area_dir", "./areas")
	v.SetDefault("audit.student_dir", "./students")
	v.SetDefault("audit.query_timeout", "30s")

	// Bind environment variables with DA_ prefix
	v.SetEnvPrefix("DA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &AuditConfig{
		DatabaseURL:  v.GetString("audit.database_url"),
		AreaDir:      v.GetString("audit.area_dir"),
		StudentDir:   v.GetString("audit.student_dir"),
		QueryTimeout: v.GetDuration("audit.query_timeout"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks the database URL scheme and positive timeout.
func validateConfig(cfg *AuditConfig) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url must be set")
	}
	if !strings.HasPrefix(cfg.DatabaseURL, "sqlite://") && !strings.HasPrefix(cfg.DatabaseURL, "postgres://") {
		return fmt.Errorf("database_url must use sqlite:// or postgres:// scheme, got %q", cfg.DatabaseURL)
	}
	if cfg.QueryTimeout <= 0 {
		return fmt.Errorf("query_timeout must be positive, got %v", cfg.QueryTimeout)
	}
	return nil
}
