// Package config provides configuration management for the degree audit tooling.
package config

import "time"

// AuditConfig holds configuration for the audit CLI and its input store.
type AuditConfig struct {
	DatabaseURL  string
	AreaDir      string
	StudentDir   string
	QueryTimeout time.Duration
}

// DefaultAuditConfig returns configuration with default values.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		DatabaseURL:  "sqlite://degreeaudit.db",
		AreaDir:      "./areas",
		StudentDir:   "./students",
		QueryTimeout: 30 * time.Second,
	}
}
