package config

import (
	"fmt"
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := config.Database.Validate(); err != nil {
		return fmt.Errorf("database config validation failed: %w", err)
	}
	if err := config.Journal.Validate(); err != nil {
		return fmt.Errorf("journal config validation failed: %w", err)
	}
	if err := config.Market.Validate(); err != nil {
		return fmt.Errorf("market config validation failed: %w", err)
	}
	if err := config.Payout.Validate(); err != nil {
		return fmt.Errorf("payout config validation failed: %w", err)
	}
	if err := config.Events.Validate(); err != nil {
		return fmt.Errorf("events config validation failed: %w", err)
	}
	return nil
}
