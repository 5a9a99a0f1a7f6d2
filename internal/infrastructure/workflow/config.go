package workflow

import (
	"fmt"
	"strings"
)

// Config holds the connection settings for the workflow service
type Config struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("workflow: base_url is required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("workflow: timeout_seconds must be positive")
	}
	return nil
}
