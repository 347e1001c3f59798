// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the service configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags. Secrets (DATABASE_URL, JWT_SECRET) come from the
// environment, never from this file.
type Config struct {
	// Scheduling
	WorkingHoursStart int `json:"working_hours_start,omitempty"` // First slot hour, default 9
	WorkingHoursEnd   int `json:"working_hours_end,omitempty"`   // Slot end bound, default 17
	FeedbackDueHours  int `json:"feedback_due_hours,omitempty"`  // Scorecard due offset after interview end, default 24
	LookbackDays      int `json:"lookback_days,omitempty"`       // Panel load window, default 30

	// Workflow
	RulesPath string `json:"rules_path,omitempty"` // Optional JSON override of the stage transition table

	// Background work
	SweepIntervalMinutes int `json:"sweep_interval_minutes,omitempty"` // Overdue scorecard sweep cadence, default 5
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.WorkingHoursStart < 0 || c.WorkingHoursStart > 23 {
		return fmt.Errorf("config error: 'working_hours_start' must be between 0 and 23")
	}
	if c.WorkingHoursEnd < 0 || c.WorkingHoursEnd > 24 {
		return fmt.Errorf("config error: 'working_hours_end' must be between 0 and 24")
	}
	if c.WorkingHoursStart != 0 && c.WorkingHoursEnd != 0 && c.WorkingHoursStart >= c.WorkingHoursEnd {
		return fmt.Errorf("config error: 'working_hours_start' must precede 'working_hours_end'")
	}
	if c.FeedbackDueHours < 0 {
		return fmt.Errorf("config error: 'feedback_due_hours' must be non-negative")
	}
	if c.LookbackDays < 0 {
		return fmt.Errorf("config error: 'lookback_days' must be non-negative")
	}
	if c.SweepIntervalMinutes < 0 {
		return fmt.Errorf("config error: 'sweep_interval_minutes' must be non-negative")
	}

	if c.RulesPath != "" {
		if _, err := os.Stat(c.RulesPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: rules file not found: %s", c.RulesPath)
		}
	}

	return nil
}
