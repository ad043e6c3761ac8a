package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"auto", "text", "table", "markdown", "md", "json", "csv", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxRows <= 0 {
		return fmt.Errorf("max_rows must be positive, got %d", c.MaxRows)
	}

	if c.OutputFormat != "" && !slices.Contains(OutputFormats, strings.ToLower(c.OutputFormat)) {
		return fmt.Errorf("unknown output format %q (want one of %s)",
			c.OutputFormat, strings.Join(OutputFormats, ", "))
	}

	switch strings.ToLower(c.Plot.Kind) {
	case "", "line", "scatter":
	default:
		return fmt.Errorf("unknown plot.kind %q (want line or scatter)", c.Plot.Kind)
	}

	if c.Plot.Width < 0 || c.Plot.Height < 0 {
		return fmt.Errorf("plot size must not be negative (got %dx%d)", c.Plot.Width, c.Plot.Height)
	}

	return nil
}

// ValidateDataDir checks that the data directory, if configured, exists.
func (c *Config) ValidateDataDir() error {
	if c.DataDir == "" {
		return nil
	}
	info, err := os.Stat(c.DataDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s\nHint: Create the directory or use --data-dir to specify a different path", c.DataDir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory is not a directory: %s", c.DataDir)
	}
	return nil
}
