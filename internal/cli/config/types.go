// Package config provides configuration management for the leapview CLI.
package config

// PlotConfig holds chart defaults.
type PlotConfig struct {
	Width  int    `koanf:"width"`
	Height int    `koanf:"height"`
	Kind   string `koanf:"kind"`
}

// Config holds all CLI configuration options.
type Config struct {
	DataDir       string     `koanf:"data_dir"`
	Database      string     `koanf:"database"`
	MaxRows       int        `koanf:"max_rows"`
	DetectChanges bool       `koanf:"detect_changes"`
	OutputFormat  string     `koanf:"output"`
	Verbose       bool       `koanf:"verbose"`
	HistoryFile   string     `koanf:"history_file"`
	Plot          PlotConfig `koanf:"plot"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultMaxRows     = 1000
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultHistoryFile = ".leapview_history"
	DefaultPlotWidth   = 72
	DefaultPlotHeight  = 20
	DefaultPlotKind    = "line"

	// MemoryDatabase selects an in-memory database.
	MemoryDatabase = ":memory:"
)

// ConfigFileNames are searched, in order, in the project root.
var ConfigFileNames = []string{"leapview.yaml", "leapview.yml"}

// Default returns a Config holding only default values.
func Default() *Config {
	return &Config{
		MaxRows:      DefaultMaxRows,
		OutputFormat: DefaultOutput,
		HistoryFile:  DefaultHistoryFile,
		Plot: PlotConfig{
			Width:  DefaultPlotWidth,
			Height: DefaultPlotHeight,
			Kind:   DefaultPlotKind,
		},
	}
}

// InMemory reports whether the database lives only in memory.
func (c *Config) InMemory() bool {
	return c.Database == "" || c.Database == MemoryDatabase
}
