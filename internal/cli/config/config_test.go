package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapview/internal/testutil"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.StringP("data-dir", "d", "", "data directory")
	flags.String("database", "", "database path")
	flags.Int("max-rows", 0, "row cap")
	flags.Bool("detect-changes", false, "detect changes")
	flags.StringP("output", "o", "", "output format")
	flags.BoolP("verbose", "v", false, "verbose")
	return flags
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	return testutil.WriteFile(t, t.TempDir(), "leapview.yaml", contents)
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxRows, cfg.MaxRows)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultPlotWidth, cfg.Plot.Width)
	assert.Equal(t, DefaultPlotHeight, cfg.Plot.Height)
	assert.Equal(t, DefaultPlotKind, cfg.Plot.Kind)
	assert.False(t, cfg.DetectChanges)
	assert.Empty(t, cfg.DataDir)
	assert.True(t, cfg.InMemory())
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, `data_dir: data
database: warehouse.duckdb
max_rows: 50
detect_changes: true
output: json
plot:
  width: 100
  kind: scatter
`)
	root := filepath.Dir(cfgPath)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "data"), cfg.DataDir)
	assert.Equal(t, filepath.Join(root, "warehouse.duckdb"), cfg.Database)
	assert.False(t, cfg.InMemory())
	assert.Equal(t, 50, cfg.MaxRows)
	assert.True(t, cfg.DetectChanges)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 100, cfg.Plot.Width)
	assert.Equal(t, DefaultPlotHeight, cfg.Plot.Height)
	assert.Equal(t, "scatter", cfg.Plot.Kind)
}

func TestLoadConfig_FoundUpward(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, "max_rows: 7\n")
	root := filepath.Dir(cfgPath)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MaxRows)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, DefaultHistoryFile), cfg.HistoryFile)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, "max_rows: 50\nplot:\n  height: 9\n")
	t.Setenv("LEAPVIEW_MAX_ROWS", "75")
	t.Setenv("LEAPVIEW_PLOT_HEIGHT", "11")
	t.Setenv("LEAPVIEW_DETECT_CHANGES", "true")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.MaxRows, "env var should override config file")
	assert.Equal(t, 11, cfg.Plot.Height)
	assert.True(t, cfg.DetectChanges)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, "max_rows: 50\ndata_dir: from_file\n")
	t.Setenv("LEAPVIEW_MAX_ROWS", "75")

	flags := newFlagSet()
	require.NoError(t, flags.Set("max-rows", "99"))
	require.NoError(t, flags.Set("data-dir", "from_flag"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	want, err := filepath.Abs("from_flag")
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.MaxRows, "flag value should override config file and env var")
	assert.Equal(t, want, cfg.DataDir, "flag paths resolve against the working directory")
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, "output: json\n")
	t.Setenv("LEAPVIEW_OUTPUT", "csv")

	cfg, err := LoadConfig(cfgPath, newFlagSet())
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.OutputFormat, "env var should be used when flag is not set")
}

func TestLoadConfig_MemoryDatabaseFlag(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := newFlagSet()
	require.NoError(t, flags.Set("database", MemoryDatabase))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, MemoryDatabase, cfg.Database)
	assert.True(t, cfg.InMemory())
}

func TestLoadConfig_ExpandsEnvInPaths(t *testing.T) {
	ResetConfig()

	dir := t.TempDir()
	t.Setenv("LEAPVIEW_TEST_HOME", dir)
	cfgPath := writeConfig(t, "database: ${LEAPVIEW_TEST_HOME}/db.duckdb\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db.duckdb"), cfg.Database)
}

func TestLoadConfig_Invalid(t *testing.T) {
	ResetConfig()

	cfgPath := writeConfig(t, "max_rows: 0\n")
	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_rows must be positive")
	assert.Nil(t, GetCurrentConfig())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "data_dir", envKey("LEAPVIEW_DATA_DIR"))
	assert.Equal(t, "plot.width", envKey("LEAPVIEW_PLOT_WIDTH"))
	assert.Equal(t, "max_rows", envKey("LEAPVIEW_MAX_ROWS"))
}

func TestFlagKey(t *testing.T) {
	assert.Equal(t, "data_dir", flagKey("data-dir"))
	assert.Equal(t, "detect_changes", flagKey("detect-changes"))
	assert.Empty(t, flagKey("config"))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"multiple variables", "${TEST_VAR_ONE}/${TEST_VAR_TWO}", "value_one/value_two"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"no variables", "plain string", "plain string"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero max rows", func(c *Config) { c.MaxRows = 0 }, "max_rows must be positive"},
		{"unknown output", func(c *Config) { c.OutputFormat = "xml" }, "unknown output format"},
		{"uppercase output", func(c *Config) { c.OutputFormat = "JSON" }, ""},
		{"unknown plot kind", func(c *Config) { c.Plot.Kind = "bar" }, "unknown plot.kind"},
		{"negative plot size", func(c *Config) { c.Plot.Width = -1 }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_ValidateDataDir(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "x.csv", "a\n")

	assert.NoError(t, (&Config{}).ValidateDataDir())
	assert.NoError(t, (&Config{DataDir: dir}).ValidateDataDir())
	assert.ErrorContains(t, (&Config{DataDir: filepath.Join(dir, "missing")}).ValidateDataDir(), "does not exist")
	assert.ErrorContains(t, (&Config{DataDir: file}).ValidateDataDir(), "not a directory")
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := testutil.NewTestLogger(t)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
