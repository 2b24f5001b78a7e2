package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "console", cfg.Output)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.False(t, cfg.GetParallel())
	assert.False(t, cfg.GetUseMocks())
	assert.True(t, cfg.IsDefault())
}

func TestGetters_NilPointers(t *testing.T) {
	cfg := &Config{}

	assert.False(t, cfg.GetVerbose())
	assert.False(t, cfg.GetNoColor())
	assert.False(t, cfg.GetParallel())
	assert.False(t, cfg.GetBail())
	assert.False(t, cfg.GetUseMocks())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "yaml",
			input: `
name: "Calc*"
subjects: [Calculator]
output: junit
parallel: true
concurrency: 3
rate: 2.5
useMocks: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "Calc*", cfg.Name)
				assert.Equal(t, []string{"Calculator"}, cfg.Subjects)
				assert.Equal(t, "junit", cfg.Output)
				assert.True(t, cfg.GetParallel())
				assert.Equal(t, 3, cfg.Concurrency)
				assert.InDelta(t, 2.5, cfg.Rate, 0.001)
				assert.True(t, cfg.GetUseMocks())
				assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
			},
		},
		{
			name:  "json",
			input: `{"output": "tap", "bail": true, "logLevel": "debug", "logFormat": "json"}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "tap", cfg.Output)
				assert.True(t, cfg.GetBail())
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "json", cfg.LogFormat)
				assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
			},
		},
		{
			name:  "empty document",
			input: "",
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsDefault())
			},
		},
		{name: "unknown output", input: "output: html", wantErr: true},
		{name: "unknown key", input: "timeout: 30", wantErr: true},
		{name: "wrong type", input: "parallel: sometimes", wantErr: true},
		{name: "zero concurrency", input: "concurrency: 0", wantErr: true},
		{name: "not yaml", input: "output: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestParse_SchemaError(t *testing.T) {
	_, err := Parse([]byte("output: html\nbogus: 1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "output")
	assert.Contains(t, err.Error(), "bogus")
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		cfg, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.IsDefault())
	})

	t.Run("lookup order", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "gwtspec.yaml"), []byte("output: json\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".gwtspecrc"), []byte(`{"output": "tap"}`), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Output)
	})

	t.Run("invalid file names the path", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".gwtspec.yaml")
		require.NoError(t, os.WriteFile(path, []byte("concurrency: -1\n"), 0644))

		_, err := FindAndLoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gwtspec.yaml")
	cfg := DefaultConfig().Merge(&Config{Output: "junit", Subjects: []string{"Calculator"}, Parallel: BoolPtr(true)})

	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()

	merged := base.Merge(&Config{
		Name:        "Add*",
		Output:      "json",
		Concurrency: 8,
		Parallel:    BoolPtr(true),
		NoColor:     BoolPtr(true),
	})

	assert.Equal(t, "Add*", merged.Name)
	assert.Equal(t, "json", merged.Output)
	assert.Equal(t, 8, merged.Concurrency)
	assert.True(t, merged.GetParallel())
	assert.True(t, merged.GetNoColor())
	assert.False(t, merged.GetBail())

	assert.Equal(t, "console", base.Output, "base must not change")
	assert.Same(t, base, base.Merge(nil))
}

func TestMerge_FalseOverridesTrue(t *testing.T) {
	base := DefaultConfig().Merge(&Config{Bail: BoolPtr(true)})
	merged := base.Merge(&Config{Bail: BoolPtr(false)})
	assert.False(t, merged.GetBail())
}
