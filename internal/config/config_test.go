package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.True(t, cfg.Templates.Cache)
	assert.Empty(t, cfg.Settings.Driver)
	assert.Equal(t, 10*time.Second, cfg.Assets.Timeout)
	assert.Equal(t, int64(5<<20), cfg.Assets.MaxSize)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := `
log:
  level: debug
  format: json
templates:
  dir: ./modeles
  watch: true
settings:
  driver: sqlite
  dsn: ./data/settings.db
export:
  driver: file
  dir: ./out
batch:
  concurrency: 8
agency:
  default_id: agence-dakar
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "immodoc.yaml"), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "./modeles", cfg.Templates.Dir)
	assert.True(t, cfg.Templates.Watch)
	assert.Equal(t, "sqlite", cfg.Settings.Driver)
	assert.Equal(t, "./out", cfg.Export.Dir)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, "agence-dakar", cfg.Agency.DefaultID)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("IMMODOC_HTTP_ADDR", ":9090")
	t.Setenv("IMMODOC_BATCH_CONCURRENCY", "2")
	t.Setenv("IMMODOC_ASSETS_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, 3*time.Second, cfg.Assets.Timeout)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Log:    LogConfig{Level: "info", Format: "auto", Output: "stderr"},
			Assets: AssetsConfig{Timeout: time.Second, MaxSize: 1024},
			HTTP:   HTTPConfig{Addr: ":8080", MaxBodySize: 1024},
			Batch:  BatchConfig{Concurrency: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "Level"},
		{"unknown settings driver", func(c *Config) { c.Settings.Driver = "mysql"; c.Settings.DSN = "x" }, "Driver"},
		{"settings driver without dsn", func(c *Config) { c.Settings.Driver = "postgres" }, "DSN"},
		{"file export without dir", func(c *Config) { c.Export.Driver = "file" }, "Dir"},
		{"s3 export without bucket", func(c *Config) { c.Export.Driver = "s3" }, "bucket"},
		{"watch without dir", func(c *Config) { c.Templates.Watch = true }, "templates.watch"},
		{"zero concurrency", func(c *Config) { c.Batch.Concurrency = 0 }, "Concurrency"},
		{"bad template url", func(c *Config) { c.Templates.BaseURL = "not a url" }, "BaseURL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
