package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("IRYS_PRIVATE_KEY", "")
	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "hush.db", cfg.Database.DSN)
	assert.Equal(t, "https://devnet.irys.xyz", cfg.Irys.GatewayURL)
	assert.Equal(t, 30*time.Second, cfg.Irys.Timeout)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, map[string]int{"analysis": 1}, cfg.Worker.Queues)
	assert.False(t, cfg.Analysis.Refine.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
database:
  dsn: /tmp/other.db
irys:
  timeout: 5s
analysis:
  refine:
    enabled: true
    provider: gemini
    model: gemini-1.5-flash
redis:
  address: localhost:6379
server:
  port: 9090
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("IRYS_PRIVATE_KEY", "abc")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("HUSH_LOG_LEVEL", "debug")

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.Database.DSN)
	assert.Equal(t, 5*time.Second, cfg.Irys.Timeout)
	assert.Equal(t, "abc", cfg.Irys.PrivateKey)
	assert.Equal(t, "g-key", cfg.GoogleApiKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.ListenAddr())
	require.NoError(t, cfg.Validate())
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"refine unknown provider", func(c *Config) {
			c.Analysis.Refine.Enabled = true
			c.Analysis.Refine.Provider = "claude"
		}, "analysis.refine.provider"},
		{"refine openai without key", func(c *Config) {
			c.Analysis.Refine.Enabled = true
			c.OpenaiApiKey = ""
		}, "openai_api_key"},
		{"refine without redis", func(c *Config) {
			c.Analysis.Refine.Enabled = true
			c.OpenaiApiKey = "k"
		}, "redis.address"},
		{"archive without endpoint", func(c *Config) { c.Archive.Enabled = true }, "archive.endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateIrys_OnlyChecksUploadSettings(t *testing.T) {
	cfg := validConfig(t)
	cfg.Server.Port = 0
	cfg.Analysis.Refine.Enabled = true
	assert.NoError(t, cfg.ValidateIrys())

	cfg.Irys.Timeout = -time.Second
	assert.ErrorContains(t, cfg.ValidateIrys(), "irys.timeout")
	assert.ErrorContains(t, cfg.Validate(), "irys.timeout")
}

func TestValidateWorker(t *testing.T) {
	cfg := validConfig(t)
	assert.ErrorContains(t, cfg.ValidateWorker(), "redis.address")

	cfg.Redis.Address = "localhost:6379"
	assert.NoError(t, cfg.ValidateWorker())

	cfg.Worker.Queues = map[string]int{"analysis": 0}
	assert.ErrorContains(t, cfg.ValidateWorker(), "priority")
}

func TestLoadPromptContent(t *testing.T) {
	got, err := LoadPromptContent("", "builtin")
	require.NoError(t, err)
	assert.Equal(t, "builtin", got)

	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("custom {{TEXT}}"), 0o600))
	got, err = LoadPromptContent(path, "builtin")
	require.NoError(t, err)
	assert.Equal(t, "custom {{TEXT}}", got)

	_, err = LoadPromptContent(filepath.Join(t.TempDir(), "missing.txt"), "builtin")
	assert.Error(t, err)
}
