package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "read config file")
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ProviderChatGPT, cfg.LLM.Provider)
	require.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	require.Equal(t, time.Duration(0), cfg.LLM.RequestTimeout)
	require.Equal(t, "TERRA PRIME / SECTOR 7", cfg.Report.Defaults.Zone)
	require.Equal(t, []string{"Nitrogen", "Oxygen", "Water"}, cfg.Report.Defaults.Minerals)
	require.Equal(t, LogBackendMemory, cfg.MissionLog.Backend)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
http:
  address: ":9090"
llm:
  provider: offline
  model: test-model
report:
  defaults:
    zone: "ARES / SECTOR 2"
    minerals: ["Basalt", "Sand"]
missionLog:
  backend: sqlite
  sqlitePath: /tmp/log.db
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("LLM_TEMPERATURE", "0.9")
	t.Setenv("LLM_REQUEST_TIMEOUT", "30s")
	t.Setenv("REPORT_MINERALS", "Uranium, Iron Oxide")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, ProviderOffline, cfg.LLM.Provider)
	require.Equal(t, "test-model", cfg.LLM.Model)
	require.Equal(t, "legacy-key", cfg.LLM.APIKey)
	require.InDelta(t, 0.9, cfg.LLM.Temperature, 0.0001)
	require.Equal(t, 30*time.Second, cfg.LLM.RequestTimeout)
	require.Equal(t, "ARES / SECTOR 2", cfg.Report.Defaults.Zone)
	require.Equal(t, []string{"Uranium", "Iron Oxide"}, cfg.Report.Defaults.Minerals)
	require.Equal(t, 24.0, cfg.Report.Defaults.Temperature)
	require.Equal(t, LogBackendSQLite, cfg.MissionLog.Backend)
	require.Equal(t, "/tmp/log.db", cfg.MissionLog.SQLitePath)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
}

func TestLLMAPIKeyTakesPrecedence(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("LLM_API_KEY", "primary-key")

	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	require.Equal(t, "primary-key", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLM.Provider = "carrier-pigeon" },
			wantErr: "llm.provider",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.MissionLog.Backend = LogBackendPostgres },
			wantErr: "missionLog.postgres.dsn",
		},
		{
			name:    "valkey without addr",
			mutate:  func(c *Config) { c.MissionLog.Backend = LogBackendValkey },
			wantErr: "missionLog.valkey.addr",
		},
		{
			name:    "archive without endpoint",
			mutate:  func(c *Config) { c.Archive.Enabled = true },
			wantErr: "archive.endpoint",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.LLM.RequestTimeout = -time.Second },
			wantErr: "llm.requestTimeout",
		},
		{
			name:    "empty zone",
			mutate:  func(c *Config) { c.Report.Defaults.Zone = " " },
			wantErr: "report.defaults.zone",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExampleConfigLoads(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join("..", "..", "..", "configs", "config.example.yaml"))
	t.Setenv("API_KEY", "")
	t.Setenv("LLM_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, LogBackendSQLite, cfg.MissionLog.Backend)
	require.Equal(t, 78.0, cfg.Report.Defaults.Purity)
	require.False(t, cfg.Archive.Enabled)
}
