package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "./tradejournal.db", cfg.Journal.DBPath)
	assert.Equal(t, "all", cfg.Analytics.DefaultWindow)
	assert.Equal(t, 100.0, cfg.Analytics.Heatmap.Floor)
	assert.Equal(t, 0.15, cfg.Analytics.Heatmap.MinIntensity)
	assert.Equal(t, 0.9, cfg.Analytics.Heatmap.MaxIntensity)
	assert.Equal(t, 20, cfg.Insight.MaxTrades)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			edit:    func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing db path",
			edit:    func(c *Config) { c.Journal.DBPath = "" },
			wantErr: true,
			errMsg:  "journal.db_path is required",
		},
		{
			name:    "unknown window",
			edit:    func(c *Config) { c.Analytics.DefaultWindow = "7d" },
			wantErr: true,
			errMsg:  "analytics.default_window",
		},
		{
			name:    "inverted heatmap bounds",
			edit:    func(c *Config) { c.Analytics.Heatmap.MinIntensity = 0.95 },
			wantErr: true,
			errMsg:  "analytics.heatmap",
		},
		{
			name:    "invalid risk percent",
			edit:    func(c *Config) { c.Risk.MaxRiskPct = 1.5 },
			wantErr: true,
			errMsg:  "risk: max_risk_pct",
		},
		{
			name:    "zero recv window",
			edit:    func(c *Config) { c.Exchange.Bybit.RecvWindow = 0 },
			wantErr: true,
			errMsg:  "exchange.bybit.recv_window must be positive",
		},
		{
			name:    "no model",
			edit:    func(c *Config) { c.Insight.Model = "" },
			wantErr: true,
			errMsg:  "insight.model is required",
		},
		{
			name:    "bad encoding",
			edit:    func(c *Config) { c.Log.Encoding = "xml" },
			wantErr: true,
			errMsg:  "log.encoding",
		},
		{
			name:    "no server addr",
			edit:    func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			cfg := Default()
			cfg.Journal.DBPath = "/var/lib/journal.db"
			cfg.Analytics.Heatmap.Floor = 250
			cfg.Risk.MinRR = 2

			path := filepath.Join(dir, "tradejournal"+ext)
			require.NoError(t, cfg.SaveToFile(path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("journal:\n  db_path: ./other.db\nanalytics:\n  default_window: 30d\n"), 0600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "./other.db", cfg.Journal.DBPath)
	assert.Equal(t, "30d", cfg.Analytics.DefaultWindow)
	assert.Equal(t, 100.0, cfg.Analytics.Heatmap.Floor)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("journal: [unclosed"), 0600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("BYBIT_API_KEY=file-key\nBYBIT_API_SECRET=file-secret\nGEMINI_API_KEY=gem\n"), 0600))

	t.Setenv(EnvBybitKey, "shell-key")
	t.Setenv(EnvBybitSecret, "")
	t.Setenv(EnvGeminiKey, "")
	t.Setenv(EnvDBPath, "")

	cfg := Default()
	require.NoError(t, LoadEnv(cfg, envFile))

	assert.Equal(t, "shell-key", cfg.Exchange.Bybit.APIKey, "environment wins over the file")
	assert.Equal(t, "./tradejournal.db", cfg.Journal.DBPath)
}

func TestLoadEnvMissingFile(t *testing.T) {
	err := LoadEnv(Default(), filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
