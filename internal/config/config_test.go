package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dashboard/public/plot.json", cfg.Sources.Plot)
	assert.Equal(t, "dashboard/public/partylist.json", cfg.Sources.PartyList)
	assert.Equal(t, "utf-8", cfg.Sources.Encoding)
	assert.Equal(t, "dashboard/public", cfg.Output.Dir)
	assert.Equal(t, "plot-processed.json", cfg.Output.PrimaryArtifact)
	assert.Equal(t, "plot-ocr.json", cfg.Output.OCRArtifact)
	assert.Contains(t, cfg.OCR.ConstituencyDir, "data/matched/constituency")
	assert.Empty(t, cfg.OCR.Archive)
	assert.Empty(t, cfg.Columns.Province)
	assert.Equal(t, "audit.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10, cfg.Server.TopN)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, "audit-cli/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
sources:
  plot: exports/plot.csv
  encoding: windows-874
columns:
  province: Province
  district: District
output:
  dir: out
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins: [https://audit.example]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "exports/plot.csv", cfg.Sources.Plot)
	assert.Equal(t, "windows-874", cfg.Sources.Encoding)
	assert.Equal(t, "Province", cfg.Columns.Province)
	assert.Equal(t, "District", cfg.Columns.District)
	assert.Empty(t, cfg.Columns.Margin)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://audit.example"}, cfg.Server.CORSOrigins)
	// Defaults still apply for unset values
	assert.Equal(t, "dashboard/public/constituency.json", cfg.Sources.Constituency)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  path: file.db
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("AUDIT_STORE_PATH", "env.db")
	t.Setenv("AUDIT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("AUDIT_SERVER_PORT", "3000")
	t.Setenv("AUDIT_OCR_ARCHIVE", "https://codeload.github.com/o/r/zip/refs/heads/main")
	t.Setenv("AUDIT_COLUMNS_TURNOUT", "turnout")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://codeload.github.com/o/r/zip/refs/heads/main", cfg.OCR.Archive)
	assert.Equal(t, "turnout", cfg.Columns.Turnout)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Output: OutputConfig{Dir: "out", PrimaryArtifact: "p.json", OCRArtifact: "o.json"},
			Server: ServerConfig{Port: 8080},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing output dir", mutate: func(c *Config) { c.Output.Dir = "" }, wantErr: "output.dir"},
		{name: "missing artifacts", mutate: func(c *Config) { c.Output.PrimaryArtifact, c.Output.OCRArtifact = "", "" }, wantErr: "output.primary_artifact, output.ocr_artifact"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "out of range"},
		{name: "negative retries", mutate: func(c *Config) { c.Fetch.MaxRetries = -1 }, wantErr: "max_retries"},
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

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
