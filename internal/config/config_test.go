package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"port": 9090,
		"engine": "rod",
		"templates_dir": "./templates",
		"quality": 0.8,
		"seal_registry": true,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, EngineRod, cfg.Engine)
	assert.Equal(t, "./templates", cfg.TemplatesDir)
	assert.Equal(t, 0.8, cfg.Quality)
	assert.True(t, cfg.SealRegistry)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_Constraints(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown engine", Config{Engine: "webkit"}, "'engine' failed 'oneof'"},
		{"quality above one", Config{Quality: 1.2}, "'quality' failed 'lte'"},
		{"negative timeout", Config{RenderTimeoutSeconds: -1}, "'render_timeout_seconds' failed 'gte'"},
		{"port out of range", Config{Port: 70000}, "'port' failed 'lte'"},
		{"bad host url", Config{HostDocumentURL: "not a url"}, "'host_document_url' failed 'url'"},
		{"unknown log level", Config{LogLevel: "loud"}, "'log_level' failed 'oneof'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_TemplatesDir(t *testing.T) {
	cfg := &Config{TemplatesDir: "/nonexistent/templates"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "templates directory not found")

	file := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
	cfg = &Config{TemplatesDir: file}
	assert.ErrorContains(t, cfg.Validate(), "is not a directory")

	cfg = &Config{TemplatesDir: t.TempDir()}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ChromePath(t *testing.T) {
	cfg := &Config{ChromePath: "/nonexistent/chrome"}
	assert.ErrorContains(t, cfg.Validate(), "chrome binary not found")
}

func TestValidate_Valid(t *testing.T) {
	cfg := &Config{}
	merged := cfg.MergeWithDefaults(Config{})
	assert.NoError(t, merged.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Port: 9000, Engine: EngineRod}
	defaults := Config{
		Port:         8080,
		Engine:       EngineChromium,
		DatabaseURL:  "postgres://localhost/studio",
		TemplatesDir: "/etc/templates",
	}

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, 9000, result.Port)
	assert.Equal(t, EngineRod, result.Engine)
	assert.Equal(t, "postgres://localhost/studio", result.DatabaseURL)
	assert.Equal(t, "/etc/templates", result.TemplatesDir)
	assert.Equal(t, DefaultRenderTimeoutSeconds, result.RenderTimeoutSeconds)
	assert.Equal(t, DefaultSettleTimeoutSeconds, result.SettleTimeoutSeconds)
	assert.Equal(t, DefaultDeviceScale, result.DeviceScale)
	assert.Equal(t, DefaultQuality, result.Quality)
	assert.Equal(t, DefaultFormat, result.Format)
	assert.Equal(t, DefaultLogLevel, result.LogLevel)

	// Original is unchanged
	assert.Equal(t, "", cfg.DatabaseURL)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                 "3000",
		"DATABASE_URL":         "postgres://env/studio",
		"RESUME_STUDIO_ENGINE": "rod",
		"CHROME_PATH":          "/usr/bin/chromium",
		"HOST_DOCUMENT_URL":    "https://studio.example.com/editor",
	}
	cfg := &Config{Port: 8080, Engine: EngineChromium, TemplatesDir: "./templates"}

	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "postgres://env/studio", cfg.DatabaseURL)
	assert.Equal(t, EngineRod, cfg.Engine)
	assert.Equal(t, "/usr/bin/chromium", cfg.ChromePath)
	assert.Equal(t, "https://studio.example.com/editor", cfg.HostDocumentURL)
	assert.Equal(t, "./templates", cfg.TemplatesDir)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	cfg := &Config{Port: 8080}
	err := cfg.ApplyEnv(func(k string) string {
		if k == "PORT" {
			return "eighty"
		}
		return ""
	})
	assert.ErrorContains(t, err, "invalid PORT")
	assert.Equal(t, 8080, cfg.Port)
}

func TestTimeouts(t *testing.T) {
	cfg := &Config{RenderTimeoutSeconds: 30, SettleTimeoutSeconds: 5}
	assert.Equal(t, 30*time.Second, cfg.RenderTimeout())
	assert.Equal(t, 5*time.Second, cfg.SettleTimeout())
}
