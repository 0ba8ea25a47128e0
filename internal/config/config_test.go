package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		old, ok := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() {
			if ok {
				_ = os.Setenv(key, old)
				return
			}
			_ = os.Unsetenv(key)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, EnvJWTSecret, EnvAPIKey)
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{"port": 9000}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, int64(42), cfg.Embedding.Seed)
	require.Equal(t, 100, cfg.QueryCache.Capacity)
	require.Equal(t, 300, cfg.Summary.MaxLength)
	require.Equal(t, 160, cfg.Excerpt.MaxLength)
	require.Equal(t, 200, cfg.Reading.WPM)
	require.Equal(t, "*/5 * * * *", cfg.Schedule.ProbeSpec)
	require.Empty(t, cfg.JWTSecret)
}

func TestLoadEnvOverlay(t *testing.T) {
	unsetEnv(t, EnvJWTSecret, EnvAPIKey, EnvAPIKey+"_BACKUP")
	dir := t.TempDir()
	writeFile(t, dir, ".env", EnvAPIKey+"=shared-key\n"+EnvAPIKey+"_BACKUP=backup-key\n"+EnvJWTSecret+"=env-secret\n")
	path := writeFile(t, dir, "config.json", `{
		"ai": {"providers": [
			{"name": "main", "type": "gemini", "model": "gemini-2.0-flash"},
			{"name": "backup", "type": "openai", "model": "gpt-4o-mini"},
			{"type": "openrouter", "model": "x", "data": {"api_key": "inline"}}
		]}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-secret", cfg.JWTSecret)
	require.Equal(t, "shared-key", cfg.AI.Providers[0].Data["api_key"])
	require.Equal(t, "backup-key", cfg.AI.Providers[1].Data["api_key"])
	require.Equal(t, "inline", cfg.AI.Providers[2].Data["api_key"])
	require.Equal(t, "openrouter", cfg.AI.Providers[2].Name)
}

func TestLoadValidation(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"negative workers": `{"search": {"workers": -1}}`,
		"missing type":     `{"ai": {"providers": [{"model": "m"}]}}`,
		"missing model":    `{"ai": {"providers": [{"type": "openai"}]}}`,
		"bad port":         `{"port": 70000}`,
		"not json":         `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, "config.json", body)
			_, err := Load(path)
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 8080, cfg.Port)
}
