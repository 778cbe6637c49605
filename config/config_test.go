package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviedeck-cli/service"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func isolateConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
}

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"catalog": map[string]any{
			"apiKey":  "",
			"baseUrl": "",
		},
		"auth": map[string]any{
			"offlineRegistrationFallback": true,
			"expiresInMins":               30,
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "CATALOG_APIKEY", want: "catalog.apiKey"},
		{envKey: "CATALOG_API_KEY", want: "catalog.apiKey"},
		{envKey: "AUTH_OFFLINE_REGISTRATION_FALLBACK", want: "auth.offlineRegistrationFallback"},
		{envKey: "AUTH_EXPIRESINMINS", want: "auth.expiresInMins"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigDir(t)

	cfg, err := Load(Options{Environ: environ()})
	require.NoError(t, err)

	assert.Equal(t, service.DefaultCatalogBaseURL, cfg.Catalog.BaseURL)
	assert.Empty(t, cfg.Catalog.APIKey)
	assert.Equal(t, defaultTimeout, cfg.Catalog.Timeout)
	assert.Equal(t, service.DefaultAuthBaseURL, cfg.Auth.BaseURL)
	assert.Equal(t, service.DefaultExpiresInMins, cfg.Auth.ExpiresInMins)
	assert.True(t, cfg.Auth.OfflineRegistrationFallback)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Storage.URL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolateConfigDir(t)
	path := filepath.Join(t.TempDir(), "moviedeck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  apiKey: from-file
  timeout: 3s
auth:
  offlineRegistrationFallback: false
log:
  level: DEBUG
`), 0o644))

	cfg, err := Load(Options{
		File: path,
		Environ: environ(
			"MOVIEDECK_CATALOG_TIMEOUT=5s",
			"MOVIEDECK_AUTH_EXPIRES_IN_MINS=60",
			"MOVIEDECK_STORAGE_URL=mem://",
			"PATH=/usr/bin",
		),
	})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Catalog.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 60, cfg.Auth.ExpiresInMins)
	assert.False(t, cfg.Auth.OfflineRegistrationFallback)
	assert.Equal(t, "mem://", cfg.Storage.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvAliases(t *testing.T) {
	isolateConfigDir(t)

	cfg, err := Load(Options{Environ: environ(
		"TMDB_API_KEY= secret ",
		"TMDB_BASE_URL=https://catalog.example.com/3/",
		"API_BASE_URL=https://auth.example.com",
	)})
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Catalog.APIKey)
	assert.Equal(t, "https://catalog.example.com/3", cfg.Catalog.BaseURL)
	assert.Equal(t, "https://auth.example.com", cfg.Auth.BaseURL)
	assert.Equal(t, "secret", cfg.CatalogConfig().APIKey)
	assert.Equal(t, "https://auth.example.com", cfg.AuthConfig().BaseURL)
}

func TestLoad_DefaultFileIsOptional(t *testing.T) {
	isolateConfigDir(t)
	path, err := DefaultFile()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  apiKey: default-file\n"), 0o644))

	cfg, err := Load(Options{Environ: environ()})
	require.NoError(t, err)
	assert.Equal(t, "default-file", cfg.Catalog.APIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolateConfigDir(t)

	_, err := Load(Options{File: filepath.Join(t.TempDir(), "absent.yaml"), Environ: environ()})
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	isolateConfigDir(t)

	_, err := Load(Options{Environ: environ("MOVIEDECK_LOG_LEVEL=verbose")})
	assert.Error(t, err)

	_, err = Load(Options{Environ: environ("MOVIEDECK_CATALOG_BASEURL=not a url")})
	assert.Error(t, err)
}
