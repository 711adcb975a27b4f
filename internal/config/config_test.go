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

func TestDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg := Load(v)
	assert.Equal(t, "http://localhost:7000", cfg.BackendURL)
	assert.Equal(t, "/auth/login", cfg.LoginRoute)
	assert.Equal(t, "sentinel_id_token", cfg.TokenKey)
	assert.Equal(t, "file", cfg.StorageBackend)
	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AAMCTL_BACKEND_URL", "https://aam.example.com")
	t.Setenv("AAMCTL_STORAGE_BACKEND", "keyring")
	t.Setenv("AAMCTL_HTTP_TIMEOUT", "5s")

	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg := Load(v)
	assert.Equal(t, "https://aam.example.com", cfg.BackendURL)
	assert.Equal(t, "keyring", cfg.StorageBackend)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend_url: https://file.example.com\nstorage:\n  backend: memory\n"), 0600))

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg := Load(v)
	assert.Equal(t, "https://file.example.com", cfg.BackendURL)
	assert.Equal(t, "memory", cfg.StorageBackend)
}

func TestDefaultConfigFileInHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".aamctl"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".aamctl", "config.yaml"), []byte("region: eu-west-1\n"), 0600))

	v := viper.New()
	require.NoError(t, Init(v, ""))
	assert.Equal(t, "eu-west-1", Load(v).Region)
}

func TestMissingExplicitConfigFile(t *testing.T) {
	v := viper.New()
	assert.Error(t, Init(v, filepath.Join(t.TempDir(), "nope.yaml")))
}
