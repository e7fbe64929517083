// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *ConfigManager {
	t.Helper()
	t.Setenv(ConfigPathEnv, filepath.Join(t.TempDir(), "config.yaml"))
	// Keep the layered env out of the way unless a test opts in.
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	m, err := NewConfigManager()
	require.NoError(t, err)
	return m
}

func TestSetGetDeleteRoundTrip(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.SetValue("s3.endpoint", "https://s3.example.com"))
	require.NoError(t, m.SetValue("gcp.project", "my-project"))

	value, ok := m.GetValue("s3.endpoint")
	require.True(t, ok)
	require.Equal(t, "https://s3.example.com", value)

	deleted, err := m.DeleteValue("gcp.project")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = m.DeleteValue("gcp.project")
	require.NoError(t, err)
	require.False(t, deleted, "second delete must report the key as already gone")

	_, ok = m.GetValue("gcp.project")
	require.False(t, ok, "deleted key must not linger in the loaded settings")
}

func TestPersistenceAcrossManagers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(ConfigPathEnv, path)

	m1, err := NewConfigManager()
	require.NoError(t, err)
	require.NoError(t, m1.SetValue("s3.region", "eu-central-1"))

	m2, err := NewConfigManager()
	require.NoError(t, err)
	value, ok := m2.GetValue("s3.region")
	require.True(t, ok)
	require.Equal(t, "eu-central-1", value)
}

func TestCredentialsAreNeverPersisted(t *testing.T) {
	m := newTestManager(t)

	require.Error(t, m.SetValue("s3.access_key_id", "AKIAEXAMPLE"))
	require.Error(t, m.SetValue("s3.secret_access_key", "shh"))

	_, err := os.Stat(m.Path())
	require.True(t, os.IsNotExist(err), "rejected writes must not create the config file")
}

func TestUnknownKeyRejected(t *testing.T) {
	m := newTestManager(t)
	require.Error(t, m.SetValue("azure.account", "x"))
	require.Error(t, m.SetValue("endpoint", "x"))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.SetValue("s3.endpoint", "https://file.example.com"))

	t.Setenv("S3_ENDPOINT", "https://env.example.com")

	cfg, err := m.LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.S3)
	require.Equal(t, "https://env.example.com", cfg.S3.Endpoint)

	value, ok := m.GetValue("s3.endpoint")
	require.True(t, ok)
	require.Equal(t, "https://env.example.com", value, "a write must not promote the file above the environment")
}

func TestLoadConfigFromEnvironmentOnly(t *testing.T) {
	m := newTestManager(t)

	t.Setenv("S3_ENDPOINT", "https://s3.internal:9000")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_VERIFY_SSL", "true")

	cfg, err := m.LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.S3)
	require.Equal(t, "https://s3.internal:9000", cfg.S3.Endpoint)
	require.Equal(t, "AKIAEXAMPLE", cfg.S3.AccessKeyID)
	require.Equal(t, "secret", cfg.S3.SecretAccessKey)
	require.True(t, cfg.S3.VerifySSL)
}

func TestLoadConfigRejectsBadEndpoint(t *testing.T) {
	m := newTestManager(t)
	t.Setenv("S3_ENDPOINT", "not a url")

	_, err := m.LoadConfig()
	require.Error(t, err)
}
