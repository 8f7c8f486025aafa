package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"endpoint_url: https://example.com\nuser_id: alice\npassword: secret\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.EndpointURL)
	assert.Equal(t, "alice", cfg.LoginUserID)
	assert.Equal(t, "secret", cfg.LoginPassword)
	assert.False(t, cfg.Debug)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_id: alice\n"), 0o600))

	t.Setenv("ANNOWORK_USER_ID", "bob")
	t.Setenv("ANNOWORK_ENDPOINT_URL", "https://staging.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.LoginUserID)
	assert.Equal(t, "https://staging.example.com", cfg.EndpointURL)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.EndpointURL)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
