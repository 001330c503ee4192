package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidaycal/internal/model"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPapers(), cfg.Papers)
	assert.True(t, cfg.Strict())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
fetch_mode: carrier-pigeon
strict_source: false
papers:
  - year: 2021
    url: http://example.com/2021.htm
  - year: 2019
    url: http://example.com/2019.htm
output:
  json_dir: ./out
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, FetchHTTP, cfg.FetchMode)
	assert.False(t, cfg.Strict())
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "util", cfg.Output.GoPackage)
	assert.Equal(t, "./out", cfg.Output.JSONDir)
	assert.Equal(t, []model.Paper{
		{Year: 2019, URL: "http://example.com/2019.htm"},
		{Year: 2021, URL: "http://example.com/2021.htm"},
	}, cfg.Papers)
}

func TestLoadRejectsEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("papers: [\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvListen, "0.0.0.0:9000")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvBasicAuthUsername, "admin")
	t.Setenv(EnvBasicAuthPassword, "secret")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NotNil(t, cfg.BasicAuth)
	assert.Equal(t, "admin", cfg.BasicAuth.Username)
	assert.Equal(t, "secret", cfg.BasicAuth.Password)
}

func TestApplyEnvIncompleteAuth(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvBasicAuthUsername, "admin")
	t.Setenv(EnvBasicAuthPassword, "")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Nil(t, cfg.BasicAuth)
}
