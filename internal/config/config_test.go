package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9000"
  postgresDsn: "host=localhost user=bim dbname=bimvault"
  redisAddr: "localhost:6379"
auth:
  jwtSecret: "secret"
  jwtIssuer: "bimvault"
`)

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", conf.Server.Listen)
	assert.Equal(t, "localhost:6379", conf.Server.RedisAddr)
	assert.Equal(t, "secret", conf.Auth.JwtSecret)
	assert.Equal(t, "bimvault", conf.Auth.JwtIssuer)
}

func TestLoadDefaultsListen(t *testing.T) {
	path := writeConfig(t, `
server:
  postgresDsn: "host=localhost"
auth:
  jwtSecret: "secret"
`)

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8000", conf.Server.Listen)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  postgresDsn: "host=localhost"
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "jwtSecret")
}

func TestLoadRejectsMissingDsn(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwtSecret: "secret"
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "postgresDsn")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
