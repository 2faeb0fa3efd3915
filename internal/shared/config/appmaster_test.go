package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppMasterDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadAppMaster("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.REST.Addr)
	assert.Equal(t, 15*time.Second, cfg.REST.ReadTimeout)
	assert.Equal(t, ":9090", cfg.GRPC.Addr)
	assert.True(t, cfg.GRPC.EnableReflection)
	assert.False(t, cfg.Auth.RequireAuthentication)
	assert.Equal(t, "X-Remote-User", cfg.Auth.UserHeader)
	assert.True(t, cfg.Auth.AllowQueryUser)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadAppMasterFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appmaster.yaml")
	content := `
rest:
  addr: ":19888"
  read_timeout: 5s
auth:
  require_authentication: true
app:
  id: application_1326232085508_0004
  name: wordcount
  user: alice
model:
  snapshot: /var/lib/amstatus/snapshot.yaml
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadAppMaster(path)
	require.NoError(t, err)

	assert.Equal(t, ":19888", cfg.REST.Addr)
	assert.Equal(t, 5*time.Second, cfg.REST.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.REST.WriteTimeout)
	assert.True(t, cfg.Auth.RequireAuthentication)
	assert.Equal(t, "application_1326232085508_0004", cfg.App.ID)
	assert.Equal(t, "alice", cfg.App.User)
	assert.Equal(t, "/var/lib/amstatus/snapshot.yaml", cfg.Model.Snapshot)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadAppMasterEnvOverride(t *testing.T) {
	t.Setenv("AMSTATUS_REST_ADDR", ":7070")
	t.Setenv("AMSTATUS_AUTH_USER_HEADER", "X-Forwarded-User")

	t.Chdir(t.TempDir())
	cfg, err := LoadAppMaster("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.REST.Addr)
	assert.Equal(t, "X-Forwarded-User", cfg.Auth.UserHeader)
}

func TestLoadAppMasterMissingExplicitFile(t *testing.T) {
	cfg, err := LoadAppMaster(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
