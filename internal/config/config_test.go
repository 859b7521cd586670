package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/auth.db", cfg.Database.Path)
	assert.Equal(t, "auth-portal", cfg.JWT.Issuer)
	assert.Empty(t, cfg.JWT.PrivateKey)
	assert.False(t, cfg.Dev.Seed)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("AUTH_JWT_ISSUER", "other-issuer")
	t.Setenv("AUTH_DEV_SEED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "other-issuer", cfg.JWT.Issuer)
	assert.True(t, cfg.Dev.Seed)
}
