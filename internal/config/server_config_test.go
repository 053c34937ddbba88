package config_test

import (
	"encoding/json"
	"testing"

	"github.com/kashguard/go-wallet-core/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestDefaultServerConfigFromEnv(t *testing.T) {
	c := config.DefaultServerConfigFromEnv()

	_, err := json.MarshalIndent(c, "", "  ")
	assert.NoError(t, err)

	assert.NotEmpty(t, c.ListenAddress)
	assert.Greater(t, c.VaultScryptN, 1)
}

func TestServerConfigEnvOverride(t *testing.T) {
	t.Setenv("WALLET_LISTEN_ADDRESS", ":9999")
	t.Setenv("WALLET_REDIS_ENABLED", "true")

	c := config.DefaultServerConfigFromEnv()
	assert.Equal(t, ":9999", c.ListenAddress)
	assert.True(t, c.RedisEnabled)
}
