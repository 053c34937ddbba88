package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Server is the full service configuration, populated from the
// environment with sane defaults. Prefix: WALLET_ (e.g.
// WALLET_LISTEN_ADDRESS).
type Server struct {
	ListenAddress string `envconfig:"LISTEN_ADDRESS" default:":8080"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`

	RedisEnabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	RedisAddress  string `envconfig:"REDIS_ADDRESS" default:"127.0.0.1:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// VaultScryptN is the scrypt cost for wallet encryption. Must be a
	// power of two.
	VaultScryptN int `envconfig:"VAULT_SCRYPT_N" default:"131072"`
}

// DefaultServerConfigFromEnv reads the configuration from the
// environment. Invalid values are fatal: a service running with a
// half-applied security configuration is worse than one that refuses
// to start.
func DefaultServerConfigFromEnv() Server {
	var config Server
	if err := envconfig.Process("wallet", &config); err != nil {
		log.Fatal().Err(err).Msg("failed to process server config from env")
	}
	if config.VaultScryptN <= 1 || config.VaultScryptN&(config.VaultScryptN-1) != 0 {
		log.Fatal().Int("scrypt_n", config.VaultScryptN).Msg("WALLET_VAULT_SCRYPT_N must be a power of two > 1")
	}
	return config
}
