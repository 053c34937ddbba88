package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/router"
	"github.com/kashguard/go-wallet-core/internal/config"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/kashguard/go-wallet-core/internal/security"
	"github.com/kashguard/go-wallet-core/internal/storage"
	"github.com/kashguard/go-wallet-core/internal/wallet"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the wallet core HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
}

func run() {
	cfg := config.DefaultServerConfigFromEnv()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	s := api.NewServer(cfg)
	s.Clock = time2.DefaultClock
	s.Store = newStore(cfg)
	s.Registry = primitive.DefaultRegistry()
	primitive.RegisterDefaults(s.Registry)
	s.Wallets = wallet.NewManager(s.Registry, s.Store, wallet.WithScryptN(cfg.VaultScryptN))
	// No biometric verifier on the server; only PIN credentials work.
	s.Security = security.NewService(s.Store, s.Clock, nil)

	router.Init(s)

	go func() {
		log.Info().Str("address", cfg.ListenAddress).Msg("Starting server")
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		log.Fatal().Errs("errors", errs).Msg("Failed to gracefully shut down server")
	}
}

func newStore(cfg config.Server) storage.SecureStorage {
	if !cfg.RedisEnabled {
		log.Warn().Msg("Redis disabled, using in-memory storage (state is lost on restart)")
		return storage.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := storage.NewRedisStore(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("address", cfg.RedisAddress).Msg("Failed to connect to redis")
	}

	return store
}
