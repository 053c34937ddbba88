package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/kashguard/go-wallet-core/internal/config"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/kashguard/go-wallet-core/internal/security"
	"github.com/kashguard/go-wallet-core/internal/storage"
	"github.com/kashguard/go-wallet-core/internal/wallet"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	Management *echo.Group
	APIV1      *echo.Group
}

// Server is a central struct keeping all the dependencies.
// Components are initialized in InitNewServer in the right order;
// Echo and Router are attached afterwards with router.Init(s).
type Server struct {
	Echo   *echo.Echo
	Router *Router

	Config   config.Server
	Clock    time2.Clock
	Store    storage.SecureStorage
	Registry *primitive.Registry
	Wallets  *wallet.Manager
	Security *security.Service
}

func NewServer(cfg config.Server) *Server {
	return &Server{
		Config: cfg,
	}
}

func (s *Server) Ready() bool {
	return s.Echo != nil &&
		s.Router != nil &&
		s.Store != nil &&
		s.Registry != nil &&
		s.Wallets != nil &&
		s.Security != nil
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	return s.Echo.Start(s.Config.ListenAddress)
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")
		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if closer, ok := s.Store.(interface{ Close() error }); ok && closer != nil {
		log.Debug().Msg("Closing storage connection")
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close storage connection")
			errs = append(errs, err)
		}
	}

	return errs
}
