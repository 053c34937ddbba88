package router

import (
	"context"
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/handlers/auth"
	"github.com/kashguard/go-wallet-core/internal/api/handlers/wallets"
	"github.com/kashguard/go-wallet-core/internal/api/httperrors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Init attaches the echo instance, middleware and all routes to the server.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = httperrors.HandleError

	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestID())
	s.Echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))

	s.Router = &api.Router{
		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),
		APIV1:      s.Echo.Group("/api/v1"),
	}

	s.Router.Management.GET("/healthy", getHealthyHandler(s))
	s.Router.Management.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.Router.Routes = []*echo.Route{
		wallets.PostCreateWalletRoute(s),
		wallets.PostImportWalletRoute(s),
		wallets.PostDeriveAccountsRoute(s),
		wallets.PostSignMessageRoute(s),
		wallets.PostExportWalletRoute(s),
		wallets.PostVerifySignatureRoute(s),
		wallets.DeleteWalletRoute(s),
		auth.PostSetPinRoute(s),
		auth.PostAuthenticateRoute(s),
		auth.GetSecurityStateRoute(s),
	}
}

func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if pinger, ok := s.Store.(interface{ Ping(context.Context) error }); ok {
			if err := pinger.Ping(ctx); err != nil {
				log.Error().Err(err).Msg("Health check failed")
				return c.String(http.StatusServiceUnavailable, "Not ready.")
			}
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
