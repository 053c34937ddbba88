package wallets

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func DeleteWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.DELETE("/wallets/:id", deleteWalletHandler(s))
}

func deleteWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param("id")

		if err := s.Wallets.DeleteWallet(ctx, id); err != nil {
			log.Warn().Err(err).Str("wallet_id", id).Msg("Failed to delete wallet")
			return err
		}

		log.Info().Str("wallet_id", id).Msg("Wallet deleted")

		return c.NoContent(http.StatusNoContent)
	}
}
