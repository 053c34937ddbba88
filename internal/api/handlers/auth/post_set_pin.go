package auth

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/httperrors"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PostSetPinPayload sets or changes the PIN. Current is required only
// when a PIN is already set.
type PostSetPinPayload struct {
	Pin     string `json:"pin"`
	Current string `json:"current,omitempty"`
}

func PostSetPinRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/auth/pin", postSetPinHandler(s))
}

func postSetPinHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body PostSetPinPayload
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "failed to parse request body")
		}

		hasPIN, err := s.Security.HasPIN(ctx)
		if err != nil {
			return err
		}

		if !hasPIN {
			err = s.Security.SetPIN(ctx, body.Pin)
		} else {
			err = s.Security.ChangePIN(ctx, body.Current, body.Pin)
		}
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set pin")
			return err
		}

		return c.NoContent(http.StatusNoContent)
	}
}
