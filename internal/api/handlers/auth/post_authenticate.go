package auth

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/httperrors"
	"github.com/kashguard/go-wallet-core/internal/security"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type PostAuthenticatePayload struct {
	Type string `json:"type"`
	Pin  string `json:"pin,omitempty"`
}

type AuthenticateResponse struct {
	Authenticated bool `json:"authenticated"`
}

func PostAuthenticateRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/auth/authenticate", postAuthenticateHandler(s))
}

func postAuthenticateHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body PostAuthenticatePayload
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "failed to parse request body")
		}

		credType := security.CredentialType(body.Type)
		if credType != security.CredentialPIN && credType != security.CredentialBiometric {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "type must be pin or biometric")
		}

		cred := security.Credential{Type: credType, Value: body.Pin}
		if err := s.Security.Authenticate(ctx, cred); err != nil {
			log.Warn().Err(err).Str("credential_type", body.Type).Msg("Authentication failed")
			return err
		}

		return c.JSON(http.StatusOK, &AuthenticateResponse{Authenticated: true})
	}
}
