package auth

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/labstack/echo/v4"
)

type SecurityStateResponse struct {
	PinSet            bool  `json:"pin_set"`
	BiometricsEnabled bool  `json:"biometrics_enabled"`
	FailedAttempts    int   `json:"failed_attempts"`
	Locked            bool  `json:"locked"`
	RetryAfterSeconds int64 `json:"retry_after_seconds,omitempty"`
}

func GetSecurityStateRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.GET("/auth/state", getSecurityStateHandler(s))
}

func getSecurityStateHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		// IsLocked runs first: it lazily expires a stale lock and
		// persists the attempt-counter reset the state read depends on.
		locked, remaining, err := s.Security.IsLocked(ctx)
		if err != nil {
			return err
		}
		state, err := s.Security.GetState(ctx)
		if err != nil {
			return err
		}
		hasPIN, err := s.Security.HasPIN(ctx)
		if err != nil {
			return err
		}

		response := &SecurityStateResponse{
			PinSet:            hasPIN,
			BiometricsEnabled: state.BiometricsEnabled,
			FailedAttempts:    state.FailedAttempts,
			Locked:            locked,
		}
		if locked {
			response.RetryAfterSeconds = int64(remaining.Seconds() + 0.5)
		}

		return c.JSON(http.StatusOK, response)
	}
}
