package wallets

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/httperrors"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PostSignMessagePayload carries the message as a UTF-8 string, or
// base64 when message_base64 is set, for binary payloads.
type PostSignMessagePayload struct {
	Password      string `json:"password"`
	Message       string `json:"message,omitempty"`
	MessageBase64 string `json:"message_base64,omitempty"`
}

type SignMessageResponse struct {
	Signature string `json:"signature"`
	Address   string `json:"address"`
}

func PostSignMessageRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/wallets/:id/sign", postSignMessageHandler(s))
}

func postSignMessageHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param("id")

		var body PostSignMessagePayload
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "failed to parse request body")
		}
		if body.Password == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "password is required")
		}

		message, err := messageBytes(body.Message, body.MessageBase64)
		if err != nil {
			return err
		}

		w, err := s.Wallets.UnlockWallet(ctx, id, body.Password)
		if err != nil {
			log.Warn().Err(err).Str("wallet_id", id).Msg("Failed to unlock wallet for signing")
			return err
		}
		defer w.Wipe()

		signature, err := s.Wallets.SignMessage(w.ChainType, message, w.PrivateKey)
		if err != nil {
			log.Warn().Err(err).Str("wallet_id", id).Msg("Failed to sign message")
			return err
		}

		response := &SignMessageResponse{
			Signature: encoding.BytesToHex(signature),
			Address:   w.Address,
		}

		return c.JSON(http.StatusOK, response)
	}
}

func messageBytes(message, messageBase64 string) ([]byte, error) {
	switch {
	case message != "" && messageBase64 != "":
		return nil, httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "only one of message or message_base64 may be set")
	case messageBase64 != "":
		decoded, err := encoding.Base64ToBytes(messageBase64)
		if err != nil {
			return nil, httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "message_base64 is not valid base64")
		}
		return decoded, nil
	case message != "":
		return []byte(message), nil
	default:
		return nil, httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "message is required")
	}
}
