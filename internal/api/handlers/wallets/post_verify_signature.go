package wallets

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/httperrors"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/labstack/echo/v4"
)

type PostVerifySignaturePayload struct {
	Chain         string `json:"chain"`
	Address       string `json:"address"`
	Signature     string `json:"signature"`
	Message       string `json:"message,omitempty"`
	MessageBase64 string `json:"message_base64,omitempty"`
}

type VerifySignatureResponse struct {
	Valid bool `json:"valid"`
}

func PostVerifySignatureRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/verify", postVerifySignatureHandler(s))
}

func postVerifySignatureHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body PostVerifySignaturePayload
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "failed to parse request body")
		}
		if body.Chain == "" || body.Address == "" || body.Signature == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "chain, address and signature are required")
		}

		message, err := messageBytes(body.Message, body.MessageBase64)
		if err != nil {
			return err
		}

		signature, err := encoding.HexToBytes(body.Signature)
		if err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_SIGNATURE", "signature is not valid hex")
		}

		valid := s.Wallets.VerifySignature(primitive.ChainType(body.Chain), message, signature, body.Address)

		return c.JSON(http.StatusOK, &VerifySignatureResponse{Valid: valid})
	}
}
