package wallets

import (
	"encoding/json"
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/httperrors"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/kashguard/go-wallet-core/pkg/export"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PostExportWalletPayload seals the wallet secrets to a recipient
// secp256k1 public key so the export can travel over an untrusted
// channel.
type PostExportWalletPayload struct {
	Password           string `json:"password"`
	RecipientPublicKey string `json:"recipient_public_key"`
}

type ExportWalletResponse struct {
	Blob string `json:"blob"`
}

// ExportPayload is the sealed plaintext structure.
type ExportPayload struct {
	Chain      string `json:"chain"`
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
	Mnemonic   string `json:"mnemonic,omitempty"`
}

func PostExportWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/wallets/:id/export", postExportWalletHandler(s))
}

func postExportWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param("id")

		var body PostExportWalletPayload
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "failed to parse request body")
		}
		if body.Password == "" || body.RecipientPublicKey == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "password and recipient_public_key are required")
		}

		recipient, err := encoding.HexToBytes(body.RecipientPublicKey)
		if err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_RECIPIENT_KEY", "recipient_public_key is not valid hex")
		}

		w, err := s.Wallets.UnlockWallet(ctx, id, body.Password)
		if err != nil {
			log.Warn().Err(err).Str("wallet_id", id).Msg("Failed to unlock wallet for export")
			return err
		}
		defer w.Wipe()

		payload, err := json.Marshal(&ExportPayload{
			Chain:      string(w.ChainType),
			Address:    w.Address,
			PrivateKey: encoding.BytesToHex(w.PrivateKey),
			Mnemonic:   w.Mnemonic,
		})
		if err != nil {
			return err
		}
		defer encoding.Wipe(payload)

		blob, err := export.Seal(payload, recipient)
		if err != nil {
			log.Warn().Err(err).Str("wallet_id", id).Msg("Failed to seal wallet export")
			return err
		}

		log.Info().Str("wallet_id", id).Msg("Wallet exported")

		return c.JSON(http.StatusOK, &ExportWalletResponse{Blob: encoding.BytesToBase64(blob)})
	}
}
